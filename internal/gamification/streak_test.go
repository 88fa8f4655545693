package gamification

import (
	"testing"
	"time"

	"github.com/interview-prep/backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestAdvanceStreakFirstPractice(t *testing.T) {
	st := &models.StreakState{UserID: 1}
	AdvanceStreak(st, day("2026-09-01"))

	if st.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", st.CurrentStreak)
	}
	if st.LongestStreak != 1 {
		t.Errorf("LongestStreak = %d, want 1", st.LongestStreak)
	}
	if st.LastPracticeDate == nil || !st.LastPracticeDate.Equal(day("2026-09-01")) {
		t.Errorf("LastPracticeDate = %v, want 2026-09-01", st.LastPracticeDate)
	}
}

func TestAdvanceStreakSameDayIdempotent(t *testing.T) {
	st := &models.StreakState{UserID: 1}
	AdvanceStreak(st, day("2026-09-01"))
	AdvanceStreak(st, day("2026-09-01"))
	AdvanceStreak(st, day("2026-09-01"))

	if st.CurrentStreak != 1 {
		t.Errorf("CurrentStreak after repeated same-day calls = %d, want 1", st.CurrentStreak)
	}
}

func TestAdvanceStreakConsecutiveDays(t *testing.T) {
	st := &models.StreakState{UserID: 1}
	for i, d := range []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04"} {
		AdvanceStreak(st, day(d))
		if st.CurrentStreak != i+1 {
			t.Errorf("after %s CurrentStreak = %d, want %d", d, st.CurrentStreak, i+1)
		}
	}
	if st.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", st.LongestStreak)
	}
}

func TestAdvanceStreakGapResets(t *testing.T) {
	st := &models.StreakState{UserID: 1}
	for _, d := range []string{"2026-09-01", "2026-09-02", "2026-09-03", "2026-09-04", "2026-09-05"} {
		AdvanceStreak(st, day(d))
	}
	if st.CurrentStreak != 5 {
		t.Fatalf("setup: CurrentStreak = %d, want 5", st.CurrentStreak)
	}

	// Two-day gap breaks the run but not the record.
	AdvanceStreak(st, day("2026-09-08"))
	if st.CurrentStreak != 1 {
		t.Errorf("CurrentStreak after gap = %d, want 1", st.CurrentStreak)
	}
	if st.LongestStreak != 5 {
		t.Errorf("LongestStreak after gap = %d, want 5", st.LongestStreak)
	}
}

func TestAdvanceStreakInvariant(t *testing.T) {
	st := &models.StreakState{UserID: 1}
	days := []string{
		"2026-01-01", "2026-01-02", "2026-01-05", "2026-01-06",
		"2026-01-07", "2026-01-07", "2026-01-20", "2026-01-21",
	}
	for _, d := range days {
		AdvanceStreak(st, day(d))
		if st.CurrentStreak > st.LongestStreak {
			t.Fatalf("invariant violated at %s: current %d > longest %d",
				d, st.CurrentStreak, st.LongestStreak)
		}
	}
}

func TestAdvanceStreakMidDayTimestamps(t *testing.T) {
	// Timestamps within the same calendar day collapse to one practice day.
	st := &models.StreakState{UserID: 1}
	AdvanceStreak(st, day("2026-09-01").Add(8*time.Hour))
	AdvanceStreak(st, day("2026-09-01").Add(23*time.Hour))
	if st.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", st.CurrentStreak)
	}

	AdvanceStreak(st, day("2026-09-02").Add(1*time.Hour))
	if st.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", st.CurrentStreak)
	}
}
