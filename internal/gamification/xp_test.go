package gamification

import (
	"testing"

	"github.com/interview-prep/backend/internal/models"
)

func intPtr(n int) *int { return &n }

func TestBaseXP(t *testing.T) {
	tests := []struct {
		eventType string
		want      int
	}{
		{models.EventQuiz, 10},
		{models.EventVoice, 15},
		{models.EventFlashcardKnown, 5},
		{models.EventFlashcardReview, 2},
		{"mystery", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := BaseXP(tt.eventType); got != tt.want {
			t.Errorf("BaseXP(%q) = %d, want %d", tt.eventType, got, tt.want)
		}
	}
}

func TestScoreBonusTiers(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{100, 15},
		{90, 15},
		{89, 10},
		{80, 10},
		{79, 5},
		{70, 5},
		{69, 2},
		{50, 2},
		{49, 0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := ScoreBonus(models.EventQuiz, intPtr(tt.score)); got != tt.want {
			t.Errorf("ScoreBonus(quiz, %d) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestScoreBonusMonotonic(t *testing.T) {
	prev := 0
	for score := 0; score <= 100; score++ {
		got := ScoreBonus(models.EventVoice, intPtr(score))
		if got < prev {
			t.Fatalf("score bonus decreased from %d to %d at score=%d", prev, got, score)
		}
		prev = got
	}
}

func TestScoreBonusFlashcard(t *testing.T) {
	// Flashcards carry no correctness score; even if a score sneaks in,
	// no bonus applies.
	if got := ScoreBonus(models.EventFlashcardKnown, intPtr(100)); got != 0 {
		t.Errorf("ScoreBonus(flashcard_known, 100) = %d, want 0", got)
	}
	if got := ScoreBonus(models.EventQuiz, nil); got != 0 {
		t.Errorf("ScoreBonus(quiz, nil) = %d, want 0", got)
	}
}

func TestMultiplierFor(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 1.0},
		{3, 1.25},
		{6, 1.25},
		{7, 1.5},
		{13, 1.5},
		{14, 1.75},
		{29, 1.75},
		{30, 2.0},
		{365, 2.0},
	}

	for _, tt := range tests {
		if got := MultiplierFor(tt.days); got != tt.want {
			t.Errorf("MultiplierFor(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}

func TestMultiplierMonotonic(t *testing.T) {
	prev := 0.0
	for days := 0; days <= 60; days++ {
		got := MultiplierFor(days)
		if got < prev {
			t.Fatalf("multiplier decreased from %v to %v at days=%d", prev, got, days)
		}
		prev = got
	}
}

func TestComputeXP(t *testing.T) {
	// quiz, score 95, 7-day streak: floor((10+15) × 1.5) = 37
	b := ComputeXP(models.EventQuiz, intPtr(95), 7, false)
	if b.Total != 37 {
		t.Errorf("ComputeXP(quiz, 95, 7, false).Total = %d, want 37", b.Total)
	}
	if b.Base != 10 || b.ScoreBonus != 15 || b.Multiplier != 1.5 || b.DailyBonus != 0 {
		t.Errorf("unexpected breakdown: %+v", b)
	}
}

func TestComputeXPDailyBonus(t *testing.T) {
	without := ComputeXP(models.EventVoice, intPtr(80), 0, false)
	with := ComputeXP(models.EventVoice, intPtr(80), 0, true)
	if with.Total-without.Total != DailyBonusXP {
		t.Errorf("daily bonus delta = %d, want %d", with.Total-without.Total, DailyBonusXP)
	}
	if with.DailyBonus != DailyBonusXP {
		t.Errorf("DailyBonus = %d, want %d", with.DailyBonus, DailyBonusXP)
	}
}

func TestComputeXPFloorsBeforeDailyBonus(t *testing.T) {
	// (5+0) × 1.25 = 6.25 → floor 6, then +10 daily bonus.
	b := ComputeXP(models.EventFlashcardKnown, nil, 3, true)
	if b.Total != 16 {
		t.Errorf("ComputeXP(flashcard_known, nil, 3, true).Total = %d, want 16", b.Total)
	}
}

func TestComputeXPUnknownType(t *testing.T) {
	// Unknown event types yield zero base rather than failing, so only the
	// daily bonus can apply.
	b := ComputeXP("handstand", nil, 30, false)
	if b.Total != 0 {
		t.Errorf("ComputeXP(handstand).Total = %d, want 0", b.Total)
	}
	b = ComputeXP("handstand", nil, 30, true)
	if b.Total != DailyBonusXP {
		t.Errorf("ComputeXP(handstand, firstToday).Total = %d, want %d", b.Total, DailyBonusXP)
	}
}
