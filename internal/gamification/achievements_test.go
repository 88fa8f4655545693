package gamification

import (
	"testing"

	"github.com/interview-prep/backend/internal/models"
)

func TestCatalogConsistency(t *testing.T) {
	seen := make(map[string]bool)
	for _, def := range Achievements {
		if def.ID == "" || def.Name == "" || def.Description == "" {
			t.Errorf("achievement %+v has empty fields", def)
		}
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.XPReward < 0 {
			t.Errorf("achievement %s has negative XP reward", def.ID)
		}
		if AchievementByID[def.ID] != def {
			t.Errorf("AchievementByID missing or stale for %s", def.ID)
		}
	}
}

func TestEveryAchievementReachable(t *testing.T) {
	// A maxed-out snapshot must satisfy every condition in the catalog;
	// an id whose condition can never fire is a dead catalog entry.
	snap := &models.StatsSnapshot{
		TotalAttempts:     1000,
		QuizAttempts:      500,
		VoiceAttempts:     300,
		FlashcardAttempts: 200,
		ScoredAttempts:    800,
		AverageScore:      95,
		PerfectScores:     50,
		SessionsCompleted: 40,
		CurrentStreak:     60,
		LongestStreak:     60,
		TopicsCompleted:   30,
		JobsWithTopics:    5,
		AnyPlanComplete:   true,
		DistinctCompanies: 5,
		LastAttemptHour:   23,
		HasImprovement:    true,
	}
	for _, def := range Achievements {
		if def.ID == "early_bird" {
			continue // mutually exclusive with night_owl on the same snapshot
		}
		if !Satisfied(def.ID, snap) {
			t.Errorf("achievement %s unsatisfied by maxed snapshot", def.ID)
		}
	}

	snap.LastAttemptHour = 6
	if !Satisfied("early_bird", snap) {
		t.Error("early_bird unsatisfied by 06:00 snapshot")
	}
}

func TestEmptySnapshotUnlocksNothing(t *testing.T) {
	snap := &models.StatsSnapshot{LastAttemptHour: -1}
	for _, def := range Achievements {
		if Satisfied(def.ID, snap) {
			t.Errorf("achievement %s satisfied by empty snapshot", def.ID)
		}
	}
}

func TestSatisfiedUnknownID(t *testing.T) {
	snap := &models.StatsSnapshot{TotalAttempts: 10000}
	if Satisfied("no_such_achievement", snap) {
		t.Error("unknown achievement id must never be satisfied")
	}
}

func TestTenQuestions(t *testing.T) {
	snap := &models.StatsSnapshot{TotalAttempts: 9, LastAttemptHour: 12}
	if Satisfied("ten_questions", snap) {
		t.Error("ten_questions satisfied at 9 attempts")
	}
	snap.TotalAttempts = 10
	if !Satisfied("ten_questions", snap) {
		t.Error("ten_questions unsatisfied at 10 attempts")
	}
}

func TestHighPerformerNeedsVolume(t *testing.T) {
	// A high average over a handful of answers is not yet high performance.
	snap := &models.StatsSnapshot{ScoredAttempts: 5, AverageScore: 99, LastAttemptHour: 12}
	if Satisfied("high_performer", snap) {
		t.Error("high_performer satisfied with only 5 scored attempts")
	}
	snap.ScoredAttempts = 20
	if !Satisfied("high_performer", snap) {
		t.Error("high_performer unsatisfied at 20 scored attempts averaging 99")
	}
	snap.AverageScore = 84.9
	if Satisfied("high_performer", snap) {
		t.Error("high_performer satisfied below the 85 average")
	}
}

func TestNightOwlHours(t *testing.T) {
	tests := []struct {
		hour int
		want bool
	}{
		{-1, false},
		{0, true},
		{3, true},
		{4, false},
		{12, false},
		{21, false},
		{22, true},
		{23, true},
	}
	for _, tt := range tests {
		snap := &models.StatsSnapshot{LastAttemptHour: tt.hour}
		if got := Satisfied("night_owl", snap); got != tt.want {
			t.Errorf("night_owl at hour %d = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestNewlyQualifiedSkipsUnlocked(t *testing.T) {
	snap := &models.StatsSnapshot{TotalAttempts: 10, LastAttemptHour: 12}

	first := NewlyQualified(snap, map[string]bool{})
	ids := make(map[string]bool)
	for _, def := range first {
		ids[def.ID] = true
	}
	if !ids["first_steps"] || !ids["ten_questions"] {
		t.Fatalf("expected first_steps and ten_questions, got %v", ids)
	}

	// Evaluating again with those marked unlocked yields nothing new.
	second := NewlyQualified(snap, ids)
	if len(second) != 0 {
		t.Errorf("second evaluation returned %d achievements, want 0", len(second))
	}
}

func TestNewlyQualifiedCatalogOrder(t *testing.T) {
	snap := &models.StatsSnapshot{
		TotalAttempts:   100,
		QuizAttempts:    100,
		LastAttemptHour: 12,
	}
	defs := NewlyQualified(snap, map[string]bool{})
	pos := make(map[string]int)
	for i, def := range Achievements {
		pos[def.ID] = i
	}
	for i := 1; i < len(defs); i++ {
		if pos[defs[i-1].ID] > pos[defs[i].ID] {
			t.Fatalf("results out of catalog order: %s before %s", defs[i-1].ID, defs[i].ID)
		}
	}
}
