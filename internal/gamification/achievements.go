package gamification

import "github.com/interview-prep/backend/internal/models"

// AchievementDef defines a single unlockable achievement.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Icon        string
	XPReward    int
}

// Achievements is the full catalog, in display order. Each id has exactly
// one condition in Satisfied; keeping the two side by side preserves the
// evaluate-all, unlock-new contract.
var Achievements = []AchievementDef{
	{"first_steps", "First Steps", "Answer your first practice question", "👣", 10},
	{"ten_questions", "Getting Warmed Up", "Answer 10 practice questions", "🔥", 25},
	{"fifty_questions", "Committed", "Answer 50 practice questions", "💪", 50},
	{"hundred_questions", "Century", "Answer 100 practice questions", "💯", 100},
	{"quiz_whiz", "Quiz Whiz", "Complete 25 quiz questions", "🧠", 30},
	{"voice_veteran", "Voice Veteran", "Complete 10 voice answers", "🎙️", 30},
	{"flashcard_fan", "Flashcard Fan", "Review 50 flashcards", "🃏", 30},
	{"perfect_score", "Flawless", "Score a perfect 100", "⭐", 20},
	{"perfectionist", "Perfectionist", "Score a perfect 100 ten times", "🌟", 75},
	{"high_performer", "High Performer", "Average 85+ over 20 scored answers", "📈", 50},
	{"streak_3", "Warming Up", "Practice 3 days in a row", "🔥", 15},
	{"streak_7", "Week Warrior", "Practice 7 days in a row", "⚡", 35},
	{"streak_30", "Unstoppable", "Practice 30 days in a row", "🏆", 150},
	{"marathoner", "Marathoner", "Reach a 14-day longest streak", "🏃", 60},
	{"first_session", "Session One", "Complete your first practice session", "🎬", 10},
	{"ten_sessions", "Regular", "Complete 10 practice sessions", "📅", 40},
	{"job_ready", "Job Ready", "Complete every topic in a study plan", "🎯", 100},
	{"explorer", "Explorer", "Make progress on 3 different jobs", "🧭", 40},
	{"world_traveler", "World Traveler", "Prepare for 3 different companies", "🌍", 40},
	{"night_owl", "Night Owl", "Practice late at night", "🦉", 15},
	{"early_bird", "Early Bird", "Practice early in the morning", "🐦", 15},
	{"comeback_kid", "Comeback Kid", "Improve a repeated question by 10+ points", "🔄", 30},
}

// AchievementByID is the catalog keyed by id.
var AchievementByID = func() map[string]AchievementDef {
	m := make(map[string]AchievementDef, len(Achievements))
	for _, def := range Achievements {
		m[def.ID] = def
	}
	return m
}()

// Satisfied reports whether the achievement's condition holds for the
// statistics snapshot. Unknown ids are never satisfied.
func Satisfied(id string, s *models.StatsSnapshot) bool {
	switch id {
	case "first_steps":
		return s.TotalAttempts >= 1
	case "ten_questions":
		return s.TotalAttempts >= 10
	case "fifty_questions":
		return s.TotalAttempts >= 50
	case "hundred_questions":
		return s.TotalAttempts >= 100
	case "quiz_whiz":
		return s.QuizAttempts >= 25
	case "voice_veteran":
		return s.VoiceAttempts >= 10
	case "flashcard_fan":
		return s.FlashcardAttempts >= 50
	case "perfect_score":
		return s.PerfectScores >= 1
	case "perfectionist":
		return s.PerfectScores >= 10
	case "high_performer":
		return s.ScoredAttempts >= 20 && s.AverageScore >= 85
	case "streak_3":
		return s.CurrentStreak >= 3
	case "streak_7":
		return s.CurrentStreak >= 7
	case "streak_30":
		return s.CurrentStreak >= 30
	case "marathoner":
		return s.LongestStreak >= 14
	case "first_session":
		return s.SessionsCompleted >= 1
	case "ten_sessions":
		return s.SessionsCompleted >= 10
	case "job_ready":
		return s.AnyPlanComplete
	case "explorer":
		return s.JobsWithTopics >= 3
	case "world_traveler":
		return s.DistinctCompanies >= 3
	case "night_owl":
		return s.LastAttemptHour >= 22 || (s.LastAttemptHour >= 0 && s.LastAttemptHour < 4)
	case "early_bird":
		return s.LastAttemptHour >= 5 && s.LastAttemptHour < 9
	case "comeback_kid":
		return s.HasImprovement
	default:
		return false
	}
}

// NewlyQualified returns the catalog entries whose conditions hold but which
// are not in the already-unlocked set, in catalog order.
func NewlyQualified(s *models.StatsSnapshot, unlocked map[string]bool) []AchievementDef {
	var out []AchievementDef
	for _, def := range Achievements {
		if unlocked[def.ID] {
			continue
		}
		if Satisfied(def.ID, s) {
			out = append(out, def)
		}
	}
	return out
}
