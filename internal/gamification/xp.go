package gamification

import (
	"math"

	"github.com/interview-prep/backend/internal/models"
)

// DailyBonusXP is the flat bonus for the first qualifying practice event of
// a calendar day. Whether an event is the first of the day is decided by the
// caller from the attempt log.
const DailyBonusXP = 10

// BaseXP returns the fixed base XP for a practice event type. Unknown types
// earn nothing rather than failing, so a bad event never blocks the caller.
func BaseXP(eventType string) int {
	switch eventType {
	case models.EventQuiz:
		return 10
	case models.EventVoice:
		return 15
	case models.EventFlashcardKnown:
		return 5
	case models.EventFlashcardReview:
		return 2
	default:
		return 0
	}
}

// ScoreBonus returns extra XP for a scored answer. Highest qualifying tier
// wins. Flashcard events carry no score and get no bonus.
func ScoreBonus(eventType string, score *int) int {
	if score == nil {
		return 0
	}
	if eventType != models.EventQuiz && eventType != models.EventVoice {
		return 0
	}
	s := *score
	if s >= 90 {
		return 15
	}
	if s >= 80 {
		return 10
	}
	if s >= 70 {
		return 5
	}
	if s >= 50 {
		return 2
	}
	return 0
}

// MultiplierFor returns the XP multiplier for a daily practice streak.
func MultiplierFor(streakDays int) float64 {
	if streakDays >= 30 {
		return 2.0
	}
	if streakDays >= 14 {
		return 1.75
	}
	if streakDays >= 7 {
		return 1.5
	}
	if streakDays >= 3 {
		return 1.25
	}
	return 1.0
}

// ComputeXP calculates the XP for one practice event:
// floor((base + scoreBonus) × multiplier) + dailyBonus.
// The multiplier must be the one in effect before this event advances the
// streak, so a same-day event cannot inflate its own reward.
func ComputeXP(eventType string, score *int, streakDays int, firstToday bool) models.XPBreakdown {
	b := models.XPBreakdown{
		Base:       BaseXP(eventType),
		ScoreBonus: ScoreBonus(eventType, score),
		Multiplier: MultiplierFor(streakDays),
	}
	if firstToday {
		b.DailyBonus = DailyBonusXP
	}
	b.Total = int(math.Floor(float64(b.Base+b.ScoreBonus)*b.Multiplier)) + b.DailyBonus
	return b
}
