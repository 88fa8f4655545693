package gamification

import (
	"time"

	"github.com/interview-prep/backend/internal/models"
)

// AdvanceStreak applies one practice event on the given calendar day to a
// streak state. Transitions depend on the day delta since the last practice:
// same day is a no-op, the next day extends, any gap resets to 1.
// longestStreak never decreases.
func AdvanceStreak(state *models.StreakState, today time.Time) {
	today = truncateToDay(today)

	if state.LastPracticeDate == nil {
		state.CurrentStreak = 1
	} else {
		last := truncateToDay(*state.LastPracticeDate)
		days := int(today.Sub(last).Hours() / 24)
		switch {
		case days == 0:
			return
		case days == 1:
			state.CurrentStreak++
		default:
			state.CurrentStreak = 1
		}
	}

	if state.CurrentStreak > state.LongestStreak {
		state.LongestStreak = state.CurrentStreak
	}
	state.LastPracticeDate = &today
}

func truncateToDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
