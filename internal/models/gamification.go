package models

import "time"

// ── Attempt / Event Types ─────────────────────────────────

// AttemptType is the stored practice-attempt kind.
const (
	AttemptQuiz      = "quiz"
	AttemptVoice     = "voice"
	AttemptFlashcard = "flashcard"
)

// Event types accepted by the reward calculator. Flashcard marks are split
// because "knew it" and "needs practice" earn different base XP, but both
// are logged as flashcard attempts.
const (
	EventQuiz            = "quiz"
	EventVoice           = "voice"
	EventFlashcardKnown  = "flashcard_known"
	EventFlashcardReview = "flashcard_review"
)

// ── Domain Structs ────────────────────────────────────────

type UserProgress struct {
	UserID            int64     `json:"user_id"`
	TotalXP           int64     `json:"total_xp"`
	QuizAttempts      int       `json:"quiz_attempts"`
	VoiceAttempts     int       `json:"voice_attempts"`
	FlashcardAttempts int       `json:"flashcard_attempts"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type StreakState struct {
	UserID           int64      `json:"user_id"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastPracticeDate *time.Time `json:"last_practice_date"`
}

type Attempt struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Type         string    `json:"type"`
	Score        *int      `json:"score,omitempty"`
	QuestionText string    `json:"question_text"`
	Category     *string   `json:"category,omitempty"`
	SessionID    *string   `json:"session_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PracticeSession struct {
	ID                 string     `json:"id"`
	UserID             int64      `json:"user_id"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
	QuestionsAttempted int        `json:"questions_attempted"`
	QuestionsCorrect   int        `json:"questions_correct"`
	ScoreSum           int        `json:"-"`
	ScoredCount        int        `json:"-"`
	TotalXPEarned      int        `json:"total_xp_earned"`
}

// AverageScore derives the mean over scored attempts in the session.
func (s *PracticeSession) AverageScore() float64 {
	if s.ScoredCount == 0 {
		return 0
	}
	return float64(s.ScoreSum) / float64(s.ScoredCount)
}

// StatsSnapshot is the aggregate view the achievement evaluator runs its
// conditions against. Recomputed from the attempt log and progress counters
// on every evaluation.
type StatsSnapshot struct {
	TotalAttempts     int
	QuizAttempts      int
	VoiceAttempts     int
	FlashcardAttempts int
	ScoredAttempts    int
	AverageScore      float64
	PerfectScores     int
	SessionsCompleted int
	CurrentStreak     int
	LongestStreak     int
	TopicsCompleted   int
	JobsWithTopics    int
	AnyPlanComplete   bool
	DistinctCompanies int
	LastAttemptHour   int // -1 when the user has no attempts
	HasImprovement    bool
}

// ── Request Types ─────────────────────────────────────────

type RecordAttemptRequest struct {
	Type         string  `json:"type"`
	Score        *int    `json:"score,omitempty"`
	Category     *string `json:"category,omitempty"`
	QuestionText string  `json:"question_text,omitempty"`
	SessionID    *string `json:"session_id,omitempty"`
}

type CompleteTopicRequest struct {
	JobID int64  `json:"job_id"`
	Topic string `json:"topic"`
}

// ── Response Types ────────────────────────────────────────

type LevelInfo struct {
	Level           int    `json:"level"`
	Title           string `json:"title"`
	XPIntoLevel     int64  `json:"xp_into_level"`
	XPNeededForNext int64  `json:"xp_needed_for_next"`
	ProgressPercent int    `json:"progress_percent"`
}

type XPBreakdown struct {
	Base       int     `json:"base"`
	ScoreBonus int     `json:"score_bonus"`
	Multiplier float64 `json:"multiplier"`
	DailyBonus int     `json:"daily_bonus"`
	Total      int     `json:"total"`
}

type StreakInfo struct {
	Current    int     `json:"current"`
	Longest    int     `json:"longest"`
	Multiplier float64 `json:"multiplier"`
}

type UnlockedAchievement struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	XPReward    int       `json:"xp_reward"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

type RecordAttemptResponse struct {
	XPEarned        int                   `json:"xp_earned"`
	XPBreakdown     XPBreakdown           `json:"xp_breakdown"`
	TotalXP         int64                 `json:"total_xp"`
	Level           int                   `json:"level"`
	LevelTitle      string                `json:"level_title"`
	LevelUp         bool                  `json:"level_up"`
	Streak          StreakInfo            `json:"streak"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

type StartSessionResponse struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
}

type SessionSummary struct {
	SessionID          string     `json:"session_id"`
	QuestionsAttempted int        `json:"questions_attempted"`
	QuestionsCorrect   int        `json:"questions_correct"`
	AverageScore       float64    `json:"average_score"`
	TotalXPEarned      int        `json:"total_xp_earned"`
	StartedAt          time.Time  `json:"started_at"`
	EndedAt            *time.Time `json:"ended_at,omitempty"`
}

type EndSessionResponse struct {
	SessionSummary
	Achievements []UnlockedAchievement `json:"achievements"`
	Streak       StreakInfo            `json:"streak"`
}

type AchievementStatus struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	XPReward    int        `json:"xp_reward"`
	Unlocked    bool       `json:"unlocked"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

type TodayStats struct {
	AttemptsToday  int  `json:"attempts_today"`
	XPToday        int  `json:"xp_today"`
	PracticedToday bool `json:"practiced_today"`
}

type StatsResponse struct {
	TotalXP         int64               `json:"total_xp"`
	Level           int                 `json:"level"`
	LevelTitle      string              `json:"level_title"`
	XPIntoLevel     int64               `json:"xp_into_level"`
	XPNeededForNext int64               `json:"xp_needed_for_next"`
	ProgressPercent int                 `json:"progress_percent"`
	Streak          StreakInfo          `json:"streak"`
	Achievements    []AchievementStatus `json:"achievements"`
	Today           TodayStats          `json:"today"`
}

type SkillStat struct {
	Category      string  `json:"category"`
	Mastery       int     `json:"mastery"`
	AvgScore      float64 `json:"avg_score"`
	TotalAttempts int     `json:"total_attempts"`
}

type WeeklyStats struct {
	QuestionsThisWeek int     `json:"questions_this_week"`
	QuestionsLastWeek int     `json:"questions_last_week"`
	ChangePercent     float64 `json:"change_percent"`
}

type SkillStatsResponse struct {
	Skills []SkillStat `json:"skills"`
	Weekly WeeklyStats `json:"weekly_stats"`
}

type CompleteTopicResponse struct {
	NewlyCompleted  bool                  `json:"newly_completed"`
	TopicsCompleted int                   `json:"topics_completed"`
	NewAchievements []UnlockedAchievement `json:"new_achievements"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
