package gamification

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/interview-prep/backend/internal/models"
)

var (
	ErrUnknownEventType = errors.New("unknown practice event type")
	ErrInvalidScore     = errors.New("score must be between 0 and 100")
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidTopic     = errors.New("job_id and topic are required")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// attemptTypeFor maps a reward event type to the stored attempt kind.
func attemptTypeFor(eventType string) (string, bool) {
	switch eventType {
	case models.EventQuiz:
		return models.AttemptQuiz, true
	case models.EventVoice:
		return models.AttemptVoice, true
	case models.EventFlashcardKnown, models.EventFlashcardReview:
		return models.AttemptFlashcard, true
	default:
		return "", false
	}
}

// ── Record Attempt ──────────────────────────────────────

// RecordAttempt is the main entry point for a practice event: it computes
// and credits XP, advances the streak, logs the attempt, folds it into an
// open session, and runs the achievement evaluator. The attempt itself must
// succeed; achievement evaluation degrades silently.
func (s *Service) RecordAttempt(userID int64, req models.RecordAttemptRequest) (*models.RecordAttemptResponse, error) {
	attemptType, ok := attemptTypeFor(req.Type)
	if !ok {
		return nil, ErrUnknownEventType
	}

	score := req.Score
	if attemptType == models.AttemptFlashcard {
		// Flashcards have no correctness score.
		score = nil
	}
	if score != nil && (*score < 0 || *score > 100) {
		return nil, ErrInvalidScore
	}

	if err := s.store.EnsureProgress(userID); err != nil {
		return nil, err
	}
	streak, err := s.store.GetOrCreateStreak(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	attemptsToday, err := s.store.CountAttemptsOnDay(userID, now)
	if err != nil {
		return nil, fmt.Errorf("count attempts today: %w", err)
	}
	firstToday := attemptsToday == 0

	// The multiplier in effect before this event advances the streak, so a
	// same-day event cannot inflate its own reward.
	breakdown := ComputeXP(req.Type, score, streak.CurrentStreak, firstToday)

	attempt := &models.Attempt{
		UserID:       userID,
		Type:         attemptType,
		Score:        score,
		QuestionText: req.QuestionText,
		Category:     req.Category,
		SessionID:    req.SessionID,
	}
	if err := s.store.InsertAttempt(attempt); err != nil {
		return nil, err
	}

	AdvanceStreak(streak, now)
	if err := s.store.SaveStreak(streak); err != nil {
		log.Printf("[gamification] failed to save streak for user %d: %v", userID, err)
	}

	if err := s.store.IncrementAttemptCounter(userID, attemptType); err != nil {
		log.Printf("[gamification] failed to increment %s counter for user %d: %v", attemptType, userID, err)
	}
	if req.Category != nil && *req.Category != "" {
		if err := s.store.UpsertCategoryStats(userID, *req.Category, score); err != nil {
			log.Printf("[gamification] failed to update category stats for user %d: %v", userID, err)
		}
	}

	totalXP, err := s.store.AddXP(userID, breakdown.Total)
	if err != nil {
		return nil, err
	}
	s.store.LogXPEvent(userID, "attempt", breakdown.Total, map[string]interface{}{
		"type":        req.Type,
		"base":        breakdown.Base,
		"score_bonus": breakdown.ScoreBonus,
		"multiplier":  breakdown.Multiplier,
		"daily_bonus": breakdown.DailyBonus,
	})

	if req.SessionID != nil {
		s.applyToSession(userID, *req.SessionID, score, breakdown.Total)
	}

	levelBefore := LevelForXP(totalXP - int64(breakdown.Total))

	newAchievements := s.checkAndUnlock(userID)
	if len(newAchievements) > 0 {
		// Achievement rewards changed the total; re-read for the response.
		if p, err := s.store.GetProgress(userID); err == nil {
			totalXP = p.TotalXP
		}
	}

	level := LevelForXP(totalXP)

	return &models.RecordAttemptResponse{
		XPEarned:    breakdown.Total,
		XPBreakdown: breakdown,
		TotalXP:     totalXP,
		Level:       level.Level,
		LevelTitle:  level.Title,
		LevelUp:     level.Level > levelBefore.Level,
		Streak: models.StreakInfo{
			Current:    streak.CurrentStreak,
			Longest:    streak.LongestStreak,
			Multiplier: MultiplierFor(streak.CurrentStreak),
		},
		NewAchievements: newAchievements,
	}, nil
}

func (s *Service) applyToSession(userID int64, sessionID string, score *int, xp int) {
	sess, err := s.store.GetSession(sessionID)
	if err != nil {
		log.Printf("[gamification] attempt references unknown session %s: %v", sessionID, err)
		return
	}
	if sess.UserID != userID {
		log.Printf("[gamification] attempt by user %d references session %s owned by user %d", userID, sessionID, sess.UserID)
		return
	}
	if err := s.store.ApplySessionAttempt(sessionID, score, xp); err != nil {
		log.Printf("[gamification] failed to update session %s: %v", sessionID, err)
	}
}

// ── Sessions ────────────────────────────────────────────

func (s *Service) StartSession(userID int64) (*models.StartSessionResponse, error) {
	if err := s.store.EnsureProgress(userID); err != nil {
		return nil, err
	}
	sess, err := s.store.CreateSession(userID)
	if err != nil {
		return nil, err
	}
	return &models.StartSessionResponse{
		SessionID: sess.ID,
		StartedAt: sess.StartedAt,
	}, nil
}

// EndSession closes a session and returns its summary. Ending an already
// closed session returns the same summary without touching any counters.
func (s *Service) EndSession(userID int64, sessionID string) (*models.EndSessionResponse, error) {
	sess, err := s.store.GetSession(sessionID)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrSessionNotFound
	}

	if sess.EndedAt == nil {
		if err := s.store.CloseSession(sessionID); err != nil {
			return nil, fmt.Errorf("close session: %w", err)
		}
		sess, err = s.store.GetSession(sessionID)
		if err != nil {
			return nil, err
		}
	}

	achievements := s.checkAndUnlock(userID)

	streakInfo := models.StreakInfo{Multiplier: 1.0}
	if streak, err := s.store.GetOrCreateStreak(userID); err == nil {
		streakInfo = models.StreakInfo{
			Current:    streak.CurrentStreak,
			Longest:    streak.LongestStreak,
			Multiplier: MultiplierFor(streak.CurrentStreak),
		}
	}

	return &models.EndSessionResponse{
		SessionSummary: models.SessionSummary{
			SessionID:          sess.ID,
			QuestionsAttempted: sess.QuestionsAttempted,
			QuestionsCorrect:   sess.QuestionsCorrect,
			AverageScore:       sess.AverageScore(),
			TotalXPEarned:      sess.TotalXPEarned,
			StartedAt:          sess.StartedAt,
			EndedAt:            sess.EndedAt,
		},
		Achievements: achievements,
		Streak:       streakInfo,
	}, nil
}

// ── Achievement Evaluation ──────────────────────────────

// checkAndUnlock recomputes the statistics snapshot, unlocks every newly
// qualifying achievement exactly once, and credits its reward XP. Any
// failure degrades to "nothing unlocked" — it never blocks the caller.
func (s *Service) checkAndUnlock(userID int64) []models.UnlockedAchievement {
	unlocked := []models.UnlockedAchievement{}

	snap, err := s.store.LoadStatsSnapshot(userID)
	if err != nil {
		log.Printf("[gamification] stats snapshot failed for user %d: %v", userID, err)
		return unlocked
	}
	already, err := s.store.GetUnlockedIDs(userID)
	if err != nil {
		log.Printf("[gamification] failed to load unlocked achievements for user %d: %v", userID, err)
		return unlocked
	}

	for _, def := range NewlyQualified(snap, already) {
		inserted, err := s.store.AwardAchievement(userID, def.ID)
		if err != nil {
			log.Printf("[gamification] failed to award %s to user %d: %v", def.ID, userID, err)
			continue
		}
		if !inserted {
			// A concurrent evaluation got there first.
			continue
		}
		if def.XPReward > 0 {
			if _, err := s.store.AddXP(userID, def.XPReward); err != nil {
				log.Printf("[gamification] failed to credit %d XP for %s to user %d: %v", def.XPReward, def.ID, userID, err)
			}
			s.store.LogXPEvent(userID, "achievement", def.XPReward, map[string]interface{}{
				"achievement_id": def.ID,
			})
		}
		unlocked = append(unlocked, models.UnlockedAchievement{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
			UnlockedAt:  time.Now().UTC(),
		})
	}
	return unlocked
}

// ── Stats ───────────────────────────────────────────────

func (s *Service) GetStats(userID int64) (*models.StatsResponse, error) {
	if err := s.store.EnsureProgress(userID); err != nil {
		return nil, err
	}
	progress, err := s.store.GetProgress(userID)
	if err != nil {
		return nil, err
	}
	streak, err := s.store.GetOrCreateStreak(userID)
	if err != nil {
		return nil, err
	}

	level := LevelForXP(progress.TotalXP)

	unlockTimes, err := s.store.GetUnlockTimes(userID)
	if err != nil {
		log.Printf("[gamification] failed to load achievements for user %d: %v", userID, err)
		unlockTimes = map[string]time.Time{}
	}
	statuses := make([]models.AchievementStatus, 0, len(Achievements))
	for _, def := range Achievements {
		status := models.AchievementStatus{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			XPReward:    def.XPReward,
		}
		if at, ok := unlockTimes[def.ID]; ok {
			status.Unlocked = true
			unlockedAt := at
			status.UnlockedAt = &unlockedAt
		}
		statuses = append(statuses, status)
	}

	now := time.Now().UTC()
	attemptsToday, err := s.store.CountAttemptsOnDay(userID, now)
	if err != nil {
		return nil, err
	}
	xpToday, err := s.store.XPEarnedOnDay(userID, now)
	if err != nil {
		return nil, err
	}

	return &models.StatsResponse{
		TotalXP:         progress.TotalXP,
		Level:           level.Level,
		LevelTitle:      level.Title,
		XPIntoLevel:     level.XPIntoLevel,
		XPNeededForNext: level.XPNeededForNext,
		ProgressPercent: level.ProgressPercent,
		Streak: models.StreakInfo{
			Current:    streak.CurrentStreak,
			Longest:    streak.LongestStreak,
			Multiplier: MultiplierFor(streak.CurrentStreak),
		},
		Achievements: statuses,
		Today: models.TodayStats{
			AttemptsToday:  attemptsToday,
			XPToday:        xpToday,
			PracticedToday: attemptsToday > 0,
		},
	}, nil
}

func (s *Service) GetSkillStats(userID int64) (*models.SkillStatsResponse, error) {
	categories, err := s.store.GetCategoryStats(userID)
	if err != nil {
		return nil, err
	}

	skills := make([]models.SkillStat, 0, len(categories))
	for _, c := range categories {
		avg := 0.0
		if c.Attempts > 0 {
			avg = float64(c.ScoreSum) / float64(c.Attempts)
		}
		skills = append(skills, models.SkillStat{
			Category:      c.Category,
			Mastery:       masteryScore(avg, c.Attempts),
			AvgScore:      avg,
			TotalAttempts: c.Attempts,
		})
	}

	thisWeek, lastWeek, err := s.store.WeeklyAttemptCounts(userID, time.Now())
	if err != nil {
		return nil, err
	}

	return &models.SkillStatsResponse{
		Skills: skills,
		Weekly: models.WeeklyStats{
			QuestionsThisWeek: thisWeek,
			QuestionsLastWeek: lastWeek,
			ChangePercent:     changePercent(thisWeek, lastWeek),
		},
	}, nil
}

// masteryScore damps the average score by coverage so that one lucky answer
// does not read as full mastery. Ten or more attempts converge to the plain
// average.
func masteryScore(avgScore float64, attempts int) int {
	if attempts > 10 {
		attempts = 10
	}
	return int(avgScore*float64(attempts)/10 + 0.5)
}

func changePercent(current, previous int) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

// ── Topic Progress ──────────────────────────────────────

// CompleteTopic records a study-plan topic as done. The study-plan UI calls
// this; the engine only tracks the completion and re-runs the evaluator.
func (s *Service) CompleteTopic(userID int64, req models.CompleteTopicRequest) (*models.CompleteTopicResponse, error) {
	if req.JobID <= 0 || req.Topic == "" {
		return nil, ErrInvalidTopic
	}
	if err := s.store.EnsureProgress(userID); err != nil {
		return nil, err
	}

	newly, err := s.store.MarkTopicComplete(userID, req.JobID, req.Topic)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountTopicsCompleted(userID)
	if err != nil {
		return nil, err
	}

	achievements := []models.UnlockedAchievement{}
	if newly {
		achievements = s.checkAndUnlock(userID)
	}

	return &models.CompleteTopicResponse{
		NewlyCompleted:  newly,
		TopicsCompleted: total,
		NewAchievements: achievements,
	}, nil
}
