package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/interview-prep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Progress ────────────────────────────────────────────

func (s *Store) EnsureProgress(userID int64) error {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("ensure progress: %w", err)
	}
	return nil
}

func (s *Store) GetProgress(userID int64) (*models.UserProgress, error) {
	var p models.UserProgress
	err := s.db.QueryRow(
		`SELECT user_id, total_xp, quiz_attempts, voice_attempts, flashcard_attempts,
		        created_at, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.TotalXP, &p.QuizAttempts, &p.VoiceAttempts,
		&p.FlashcardAttempts, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

// AddXP credits XP with an atomic in-database increment and returns the new
// total. Concurrent requests never lose updates.
func (s *Store) AddXP(userID int64, amount int) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		`UPDATE user_progress SET
		    total_xp = total_xp + $2,
		    updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING total_xp`,
		userID, amount,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("add xp: %w", err)
	}
	return total, nil
}

func (s *Store) IncrementAttemptCounter(userID int64, attemptType string) error {
	var column string
	switch attemptType {
	case models.AttemptQuiz:
		column = "quiz_attempts"
	case models.AttemptVoice:
		column = "voice_attempts"
	case models.AttemptFlashcard:
		column = "flashcard_attempts"
	default:
		return fmt.Errorf("unknown attempt type %q", attemptType)
	}
	_, err := s.db.Exec(
		`UPDATE user_progress SET `+column+` = `+column+` + 1, updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	return err
}

func (s *Store) UpsertCategoryStats(userID int64, category string, score *int) error {
	scoreVal := 0
	if score != nil {
		scoreVal = *score
	}
	_, err := s.db.Exec(
		`INSERT INTO user_category_stats (user_id, category, attempts, score_sum)
		 VALUES ($1, $2, 1, $3)
		 ON CONFLICT (user_id, category) DO UPDATE SET
		    attempts = user_category_stats.attempts + 1,
		    score_sum = user_category_stats.score_sum + $3`,
		userID, category, scoreVal,
	)
	return err
}

// ── Streak ──────────────────────────────────────────────

func (s *Store) GetOrCreateStreak(userID int64) (*models.StreakState, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_streaks (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert streak: %w", err)
	}

	var st models.StreakState
	err = s.db.QueryRow(
		`SELECT user_id, current_streak, longest_streak, last_practice_date
		 FROM user_streaks WHERE user_id = $1`,
		userID,
	).Scan(&st.UserID, &st.CurrentStreak, &st.LongestStreak, &st.LastPracticeDate)
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return &st, nil
}

func (s *Store) SaveStreak(st *models.StreakState) error {
	_, err := s.db.Exec(
		`UPDATE user_streaks SET
		    current_streak = $2, longest_streak = $3, last_practice_date = $4,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		st.UserID, st.CurrentStreak, st.LongestStreak, st.LastPracticeDate,
	)
	return err
}

// ── Attempt Log ─────────────────────────────────────────

func (s *Store) InsertAttempt(a *models.Attempt) error {
	err := s.db.QueryRow(
		`INSERT INTO practice_attempts (user_id, type, score, question_text, category, session_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		a.UserID, a.Type, a.Score, a.QuestionText, a.Category, a.SessionID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// CountAttemptsOnDay counts attempts recorded on the given UTC calendar day.
func (s *Store) CountAttemptsOnDay(userID int64, day time.Time) (int, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM practice_attempts
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`,
		userID, dayStart, dayStart.Add(24*time.Hour),
	).Scan(&count)
	return count, err
}

// WeeklyAttemptCounts returns attempt counts for the current Monday-anchored
// week and the one before it.
func (s *Store) WeeklyAttemptCounts(userID int64, now time.Time) (thisWeek, lastWeek int, err error) {
	now = now.UTC()
	weekStart := now.Truncate(24 * time.Hour).
		AddDate(0, 0, -int((now.Weekday()-time.Monday+7)%7))
	prevStart := weekStart.AddDate(0, 0, -7)

	err = s.db.QueryRow(
		`SELECT
		    COUNT(*) FILTER (WHERE created_at >= $2),
		    COUNT(*) FILTER (WHERE created_at >= $3 AND created_at < $2)
		 FROM practice_attempts
		 WHERE user_id = $1 AND created_at >= $3`,
		userID, weekStart, prevStart,
	).Scan(&thisWeek, &lastWeek)
	if err != nil {
		return 0, 0, fmt.Errorf("weekly attempt counts: %w", err)
	}
	return thisWeek, lastWeek, nil
}

// ── Sessions ────────────────────────────────────────────

func (s *Store) CreateSession(userID int64) (*models.PracticeSession, error) {
	sess := &models.PracticeSession{
		ID:     uuid.NewString(),
		UserID: userID,
	}
	err := s.db.QueryRow(
		`INSERT INTO practice_sessions (id, user_id) VALUES ($1, $2)
		 RETURNING started_at`,
		sess.ID, sess.UserID,
	).Scan(&sess.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *Store) GetSession(sessionID string) (*models.PracticeSession, error) {
	var sess models.PracticeSession
	err := s.db.QueryRow(
		`SELECT id, user_id, started_at, ended_at, questions_attempted,
		        questions_correct, score_sum, scored_count, total_xp_earned
		 FROM practice_sessions WHERE id = $1`,
		sessionID,
	).Scan(&sess.ID, &sess.UserID, &sess.StartedAt, &sess.EndedAt,
		&sess.QuestionsAttempted, &sess.QuestionsCorrect,
		&sess.ScoreSum, &sess.ScoredCount, &sess.TotalXPEarned)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &sess, nil
}

// ApplySessionAttempt folds one attempt into an open session's counters in a
// single atomic update. Closed sessions are left untouched.
func (s *Store) ApplySessionAttempt(sessionID string, score *int, xp int) error {
	scoredInc, scoreVal, correctInc := 0, 0, 0
	if score != nil {
		scoredInc = 1
		scoreVal = *score
		if scoreVal >= 70 {
			correctInc = 1
		}
	}
	_, err := s.db.Exec(
		`UPDATE practice_sessions SET
		    questions_attempted = questions_attempted + 1,
		    questions_correct = questions_correct + $2,
		    score_sum = score_sum + $3,
		    scored_count = scored_count + $4,
		    total_xp_earned = total_xp_earned + $5
		 WHERE id = $1 AND ended_at IS NULL`,
		sessionID, correctInc, scoreVal, scoredInc, xp,
	)
	return err
}

// CloseSession sets ended_at if the session is still open. Closing an
// already-closed session is a no-op, which keeps session end idempotent.
func (s *Store) CloseSession(sessionID string) error {
	_, err := s.db.Exec(
		`UPDATE practice_sessions SET ended_at = NOW()
		 WHERE id = $1 AND ended_at IS NULL`,
		sessionID,
	)
	return err
}

// ── Achievements ────────────────────────────────────────

func (s *Store) GetUnlockedIDs(userID int64) (map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id FROM user_achievements WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get unlocked achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		unlocked[id] = true
	}
	return unlocked, rows.Err()
}

func (s *Store) GetUnlockTimes(userID int64) (map[string]time.Time, error) {
	rows, err := s.db.Query(
		`SELECT achievement_id, unlocked_at FROM user_achievements WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get unlock times: %w", err)
	}
	defer rows.Close()

	times := make(map[string]time.Time)
	for rows.Next() {
		var id string
		var at time.Time
		if err := rows.Scan(&id, &at); err != nil {
			return nil, err
		}
		times[id] = at
	}
	return times, rows.Err()
}

// AwardAchievement inserts the unlock if absent and reports whether a row
// was actually created. The reward XP must only be credited when it was,
// so concurrent evaluations cannot double-award.
func (s *Store) AwardAchievement(userID int64, achievementID string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO user_achievements (user_id, achievement_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID,
	)
	if err != nil {
		return false, fmt.Errorf("award achievement: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ── Statistics Snapshot ─────────────────────────────────

// LoadStatsSnapshot recomputes the aggregate statistics the achievement
// conditions run against. The attempt log is the source of truth for
// counts and scores; the streak and topic tables supply the rest.
func (s *Store) LoadStatsSnapshot(userID int64) (*models.StatsSnapshot, error) {
	snap := &models.StatsSnapshot{LastAttemptHour: -1}

	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE type = 'quiz'),
		        COUNT(*) FILTER (WHERE type = 'voice'),
		        COUNT(*) FILTER (WHERE type = 'flashcard'),
		        COUNT(score),
		        COALESCE(AVG(score), 0),
		        COUNT(*) FILTER (WHERE score = 100)
		 FROM practice_attempts WHERE user_id = $1`,
		userID,
	).Scan(&snap.TotalAttempts, &snap.QuizAttempts, &snap.VoiceAttempts,
		&snap.FlashcardAttempts, &snap.ScoredAttempts, &snap.AverageScore,
		&snap.PerfectScores)
	if err != nil {
		return nil, fmt.Errorf("attempt stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM practice_sessions
		 WHERE user_id = $1 AND ended_at IS NOT NULL`,
		userID,
	).Scan(&snap.SessionsCompleted)
	if err != nil {
		return nil, fmt.Errorf("session count: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(current_streak, 0), COALESCE(longest_streak, 0)
		 FROM user_streaks WHERE user_id = $1`,
		userID,
	).Scan(&snap.CurrentStreak, &snap.LongestStreak)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("streak stats: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT job_id)
		 FROM user_topic_progress WHERE user_id = $1`,
		userID,
	).Scan(&snap.TopicsCompleted, &snap.JobsWithTopics)
	if err != nil {
		return nil, fmt.Errorf("topic stats: %w", err)
	}

	// A plan counts as complete when every topic the plan generator recorded
	// for a job has a matching completion row.
	err = s.db.QueryRow(
		`SELECT EXISTS (
		    SELECT 1 FROM study_plan_topics sp
		    LEFT JOIN user_topic_progress tp
		      ON tp.user_id = sp.user_id AND tp.job_id = sp.job_id AND tp.topic = sp.topic
		    WHERE sp.user_id = $1
		    GROUP BY sp.job_id
		    HAVING COUNT(*) = COUNT(tp.id)
		 )`,
		userID,
	).Scan(&snap.AnyPlanComplete)
	if err != nil {
		return nil, fmt.Errorf("plan completion: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COUNT(DISTINCT company) FROM study_plan_topics
		 WHERE user_id = $1 AND company <> ''`,
		userID,
	).Scan(&snap.DistinctCompanies)
	if err != nil {
		return nil, fmt.Errorf("company stats: %w", err)
	}

	var hour sql.NullInt64
	err = s.db.QueryRow(
		`SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE 'UTC')::int
		 FROM practice_attempts WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		userID,
	).Scan(&hour)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("last attempt hour: %w", err)
	}
	if hour.Valid {
		snap.LastAttemptHour = int(hour.Int64)
	}

	err = s.db.QueryRow(
		`SELECT EXISTS (
		    SELECT 1 FROM (
		        SELECT FIRST_VALUE(score) OVER w AS first_score,
		               MAX(score) OVER w AS best_score,
		               COUNT(*) OVER w AS attempts
		        FROM practice_attempts
		        WHERE user_id = $1 AND score IS NOT NULL AND question_text <> ''
		        WINDOW w AS (PARTITION BY question_text ORDER BY created_at
		                     ROWS BETWEEN UNBOUNDED PRECEDING AND UNBOUNDED FOLLOWING)
		    ) q
		    WHERE attempts >= 2 AND best_score - first_score >= 10
		 )`,
		userID,
	).Scan(&snap.HasImprovement)
	if err != nil {
		return nil, fmt.Errorf("improvement stats: %w", err)
	}

	return snap, nil
}

// ── Skills ──────────────────────────────────────────────

type categoryRow struct {
	Category string
	Attempts int
	ScoreSum int64
}

func (s *Store) GetCategoryStats(userID int64) ([]categoryRow, error) {
	rows, err := s.db.Query(
		`SELECT category, attempts, score_sum FROM user_category_stats
		 WHERE user_id = $1 ORDER BY attempts DESC, category`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get category stats: %w", err)
	}
	defer rows.Close()

	var out []categoryRow
	for rows.Next() {
		var r categoryRow
		if err := rows.Scan(&r.Category, &r.Attempts, &r.ScoreSum); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ── Topics ──────────────────────────────────────────────

// MarkTopicComplete records a completed study-plan topic, reporting whether
// the row is new. Repeated saves of the same topic are no-ops.
func (s *Store) MarkTopicComplete(userID, jobID int64, topic string) (bool, error) {
	res, err := s.db.Exec(
		`INSERT INTO user_topic_progress (user_id, job_id, topic) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, job_id, topic) DO NOTHING`,
		userID, jobID, topic,
	)
	if err != nil {
		return false, fmt.Errorf("mark topic complete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *Store) CountTopicsCompleted(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM user_topic_progress WHERE user_id = $1`,
		userID,
	).Scan(&count)
	return count, err
}

// ── XP Events ───────────────────────────────────────────

func (s *Store) LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err == nil {
			str := string(b)
			metaJSON = &str
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, xpAmount, metaJSON,
	)
	return err
}

// XPEarnedOnDay sums XP awarded during the given UTC calendar day.
func (s *Store) XPEarnedOnDay(userID int64, day time.Time) (int, error) {
	dayStart := day.UTC().Truncate(24 * time.Hour)
	var total int
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(xp_amount), 0) FROM xp_events
		 WHERE user_id = $1 AND created_at >= $2 AND created_at < $3`,
		userID, dayStart, dayStart.Add(24*time.Hour),
	).Scan(&total)
	return total, err
}
