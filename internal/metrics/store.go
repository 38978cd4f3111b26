package metrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"ai-fitness-planner/internal/shared"
)

// sqliteTime is the timestamp layout understood by SQLite date functions.
const sqliteTime = "2006-01-02 15:04:05"

// Operations recorded by the store.
const (
	OperationDiet    = "diet"
	OperationWorkout = "workout"
)

// Outcomes of a recorded operation.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// ExecutionMetric records metadata for a single plan generation.
type ExecutionMetric struct {
	Operation        string
	Outcome          string
	ScorerModel      string
	ScoreFallback    bool
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Recorder is implemented by anything that can persist an ExecutionMetric.
type Recorder interface {
	Record(ctx context.Context, m ExecutionMetric) error
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(ctx context.Context, m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_executions
			(operation, outcome, scorer_model, score_fallback, prompt_tokens, completion_tokens, latency_ms, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Operation, m.Outcome, m.ScorerModel, m.ScoreFallback,
		m.PromptTokens, m.CompletionTokens, m.LatencyMS, ts.UTC().Format(sqliteTime),
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert execution metric")
	}
	return nil
}

// DailyUsage represents plan totals for a single day.
type DailyUsage struct {
	Date           string
	DietPlans      int
	WorkoutPlans   int
	Rejected       int
	Failed         int
	ScoreFallbacks int
	TotalTokens    int
}

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(ctx context.Context, days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			strftime('%Y-%m-%d', timestamp) AS day,
			SUM(CASE WHEN operation = 'diet' AND outcome = 'ok' THEN 1 ELSE 0 END),
			SUM(CASE WHEN operation = 'workout' AND outcome = 'ok' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'invalid' THEN 1 ELSE 0 END),
			SUM(CASE WHEN outcome = 'failed' THEN 1 ELSE 0 END),
			SUM(score_fallback),
			SUM(prompt_tokens + completion_tokens)
		FROM plan_executions
		WHERE timestamp >= ?
		GROUP BY day
		ORDER BY day DESC`, since.Format(sqliteTime))
	if err != nil {
		return nil, errors.Wrap(err, "failed to query daily usage")
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var day sql.NullString
		var u DailyUsage
		if err := rows.Scan(&day, &u.DietPlans, &u.WorkoutPlans, &u.Rejected, &u.Failed, &u.ScoreFallbacks, &u.TotalTokens); err != nil {
			return nil, errors.Wrap(err, "failed to scan daily usage")
		}
		if day.Valid {
			u.Date = day.String
		} else {
			u.Date = "Unknown"
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(ctx context.Context, olderThanDays int) (int64, error) {
	threshold := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(ctx, `DELETE FROM plan_executions WHERE timestamp < ?`, threshold.Format(sqliteTime))
	if err != nil {
		return 0, errors.Wrap(err, "failed to clean up execution metrics")
	}
	return res.RowsAffected()
}

// MapUsage builds an ExecutionMetric from a model step's metadata.
func MapUsage(operation, outcome string, meta shared.AgentMeta, fallback bool, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		Operation:        operation,
		Outcome:          outcome,
		ScorerModel:      meta.Usage.Model,
		ScoreFallback:    fallback,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}
