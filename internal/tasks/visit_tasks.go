package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"cwms_shell/internal/models"
)

// FlushVisitsRule runs the flush every five minutes.
const FlushVisitsRule = "FREQ=MINUTELY;INTERVAL=5"

var errVisitsNotConfigured = errors.New("visit counter or store not configured")

// FlushVisitsTaskDef moves page visit counters from Redis into Postgres.
type FlushVisitsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *FlushVisitsTaskDef) TaskID() string {
	return "flush_visits"
}

// CreateTask builds the recurring ScheduledTask record, first due at start.
func (t *FlushVisitsTaskDef) CreateTask(start time.Time) (*models.ScheduledTask, error) {
	rule := FlushVisitsRule
	return BuildScheduledTask(t.TaskID(), map[string]interface{}{}, start, &rule, models.ScheduledTaskTypeRecurring, 3)
}

// HandleExecution adds every pending counter to the daily totals and then
// subtracts the saved amounts from Redis.
func (t *FlushVisitsTaskDef) HandleExecution(ctx context.Context, env Env, task models.ScheduledTask) (map[string]interface{}, error) {
	if env.Visits == nil || env.Store == nil {
		return nil, errVisitsNotConfigured
	}

	pending, err := env.Visits.PendingVisits(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading visits: %w", err)
	}

	if err := env.Store.AddPageVisits(pending); err != nil {
		return nil, fmt.Errorf("saving visits: %w", err)
	}
	// Counters are only reduced once the rows are committed.
	if err := env.Visits.AckVisits(ctx, pending); err != nil {
		return nil, fmt.Errorf("acknowledging visits: %w", err)
	}

	var total int64
	for _, v := range pending {
		total += v.Count
	}
	if env.Logger != nil {
		env.Logger.Info("Flushed page visits", zap.Int("keys", len(pending)), zap.Int64("visits", total))
	}

	return map[string]interface{}{
		"status": "success",
		"keys":   len(pending),
		"visits": total,
	}, nil
}

// FlushVisitsTask is the singleton instance of FlushVisitsTaskDef
var FlushVisitsTask = &FlushVisitsTaskDef{}
