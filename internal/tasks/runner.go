package tasks

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cwms_shell/internal/models"
)

const (
	historySuccess         = "success"
	historyFailure         = "failure"
	historyHandlerNotFound = "handler_not_found"
)

// Runner executes due scheduled tasks.
type Runner struct {
	DB       *gorm.DB
	Registry *Registry
	Env      Env
	Logger   *zap.Logger
	Now      func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// RunPending runs every active task whose due time has passed.
func (r *Runner) RunPending(ctx context.Context) error {
	r.Logger.Debug("Checking for pending tasks")

	var pendingTasks []models.ScheduledTask
	if err := r.DB.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, r.now()).
		Order("due").
		Find(&pendingTasks).Error; err != nil {
		return fmt.Errorf("fetching pending tasks: %w", err)
	}

	if len(pendingTasks) == 0 {
		return nil
	}

	r.Logger.Info("Found pending tasks", zap.Int("count", len(pendingTasks)))

	for _, task := range pendingTasks {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.execute(ctx, task)
	}
	return nil
}

func (r *Runner) execute(ctx context.Context, task models.ScheduledTask) {
	log := r.Logger.With(zap.String("task", task.TaskName), zap.Uint("task_id", task.ID))
	log.Info("Processing task")

	if task.Arguments == nil {
		task.Arguments = make(map[string]interface{})
	}

	handler, found := r.Registry.Get(task.TaskName)
	if !found {
		log.Warn("Task handler not found, marking as failure")
		now := r.now()
		if err := r.DB.Model(&task).Updates(map[string]interface{}{
			"status":   models.ScheduledTaskStatusFailure,
			"last_run": &now,
		}).Error; err != nil {
			log.Error("Failed to update task", zap.Error(err))
		}
		r.recordHistory(log, &models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           now,
			Status:          historyHandlerNotFound,
			AttemptNumber:   1,
			Arguments:       task.Arguments,
			Result:          map[string]interface{}{"error": "Handler not found"},
		})
		return
	}

	maxAttempt := task.MaxAttempt
	if maxAttempt < 1 {
		maxAttempt = 1
	}

	var (
		startTime time.Time
		err       error
	)
	for attempt := 1; attempt <= maxAttempt; attempt++ {
		startTime = r.now()
		var result map[string]interface{}
		result, err = handler(ctx, r.Env, task)

		status := historySuccess
		if err != nil {
			status = historyFailure
			result = map[string]interface{}{"error": err.Error()}
			log.Warn("Task attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		}

		r.recordHistory(log, &models.ScheduledTaskHistory{
			ScheduledTaskID: task.ID,
			TaskName:        task.TaskName,
			RunAt:           startTime,
			RuntimeMs:       int(r.now().Sub(startTime).Milliseconds()),
			Status:          status,
			AttemptNumber:   attempt,
			Arguments:       task.Arguments,
			Result:          result,
		})

		if err == nil || ctx.Err() != nil {
			break
		}
	}

	if updateErr := r.DB.Model(&task).Updates(nextState(task, err, startTime)).Error; updateErr != nil {
		log.Error("Failed to update task", zap.Error(updateErr))
		return
	}
	if err == nil {
		log.Info("Task completed")
	}
}

func (r *Runner) recordHistory(log *zap.Logger, history *models.ScheduledTaskHistory) {
	if err := r.DB.Create(history).Error; err != nil {
		log.Error("Failed to record task history", zap.Int("attempt", history.AttemptNumber), zap.Error(err))
	}
}

// nextState computes the task columns to update after a run.
func nextState(task models.ScheduledTask, runErr error, ranAt time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"last_run": &ranAt,
	}

	if runErr != nil {
		updates["status"] = models.ScheduledTaskStatusFailure
		return updates
	}

	switch task.TaskType {
	case models.ScheduledTaskTypeRecurring:
		// A next due that does not move forward would rerun the task forever.
		nextDue := task.NextDue(ranAt)
		if nextDue.After(task.Due) {
			updates["status"] = models.ScheduledTaskStatusActive
			updates["due"] = nextDue
		} else {
			updates["status"] = models.ScheduledTaskStatusDone
		}
	default:
		updates["status"] = models.ScheduledTaskStatusDone
	}
	return updates
}
