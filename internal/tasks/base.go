package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cwms_shell/internal/models"
	"cwms_shell/internal/services"
)

// VisitSource reads accumulated visit counters and acknowledges the ones
// that were saved.
type VisitSource interface {
	PendingVisits(ctx context.Context) ([]services.PendingVisit, error)
	AckVisits(ctx context.Context, visits []services.PendingVisit) error
}

// VisitStore persists visit counters.
type VisitStore interface {
	AddPageVisits(visits []services.PendingVisit) error
}

// Env carries the dependencies handlers may use. Fields a deployment does
// not configure are nil.
type Env struct {
	DB     *gorm.DB
	Visits VisitSource
	Store  VisitStore
	Logger *zap.Logger
}

// BuildScheduledTask is a helper to build ScheduledTask records generically
func BuildScheduledTask(taskName string, args interface{}, due time.Time, recurringInterval *string, taskType models.ScheduledTaskType, maxAttempt int) (*models.ScheduledTask, error) {
	argsBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal args: %w", err)
	}

	var mapArgs map[string]interface{}
	if err := json.Unmarshal(argsBytes, &mapArgs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	task := &models.ScheduledTask{
		TaskName:          taskName,
		Arguments:         mapArgs,
		Due:               due,
		RecurringInterval: recurringInterval,
		Status:            models.ScheduledTaskStatusActive,
		TaskType:          taskType,
		MaxAttempt:        maxAttempt,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// EnsureTask stores task unless an active task with the same name exists.
// It returns the stored or existing record.
func EnsureTask(db *gorm.DB, task *models.ScheduledTask) (*models.ScheduledTask, error) {
	var existing models.ScheduledTask
	err := db.Where("task_name = ? AND status = ?", task.TaskName, models.ScheduledTaskStatusActive).
		Attrs(*task).
		FirstOrCreate(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("ensuring task %s: %w", task.TaskName, err)
	}
	return &existing, nil
}
