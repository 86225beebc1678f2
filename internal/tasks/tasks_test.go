package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cwms_shell/internal/models"
	"cwms_shell/internal/routes"
	"cwms_shell/internal/services"
)

type fakeSource struct {
	visits []services.PendingVisit
	err    error
	acked  [][]services.PendingVisit
	ackErr error
}

func (f *fakeSource) PendingVisits(ctx context.Context) ([]services.PendingVisit, error) {
	return f.visits, f.err
}

func (f *fakeSource) AckVisits(ctx context.Context, visits []services.PendingVisit) error {
	f.acked = append(f.acked, visits)
	return f.ackErr
}

// fakeStore fails its first failures calls with err.
type fakeStore struct {
	saved    [][]services.PendingVisit
	err      error
	failures int
}

func (f *fakeStore) AddPageVisits(visits []services.PendingVisit) error {
	if f.failures > 0 {
		f.failures--
		return f.err
	}
	f.saved = append(f.saved, visits)
	return nil
}

func newVisitCounter(t *testing.T) (*services.VisitCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return services.NewVisitCounter(services.NewRedisCacheFromClient(client)), mr
}

func pending(page routes.PageID, n int64) services.PendingVisit {
	return services.PendingVisit{
		Key:   services.VisitKey{Deployment: "cwms-data", Page: page, Day: time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)},
		Count: n,
	}
}

func TestDefineTasks(t *testing.T) {
	r := NewRegistry()
	DefineTasks(r)

	assert.Equal(t, []string{"flush_visits", "log_info"}, r.Names())

	_, ok := r.Get("flush_visits")
	assert.True(t, ok)
	_, ok = r.Get("send_notification")
	assert.False(t, ok)
}

func TestRegistryReplacesHandler(t *testing.T) {
	r := NewRegistry()
	r.Register("x", func(ctx context.Context, env Env, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{"v": 1}, nil
	})
	r.Register("x", func(ctx context.Context, env Env, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{"v": 2}, nil
	})

	h, ok := r.Get("x")
	require.True(t, ok)
	res, err := h(context.Background(), Env{}, models.ScheduledTask{})
	require.NoError(t, err)
	assert.Equal(t, 2, res["v"])
	assert.Len(t, r.Names(), 1)
}

func TestLogInfoTask(t *testing.T) {
	env := Env{Logger: zap.NewNop()}

	res, err := LogInfoTask.HandleExecution(context.Background(), env, models.ScheduledTask{
		Arguments:  map[string]interface{}{"message": "hello"},
		MaxAttempt: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", res["message"])
	assert.Equal(t, 2, res["max_attempts_info"])

	res, err = LogInfoTask.HandleExecution(context.Background(), Env{}, models.ScheduledTask{})
	require.NoError(t, err)
	assert.Equal(t, "No message provided", res["message"])
}

func TestFlushVisitsCreateTask(t *testing.T) {
	start := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	task, err := FlushVisitsTask.CreateTask(start)
	require.NoError(t, err)

	assert.Equal(t, "flush_visits", task.TaskName)
	assert.Equal(t, models.ScheduledTaskTypeRecurring, task.TaskType)
	assert.Equal(t, models.ScheduledTaskStatusActive, task.Status)
	require.NotNil(t, task.RecurringInterval)
	assert.Equal(t, FlushVisitsRule, *task.RecurringInterval)
	assert.True(t, start.Add(5*time.Minute).Equal(task.NextDue(start)))
}

func TestFlushVisitsHandleExecution(t *testing.T) {
	source := &fakeSource{visits: []services.PendingVisit{
		pending(routes.PageHome, 3),
		pending(routes.PageSwaggerUI, 4),
	}}
	store := &fakeStore{}
	env := Env{Visits: source, Store: store, Logger: zap.NewNop()}

	res, err := FlushVisitsTask.HandleExecution(context.Background(), env, models.ScheduledTask{})
	require.NoError(t, err)
	assert.Equal(t, 2, res["keys"])
	assert.Equal(t, int64(7), res["visits"])
	require.Len(t, store.saved, 1)
	assert.Equal(t, source.visits, store.saved[0])
	require.Len(t, source.acked, 1)
	assert.Equal(t, source.visits, source.acked[0])
}

func TestFlushVisitsErrors(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		_, err := FlushVisitsTask.HandleExecution(context.Background(), Env{}, models.ScheduledTask{})
		assert.ErrorIs(t, err, errVisitsNotConfigured)
	})

	t.Run("read failure saves nothing", func(t *testing.T) {
		readErr := errors.New("connection reset")
		source := &fakeSource{err: readErr}
		store := &fakeStore{}

		_, err := FlushVisitsTask.HandleExecution(context.Background(), Env{Visits: source, Store: store}, models.ScheduledTask{})
		assert.ErrorIs(t, err, readErr)
		assert.Empty(t, store.saved)
		assert.Empty(t, source.acked)
	})

	t.Run("store failure is not acknowledged", func(t *testing.T) {
		storeErr := errors.New("db down")
		source := &fakeSource{visits: []services.PendingVisit{pending(routes.PageRegexp, 1)}}
		store := &fakeStore{err: storeErr, failures: 1}

		_, err := FlushVisitsTask.HandleExecution(context.Background(), Env{Visits: source, Store: store}, models.ScheduledTask{})
		assert.ErrorIs(t, err, storeErr)
		assert.Empty(t, source.acked)
	})

	t.Run("ack failure", func(t *testing.T) {
		ackErr := errors.New("redis gone")
		source := &fakeSource{visits: []services.PendingVisit{pending(routes.PageRegexp, 1)}, ackErr: ackErr}

		_, err := FlushVisitsTask.HandleExecution(context.Background(), Env{Visits: source, Store: &fakeStore{}}, models.ScheduledTask{})
		assert.ErrorIs(t, err, ackErr)
	})
}

func TestFlushVisitsRetryAfterSaveFailure(t *testing.T) {
	ctx := context.Background()
	counter, mr := newVisitCounter(t)
	for i := 0; i < 42; i++ {
		require.NoError(t, counter.RecordVisit(ctx, "cwms-data", routes.PageHome))
	}

	store := &fakeStore{err: errors.New("db down"), failures: 1}
	env := Env{Visits: counter, Store: store, Logger: zap.NewNop()}

	_, err := FlushVisitsTask.HandleExecution(ctx, env, models.ScheduledTask{})
	require.Error(t, err)
	assert.Len(t, mr.Keys(), 1)

	res, err := FlushVisitsTask.HandleExecution(ctx, env, models.ScheduledTask{})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res["visits"])
	require.Len(t, store.saved, 1)
	require.Len(t, store.saved[0], 1)
	assert.Equal(t, int64(42), store.saved[0][0].Count)
	assert.Empty(t, mr.Keys())
}

func TestBuildScheduledTaskRejectsInvalid(t *testing.T) {
	_, err := BuildScheduledTask("", nil, time.Now(), nil, models.ScheduledTaskTypeOneTime, 1)
	assert.Error(t, err)

	_, err = BuildScheduledTask("x", map[string]string{"a": "b"}, time.Now(), nil, models.ScheduledTaskTypeRecurring, 1)
	assert.Error(t, err)
}

func TestNextState(t *testing.T) {
	due := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	ranAt := due.Add(time.Minute)
	rule := FlushVisitsRule

	t.Run("failure", func(t *testing.T) {
		u := nextState(models.ScheduledTask{Due: due}, errors.New("boom"), ranAt)
		assert.Equal(t, models.ScheduledTaskStatusFailure, u["status"])
		assert.NotContains(t, u, "due")
	})

	t.Run("one time done", func(t *testing.T) {
		u := nextState(models.ScheduledTask{Due: due, TaskType: models.ScheduledTaskTypeOneTime}, nil, ranAt)
		assert.Equal(t, models.ScheduledTaskStatusDone, u["status"])
	})

	t.Run("recurring rescheduled", func(t *testing.T) {
		task := models.ScheduledTask{Due: due, TaskType: models.ScheduledTaskTypeRecurring, RecurringInterval: &rule}
		u := nextState(task, nil, ranAt)
		assert.Equal(t, models.ScheduledTaskStatusActive, u["status"])
		next, ok := u["due"].(time.Time)
		require.True(t, ok)
		assert.True(t, due.Add(5*time.Minute).Equal(next))
	})

	t.Run("recurring exhausted", func(t *testing.T) {
		once := "FREQ=MINUTELY;COUNT=1"
		task := models.ScheduledTask{Due: due, TaskType: models.ScheduledTaskTypeRecurring, RecurringInterval: &once}
		u := nextState(task, nil, ranAt)
		assert.Equal(t, models.ScheduledTaskStatusDone, u["status"])
	})
}

func TestRunnerLogsStorageErrors(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=cwms dbname=cwms sslmode=disable connect_timeout=1"), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	registry := NewRegistry()
	registry.Register("noop", func(ctx context.Context, env Env, task models.ScheduledTask) (map[string]interface{}, error) {
		return map[string]interface{}{}, nil
	})
	runner := &Runner{DB: db, Registry: registry, Logger: zap.New(core)}

	runner.execute(context.Background(), models.ScheduledTask{ID: 7, TaskName: "noop", MaxAttempt: 1})
	assert.Equal(t, 1, logs.FilterMessage("Failed to record task history").Len())
	assert.Equal(t, 1, logs.FilterMessage("Failed to update task").Len())
	assert.Zero(t, logs.FilterMessage("Task completed").Len())

	runner.execute(context.Background(), models.ScheduledTask{ID: 8, TaskName: "missing"})
	assert.Equal(t, 2, logs.FilterMessage("Failed to record task history").Len())
	assert.Equal(t, 2, logs.FilterMessage("Failed to update task").Len())
}
