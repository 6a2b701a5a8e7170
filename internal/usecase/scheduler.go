package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"GoldCast/internal/domain/models"
	"GoldCast/pkg/logger"
)

// Schedule is a fixed-interval cadence.
type Schedule struct {
	interval  time.Duration
	immediate bool
}

// Every runs a task every d, first run after d.
func Every(d time.Duration) Schedule { return Schedule{interval: d} }

// Immediately makes the first run happen at start.
func (s Schedule) Immediately() Schedule {
	s.immediate = true
	return s
}

// Task is one background loop of the engine.
type Task struct {
	Name     string
	Schedule Schedule
	Handler  func(ctx context.Context) error
	// RetryAfter picks the sleep after a failed run; nil keeps the regular interval.
	RetryAfter func(err error) time.Duration

	mu      sync.Mutex
	runs    int
	lastRun time.Time
	lastErr error
}

func (t *Task) Status() models.TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := models.TaskStatus{
		Name:    t.Name,
		Every:   t.Schedule.interval.String(),
		Runs:    t.runs,
		LastRun: t.lastRun,
	}
	if t.lastErr != nil {
		st.LastError = t.lastErr.Error()
	}
	return st
}

// Loop runs the task until ctx is cancelled. A panic in the handler is recorded
// as a failed run and the loop carries on.
func (t *Task) Loop(ctx context.Context, log *logger.Logger) {
	delay := t.Schedule.interval
	if t.Schedule.immediate {
		delay = t.runOnce(ctx, log)
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			timer.Reset(t.runOnce(ctx, log))
		}
	}
}

func (t *Task) runOnce(ctx context.Context, log *logger.Logger) (next time.Duration) {
	next = t.Schedule.interval
	start := time.Now()

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task %s panicked: %v", t.Name, r)
			}
		}()
		return t.Handler(ctx)
	}()

	t.mu.Lock()
	t.runs++
	t.lastRun = start
	t.lastErr = err
	t.mu.Unlock()

	if err != nil {
		if ctx.Err() == nil {
			log.Error("task failed", logger.String("task", t.Name), logger.Error(err))
		}
		if t.RetryAfter != nil {
			if d := t.RetryAfter(err); d > 0 {
				next = d
			}
		}
	}
	return next
}
