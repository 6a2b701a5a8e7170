package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"GoldCast/pkg/logger"
)

func TestTaskImmediateRunAndStatus(t *testing.T) {
	var calls atomic.Int32
	task := &Task{
		Name:     "collector",
		Schedule: Every(time.Hour).Immediately(),
		Handler: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Loop(ctx, logger.Nop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	st := task.Status()
	assert.Equal(t, "collector", st.Name)
	assert.Equal(t, "1h0m0s", st.Every)
	assert.Equal(t, 1, st.Runs)
	assert.Empty(t, st.LastError)
}

func TestTaskSurvivesPanicAndUsesRetryDelay(t *testing.T) {
	var calls atomic.Int32
	task := &Task{
		Name:     "prediction",
		Schedule: Every(time.Hour).Immediately(),
		Handler: func(context.Context) error {
			if calls.Add(1) == 1 {
				panic("bad window")
			}
			return errors.New("still failing")
		},
		RetryAfter: func(error) time.Duration { return 10 * time.Millisecond },
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go task.Loop(ctx, logger.Nop())

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "still failing", task.Status().LastError)
}

func TestTaskWaitsForIntervalWithoutImmediate(t *testing.T) {
	var calls atomic.Int32
	task := &Task{
		Name:     "snapshot",
		Schedule: Every(time.Hour),
		Handler:  func(context.Context) error { calls.Add(1); return nil },
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	task.Loop(ctx, logger.Nop())
	assert.Zero(t, calls.Load())
}
