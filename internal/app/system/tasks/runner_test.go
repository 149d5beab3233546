package tasks_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/stratatour/internal/app/system/tasks"
	"go.uber.org/zap"
)

func TestRunner_StartAndStop(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	ran := make(chan struct{}, 10)
	runner.Register(tasks.Job{
		Name:     "test-job",
		Interval: 20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			ran <- struct{}{}
			return nil
		},
	})
	runner.Start()

	// Runs immediately, then on the ticker.
	for i := 0; i < 2; i++ {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatalf("job ran %d times, want at least 2", i)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestRunner_StopWithTimeout(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	inJob := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	runner.Register(tasks.Job{
		Name:     "stubborn-job",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			close(inJob)
			<-release // ignores ctx
			return nil
		},
	})
	runner.Start()
	<-inJob

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := runner.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop() error = %v, want DeadlineExceeded", err)
	}
	if got := runner.Running(); len(got) != 1 || got[0] != "stubborn-job" {
		t.Errorf("Running() = %v, want [stubborn-job]", got)
	}
}

func TestRunner_JobErrorKeepsRunning(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var calls atomic.Int32
	runner.Register(tasks.Job{
		Name:     "failing-job",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			calls.Add(1)
			return errors.New("boom")
		},
	})
	runner.Start()

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runner.Stop(ctx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if calls.Load() < 3 {
		t.Errorf("job ran %d times, want at least 3", calls.Load())
	}
}

func TestRunner_RunOnce(t *testing.T) {
	runner := tasks.New(zap.NewNop())

	var calls atomic.Int32
	runner.Register(tasks.Job{
		Name:     "manual",
		Interval: time.Hour,
		Run: func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
	})

	if err := runner.RunOnce(context.Background(), "manual"); err != nil {
		t.Errorf("RunOnce() error = %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
	if err := runner.RunOnce(context.Background(), "missing"); !errors.Is(err, tasks.ErrUnknownJob) {
		t.Errorf("RunOnce(missing) error = %v, want ErrUnknownJob", err)
	}
}

func TestRunner_StopWithoutStart(t *testing.T) {
	runner := tasks.New(zap.NewNop())
	if err := runner.Stop(context.Background()); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
