// internal/app/system/tasks/runner.go
package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is a periodic background task. Run executes once at Start and then
// every Interval until the runner stops.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner executes registered jobs on their intervals.
type Runner struct {
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.Mutex
	active map[string]int
}

// New creates a new task runner.
func New(logger *zap.Logger) *Runner {
	return &Runner{logger: logger, active: map[string]int{}}
}

// Register adds a job. Jobs registered after Start are not scheduled.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
	r.logger.Info("background task runner started", zap.Int("job_count", len(r.jobs)))
}

// Stop cancels every job and waits for them to return. If ctx ends first
// it returns ctx.Err() and logs the jobs still executing.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("background task runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("background task runner shutdown timed out",
			zap.Strings("jobs_still_running", r.Running()))
		return ctx.Err()
	}
}

// Running returns the names of jobs currently executing, sorted.
func (r *Runner) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.active))
	for name, n := range r.active {
		if n > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

func (r *Runner) track(name string, delta int) {
	r.mu.Lock()
	r.active[name] += delta
	if r.active[name] <= 0 {
		delete(r.active, name)
	}
	r.mu.Unlock()
}

func (r *Runner) execute(ctx context.Context, job Job) {
	r.track(job.Name, 1)
	defer r.track(job.Name, -1)

	start := time.Now()
	err := job.Run(ctx)
	fields := []zap.Field{zap.String("job", job.Name), zap.Duration("duration", time.Since(start))}
	switch {
	case err != nil && ctx.Err() != nil:
		r.logger.Debug("job cancelled during shutdown", fields...)
	case err != nil:
		r.logger.Error("job failed", append(fields, zap.Error(err))...)
	default:
		r.logger.Debug("job completed", fields...)
	}
}

// RunOnce executes the named job immediately on the caller's goroutine.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return job.Run(ctx)
		}
	}
	return ErrUnknownJob
}
