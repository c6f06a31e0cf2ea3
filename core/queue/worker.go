package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalog-sync/core/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Handler executes one job. A returned error fails the job.
type Handler func(ctx context.Context, job *Job) error

// Worker claims jobs from a queue and dispatches them by kind.
// Failed jobs are never retried; they wait for the next trigger or a manual re-enqueue.
type Worker struct {
	queue        *Queue
	logger       *zap.Logger
	pollInterval time.Duration
	concurrency  int

	mu        sync.RWMutex
	handlers  map[string]Handler
	completed []func(*Job)
	failed    []func(*Job, error)
}

// NewWorker creates a worker for q.
func NewWorker(q *Queue, l *zap.Logger, cfg Config) *Worker {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Worker{
		queue:        q,
		logger:       l,
		pollInterval: poll,
		concurrency:  concurrency,
		handlers:     make(map[string]Handler),
	}
}

// Handle registers the handler for kind.
func (w *Worker) Handle(kind string, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[kind] = h
}

// OnCompleted registers an observer called after a job completes.
func (w *Worker) OnCompleted(fn func(*Job)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.completed = append(w.completed, fn)
}

// OnFailed registers an observer called after a job fails.
func (w *Worker) OnFailed(fn func(*Job, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failed = append(w.failed, fn)
}

// Run processes jobs and fires due repeatables until ctx is canceled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Starting worker",
		zap.String("queue", w.queue.Name()),
		zap.Int("concurrency", w.concurrency),
		zap.Duration("poll_interval", w.pollInterval),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			if n, err := w.queue.FireDue(ctx); err != nil {
				w.logger.Error("Failed to fire repeatable jobs", zap.Error(err))
			} else if n > 0 {
				w.logger.Info("Queued repeatable jobs", zap.Int("count", n))
			}
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			for {
				processed, err := w.ProcessNext(ctx)
				if err != nil && ctx.Err() == nil {
					w.logger.Error("Failed to process next job", zap.Error(err))
				}
				if processed && err == nil {
					continue
				}
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(w.pollInterval):
				}
			}
		})
	}

	err := g.Wait()
	w.logger.Info("Worker stopped")
	return err
}

// ProcessNext claims and executes one job. It reports whether a job was claimed.
// The returned error covers queue bookkeeping only; job failures are recorded on the job.
func (w *Worker) ProcessNext(ctx context.Context) (bool, error) {
	job, err := w.queue.Claim(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	l := logger.WithJob(w.logger, job.ID, job.Kind)
	l.Info("Processing job")

	start := time.Now()
	runErr := w.execute(ctx, job)
	duration := time.Since(start)

	if runErr != nil {
		l.Error("Job failed", zap.Duration("duration", duration), zap.Error(runErr))
		if err := w.queue.Fail(ctx, job, runErr); err != nil {
			return true, err
		}
		w.mu.RLock()
		observers := w.failed
		w.mu.RUnlock()
		for _, fn := range observers {
			fn(job, runErr)
		}
		return true, nil
	}

	l.Info("Job completed", zap.Duration("duration", duration))
	if err := w.queue.Complete(ctx, job); err != nil {
		return true, err
	}
	w.mu.RLock()
	observers := w.completed
	w.mu.RUnlock()
	for _, fn := range observers {
		fn(job)
	}
	return true, nil
}

func (w *Worker) execute(ctx context.Context, job *Job) (err error) {
	w.mu.RLock()
	h, ok := w.handlers[job.Kind]
	w.mu.RUnlock()
	if !ok {
		return &UnknownJobKindError{Kind: job.Kind}
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return h(ctx, job)
}
