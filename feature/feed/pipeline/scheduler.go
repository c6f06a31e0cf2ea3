package pipeline

import (
	"context"
	"fmt"

	"catalog-sync/core/queue"

	"go.uber.org/zap"
)

// Job kinds of the pipeline.
const (
	KindDownload = "init-daily-data-download"
	KindProcess  = "process-daily-data"
)

// Payload is carried by both job kinds.
type Payload struct {
	FileName string `json:"fileName"`
}

// Enqueuer is the part of the job queue the scheduler needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, kind string, payload any, opts queue.Options) (*queue.Job, error)
	ListRepeatable(ctx context.Context, kind string) ([]queue.Repeatable, error)
}

// Scheduler owns the two pipeline job kinds.
type Scheduler struct {
	queue  Enqueuer
	cfg    Config
	logger *zap.Logger
}

// NewScheduler creates a scheduler enqueueing into q.
func NewScheduler(q Enqueuer, cfg Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{queue: q, cfg: cfg, logger: logger}
}

func (s *Scheduler) options() queue.Options {
	return queue.Options{RemoveOnComplete: s.cfg.Retention, RemoveOnFail: s.cfg.Retention}
}

// EnsureRecurringDownload registers the repeating download trigger unless one
// already exists. It reports whether a trigger was added and is safe to call on
// every start.
func (s *Scheduler) EnsureRecurringDownload(ctx context.Context, pattern string) (bool, error) {
	existing, err := s.queue.ListRepeatable(ctx, KindDownload)
	if err != nil {
		return false, fmt.Errorf("failed to list repeatable downloads: %w", err)
	}
	if len(existing) > 0 {
		if existing[0].Pattern != pattern {
			s.logger.Warn("Recurring download already registered with another schedule",
				zap.String("registered", existing[0].Pattern),
				zap.String("requested", pattern),
			)
		}
		return false, nil
	}

	opts := s.options()
	opts.Repeat = &queue.Repeat{Pattern: pattern}
	if _, err := s.queue.Enqueue(ctx, KindDownload, Payload{FileName: s.cfg.FileName}, opts); err != nil {
		return false, fmt.Errorf("failed to register recurring download: %w", err)
	}

	s.logger.Info("Registered recurring download", zap.String("cron", pattern), zap.String("file_name", s.cfg.FileName))
	return true, nil
}

// EnqueueDownload queues a one-off download of fileName.
func (s *Scheduler) EnqueueDownload(ctx context.Context, fileName string) (*queue.Job, error) {
	job, err := s.queue.Enqueue(ctx, KindDownload, Payload{FileName: fileName}, s.options())
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue download of %s: %w", fileName, err)
	}
	return job, nil
}

// EnqueueProcess queues the processing of a downloaded fileName.
func (s *Scheduler) EnqueueProcess(ctx context.Context, fileName string) (*queue.Job, error) {
	job, err := s.queue.Enqueue(ctx, KindProcess, Payload{FileName: fileName}, s.options())
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue processing of %s: %w", fileName, err)
	}
	return job, nil
}
