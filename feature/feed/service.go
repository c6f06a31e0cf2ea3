package feed

import (
	"context"

	"catalog-sync/core/queue"
	"catalog-sync/feature/feed/pipeline"

	"go.uber.org/zap"
)

// JobQueue is the part of the queue the jobs API reads.
type JobQueue interface {
	Recent(ctx context.Context, state queue.State, n int) ([]*queue.Job, error)
	Counts(ctx context.Context) (map[queue.State]int64, error)
	ListRepeatable(ctx context.Context, kind string) ([]queue.Repeatable, error)
}

// Overview is the state of the pipeline queue.
type Overview struct {
	Counts      map[queue.State]int64 `json:"counts"`
	Repeatables []queue.Repeatable    `json:"repeatables"`
	Completed   []*queue.Job          `json:"completed"`
	Failed      []*queue.Job          `json:"failed"`
}

// Service exposes queue observability and manual triggers.
type Service struct {
	queue     JobQueue
	scheduler *pipeline.Scheduler
	fileName  string
	logger    *zap.Logger
}

// NewService creates the feed service.
func NewService(q JobQueue, scheduler *pipeline.Scheduler, fileName string, logger *zap.Logger) *Service {
	return &Service{queue: q, scheduler: scheduler, fileName: fileName, logger: logger}
}

// Overview returns counts, repeatable triggers and the newest retained jobs.
func (s *Service) Overview(ctx context.Context, limit int) (*Overview, error) {
	counts, err := s.queue.Counts(ctx)
	if err != nil {
		return nil, err
	}

	var repeatables []queue.Repeatable
	for _, kind := range []string{pipeline.KindDownload, pipeline.KindProcess} {
		reps, err := s.queue.ListRepeatable(ctx, kind)
		if err != nil {
			return nil, err
		}
		repeatables = append(repeatables, reps...)
	}

	completed, err := s.queue.Recent(ctx, queue.StateCompleted, limit)
	if err != nil {
		return nil, err
	}
	failed, err := s.queue.Recent(ctx, queue.StateFailed, limit)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Counts:      counts,
		Repeatables: repeatables,
		Completed:   completed,
		Failed:      failed,
	}, nil
}

// TriggerDownload queues a one-off download of the configured feed.
func (s *Service) TriggerDownload(ctx context.Context) (*queue.Job, error) {
	return s.scheduler.EnqueueDownload(ctx, s.fileName)
}
