package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/queue"
	"catalog-sync/feature/feed/decode"
	"catalog-sync/feature/feed/download"
	"catalog-sync/feature/feed/reconcile"

	"go.uber.org/zap"
)

// Locker grants per-resource mutual exclusion.
type Locker interface {
	Lock(ctx context.Context, name string, ttl time.Duration) (*queue.Lock, error)
}

// Fetcher downloads one remote file.
type Fetcher interface {
	Download(ctx context.Context, fileName, localPath string) (download.Result, error)
}

// Archiver keeps a copy of a downloaded feed.
type Archiver interface {
	Archive(ctx context.Context, localPath string) (string, error)
}

// Applier reconciles one record.
type Applier interface {
	Apply(ctx context.Context, rec decode.Record) (reconcile.Outcome, error)
}

// Stats summarizes one processed feed.
type Stats struct {
	PipeStats
	Outcomes map[reconcile.Outcome]int
}

// Runner executes the two pipeline job kinds.
type Runner struct {
	cfg       Config
	locker    Locker
	scheduler *Scheduler
	fetcher   Fetcher
	archiver  Archiver
	applier   Applier
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// Option customizes a Runner.
type Option func(*Runner)

// WithArchiver uploads every downloaded feed before processing is queued.
func WithArchiver(a Archiver) Option {
	return func(r *Runner) { r.archiver = a }
}

// WithMetrics records reconciliation outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner creates a runner.
func NewRunner(cfg Config, locker Locker, scheduler *Scheduler, fetcher Fetcher, applier Applier, logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		locker:    locker,
		scheduler: scheduler,
		fetcher:   fetcher,
		applier:   applier,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs the job handlers on w.
func (r *Runner) Register(w *queue.Worker) {
	w.Handle(KindDownload, r.HandleDownload)
	w.Handle(KindProcess, r.HandleProcess)
}

func (r *Runner) fileName(job *queue.Job) (string, error) {
	var p Payload
	if err := job.Decode(&p); err != nil {
		return "", err
	}
	if p.FileName == "" {
		return r.cfg.FileName, nil
	}
	return p.FileName, nil
}

// lock takes the per-file lock. The returned unlock is safe to call more than once.
func (r *Runner) lock(ctx context.Context, fileName string) (func(), error) {
	l, err := r.locker.Lock(ctx, "feed:"+fileName, r.cfg.lockTTL())
	if err != nil {
		return nil, err
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			if err := l.Release(context.Background()); err != nil {
				r.logger.Warn("Failed to release feed lock", zap.String("file_name", fileName), zap.Error(err))
			}
		})
	}, nil
}

// HandleDownload fetches the feed and, on success, queues its processing.
func (r *Runner) HandleDownload(ctx context.Context, job *queue.Job) error {
	fileName, err := r.fileName(job)
	if err != nil {
		return err
	}
	l := logger.WithJob(r.logger, job.ID, job.Kind).With(zap.String("file_name", fileName))

	unlock, err := r.lock(ctx, fileName)
	if err != nil {
		return err
	}
	defer unlock()

	localPath := r.cfg.LocalPath(fileName)
	res, err := r.fetcher.Download(ctx, fileName, localPath)
	if err != nil {
		return err
	}

	if r.archiver != nil {
		key, err := r.archiver.Archive(ctx, res.LocalPath)
		if err != nil {
			l.Warn("Feed archive failed", zap.Error(err))
		} else {
			l.Info("Feed archived", zap.String("object", key))
		}
	}

	// The chained job takes the same lock, possibly on another worker, as soon
	// as it is queued.
	unlock()
	next, err := r.scheduler.EnqueueProcess(ctx, fileName)
	if err != nil {
		r.remove(l, localPath)
		return err
	}

	l.Info("Queued feed processing", zap.String("next_job_id", next.ID), zap.Int64("bytes", res.Bytes))
	return nil
}

// HandleProcess reconciles the downloaded feed. The local file is removed
// afterwards whatever the result.
func (r *Runner) HandleProcess(ctx context.Context, job *queue.Job) error {
	fileName, err := r.fileName(job)
	if err != nil {
		return err
	}
	l := logger.WithJob(r.logger, job.ID, job.Kind).With(zap.String("file_name", fileName))

	unlock, err := r.lock(ctx, fileName)
	if err != nil {
		return err
	}
	defer unlock()

	localPath := r.cfg.LocalPath(fileName)
	defer r.remove(l, localPath)

	stats, err := r.Process(ctx, localPath)
	fields := []zap.Field{
		zap.Int("records", stats.Records),
		zap.Int("peak_buffered", stats.PeakBuffered),
		zap.Any("outcomes", stats.Outcomes),
	}
	if err != nil {
		l.Warn("Feed processing aborted", fields...)
		return err
	}

	l.Info("Feed processed", fields...)
	return nil
}

// ProcessExclusive runs Process under the lock of the feed's file name, so it
// never overlaps a queued job on the same feed. The file is left in place.
func (r *Runner) ProcessExclusive(ctx context.Context, path string) (Stats, error) {
	unlock, err := r.lock(ctx, filepath.Base(path))
	if err != nil {
		return Stats{}, err
	}
	defer unlock()
	return r.Process(ctx, path)
}

// Process streams the feed at path through the reconciliation engine.
// Records applied before a failure stay applied.
func (r *Runner) Process(ctx context.Context, path string) (Stats, error) {
	stats := Stats{Outcomes: make(map[reconcile.Outcome]int)}

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open feed %s: %w", path, err)
	}
	defer f.Close()

	sink := func(ctx context.Context, rec decode.Record) error {
		outcome, err := r.applier.Apply(ctx, rec)
		if err != nil {
			return err
		}
		stats.Outcomes[outcome]++
		if r.metrics != nil {
			r.metrics.RecordOutcome(string(outcome))
		}
		return nil
	}

	stats.PipeStats, err = Pipe(ctx, decode.NewDecoder(f), sink, r.cfg.HighWater)
	return stats, err
}

func (r *Runner) remove(l *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.Warn("Failed to remove feed file", zap.String("path", path), zap.Error(err))
	}
}
