package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/metrics"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/core/queue"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/feed"
	"catalog-sync/feature/feed/download"
	"catalog-sync/feature/feed/pipeline"
	"catalog-sync/feature/feed/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync worker and API",
	Long: `Registers the recurring feed download, runs the job worker and, unless
disabled, serves the observability API.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	// 1. Configuration and logger
	cfg, logg, err := loadRuntime()
	if err != nil {
		return err
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Catalog database (required: the worker mutates it)
	db, err := openCatalog(cfg.Database)
	if err != nil {
		return err
	}
	store := catalog.NewStore(db)
	logg.Info("Connected to catalog database", zap.String("driver", cfg.Database.Driver))

	// 3. Queue
	q, err := openQueue(cfg.Queue)
	if err != nil {
		return err
	}
	m := metrics.New()

	// 4. Pipeline
	scheduler := pipeline.NewScheduler(q, cfg.Feed, logg)
	if _, err := scheduler.EnsureRecurringDownload(ctx, cfg.Feed.Cron); err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithMetrics(m)}
	if cfg.Storage.Archive {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return err
		}
		opts = append(opts, pipeline.WithArchiver(storage.NewArchiver(client, cfg.Storage)))
		logg.Info("Feed archive enabled", zap.String("bucket", cfg.Storage.Bucket))
	}

	runner := pipeline.NewRunner(
		cfg.Feed,
		q,
		scheduler,
		download.New(cfg.FTP, logg),
		reconcile.NewEngine(store, logg),
		logg,
		opts...,
	)

	worker := queue.NewWorker(q, logg, cfg.Queue)
	runner.Register(worker)
	worker.OnCompleted(func(j *queue.Job) {
		m.RecordJob(j.Kind, string(queue.StateCompleted), jobDuration(j))
	})
	worker.OnFailed(func(j *queue.Job, err error) {
		m.RecordJob(j.Kind, string(queue.StateFailed), jobDuration(j))
	})

	// 5. HTTP (optional)
	var app *fiber.App
	if cfg.Server.Enabled {
		app = newApp(cfg.Server.ApiKey, logg, m)

		mgr := loader.NewManager(logg)
		mgr.Register(catalog.NewFeature(store, logg))
		mgr.Register(feed.NewFeature(q, scheduler, cfg.Feed.FileName, logg))
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Error("Server stopped", zap.Error(err))
				stop()
			}
		}()
	}

	// 6. Worker until signal
	err = worker.Run(ctx)

	logg.Info("Shutting down...")
	if app != nil {
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}
	return err
}

// newApp builds the Fiber app with the global middleware chain.
func newApp(apiKey string, logg *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID must be first to trace everything
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})
	app.Use(m.Middleware())

	// Probes stay public
	app.Use(auth.New(auth.Config{ApiKey: apiKey, Skip: []string{"/health", "/metrics"}}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", m.Handler())

	return app
}

func jobDuration(j *queue.Job) time.Duration {
	if j.StartedAt == nil || j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(*j.StartedAt)
}
