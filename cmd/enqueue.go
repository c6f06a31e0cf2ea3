package cmd

import (
	"context"
	"fmt"

	"catalog-sync/feature/feed/pipeline"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var enqueueFile string

// enqueueCmd resubmits a pipeline stage manually.
var enqueueCmd = &cobra.Command{
	Use:       "enqueue [download|process]",
	Short:     "Queue a pipeline job manually",
	Long:      `Queues a download (fetch and process) or a process job for an already downloaded feed.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"download", "process"},
	RunE:      runEnqueue,
}

func init() {
	enqueueCmd.Flags().StringVar(&enqueueFile, "file", "", "Feed file name (defaults to feed.file_name)")
	RootCmd.AddCommand(enqueueCmd)
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer l.Sync()

	q, err := openQueue(cfg.Queue)
	if err != nil {
		return err
	}

	fileName := enqueueFile
	if fileName == "" {
		fileName = cfg.Feed.FileName
	}

	scheduler := pipeline.NewScheduler(q, cfg.Feed, l)
	switch args[0] {
	case "download":
		job, err := scheduler.EnqueueDownload(ctx, fileName)
		if err != nil {
			return err
		}
		l.Info("Download queued", zap.String("job_id", job.ID), zap.String("file_name", fileName))
	case "process":
		job, err := scheduler.EnqueueProcess(ctx, fileName)
		if err != nil {
			return err
		}
		l.Info("Processing queued", zap.String("job_id", job.ID), zap.String("file_name", fileName))
	default:
		return fmt.Errorf("unknown stage: %s", args[0])
	}
	return nil
}
