package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"catalog-sync/feature/catalog"
	"catalog-sync/feature/feed/decode"
	"catalog-sync/feature/feed/pipeline"
	"catalog-sync/feature/feed/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dryRunProcess bool
	yesConfirm    bool
)

// processCmd reconciles a local feed file without the queue.
var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Reconcile a local feed file against the catalog",
	Long: `Streams a local feed file through the reconciliation engine, bypassing the queue.
The run holds the same per-file lock as queued jobs, so Redis must be reachable;
a running job on the same file name makes the command fail instead of overlapping.

Examples:
  # Decode only, report what the feed contains
  process TobaccoData.xml --dry-run

  # Apply with auto-confirm (non-interactive)
  process TobaccoData.xml --yes`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&dryRunProcess, "dry-run", false, "Decode the feed without touching the catalog")
	processCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm catalog changes (non-interactive)")
	RootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	cfg, l, err := loadRuntime()
	if err != nil {
		return err
	}
	defer l.Sync()

	if dryRunProcess {
		return decodeOnly(ctx, l, path, cfg.Feed.HighWater)
	}

	if !confirmCatalogChanges() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	db, err := openCatalog(cfg.Database)
	if err != nil {
		return err
	}

	q, err := openQueue(cfg.Queue)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cfg.Feed, q, nil, nil, reconcile.NewEngine(catalog.NewStore(db), l), l)
	stats, err := runner.ProcessExclusive(ctx, path)
	printProcessReport(l, stats)
	return err
}

func decodeOnly(ctx context.Context, l *zap.Logger, path string, highWater int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open feed %s: %w", path, err)
	}
	defer f.Close()

	flags := map[string]int{}
	groups := map[string]struct{}{}
	stats, err := pipeline.Pipe(ctx, decode.NewDecoder(f), func(ctx context.Context, rec decode.Record) error {
		flags[rec.Disbarred]++
		groups[rec.GroupCode] = struct{}{}
		return nil
	}, highWater)
	if err != nil {
		return err
	}

	l.Info("Feed decoded",
		zap.Int("records", stats.Records),
		zap.Int("groups", len(groups)),
		zap.Int("listed", flags[decode.Listed]),
		zap.Int("disbarred", flags[decode.Disbarred]),
	)
	return nil
}

// printProcessReport logs the reconciliation outcome counts.
func printProcessReport(l *zap.Logger, stats pipeline.Stats) {
	l.Info("Reconciliation report",
		zap.Int("records", stats.Records),
		zap.Int("created", stats.Outcomes[reconcile.OutcomeCreated]),
		zap.Int("updated", stats.Outcomes[reconcile.OutcomeUpdated]),
		zap.Int("unchanged", stats.Outcomes[reconcile.OutcomeUnchanged]),
		zap.Int("deactivated", stats.Outcomes[reconcile.OutcomeDeactivated]),
		zap.Int("skipped", stats.Outcomes[reconcile.OutcomeSkipped]),
		zap.Int("peak_buffered", stats.PeakBuffered),
	)
}

// confirmCatalogChanges prompts the user for confirmation or uses --yes flag.
func confirmCatalogChanges() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply the feed to the catalog: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
