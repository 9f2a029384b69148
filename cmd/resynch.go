package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"asset-resynch/core/config"
	"asset-resynch/core/database"
	"asset-resynch/core/history"
	"asset-resynch/core/logger"
	"asset-resynch/core/reconcile"
	"asset-resynch/core/storage"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resynchFlags aemFlags

	liveFlag        bool
	delayFlag       int
	ticsFlag        bool
	outputFlag      string
	archiveFlag     bool
	archiveKeepFlag int
	historyFlag     bool
	yesConfirm      bool
)

// resynchCmd compares author and publish and replicates what is out of sync.
var resynchCmd = &cobra.Command{
	Use:   "resynch",
	Short: "Compare author and publish and fix replication drift",
	Long: `Traverses the asset tree below --path on author and publish, reads the last
replication action of every asset on author and decides per asset:

  activated on author, missing on publish   -> Activate
  on publish, not activated on author       -> Deactivate

Without --resynch nothing is replicated: every action is logged and delayed as in a live
run so the duration can be estimated.

Examples:
  # Dry run
  asset-resynch resynch --author https://author:4502 --publish https://publish:4503 \
    --user admin --password secret --path /myfolder

  # Live run with auto-confirm and 4 concurrent requests
  asset-resynch resynch --path /myfolder --resynch --yes --workers 4 --delay 1000`,
	RunE: runResynch,
}

func init() {
	resynchFlags.register(resynchCmd.Flags())
	resynchCmd.Flags().BoolVar(&liveFlag, "resynch", false, "Send replication commands (default is a dry run)")
	resynchCmd.Flags().IntVar(&delayFlag, "delay", 5000, "Delay in milliseconds before each replication command")
	resynchCmd.Flags().BoolVar(&ticsFlag, "tics", false, "Show progress bars (ignored with --debug)")
	resynchCmd.Flags().StringVarP(&outputFlag, "output", "o", outputTable, "Output format: table, json or yaml")
	resynchCmd.Flags().BoolVar(&archiveFlag, "archive", false, "Upload the run report to the storage bucket")
	resynchCmd.Flags().IntVar(&archiveKeepFlag, "archive-keep", 0, "Keep only the newest N archived reports (0 keeps all)")
	resynchCmd.Flags().BoolVar(&historyFlag, "history", false, "Store the run in the history database")
	resynchCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm a live run (non-interactive)")

	RootCmd.AddCommand(resynchCmd)
}

func runResynch(cmd *cobra.Command, args []string) error {
	if err := validOutput(outputFlag); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resynchFlags.apply(cmd, cfg)
	if cmd.Flags().Changed("resynch") {
		cfg.Resynch.DryRun = !liveFlag
	}
	if cmd.Flags().Changed("delay") {
		cfg.Resynch.DelayMillis = delayFlag
	}
	if err := checkCassette(cfg.Resynch.DryRun, resynchFlags.cassette); err != nil {
		return err
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	api, stopRecorder, err := resynchFlags.newAPI(cfg)
	if err != nil {
		return err
	}
	defer stopRecorder()

	var observer reconcile.Observer
	var bars *progress
	if ticsFlag && !debugFlag {
		bars = newProgress()
		observer = bars
	}

	engine, err := reconcile.NewEngine(api, cfg.Resynch, l, observer)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report := &reconcile.Report{
		RunID:     uuid.NewString(),
		StartPath: cfg.Resynch.StartPath,
		DryRun:    cfg.Resynch.DryRun,
		StartedAt: time.Now(),
	}
	l = l.With(zap.String("run_id", report.RunID))
	l.Info("Starting resynch",
		zap.String("path", report.StartPath),
		zap.Bool("dry_run", report.DryRun),
		zap.Int("delay_ms", cfg.Resynch.DelayMillis))

	runErr := executeRun(ctx, engine, report, os.Stdin, os.Stdout)
	if bars != nil {
		bars.Wait()
	}
	report.FinishedAt = time.Now()
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if err := printReport(os.Stdout, report, outputFlag); err != nil {
		l.Error("Failed to print report", zap.Error(err))
	}

	// persistence runs even after a failed run so the failure is on record
	persistErr := persistReport(context.WithoutCancel(ctx), cfg, report, l)
	return errors.Join(runErr, persistErr)
}

// checkCassette refuses cassettes on live runs: a replayed listing is a stale inventory.
func checkCassette(dryRun bool, cassette string) error {
	if !dryRun && cassette != "" {
		return errors.New("--cassette replays recorded listings and cannot be combined with a live run (--resynch)")
	}
	return nil
}

// executeRun plans, asks for confirmation of a live run and applies the plan.
func executeRun(ctx context.Context, engine *reconcile.Engine, report *reconcile.Report, in io.Reader, out io.Writer) error {
	plan, err := engine.Plan(ctx)
	if err != nil {
		return err
	}
	report.Plan = plan

	if !report.DryRun && len(plan.Actions) > 0 {
		if !confirmLiveRun(in, out, len(plan.Actions)) {
			// nothing was sent, so the report is a dry run
			report.DryRun = true
			report.Error = "cancelled by user"
			return nil
		}
	}

	executed, err := engine.Apply(ctx, plan)
	report.Executed = executed
	return err
}

// confirmLiveRun prompts the user for confirmation or uses --yes flag.
func confirmLiveRun(in io.Reader, out io.Writer, actions int) bool {
	if yesConfirm {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(out, "\n⚠️  %d replication commands will be sent. Type 'yes' to confirm: ", actions)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}

// persistReport archives the report and records it in the history database when requested.
func persistReport(ctx context.Context, cfg *config.Config, report *reconcile.Report, l *zap.Logger) error {
	var errs []error

	if archiveFlag {
		if err := archiveRun(ctx, cfg.Storage, report, l); err != nil {
			errs = append(errs, fmt.Errorf("archive: %w", err))
		}
	}
	if historyFlag {
		if err := recordRun(ctx, cfg.Database, report, l); err != nil {
			errs = append(errs, fmt.Errorf("history: %w", err))
		}
	}
	return errors.Join(errs...)
}

func archiveRun(ctx context.Context, cfg storage.Config, report *reconcile.Report, l *zap.Logger) error {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}
	name, err := storage.ArchiveReport(ctx, client, cfg, report)
	if err != nil {
		return err
	}
	l.Info("Report archived", zap.String("bucket", cfg.Bucket), zap.String("object", name))

	removed, err := storage.PruneReports(ctx, client, cfg, archiveKeepFlag)
	if err != nil {
		return err
	}
	if removed > 0 {
		l.Info("Old reports pruned", zap.Int("removed", removed))
	}
	return nil
}

func recordRun(ctx context.Context, cfg database.Config, report *reconcile.Report, l *zap.Logger) error {
	store, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	if err := store.Record(ctx, report); err != nil {
		return err
	}
	l.Info("Run recorded", zap.String("driver", cfg.Driver))
	return nil
}

// openHistory connects to the history database and migrates its tables.
func openHistory(ctx context.Context, cfg database.Config) (*history.Store, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	store := history.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
