package cmd

import (
	"context"
	"fmt"

	"asset-resynch/core/aem"
	"asset-resynch/core/database"
	"asset-resynch/core/history"
	"asset-resynch/core/logger"
	"asset-resynch/core/storage"
	"asset-resynch/feature/integrity"
	"asset-resynch/feature/integrity/checks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	integrityFlags aemFlags
	fixFlag        bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Preflight checks before a resynch run",
	Long: `Checks that both AEM listing roots answer, that the report bucket has the expected
layout and that the history tables match the models.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, true, true, false)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the report bucket layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, true, false, false, fixFlag)
	},
}

// endpointsCmd represents the integrity endpoints command
var endpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "Check that author and publish answer for the start path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, true, false, false)
	},
}

// databaseCmd represents the integrity database command
var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Check (and with --fix migrate) the run history schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd, false, false, true, fixFlag)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, endpointsCmd, databaseCmd)

	integrityFlags.register(integrityCmd.PersistentFlags())
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	databaseCmd.Flags().BoolVar(&fixFlag, "fix", false, "Migrate the history tables")
}

func runIntegrityChecks(cmd *cobra.Command, runStructure, runEndpoints, runDatabase, fix bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	integrityFlags.apply(cmd, cfg)

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logg.Sync()

	var store storage.Client
	if runStructure {
		if store, err = storage.NewClient(cfg.Storage); err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
	}

	var repo integrity.Repository
	if runEndpoints {
		api, stopRecorder, err := integrityFlags.newAPI(cfg)
		if err != nil {
			return err
		}
		defer stopRecorder()
		repo = api
	}

	var db *gorm.DB
	if runDatabase {
		if db, err = database.Connect(cfg.Database); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
	}

	svc := integrity.NewService(store, cfg.Storage, repo, cfg.Resynch.StartPath, db, logg)

	failed := 0
	if runStructure && !checkStructure(ctx, svc, logg, fix) {
		failed++
	}
	if runEndpoints && !checkEndpoints(ctx, svc, logg) {
		failed++
	}
	if runDatabase && !checkDatabase(ctx, svc, db, logg, fix) {
		failed++
	}

	if failed > 0 {
		return fmt.Errorf("%d integrity check(s) failed", failed)
	}
	return nil
}

func checkStructure(ctx context.Context, svc *integrity.Service, logg *zap.Logger, fix bool) bool {
	logg.Info("Checking report bucket structure...")
	missing, err := svc.CheckStructure(ctx)
	if err != nil {
		logg.Error("Structure check failed", zap.Error(err))
		return false
	}
	if len(missing) == 0 {
		logg.Info("Structure is intact.")
		return true
	}

	logg.Warn("Missing folders detected", zap.Strings("missing", missing))
	if !fix {
		logg.Info("Run with --fix to create missing folders.")
		return false
	}

	logg.Info("Fixing missing folders...")
	if err := svc.FixStructure(ctx, missing); err != nil {
		logg.Error("Failed to fix structure", zap.Error(err))
		return false
	}
	logg.Info("Structure fixed successfully.")
	return true
}

func checkEndpoints(ctx context.Context, svc *integrity.Service, logg *zap.Logger) bool {
	logg.Info("Checking AEM endpoints...")
	reports, err := svc.CheckEndpoints(ctx)
	if err != nil {
		logg.Error("Endpoint check failed", zap.Error(err))
		return false
	}
	for _, r := range reports {
		fields := []zap.Field{
			zap.String("name", r.Name),
			zap.String("url", r.URL),
			zap.Int64("latency_ms", r.LatencyMillis),
		}
		if r.Status != "ok" {
			logg.Error("Endpoint unreachable", append(fields, zap.String("error", r.Error))...)
			continue
		}
		logg.Info("Endpoint reachable", append(fields, zap.Int("entities", r.Entities), zap.Bool("has_next", r.HasNext))...)
	}
	return checks.EndpointsHealthy(reports)
}

func checkDatabase(ctx context.Context, svc *integrity.Service, db *gorm.DB, logg *zap.Logger, fix bool) bool {
	logg.Info("Checking history schema integrity...")
	if fix {
		if err := history.NewStore(db).Migrate(ctx); err != nil {
			logg.Error("Migration failed", zap.Error(err))
			return false
		}
		logg.Info("History tables migrated.")
	}

	report, err := svc.CheckDatabase()
	if err != nil {
		logg.Error("History schema check failed", zap.Error(err))
		return false
	}
	if report.Matched {
		logg.Info("History schema matches the models.", zap.String("driver", report.Driver))
		return true
	}

	logg.Warn("History schema mismatches found", zap.String("driver", report.Driver))
	for table, tblReport := range report.Tables {
		if tblReport.Status == "ok" {
			continue
		}
		if len(tblReport.MissingColumns) > 0 {
			logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tblReport.MissingColumns))
		}
		if len(tblReport.TypeMismatches) > 0 {
			logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tblReport.TypeMismatches))
		}
	}
	for _, e := range report.Errors {
		logg.Error("Inspection Error", zap.String("error", e))
	}
	if !fix {
		logg.Info("Run with --fix to migrate the history tables.")
	}
	return false
}

var _ integrity.Repository = (*aem.API)(nil)
