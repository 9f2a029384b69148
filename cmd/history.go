package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"asset-resynch/core/database"
	"asset-resynch/core/history"
	"asset-resynch/core/storage"

	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historyOutput  string
	historyArchive bool
)

// historyCmd lists stored runs, or shows one run with its actions.
var historyCmd = &cobra.Command{
	Use:   "history [run-id | report-object]",
	Short: "List recent resynch runs or show one run",
	Long: `Lists the runs recorded with --history, newest first, or shows one run with its actions.
With --archive the reports uploaded with --archive are read from the storage bucket instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validOutput(historyOutput); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if historyArchive {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to create storage client: %w", err)
			}
			return showArchive(cmd.Context(), os.Stdout, client, cfg.Storage, args)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		store := history.NewStore(db)
		// reading never migrates
		missing, err := store.Missing()
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("history tables are incomplete (%v), run 'asset-resynch integrity database --fix'", missing)
		}

		if len(args) == 1 {
			run, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			if err != nil {
				return err
			}
			if historyOutput != outputTable {
				return writeValue(os.Stdout, historyOutput, run)
			}
			printRuns([]history.Run{*run})
			fmt.Println()
			printRunActions(run.Actions)
			return nil
		}

		runs, err := store.Recent(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if historyOutput != outputTable {
			return writeValue(os.Stdout, historyOutput, runs)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}
		printRuns(runs)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")
	historyCmd.Flags().StringVarP(&historyOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	historyCmd.Flags().BoolVar(&historyArchive, "archive", false, "Read archived reports from the storage bucket")
	RootCmd.AddCommand(historyCmd)
}

func printRuns(runs []history.Run) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSTARTED\tPATH\tMODE\tITEMS\tACTIVATE\tDEACTIVATE\tEXECUTED\tERROR")
	for _, r := range runs {
		mode := "live"
		if r.DryRun {
			mode = "dry-run"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.StartPath, mode,
			r.TotalItems, r.ActivateActions, r.DeactivateActions, r.Executed, r.Error)
	}
	_ = tw.Flush()
}

func printRunActions(actions []history.RunAction) {
	if len(actions) == 0 {
		fmt.Println("No actions.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tACTION\tPATH\tREASON\tEXECUTED")
	for _, a := range actions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.Seq, a.Type, a.Path, a.Reason, yesNo(a.Executed))
	}
	_ = tw.Flush()
}

// showArchive lists the newest archived reports, or prints one of them.
func showArchive(ctx context.Context, w io.Writer, client storage.Client, cfg storage.Config, args []string) error {
	if len(args) == 1 {
		report, err := storage.LoadReport(ctx, client, cfg.Bucket, args[0])
		if err != nil {
			return err
		}
		return printReport(w, report, historyOutput)
	}

	reports, err := storage.ListReports(ctx, client, cfg.Bucket, cfg.ReportsPrefix)
	if err != nil {
		return err
	}
	if len(reports) > historyLimit && historyLimit > 0 {
		reports = reports[len(reports)-historyLimit:]
	}
	names := make([]string, 0, len(reports))
	for i := len(reports) - 1; i >= 0; i-- {
		names = append(names, reports[i].Key)
	}
	if historyOutput != outputTable {
		return writeValue(w, historyOutput, names)
	}
	if len(names) == 0 {
		fmt.Fprintln(w, "No reports archived.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT\tMODIFIED\tSIZE")
	for i := len(reports) - 1; i >= 0; i-- {
		r := reports[i]
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Key, r.LastModified.Local().Format("2006-01-02 15:04:05"), r.Size)
	}
	return tw.Flush()
}
