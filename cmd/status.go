package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"asset-resynch/core/logger"
	"asset-resynch/core/reconcile"

	"github.com/spf13/cobra"
)

var (
	statusFlags  aemFlags
	statusOutput string
)

// statusResult is the machine readable output of the status command.
type statusResult struct {
	Record *reconcile.Record `json:"record" yaml:"record"`
	Action reconcile.Action  `json:"action" yaml:"action"`
}

// statusCmd inspects a single asset without traversing the tree.
var statusCmd = &cobra.Command{
	Use:   "status <path>",
	Short: "Show presence, activation and the resynch action for one asset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validOutput(statusOutput); err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		statusFlags.apply(cmd, cfg)
		if cfg.Resynch.StartPath == "" {
			// Inspect does not traverse, any start path satisfies the engine
			cfg.Resynch.StartPath = "/"
		}

		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer l.Sync()

		api, stopRecorder, err := statusFlags.newAPI(cfg)
		if err != nil {
			return err
		}
		defer stopRecorder()

		engine, err := reconcile.NewEngine(api, cfg.Resynch, l, nil)
		if err != nil {
			return err
		}

		rec, action, err := engine.Inspect(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if statusOutput != outputTable {
			return writeValue(os.Stdout, statusOutput, statusResult{Record: rec, Action: action})
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "Path:\t%s\n", rec.Path)
		fmt.Fprintf(tw, "Class:\t%s\n", rec.Class)
		fmt.Fprintf(tw, "Author:\t%s\n", yesNo(rec.OnAuthor))
		fmt.Fprintf(tw, "Publish:\t%s\n", yesNo(rec.OnPublish))
		fmt.Fprintf(tw, "Activation:\t%s\n", rec.Activation)
		fmt.Fprintf(tw, "Action:\t%s\n", action.Type)
		if action.Reason != "" {
			fmt.Fprintf(tw, "Reason:\t%s\n", action.Reason)
		}
		return tw.Flush()
	},
}

func init() {
	statusFlags.register(statusCmd.Flags())
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", outputTable, "Output format: table, json or yaml")
	RootCmd.AddCommand(statusCmd)
}
