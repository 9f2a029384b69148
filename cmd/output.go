package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"asset-resynch/core/reconcile"

	"gopkg.in/yaml.v3"
)

const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("unsupported output format %q (table, json, yaml)", format)
}

// writeValue encodes v as JSON or YAML.
func writeValue(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return validOutput(format)
}

// printReport writes a run report in the requested format.
func printReport(w io.Writer, report *reconcile.Report, format string) error {
	if format != outputTable {
		return writeValue(w, format, report)
	}

	mode := "dry-run"
	if !report.DryRun {
		mode = "live"
	}
	fmt.Fprintf(w, "Run %s (%s) on %s\n\n", report.RunID, mode, report.StartPath)

	if report.Plan != nil {
		printRecords(w, report.Plan.Records)
		fmt.Fprintln(w)
		printActions(w, report.Plan.Actions, report.DryRun)
		fmt.Fprintln(w)
		printSummary(w, report)
	}
	if report.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", report.Error)
	}
	return nil
}

func printRecords(w io.Writer, records []reconcile.Record) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tCLASS\tAUTHOR\tPUBLISH\tACTIVATION")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Path, r.Class, yesNo(r.OnAuthor), yesNo(r.OnPublish), r.Activation)
	}
	_ = tw.Flush()
}

func printActions(w io.Writer, actions []reconcile.Action, dryRun bool) {
	if len(actions) == 0 {
		fmt.Fprintln(w, "No actions required.")
		return
	}
	title := "Actions taken:"
	if dryRun {
		title = "Actions that would be taken:"
	}
	fmt.Fprintln(w, title)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACTION\tPATH\tREASON")
	for _, a := range actions {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Type, a.Path, a.Reason)
	}
	_ = tw.Flush()
}

func printSummary(w io.Writer, report *reconcile.Report) {
	s := report.Plan.Summary
	fmt.Fprintf(w, "Items: %d (author %d, publish %d, activated %d, unknown status %d)\n",
		s.TotalItems, s.OnAuthor, s.OnPublish, s.Activated, s.UnknownStatus)
	fmt.Fprintf(w, "Activate: %d  Deactivate: %d  Skipped: %d  Executed: %d\n",
		s.ActivateActions, s.DeactivateActions, s.Skipped, report.Executed)
	if !report.FinishedAt.IsZero() {
		fmt.Fprintf(w, "Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
