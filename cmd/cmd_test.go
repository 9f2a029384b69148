package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"asset-resynch/core/config"
	"asset-resynch/core/reconcile"
	"asset-resynch/core/storage"
	"asset-resynch/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vbauerster/mpb/v8"
	"gopkg.in/yaml.v3"
)

func sampleReport() *reconcile.Report {
	started := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &reconcile.Report{
		RunID:      "run-1",
		StartPath:  "/brand",
		DryRun:     true,
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Plan: &reconcile.Plan{
			Records: []reconcile.Record{
				{Path: "brand/a.png", Class: reconcile.ClassAsset, OnAuthor: true, Activation: reconcile.Active},
				{Path: "brand/c.png", Class: reconcile.ClassAsset, OnPublish: true},
			},
			Actions: []reconcile.Action{
				{Type: reconcile.ActionActivate, Path: "brand/a.png", Reason: reconcile.ReasonReplicate},
				{Type: reconcile.ActionDeactivate, Path: "brand/c.png", Reason: reconcile.ReasonOrphaned},
			},
			Summary: reconcile.PlanSummary{TotalItems: 2, OnAuthor: 1, OnPublish: 1, Activated: 1, ActivateActions: 1, DeactivateActions: 1},
		},
	}
}

func TestValidOutput(t *testing.T) {
	for _, f := range []string{"table", "json", "yaml"} {
		assert.NoError(t, validOutput(f))
	}
	assert.Error(t, validOutput("xml"))
}

func TestPrintReport_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), outputTable))

	out := buf.String()
	assert.Contains(t, out, "Run run-1 (dry-run) on /brand")
	assert.Contains(t, out, "Actions that would be taken:")
	assert.Contains(t, out, "brand/a.png")
	assert.Contains(t, out, "activate")
	assert.Contains(t, out, "Activate: 1  Deactivate: 1  Skipped: 0  Executed: 0")
	assert.Contains(t, out, "Duration: 1.5s")
}

func TestPrintReport_LiveWithError(t *testing.T) {
	report := sampleReport()
	report.DryRun = false
	report.Executed = 1
	report.Error = "transport error during replicate of brand/c.png"

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report, outputTable))

	out := buf.String()
	assert.Contains(t, out, "(live)")
	assert.Contains(t, out, "Actions taken:")
	assert.Contains(t, out, "Error: transport error")
}

func TestPrintReport_NoActions(t *testing.T) {
	report := sampleReport()
	report.Plan.Actions = nil

	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, report, outputTable))
	assert.Contains(t, buf.String(), "No actions required.")
}

func TestPrintReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), outputJSON))

	var decoded reconcile.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	require.NotNil(t, decoded.Plan)
	assert.Equal(t, reconcile.Active, decoded.Plan.Records[0].Activation)
}

func TestPrintReport_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, sampleReport(), outputYAML))

	assert.Contains(t, buf.String(), "activation: active")

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
}

func TestConfirmLiveRun(t *testing.T) {
	defer func() { yesConfirm = false }()

	var out bytes.Buffer
	assert.True(t, confirmLiveRun(strings.NewReader("yes\n"), &out, 3))
	assert.Contains(t, out.String(), "3 replication commands")

	assert.False(t, confirmLiveRun(strings.NewReader("no\n"), io.Discard, 3))
	assert.False(t, confirmLiveRun(strings.NewReader(""), io.Discard, 3))

	yesConfirm = true
	assert.True(t, confirmLiveRun(strings.NewReader(""), io.Discard, 3))
}

func TestAEMFlags_Apply(t *testing.T) {
	var f aemFlags
	c := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	f.register(c.Flags())
	require.NoError(t, c.Flags().Parse([]string{"--author", "https://author", "--workers", "8", "--path", "/brand"}))

	cfg := &config.Config{}
	cfg.AEM.PublishURL = "https://publish"
	cfg.Resynch.StrictStatus = true
	f.apply(c, cfg)

	assert.Equal(t, "https://author", cfg.AEM.AuthorURL)
	assert.Equal(t, "https://publish", cfg.AEM.PublishURL, "unchanged flags keep the loaded value")
	assert.Equal(t, 8, cfg.Resynch.Workers)
	assert.Equal(t, "/brand", cfg.Resynch.StartPath)
	assert.True(t, cfg.Resynch.StrictStatus)
}

func TestProgress(t *testing.T) {
	pr := newProgress(mpb.WithOutput(io.Discard))

	pr.Start(reconcile.PhaseAuthor, 0)
	pr.Step(reconcile.PhaseAuthor)
	pr.Step(reconcile.PhaseAuthor)
	pr.Done(reconcile.PhaseAuthor)

	pr.Start(reconcile.PhaseStatus, 2)
	pr.Step(reconcile.PhaseStatus)
	pr.Step(reconcile.PhaseStatus)
	pr.Done(reconcile.PhaseStatus)

	// unknown phases are ignored
	pr.Step(reconcile.PhaseDispatch)
	pr.Done(reconcile.PhaseDispatch)

	done := make(chan struct{})
	go func() {
		pr.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("progress did not finish")
	}
}

func TestShowArchive(t *testing.T) {
	cfg := storage.Config{Bucket: "reports-bucket", ReportsPrefix: "reports"}
	oldLimit, oldOutput := historyLimit, historyOutput
	t.Cleanup(func() { historyLimit, historyOutput = oldLimit, oldOutput })
	historyOutput = outputJSON

	t.Run("List newest first", func(t *testing.T) {
		historyLimit = 2
		now := time.Now()
		client := mocks.NewClient(t)
		client.On("ListObjects", mock.Anything, "reports-bucket", mock.Anything).Return(mocks.Listing(
			minio.ObjectInfo{Key: "reports/2026/01/a.json", LastModified: now.Add(-2 * time.Hour)},
			minio.ObjectInfo{Key: "reports/2026/03/c.json", LastModified: now},
			minio.ObjectInfo{Key: "reports/2026/02/b.json", LastModified: now.Add(-time.Hour)},
		))

		var buf bytes.Buffer
		require.NoError(t, showArchive(context.Background(), &buf, client, cfg, nil))

		var names []string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &names))
		assert.Equal(t, []string{"reports/2026/03/c.json", "reports/2026/02/b.json"}, names)
	})

	t.Run("Show one", func(t *testing.T) {
		data, err := json.Marshal(sampleReport())
		require.NoError(t, err)
		client := mocks.NewClient(t)
		client.On("GetObject", mock.Anything, "reports-bucket", "reports/2024/03/run-1.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader(data)), nil)

		var buf bytes.Buffer
		require.NoError(t, showArchive(context.Background(), &buf, client, cfg, []string{"reports/2024/03/run-1.json"}))

		var got reconcile.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, "run-1", got.RunID)
	})
}

func TestCheckCassette(t *testing.T) {
	assert.NoError(t, checkCassette(true, "aem"))
	assert.NoError(t, checkCassette(false, ""))

	err := checkCassette(false, "aem")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--resynch")
}
