package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"asset-resynch/core/reconcile"

	"github.com/minio/minio-go/v7"
)

// ReportObjectName returns the object key of a run report: <prefix>/<yyyy>/<mm>/<runID>.json.
func ReportObjectName(prefix, runID string, started time.Time) string {
	return path.Join(prefix, started.UTC().Format("2006"), started.UTC().Format("01"), runID+".json")
}

// EnsureBucket creates the bucket if it does not exist yet.
func EnsureBucket(ctx context.Context, client Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return nil
}

// ArchiveReport uploads a run report as JSON and returns its object name.
func ArchiveReport(ctx context.Context, client Client, cfg Config, report *reconcile.Report) (string, error) {
	if report == nil || report.RunID == "" {
		return "", fmt.Errorf("report with run id is required")
	}
	if err := EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	objectName := ReportObjectName(cfg.ReportsPrefix, report.RunID, report.StartedAt)
	_, err = client.PutObject(ctx, cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report %s: %w", objectName, err)
	}
	return objectName, nil
}

// LoadReport downloads and decodes an archived report.
func LoadReport(ctx context.Context, client Client, bucket, objectName string) (*reconcile.Report, error) {
	obj, err := client.GetObject(ctx, bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get report %s: %w", objectName, err)
	}
	defer obj.Close()

	var report reconcile.Report
	if err := json.NewDecoder(obj).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", objectName, err)
	}
	return &report, nil
}

// ListReports returns the archived report objects under prefix, oldest first.
func ListReports(ctx context.Context, client Client, bucket, prefix string) ([]minio.ObjectInfo, error) {
	// stops the listing goroutine when returning early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var reports []minio.ObjectInfo
	for obj := range client.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix + "/", Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		reports = append(reports, obj)
	}
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].LastModified.Equal(reports[j].LastModified) {
			return reports[i].Key < reports[j].Key
		}
		return reports[i].LastModified.Before(reports[j].LastModified)
	})
	return reports, nil
}

// PruneReports removes the oldest reports so that at most keep remain. keep <= 0 keeps everything.
func PruneReports(ctx context.Context, client Client, cfg Config, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	reports, err := ListReports(ctx, client, cfg.Bucket, cfg.ReportsPrefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for i := 0; i < len(reports)-keep; i++ {
		if err := client.RemoveObject(ctx, cfg.Bucket, reports[i].Key, minio.RemoveObjectOptions{}); err != nil {
			return removed, fmt.Errorf("failed to remove report %s: %w", reports[i].Key, err)
		}
		removed++
	}
	return removed, nil
}
