package checks

import (
	"context"
	"fmt"
	"strings"

	"asset-resynch/core/storage"

	"go.uber.org/zap"
)

// RequiredFolders lists the folders that must exist in the report bucket.
func RequiredFolders(cfg storage.Config) []string {
	prefix := strings.Trim(cfg.ReportsPrefix, "/")
	if prefix == "" {
		prefix = "reports"
	}
	return []string{prefix}
}

// CheckStructure returns the folders missing from the bucket. A missing bucket is an error.
func CheckStructure(ctx context.Context, client storage.Client, bucket string, folders []string) ([]string, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}

	var missing []string
	for _, folder := range folders {
		if !storage.FolderExists(ctx, client, bucket, folder) {
			missing = append(missing, folder)
		}
	}
	return missing, nil
}

// FixStructure writes a marker object for every missing folder and stops at the first failure.
func FixStructure(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger, missing []string) error {
	for _, folder := range missing {
		if err := storage.MakeFolder(ctx, client, bucket, folder); err != nil {
			logger.Error("Failed to create folder", zap.String("bucket", bucket), zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("bucket", bucket), zap.String("folder", folder))
	}
	return nil
}
