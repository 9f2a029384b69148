package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client is the subset of the S3 API the report archive and the integrity checks use.
type Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	// GetObject returns the object body. Errors for missing objects surface on first read.
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// NewClient creates a MinIO backed client. The connection is lazy, so an unreachable
// endpoint only shows up on the first operation.
func NewClient(cfg Config) (Client, error) {
	host, secure, err := endpointHost(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.timeout()
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}

	mc, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &objectStore{Client: mc}, nil
}

// endpointHost strips an optional scheme from endpoint. An https scheme forces TLS.
func endpointHost(endpoint string, useSSL bool) (string, bool, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("storage endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), useSSL, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid storage endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "http":
		return u.Host, useSSL, nil
	case "https":
		return u.Host, true, nil
	}
	return "", false, fmt.Errorf("unsupported storage endpoint scheme %q", u.Scheme)
}

// objectStore narrows *minio.Client to Client. GetObject needs an adapter because
// minio returns *minio.Object.
type objectStore struct {
	*minio.Client
}

func (s *objectStore) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return s.Client.GetObject(ctx, bucketName, objectName, opts)
}

// FolderKey returns the marker key of a folder: the trimmed name with a trailing slash.
func FolderKey(name string) string {
	return strings.Trim(name, "/") + "/"
}

// FolderExists reports whether any object lives below the folder.
func FolderExists(ctx context.Context, client Client, bucket, name string) bool {
	opts := minio.ListObjectsOptions{Prefix: FolderKey(name), MaxKeys: 1}
	ctx, cancel := context.WithCancel(ctx)
	// cancelling stops the listing goroutine after the first hit
	defer cancel()
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err == nil {
			return true
		}
	}
	return false
}

// MakeFolder writes an empty folder marker object.
func MakeFolder(ctx context.Context, client Client, bucket, name string) error {
	_, err := client.PutObject(ctx, bucket, FolderKey(name), bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	return err
}
