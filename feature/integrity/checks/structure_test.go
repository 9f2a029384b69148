package checks

import (
	"context"
	"errors"
	"testing"

	"asset-resynch/core/storage"
	"asset-resynch/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestRequiredFolders(t *testing.T) {
	assert.Equal(t, []string{"archive/runs"}, RequiredFolders(storage.Config{ReportsPrefix: "/archive/runs/"}))
	assert.Equal(t, []string{"reports"}, RequiredFolders(storage.Config{}))
}

func TestCheckStructure(t *testing.T) {
	folders := []string{"reports", "exports"}

	t.Run("Bucket Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "resynch").Return(false, nil)

		_, err := CheckStructure(context.Background(), mockClient, "resynch", folders)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Bucket Check Fails", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "resynch").Return(false, errors.New("denied"))

		_, err := CheckStructure(context.Background(), mockClient, "resynch", folders)
		assert.ErrorContains(t, err, "denied")
	})

	t.Run("All Missing", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "resynch").Return(true, nil)
		mockClient.On("ListObjects", mock.Anything, "resynch", mock.Anything).Return(mocks.Listing())

		missing, err := CheckStructure(context.Background(), mockClient, "resynch", folders)
		assert.NoError(t, err)
		assert.Equal(t, folders, missing)
	})

	t.Run("All Present", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("BucketExists", mock.Anything, "resynch").Return(true, nil)

		for _, folder := range folders {
			mockClient.On("ListObjects", mock.Anything, "resynch", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
				return opts.Prefix == folder+"/"
			})).Return(mocks.Listing(minio.ObjectInfo{Key: folder + "/"}))
		}

		missing, err := CheckStructure(context.Background(), mockClient, "resynch", folders)
		assert.NoError(t, err)
		assert.Len(t, missing, 0)
	})
}

func TestFixStructure(t *testing.T) {
	logger := zap.NewNop()
	mockClient := new(mocks.Client)

	mockClient.On("PutObject", mock.Anything, "resynch", "reports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)

	err := FixStructure(context.Background(), mockClient, "resynch", logger, []string{"reports"})
	assert.NoError(t, err)
	mockClient.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestFixStructure_Error(t *testing.T) {
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "resynch", mock.Anything, mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{}, errors.New("read only"))

	err := FixStructure(context.Background(), mockClient, "resynch", zap.NewNop(), []string{"reports", "exports"})
	assert.EqualError(t, err, "read only")
	mockClient.AssertNumberOfCalls(t, "PutObject", 1)
}
