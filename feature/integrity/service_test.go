package integrity

import (
	"context"
	"strings"
	"testing"

	"asset-resynch/core/aem"
	"asset-resynch/core/storage"
	"asset-resynch/core/storage/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var testStorage = storage.Config{Bucket: "test-bucket", ReportsPrefix: "reports"}

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// fakeRepo answers every listing with an empty page, except hosts listed in down.
type fakeRepo struct {
	down map[string]bool
}

func (f *fakeRepo) AuthorRoot(startPath string) string {
	return "http://author/api/assets" + startPath
}

func (f *fakeRepo) PublishRoot(startPath string) string {
	return "http://publish/api/assets" + startPath
}

func (f *fakeRepo) FetchPage(ctx context.Context, href string) (*aem.Page, error) {
	for host := range f.down {
		if strings.Contains(href, host) {
			return nil, &aem.ResponseError{Method: "GET", URL: href, StatusCode: 503, Status: "503 Service Unavailable"}
		}
	}
	return &aem.Page{}, nil
}

func TestService_Structure(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	svc := NewService(mockClient, testStorage, nil, "", nil, logger)

	t.Run("CheckStructure", func(t *testing.T) {
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())

		missing, err := svc.CheckStructure(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, []string{"reports"}, missing)
	})

	t.Run("FixStructure", func(t *testing.T) {
		mockClient.On("PutObject", mock.Anything, "test-bucket", "reports/", mock.Anything, int64(0), mock.Anything).Return(minio.UploadInfo{}, nil)
		err := svc.FixStructure(context.Background(), []string{"reports"})
		assert.NoError(t, err)
	})
}

func TestService_NotConfigured(t *testing.T) {
	svc := NewService(nil, testStorage, nil, "/brand", nil, zap.NewNop())

	_, err := svc.CheckStructure(context.Background())
	assert.EqualError(t, err, "storage is not configured")
	assert.Error(t, svc.FixStructure(context.Background(), []string{"reports"}))

	_, err = svc.CheckEndpoints(context.Background())
	assert.EqualError(t, err, "aem client is not configured")

	_, err = svc.CheckDatabase()
	assert.Error(t, err)
}

func TestService_Endpoints(t *testing.T) {
	svc := NewService(nil, testStorage, &fakeRepo{down: map[string]bool{"publish": true}}, "/brand", nil, zap.NewNop())

	reports, err := svc.CheckEndpoints(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "http://author/api/assets/brand", reports[0].URL)
	assert.Equal(t, "ok", reports[0].Status)
	assert.Equal(t, "publish", reports[1].Name)
	assert.Equal(t, "error", reports[1].Status)
}

func TestService_Database(t *testing.T) {
	db, sqlMock := setupMockDB(t)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `runs`").WillReturnError(assert.AnError)
	sqlMock.ExpectQuery("SHOW COLUMNS FROM `run_actions`").WillReturnError(assert.AnError)

	svc := NewService(nil, testStorage, nil, "", db, zap.NewNop())
	report, err := svc.CheckDatabase()
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Len(t, report.Errors, 2)
}

func TestService_StructureResult(t *testing.T) {
	t.Run("Fix Fails", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)
		client.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(mocks.Listing())
		client.On("PutObject", mock.Anything, "test-bucket", "reports/", mock.Anything, int64(0), mock.Anything).
			Return(minio.UploadInfo{}, assert.AnError)

		svc := NewService(client, testStorage, nil, "", nil, zap.NewNop())
		result, err := svc.Structure(context.Background(), true)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, "error", result.Status)
		assert.Equal(t, []string{"reports"}, result.Missing)
	})

	t.Run("Bucket Missing", func(t *testing.T) {
		client := mocks.NewClient(t)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)

		svc := NewService(client, testStorage, nil, "", nil, zap.NewNop())
		result, err := svc.Structure(context.Background(), true)
		assert.NoError(t, err)
		assert.Equal(t, "error", result.Status)
		assert.Contains(t, result.Error, "does not exist")
	})
}

func TestService_CheckAll_NothingConfigured(t *testing.T) {
	svc := NewService(nil, testStorage, nil, "/brand", nil, zap.NewNop())

	sum := svc.CheckAll(context.Background())
	assert.False(t, sum.Healthy)
	assert.Equal(t, "storage is not configured", sum.Structure.Error)
	assert.Equal(t, "aem client is not configured", sum.EndpointsError)
	assert.NotEmpty(t, sum.DatabaseError)
	assert.Nil(t, sum.Database)
}
