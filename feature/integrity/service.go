package integrity

import (
	"context"
	"errors"

	"asset-resynch/core/storage"
	"asset-resynch/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repository is the part of the AEM client the endpoint check needs.
type Repository interface {
	checks.Lister
	AuthorRoot(startPath string) string
	PublishRoot(startPath string) string
}

// Service handles integrity checks.
type Service struct {
	client     storage.Client
	storageCfg storage.Config
	repo       Repository
	startPath  string
	db         *gorm.DB
	logger     *zap.Logger
}

// NewService creates a new integrity service. client, repo and db may be nil when
// the corresponding backend is not configured; their checks then report an error.
func NewService(client storage.Client, storageCfg storage.Config, repo Repository, startPath string, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client:     client,
		storageCfg: storageCfg,
		repo:       repo,
		startPath:  startPath,
		db:         db,
		logger:     logger,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	if s.client == nil {
		return nil, errors.New("storage is not configured")
	}
	return checks.CheckStructure(ctx, s.client, s.storageCfg.Bucket, checks.RequiredFolders(s.storageCfg))
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	if s.client == nil {
		return errors.New("storage is not configured")
	}
	return checks.FixStructure(ctx, s.client, s.storageCfg.Bucket, s.logger, missing)
}

// EndpointTargets returns the author and publish listing roots of the configured start path.
func (s *Service) EndpointTargets() []checks.EndpointTarget {
	return []checks.EndpointTarget{
		{Name: "author", URL: s.repo.AuthorRoot(s.startPath)},
		{Name: "publish", URL: s.repo.PublishRoot(s.startPath)},
	}
}

// CheckEndpoints verifies that both listing roots answer.
func (s *Service) CheckEndpoints(ctx context.Context) ([]checks.EndpointReport, error) {
	if s.repo == nil {
		return nil, errors.New("aem client is not configured")
	}
	return checks.CheckEndpoints(ctx, s.repo, s.EndpointTargets()), nil
}

// CheckDatabase verifies the run history schema.
func (s *Service) CheckDatabase() (*checks.DatabaseReport, error) {
	return checks.CheckDatabaseIntegrity(s.db)
}

// StructureResult is the outcome of a bucket layout check.
type StructureResult struct {
	Status  string   `json:"status"` // "ok", "missing", "fixed", "error"
	Missing []string `json:"missing,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Summary combines every check. Healthy is true when all of them passed.
type Summary struct {
	Healthy        bool                    `json:"healthy"`
	Structure      StructureResult         `json:"structure"`
	Endpoints      []checks.EndpointReport `json:"endpoints,omitempty"`
	EndpointsError string                  `json:"endpoints_error,omitempty"`
	Database       *checks.DatabaseReport  `json:"database,omitempty"`
	DatabaseError  string                  `json:"database_error,omitempty"`
}

// Structure checks the bucket layout and, with fix, creates what is missing.
// Only a failed fix is returned as an error; check failures are part of the result.
func (s *Service) Structure(ctx context.Context, fix bool) (StructureResult, error) {
	missing, err := s.CheckStructure(ctx)
	if err != nil {
		return StructureResult{Status: "error", Error: err.Error()}, nil
	}
	if len(missing) == 0 {
		return StructureResult{Status: "ok"}, nil
	}
	if !fix {
		return StructureResult{Status: "missing", Missing: missing}, nil
	}
	if err := s.FixStructure(ctx, missing); err != nil {
		return StructureResult{Status: "error", Missing: missing, Error: err.Error()}, err
	}
	return StructureResult{Status: "fixed", Missing: missing}, nil
}

// CheckAll runs every check without fixing anything.
func (s *Service) CheckAll(ctx context.Context) Summary {
	var sum Summary
	sum.Structure, _ = s.Structure(ctx, false)
	healthy := sum.Structure.Status == "ok"

	if reports, err := s.CheckEndpoints(ctx); err != nil {
		sum.EndpointsError = err.Error()
		healthy = false
	} else {
		sum.Endpoints = reports
		healthy = healthy && checks.EndpointsHealthy(reports)
	}

	if report, err := s.CheckDatabase(); err != nil {
		sum.DatabaseError = err.Error()
		healthy = false
	} else {
		sum.Database = report
		healthy = healthy && report.Matched
	}

	sum.Healthy = healthy
	return sum
}
