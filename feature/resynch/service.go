package resynch

import (
	"context"
	"time"

	"asset-resynch/core/reconcile"

	"go.uber.org/zap"
)

// Planner is the part of the engine the service uses.
type Planner interface {
	Plan(ctx context.Context) (*reconcile.Plan, error)
	Inspect(ctx context.Context, path string) (*reconcile.Record, reconcile.Action, error)
}

// PlanResponse is a plan together with its build time.
type PlanResponse struct {
	BuiltAt time.Time       `json:"built_at"`
	Plan    *reconcile.Plan `json:"plan"`
}

// StatusResponse describes one path.
type StatusResponse struct {
	Record *reconcile.Record `json:"record"`
	Action reconcile.Action  `json:"action"`
}

// Service serves plans and path lookups.
type Service struct {
	planner Planner
	cache   *reconcile.PlanCache
	logger  *zap.Logger
}

// NewService creates a new resynch service.
func NewService(planner Planner, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		planner: planner,
		cache:   reconcile.NewPlanCache(cacheTTL),
		logger:  logger,
	}
}

// Plan returns the cached plan, rebuilding it when expired or when refresh is set.
func (s *Service) Plan(ctx context.Context, refresh bool) (*PlanResponse, error) {
	if refresh {
		s.cache.Invalidate()
	}
	cached, err := s.cache.Get(ctx, func(ctx context.Context) (*reconcile.Plan, error) {
		start := time.Now()
		plan, err := s.planner.Plan(ctx)
		if err == nil {
			s.logger.Info("Plan rebuilt",
				zap.Duration("took", time.Since(start)),
				zap.Int("actions", len(plan.Actions)))
		}
		return plan, err
	})
	if err != nil {
		return nil, err
	}
	return &PlanResponse{BuiltAt: cached.Built, Plan: cached.Plan}, nil
}

// Status resolves one path.
func (s *Service) Status(ctx context.Context, path string) (*StatusResponse, error) {
	rec, action, err := s.planner.Inspect(ctx, path)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{Record: rec, Action: action}, nil
}
