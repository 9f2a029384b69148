package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedPlan is a plan together with the time it was built.
type CachedPlan struct {
	Plan  *Plan
	Built time.Time
	TTL   time.Duration
}

// IsExpired returns true if the cached plan is older than its TTL.
func (c *CachedPlan) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// PlanCache memoizes the last plan for a TTL. Concurrent misses share one build.
type PlanCache struct {
	ttl time.Duration

	mu     sync.RWMutex
	cached *CachedPlan
	sf     singleflight.Group
}

// NewPlanCache creates a cache. A zero TTL disables caching but still collapses
// concurrent builds.
func NewPlanCache(ttl time.Duration) *PlanCache {
	return &PlanCache{ttl: ttl}
}

// Get returns the cached plan or builds a new one. The build keeps the values of ctx
// but is not cancelled with it.
func (c *PlanCache) Get(ctx context.Context, build func(ctx context.Context) (*Plan, error)) (*CachedPlan, error) {
	// Fast path
	c.mu.RLock()
	cached := c.cached
	c.mu.RUnlock()
	if cached != nil && !cached.IsExpired() {
		return cached, nil
	}

	result, err, _ := c.sf.Do("plan", func() (interface{}, error) {
		c.mu.RLock()
		cached := c.cached
		c.mu.RUnlock()
		if cached != nil && !cached.IsExpired() {
			return cached, nil
		}

		// waiting callers share this build, one of them leaving must not cancel it
		plan, err := build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		fresh := &CachedPlan{Plan: plan, Built: time.Now(), TTL: c.ttl}
		c.mu.Lock()
		c.cached = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*CachedPlan), nil
}

// Invalidate drops the cached plan.
func (c *PlanCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
