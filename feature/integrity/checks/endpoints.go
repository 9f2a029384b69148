package checks

import (
	"context"
	"time"

	"asset-resynch/core/aem"
)

// Lister fetches one listing page.
type Lister interface {
	FetchPage(ctx context.Context, href string) (*aem.Page, error)
}

// EndpointTarget is a listing URL that must be reachable before a run.
type EndpointTarget struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EndpointReport is the outcome of probing one target.
type EndpointReport struct {
	Name          string `json:"name"`
	URL           string `json:"url"`
	Status        string `json:"status"` // "ok", "error"
	Entities      int    `json:"entities"`
	HasNext       bool   `json:"has_next"`
	LatencyMillis int64  `json:"latency_ms"`
	Error         string `json:"error,omitempty"`
}

// CheckEndpoints fetches the first page of every target. It never fails; unreachable
// targets are reported with status "error".
func CheckEndpoints(ctx context.Context, lister Lister, targets []EndpointTarget) []EndpointReport {
	reports := make([]EndpointReport, 0, len(targets))
	for _, target := range targets {
		report := EndpointReport{Name: target.Name, URL: target.URL, Status: "ok"}

		start := time.Now()
		page, err := lister.FetchPage(ctx, target.URL)
		report.LatencyMillis = time.Since(start).Milliseconds()

		if err != nil {
			report.Status = "error"
			report.Error = err.Error()
		} else {
			report.Entities = len(page.Entities)
			report.HasNext = page.NextHref() != ""
		}
		reports = append(reports, report)
	}
	return reports
}

// EndpointsHealthy reports whether every endpoint answered.
func EndpointsHealthy(reports []EndpointReport) bool {
	for _, r := range reports {
		if r.Status != "ok" {
			return false
		}
	}
	return true
}
