// Package health reports store connectivity for readiness probes.
package health

import (
	"context"
	"time"
)

// Status values for the overall report and individual checks.
const (
	Healthy   = "healthy"
	Degraded  = "degraded"
	Unhealthy = "unhealthy"
)

// Pinger checks one dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Report is the outcome of one health check pass.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Service runs health checks against the store and optional dependencies.
type Service struct {
	store    Pinger
	optional map[string]Pinger
}

// New creates a health service. The store check is required; a failing store
// makes the whole service unhealthy.
func New(store Pinger) *Service {
	return &Service{store: store, optional: map[string]Pinger{}}
}

// WithOptional adds a best-effort dependency check (e.g. the result cache).
// Its failure degrades the report without making the service unhealthy.
func (s *Service) WithOptional(name string, p Pinger) *Service {
	s.optional[name] = p
	return s
}

// Check pings every dependency under a short deadline.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	report := Report{Status: Healthy, Checks: map[string]string{}}

	if err := s.store.Ping(ctx); err != nil {
		report.Status = Unhealthy
		report.Checks["database"] = err.Error()
	} else {
		report.Checks["database"] = "ok"
	}

	for name, p := range s.optional {
		if err := p.Ping(ctx); err != nil {
			if report.Status == Healthy {
				report.Status = Degraded
			}
			report.Checks[name] = err.Error()
		} else {
			report.Checks[name] = "ok"
		}
	}

	return report
}
