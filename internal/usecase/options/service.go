// Package options serves the distinct values of one column for client filter
// suggestions. Results are always global — they ignore whatever filters or
// search the client currently has applied, so suggestions never narrow
// themselves out of existence.
package options

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/immunekb/cytokb/internal/domain"
	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/logger"
	"github.com/immunekb/cytokb/internal/metrics"
)

const (
	defaultValuesLimit = 100
	maxValuesLimit     = 1000
)

// Service handles filter-option lookups.
type Service struct {
	repo         Repository
	reg          *schema.Registry
	cache        Cache
	defaultLimit int
	maxLimit     int
}

// New creates a filter-options service.
func New(repo Repository, reg *schema.Registry) *Service {
	return &Service{
		repo:         repo,
		reg:          reg,
		defaultLimit: defaultValuesLimit,
		maxLimit:     maxValuesLimit,
	}
}

// WithLimits overrides the default and maximum number of values returned.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// WithCache enables the TTL cache in front of the store.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Distinct returns the sorted, deduplicated values of one filterable column,
// bounded to limit (0 means the default). A column outside the filterable
// list fails closed rather than being guessed at.
func (s *Service) Distinct(ctx context.Context, column string, limit int) ([]string, error) {
	col, ok := s.reg.Resolve(column)
	if !ok {
		return nil, domain.NewFieldError(column, domain.ErrUnknownColumn)
	}
	if !col.Filterable() {
		return nil, domain.NewFieldError(column, domain.ErrColumnNotFilterable)
	}

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}

	// Key includes the limit so a clamped request never serves a
	// differently-bounded prefix.
	key := fmt.Sprintf("cytokb:filters:%s:%d", col.Name(), limit)
	if s.cache != nil {
		var cached []string
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err != nil:
			metrics.CacheLookupsTotal.WithLabelValues("filters", "error").Inc()
			logger.FromContext(ctx).Warn("filter options cache read failed", zap.Error(err))
		case hit:
			metrics.CacheLookupsTotal.WithLabelValues("filters", "hit").Inc()
			return cached, nil
		default:
			metrics.CacheLookupsTotal.WithLabelValues("filters", "miss").Inc()
		}
	}

	values, err := s.repo.Distinct(ctx, col, limit)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col.Name(), err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, values); err != nil {
			logger.FromContext(ctx).Warn("filter options cache write failed", zap.Error(err))
		}
	}
	return values, nil
}
