// Package stats aggregates table-wide cardinalities for the knowledgebase
// overview. Snapshots reflect the entire table; there is no predicate
// support. They are computed fresh per request unless the optional TTL cache
// is wired in.
package stats

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/logger"
	"github.com/immunekb/cytokb/internal/metrics"
)

const cacheKey = "cytokb:stats"

// Snapshot is the aggregate view of the table.
type Snapshot struct {
	TotalInteractions int `json:"total_interactions"`
	UniqueCytokines   int `json:"unique_cytokines"`
	UniqueCellTypes   int `json:"unique_cell_types"`
	UniqueSpecies     int `json:"unique_species"`
}

// Service handles stats snapshots.
type Service struct {
	repo      Repository
	cache     Cache
	cytokines schema.Column
	cellTypes schema.Column
	species   schema.Column
}

// New creates a stats service.
func New(repo Repository, reg *schema.Registry) *Service {
	return &Service{
		repo:      repo,
		cytokines: mustResolve(reg, "cytokine_name"),
		cellTypes: mustResolve(reg, "cell_type"),
		species:   mustResolve(reg, "species"),
	}
}

// mustResolve guards the compiled-in aggregate columns. A registry missing
// one is a programming error, not a runtime condition.
func mustResolve(reg *schema.Registry, name string) schema.Column {
	c, ok := reg.Resolve(name)
	if !ok {
		panic(fmt.Sprintf("stats: column %q missing from registry", name))
	}
	return c
}

// WithCache enables the TTL cache in front of the store.
func (s *Service) WithCache(c Cache) *Service {
	s.cache = c
	return s
}

// Get computes the snapshot. The four aggregates are independent read-only
// statements and run concurrently; if any fails the snapshot fails whole.
func (s *Service) Get(ctx context.Context) (Snapshot, error) {
	if s.cache != nil {
		var cached Snapshot
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		switch {
		case err != nil:
			metrics.CacheLookupsTotal.WithLabelValues("stats", "error").Inc()
			logger.FromContext(ctx).Warn("stats cache read failed", zap.Error(err))
		case hit:
			metrics.CacheLookupsTotal.WithLabelValues("stats", "hit").Inc()
			return cached, nil
		default:
			metrics.CacheLookupsTotal.WithLabelValues("stats", "miss").Inc()
		}
	}

	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.TotalInteractions, err = s.repo.CountRows(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.UniqueCytokines, err = s.repo.CountDistinct(gctx, s.cytokines)
		return err
	})
	g.Go(func() (err error) {
		snap.UniqueCellTypes, err = s.repo.CountDistinct(gctx, s.cellTypes)
		return err
	})
	g.Go(func() (err error) {
		snap.UniqueSpecies, err = s.repo.CountDistinct(gctx, s.species)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("stats snapshot: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, snap); err != nil {
			logger.FromContext(ctx).Warn("stats cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}
