// Package interaction lists interaction records: it validates raw client
// input into a predicate, projection, and page window, then executes the
// paired row/count queries through the repository.
package interaction

import (
	"context"
	"fmt"

	"github.com/immunekb/cytokb/internal/domain/query"
	"github.com/immunekb/cytokb/internal/domain/schema"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// ListParams carries the raw, still-unvalidated request input. Zero Page and
// Limit mean the parameter was absent and take the defaults.
type ListParams struct {
	Filters map[string]string
	Search  string
	Fields  []string
	Page    int
	Limit   int
}

// ListResult is one page of rows plus the pagination metadata derived from
// the full filtered count.
type ListResult struct {
	Rows       []map[string]any
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

// Service handles the listing use case.
type Service struct {
	repo        Repository
	builder     *query.Builder
	defaultSize int
	maxSize     int
}

// New creates a listing service over the given registry.
func New(repo Repository, reg *schema.Registry) *Service {
	return &Service{
		repo:        repo,
		builder:     query.NewBuilder(reg),
		defaultSize: defaultPageSize,
		maxSize:     maxPageSize,
	}
}

// WithPagination overrides the default and maximum page sizes.
func (s *Service) WithPagination(defaultSize, maxSize int) *Service {
	if defaultSize > 0 {
		s.defaultSize = defaultSize
	}
	if maxSize > 0 {
		s.maxSize = maxSize
	}
	return s
}

// List validates params and returns one page of projected rows. All
// validation completes before the store is touched: an invalid request never
// costs a query. A page past the end of the result set is not an error; it
// returns an empty row slice under the true total.
func (s *Service) List(ctx context.Context, params ListParams) (ListResult, error) {
	pred, proj, err := s.builder.Build(params.Filters, params.Search, params.Fields)
	if err != nil {
		return ListResult{}, err
	}

	number := params.Page
	if number == 0 {
		number = 1
	}
	limit := params.Limit
	if limit == 0 {
		limit = s.defaultSize
	}
	page, err := query.NewPage(number, limit, s.maxSize)
	if err != nil {
		return ListResult{}, err
	}

	rows, total, err := s.repo.SelectPage(ctx, pred, proj, page)
	if err != nil {
		return ListResult{}, fmt.Errorf("select page: %w", err)
	}

	return ListResult{
		Rows:       rows,
		Page:       page.Number(),
		Limit:      page.Limit(),
		Total:      total,
		TotalPages: page.TotalPages(total),
	}, nil
}
