package query

import (
	"fmt"

	"github.com/immunekb/cytokb/internal/domain"
)

// Page is a validated page window over the filtered result set.
type Page struct {
	number int
	limit  int
}

// NewPage validates a page window. Page and limit must both be at least 1;
// a limit above maxLimit is silently clamped — the one documented coercion
// of client input in this API.
func NewPage(number, limit, maxLimit int) (Page, error) {
	if number < 1 {
		return Page{}, domain.NewFieldError("page",
			fmt.Errorf("%w: page must be >= 1", domain.ErrInvalidPage))
	}
	if limit < 1 {
		return Page{}, domain.NewFieldError("limit",
			fmt.Errorf("%w: limit must be >= 1", domain.ErrInvalidPage))
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{number: number, limit: limit}, nil
}

// Number returns the 1-based page number.
func (p Page) Number() int { return p.number }

// Limit returns the effective (possibly clamped) page size.
func (p Page) Limit() int { return p.limit }

// Offset returns the row offset of the window.
func (p Page) Offset() int { return (p.number - 1) * p.limit }

// TotalPages returns ceil(total/limit) for this window's limit.
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.limit - 1) / p.limit
}
