package interaction

import (
	"context"

	"github.com/immunekb/cytokb/internal/domain/query"
	"github.com/immunekb/cytokb/internal/domain/schema"
)

// Repository defines the storage contract for the paginated listing. The row
// slice and the total are produced under one predicate as a single logical
// unit; implementations must not return partial results.
type Repository interface {
	SelectPage(
		ctx context.Context,
		p query.Predicate, proj schema.Projection, page query.Page,
	) (rows []map[string]any, total int, err error)
}
