package stats

import (
	"context"

	"github.com/immunekb/cytokb/internal/domain/schema"
)

// Repository defines the storage contract for whole-table aggregates.
type Repository interface {
	CountRows(ctx context.Context) (int, error)
	CountDistinct(ctx context.Context, col schema.Column) (int, error)
}

// Cache stores computed snapshots with a TTL. Optional; nil disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}
