package options

import (
	"context"

	"github.com/immunekb/cytokb/internal/domain/schema"
)

// Repository defines the storage contract for distinct value lookups.
type Repository interface {
	Distinct(ctx context.Context, col schema.Column, limit int) ([]string, error)
}

// Cache stores computed value lists with a TTL. Optional; nil disables caching.
type Cache interface {
	GetJSON(ctx context.Context, key string, v any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
}
