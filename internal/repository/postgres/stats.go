package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/metrics"
)

// Stats computes whole-table aggregates.
type Stats struct {
	c *Client
}

// NewStats creates the stats repository.
func NewStats(c *Client) *Stats {
	return &Stats{c: c}
}

// CountRows returns the total row count of the table.
func (r *Stats) CountRows(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("aggregate", start, err) }()

	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(r.c.table))
	return r.scalar(ctx, stmt)
}

// CountDistinct returns the number of distinct values of one registry column.
func (r *Stats) CountDistinct(ctx context.Context, col schema.Column) (_ int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("aggregate", start, err) }()

	stmt := fmt.Sprintf("SELECT COUNT(DISTINCT %s) FROM %s",
		pq.QuoteIdentifier(col.Name()), pq.QuoteIdentifier(r.c.table))
	return r.scalar(ctx, stmt)
}

func (r *Stats) scalar(ctx context.Context, stmt string) (int, error) {
	qctx, cancel := r.c.queryContext(ctx)
	defer cancel()

	var n int
	if err := r.c.db.QueryRowContext(qctx, stmt).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}
