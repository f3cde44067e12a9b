package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/metrics"
)

// Options reads distinct column values for filter suggestions.
type Options struct {
	c *Client
}

// NewOptions creates the filter-options repository.
func NewOptions(c *Client) *Options {
	return &Options{c: c}
}

// Distinct returns up to limit distinct non-empty values of one column,
// sorted. The ORDER BY runs before the LIMIT, so the result is the sorted
// prefix of the full distinct set. The column has already passed the
// registry, never raw client input.
func (r *Options) Distinct(
	ctx context.Context, col schema.Column, limit int,
) (_ []string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("distinct", start, err) }()

	// Values come back as text so one scan path covers every column kind.
	// DISTINCT requires the sort expression in the select list, hence the
	// cast in both places.
	ident := pq.QuoteIdentifier(col.Name())
	stmt := fmt.Sprintf(
		"SELECT DISTINCT %s::text AS v FROM %s WHERE %s IS NOT NULL AND %s::text <> '' ORDER BY v LIMIT $1",
		ident, pq.QuoteIdentifier(r.c.table), ident, ident,
	)

	qctx, cancel := r.c.queryContext(ctx)
	defer cancel()

	res, err := r.c.db.QueryContext(qctx, stmt, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer res.Close()

	values := make([]string, 0, limit)
	for res.Next() {
		var v string
		if err := res.Scan(&v); err != nil {
			return nil, classify(err)
		}
		values = append(values, v)
	}
	if err := res.Err(); err != nil {
		return nil, classify(err)
	}
	return values, nil
}
