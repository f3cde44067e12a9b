package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/immunekb/cytokb/internal/domain/query"
	"github.com/immunekb/cytokb/internal/domain/schema"
	"github.com/immunekb/cytokb/internal/metrics"
)

// Interactions executes paginated row queries and their paired counts over
// the interactions table.
type Interactions struct {
	c *Client
}

// NewInteractions creates the interactions repository.
func NewInteractions(c *Client) *Interactions {
	return &Interactions{c: c}
}

// SelectPage runs the row query and the COUNT query for one predicate as a
// single logical unit. Both statements share the identical rendered WHERE
// clause and run concurrently; if either fails, no partial result is
// returned. Rows are ordered by the stable identifier with the integer
// primary key breaking ties, so fixed input pages consistently.
func (r *Interactions) SelectPage(
	ctx context.Context, p query.Predicate, proj schema.Projection, page query.Page,
) ([]map[string]any, int, error) {
	where, args := renderWhere(p)

	var (
		rows  []map[string]any
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = r.queryRows(gctx, proj, where, args, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = r.queryCount(gctx, where, args)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *Interactions) queryRows(
	ctx context.Context, proj schema.Projection, where string, whereArgs []any, page query.Page,
) (_ []map[string]any, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("rows", start, err) }()

	cols := proj.Columns()
	args := make([]any, len(whereArgs), len(whereArgs)+2)
	copy(args, whereArgs)

	stmt := buildRowStmt(r.c.table, proj, where, len(args))
	args = append(args, page.Limit(), page.Offset())

	qctx, cancel := r.c.queryContext(ctx)
	defer cancel()

	res, err := r.c.db.QueryContext(qctx, stmt, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer res.Close()

	out := make([]map[string]any, 0, page.Limit())
	for res.Next() {
		row, err := scanRow(res, cols)
		if err != nil {
			return nil, classify(err)
		}
		out = append(out, row)
	}
	if err := res.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

func (r *Interactions) queryCount(
	ctx context.Context, where string, args []any,
) (_ int, err error) {
	start := time.Now()
	defer func() { metrics.ObserveQuery("count", start, err) }()

	stmt := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", pq.QuoteIdentifier(r.c.table), where)

	qctx, cancel := r.c.queryContext(ctx)
	defer cancel()

	var total int
	if err := r.c.db.QueryRowContext(qctx, stmt, args...).Scan(&total); err != nil {
		return 0, classify(err)
	}
	return total, nil
}

// scanRow scans one result row into a name-keyed map, picking scan targets
// by column kind. NULLs become JSON null.
func scanRow(res *sql.Rows, cols []schema.Column) (map[string]any, error) {
	dests := make([]any, len(cols))
	for i, c := range cols {
		if c.Kind() == schema.Numeric {
			dests[i] = &sql.NullFloat64{}
		} else {
			dests[i] = &sql.NullString{}
		}
	}
	if err := res.Scan(dests...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(cols))
	for i, c := range cols {
		switch d := dests[i].(type) {
		case *sql.NullFloat64:
			if d.Valid {
				row[c.Name()] = d.Float64
			} else {
				row[c.Name()] = nil
			}
		case *sql.NullString:
			if d.Valid {
				row[c.Name()] = d.String
			} else {
				row[c.Name()] = nil
			}
		}
	}
	return row, nil
}
