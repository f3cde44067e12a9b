// Package query models a client request against the interactions table as
// values: a predicate AST, a validated projection, and a page window. No SQL
// text exists at this layer; the store renders the AST to parameterized
// statements at its own boundary.
package query

import (
	"github.com/immunekb/cytokb/internal/domain/schema"
)

// Op is a comparison operator within a clause.
type Op uint8

const (
	// OpEquals matches the bound value exactly.
	OpEquals Op = iota
	// OpContains matches a case-insensitive substring of the column.
	OpContains
)

// Clause is one column comparison with its bound value.
type Clause struct {
	column schema.Column
	op     Op
	value  any
}

// Column returns the registry descriptor the clause compares against.
func (c Clause) Column() schema.Column { return c.column }

// Op returns the comparison operator.
func (c Clause) Op() Op { return c.op }

// Value returns the bound comparison value.
func (c Clause) Value() any { return c.value }

// Predicate is the combined WHERE condition of one request: per-column filter
// clauses chained with AND, plus an optional search group of clauses chained
// with OR and ANDed to the filters. The same predicate feeds both the row
// query and the count query.
type Predicate struct {
	filters []Clause
	search  []Clause
}

// Filters returns the AND-chained per-column clauses.
func (p Predicate) Filters() []Clause { return p.filters }

// Search returns the OR-chained free-text clauses.
func (p Predicate) Search() []Clause { return p.search }

// IsEmpty reports whether the predicate has no conditions at all.
func (p Predicate) IsEmpty() bool {
	return len(p.filters) == 0 && len(p.search) == 0
}
