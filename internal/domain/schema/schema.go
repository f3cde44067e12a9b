// Package schema holds the compiled-in column registry for the
// cytokine_effects table. The registry is the single allow-list every
// client-supplied column name must pass through before it can appear in a
// query; it is built once at init and never mutated, so concurrent reads
// need no locking.
package schema

import (
	"fmt"
	"strings"

	"github.com/immunekb/cytokb/internal/domain"
)

// Kind classifies how a column's values compare in filters.
type Kind uint8

const (
	// Text columns filter by case-insensitive substring.
	Text Kind = iota
	// Categorical columns filter by exact equality.
	Categorical
	// Numeric columns filter by numeric equality.
	Numeric
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Categorical:
		return "categorical"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// Column describes one attribute of an interaction record.
type Column struct {
	name       string
	kind       Kind
	searchable bool
	filterable bool
}

// Name returns the column name as it appears in the table.
func (c Column) Name() string { return c.name }

// Kind returns the column's comparison kind.
func (c Column) Kind() Kind { return c.kind }

// Searchable reports whether free-text search includes this column.
func (c Column) Searchable() bool { return c.searchable }

// Filterable reports whether clients may filter on this column.
func (c Column) Filterable() bool { return c.filterable }

// Registry is the ordered, immutable set of column descriptors.
type Registry struct {
	columns []Column
	byName  map[string]Column
}

// SortColumn is the stable identifier used as the primary pagination sort key.
const SortColumn = "chunk_id"

// TieBreakColumn is the integer primary key breaking sort ties deterministically.
const TieBreakColumn = "id"

// defaultProjection is the canonical subset returned when the client does not
// request an explicit field list.
var defaultProjection = []string{
	"id",
	"chunk_id",
	"cytokine_name",
	"cell_type",
	"cytokine_effect",
	"causality_type",
	"species",
	"key_sentences",
	"mapped_citation_id",
}

// Default builds the registry for the cytokine_effects table.
func Default() *Registry {
	cols := []Column{
		{name: "id", kind: Numeric},
		{name: "chunk_id", kind: Categorical, filterable: true},
		{name: "key_sentences", kind: Text, filterable: true},
		{name: "cell_type", kind: Categorical, searchable: true, filterable: true},
		{name: "cytokine_name", kind: Categorical, searchable: true, filterable: true},
		{name: "confidence_score", kind: Numeric, filterable: true},
		{name: "cytokine_effect", kind: Text, searchable: true, filterable: true},
		{name: "cytokine_effect_original", kind: Text, filterable: true},
		{name: "regulated_genes", kind: Text, searchable: true, filterable: true},
		{name: "gene_response_type", kind: Categorical, filterable: true},
		{name: "regulated_pathways", kind: Text, filterable: true},
		{name: "pathway_response_type", kind: Categorical, filterable: true},
		{name: "regulated_cell_processes", kind: Text, filterable: true},
		{name: "cell_process_category", kind: Categorical, filterable: true},
		{name: "cell_process_response_type", kind: Categorical, filterable: true},
		{name: "species", kind: Categorical, searchable: true, filterable: true},
		{name: "necessary_condition", kind: Text, filterable: true},
		{name: "experimental_concentration", kind: Categorical, filterable: true},
		{name: "experimental_perturbation", kind: Text, filterable: true},
		{name: "experimental_readout", kind: Text, filterable: true},
		{name: "experimental_readout_category", kind: Categorical, filterable: true},
		{name: "experimental_system_type", kind: Categorical, filterable: true},
		{name: "experimental_system_details", kind: Text, filterable: true},
		{name: "experimental_time_point", kind: Categorical, filterable: true},
		{name: "causality_type", kind: Categorical, filterable: true},
		{name: "causality_description", kind: Text, filterable: true},
		{name: "publication_type", kind: Categorical, filterable: true},
		{name: "mapped_citation_id", kind: Categorical, filterable: true},
		{name: "url", kind: Text, filterable: true},
	}

	byName := make(map[string]Column, len(cols))
	for _, c := range cols {
		byName[c.name] = c
	}
	return &Registry{columns: cols, byName: byName}
}

// Resolve looks up a column by name.
func (r *Registry) Resolve(name string) (Column, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Columns returns all column descriptors in table order.
func (r *Registry) Columns() []Column { return r.columns }

// Names returns all column names in table order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.name
	}
	return names
}

// Searchable returns the columns included in free-text search, in table order.
func (r *Registry) Searchable() []Column {
	var out []Column
	for _, c := range r.columns {
		if c.searchable {
			out = append(out, c)
		}
	}
	return out
}

// Filterable returns the columns clients may filter on, in table order.
func (r *Registry) Filterable() []Column {
	var out []Column
	for _, c := range r.columns {
		if c.filterable {
			out = append(out, c)
		}
	}
	return out
}

// Projection is a validated, ordered list of columns to select.
type Projection struct {
	columns []Column
}

// Columns returns the projected columns in request order.
func (p Projection) Columns() []Column { return p.columns }

// Names returns the projected column names in request order.
func (p Projection) Names() []string {
	names := make([]string, len(p.columns))
	for i, c := range p.columns {
		names[i] = c.name
	}
	return names
}

// Projection validates an explicit field list against the registry. A list
// that is empty, or that trims down to nothing, yields the canonical default
// subset. Unknown names are rejected, never dropped; all of them are
// collected into one error.
func (r *Registry) Projection(fields []string) (Projection, error) {
	trimmed := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			trimmed = append(trimmed, f)
		}
	}
	if len(trimmed) == 0 {
		trimmed = defaultProjection
	}

	var unknown []string
	cols := make([]Column, 0, len(trimmed))
	seen := make(map[string]bool, len(trimmed))
	for _, f := range trimmed {
		if seen[f] {
			continue
		}
		seen[f] = true
		c, ok := r.byName[f]
		if !ok {
			unknown = append(unknown, f)
			continue
		}
		cols = append(cols, c)
	}

	if len(unknown) > 0 {
		return Projection{}, domain.NewFieldError("fields",
			fmt.Errorf("%w: %s", domain.ErrUnknownColumn, strings.Join(unknown, ", ")))
	}
	return Projection{columns: cols}, nil
}
