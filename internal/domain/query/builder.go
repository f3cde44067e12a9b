package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/immunekb/cytokb/internal/domain"
	"github.com/immunekb/cytokb/internal/domain/schema"
)

// Builder turns raw client input into a Predicate and Projection, validating
// every column name through the schema registry. All validation happens here,
// before any store round-trip.
type Builder struct {
	reg *schema.Registry
}

// NewBuilder creates a predicate builder bound to a registry.
func NewBuilder(reg *schema.Registry) *Builder {
	return &Builder{reg: reg}
}

// Build validates filters, search, and projection fields in one pass.
//
// Filter pairs with empty values are skipped rather than matched as empty
// string. An unknown or non-filterable filter key, a non-numeric value on a
// numeric column, or an unknown projection field each yield a FieldError
// naming the offending field; nothing is ever silently dropped.
func (b *Builder) Build(
	filters map[string]string, search string, fields []string,
) (Predicate, schema.Projection, error) {
	proj, err := b.reg.Projection(fields)
	if err != nil {
		return Predicate{}, schema.Projection{}, err
	}

	p := Predicate{}

	// Deterministic clause order keeps rendered statements (and their plans)
	// identical for identical requests.
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(filters[key])
		if value == "" {
			continue
		}
		clause, err := b.filterClause(key, value)
		if err != nil {
			return Predicate{}, schema.Projection{}, err
		}
		p.filters = append(p.filters, clause)
	}

	if search = strings.TrimSpace(search); search != "" {
		for _, col := range b.reg.Searchable() {
			p.search = append(p.search, Clause{column: col, op: OpContains, value: search})
		}
	}

	return p, proj, nil
}

func (b *Builder) filterClause(key, value string) (Clause, error) {
	col, ok := b.reg.Resolve(key)
	if !ok {
		return Clause{}, domain.NewFieldError(key, domain.ErrUnknownColumn)
	}
	if !col.Filterable() {
		return Clause{}, domain.NewFieldError(key, domain.ErrColumnNotFilterable)
	}

	switch col.Kind() {
	case schema.Numeric:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Clause{}, domain.NewFieldError(key,
				fmt.Errorf("%w: %q is not numeric", domain.ErrInvalidValue, value))
		}
		return Clause{column: col, op: OpEquals, value: n}, nil
	case schema.Categorical:
		return Clause{column: col, op: OpEquals, value: value}, nil
	default:
		return Clause{column: col, op: OpContains, value: value}, nil
	}
}
