package postgres

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/immunekb/cytokb/internal/domain/query"
	"github.com/immunekb/cytokb/internal/domain/schema"
)

// renderWhere renders a predicate AST to a " WHERE ..." fragment with $n
// placeholders and the matching argument list. Identifiers only ever come
// from the schema registry and are still quoted; values are always bound,
// never interpolated. An empty predicate renders to an empty fragment.
func renderWhere(p query.Predicate) (string, []any) {
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	clause := func(c query.Clause) string {
		ident := pq.QuoteIdentifier(c.Column().Name())
		switch c.Op() {
		case query.OpContains:
			s, _ := c.Value().(string)
			return fmt.Sprintf("%s ILIKE %s", ident, bind(containsPattern(s)))
		default:
			return fmt.Sprintf("%s = %s", ident, bind(c.Value()))
		}
	}

	var conds []string
	for _, c := range p.Filters() {
		conds = append(conds, clause(c))
	}
	if search := p.Search(); len(search) > 0 {
		group := make([]string, len(search))
		for i, c := range search {
			group[i] = clause(c)
		}
		conds = append(conds, "("+strings.Join(group, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// buildRowStmt assembles the row statement for one page: projected columns,
// the rendered WHERE fragment, the stable ordering with its tie-breaker, and
// LIMIT/OFFSET placeholders numbered after the nArgs WHERE arguments.
func buildRowStmt(table string, proj schema.Projection, where string, nArgs int) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s, %s LIMIT $%d OFFSET $%d",
		strings.Join(quoteAll(proj.Names()), ", "),
		pq.QuoteIdentifier(table),
		where,
		pq.QuoteIdentifier(schema.SortColumn),
		pq.QuoteIdentifier(schema.TieBreakColumn),
		nArgs+1,
		nArgs+2,
	)
}

// containsPattern wraps a search term for ILIKE, escaping the pattern
// metacharacters so the term matches literally as a substring.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// quoteAll quotes a list of registry column names for a SELECT list.
func quoteAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = pq.QuoteIdentifier(n)
	}
	return out
}
