package storage

import (
	"fmt"
	"strings"

	"github.com/rewear/backend/internal/filter"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SQLWhere compiles e into a boolean SQL expression over the JSONB column
// doc, numbering placeholders from startParam. It returns the expression,
// its arguments, and the next free placeholder number.
func SQLWhere(e filter.Expr, startParam int) (string, []any, int) {
	switch x := e.(type) {
	case nil:
		return "TRUE", nil, startParam
	case filter.Equals:
		clause := fmt.Sprintf("%s = $%d", jsonField(x.Field), startParam)
		return clause, []any{x.Value}, startParam + 1
	case filter.Contains:
		clause := fmt.Sprintf("%s ILIKE $%d", jsonField(x.Field), startParam)
		return clause, []any{"%" + likeEscaper.Replace(x.Substring) + "%"}, startParam + 1
	case filter.And:
		return joinSQL(x, " AND ", "TRUE", startParam)
	case filter.Or:
		return joinSQL(x, " OR ", "FALSE", startParam)
	}
	return "FALSE", nil, startParam
}

func joinSQL(clauses []filter.Expr, sep, empty string, param int) (string, []any, int) {
	if len(clauses) == 0 {
		return empty, nil, param
	}
	parts := make([]string, 0, len(clauses))
	args := make([]any, 0)
	for _, c := range clauses {
		var (
			clause string
			a      []any
		)
		clause, a, param = SQLWhere(c, param)
		parts = append(parts, clause)
		args = append(args, a...)
	}
	return "(" + strings.Join(parts, sep) + ")", args, param
}

// jsonField renders doc->>'field' with the key quoted as a SQL literal.
func jsonField(field string) string {
	return "doc->>'" + strings.ReplaceAll(field, "'", "''") + "'"
}
