package filter

// Builder accumulates clauses that are AND-ed together by Build.
type Builder struct {
	clauses []Expr
}

func NewBuilder() *Builder {
	return &Builder{clauses: make([]Expr, 0)}
}

// WhereEquals adds an exact-match clause. No-op for nil or empty values.
func (b *Builder) WhereEquals(field string, value *string) *Builder {
	if value == nil || *value == "" {
		return b
	}
	b.clauses = append(b.clauses, Equals{Field: field, Value: *value})
	return b
}

// WhereSearch adds an OR of case-insensitive substring matches across
// fields. No-op for nil or empty search, or when no fields are given.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}
	or := make(Or, len(fields))
	for i, f := range fields {
		or[i] = Contains{Field: f, Substring: *search}
	}
	b.clauses = append(b.clauses, or)
	return b
}

// Build returns nil when no clauses were added, the lone clause when there is
// exactly one, and an And of all clauses otherwise.
func (b *Builder) Build() Expr {
	switch len(b.clauses) {
	case 0:
		return nil
	case 1:
		return b.clauses[0]
	}
	out := make(And, len(b.clauses))
	copy(out, b.clauses)
	return out
}
