// Package filter describes document predicates independently of any storage
// backend. Stores compile an Expr into their native query language; Match
// evaluates one directly against an in-memory document.
package filter

import "strings"

// Expr is a predicate over a document. A nil Expr matches every document.
type Expr interface {
	expr()
}

// Equals matches documents whose string field equals Value exactly.
type Equals struct {
	Field string
	Value string
}

// Contains matches documents whose string field contains Substring,
// ignoring case. Substring is literal text, not a pattern.
type Contains struct {
	Field     string
	Substring string
}

// And matches when every clause matches. An empty And matches everything.
type And []Expr

// Or matches when at least one clause matches. An empty Or matches nothing.
type Or []Expr

func (Equals) expr()   {}
func (Contains) expr() {}
func (And) expr()      {}
func (Or) expr()       {}

// Match reports whether doc satisfies e.
func Match(e Expr, doc map[string]any) bool {
	switch x := e.(type) {
	case nil:
		return true
	case Equals:
		s, ok := doc[x.Field].(string)
		return ok && s == x.Value
	case Contains:
		s, ok := doc[x.Field].(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(x.Substring))
	case And:
		for _, c := range x {
			if !Match(c, doc) {
				return false
			}
		}
		return true
	case Or:
		for _, c := range x {
			if Match(c, doc) {
				return true
			}
		}
		return false
	}
	return false
}
