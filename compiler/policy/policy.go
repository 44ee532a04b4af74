// Package policy resolves which column of a table a column-scoped plugin
// acts on, given the candidate names configured for it.
package policy

import (
	"slices"

	"golang.org/x/text/cases"

	"github.com/syssam/sqlmap/schema"
)

// Scope selects the columns a resolution scans.
type Scope uint8

const (
	// PrimaryKeyThenBase scans the key columns, then the other columns.
	PrimaryKeyThenBase Scope = iota
	// BaseOnly scans the non-key columns.
	BaseOnly
)

func (s Scope) String() string {
	if s == BaseOnly {
		return "base-only"
	}
	return "primary-key-then-base"
}

// Exclude is applied to the winning column; returning true leaves the
// policy unresolved.
type Exclude func(t *schema.Table, c *schema.Column) bool

// ExcludePrimaryKey rejects key columns.
func ExcludePrimaryKey(t *schema.Table, c *schema.Column) bool {
	return t.IsPrimaryKey(c.Name)
}

var fold = cases.Fold()

// Resolve scans the columns of scope in order and returns the last one
// whose name appears in candidates, compared case-insensitively. The
// result is nil when no column matches or when exclude rejects the match.
func Resolve(t *schema.Table, candidates []string, scope Scope, exclude Exclude) *schema.Column {
	if len(candidates) == 0 {
		return nil
	}
	want := make([]string, len(candidates))
	for i, c := range candidates {
		want[i] = fold.String(c)
	}
	var cols []*schema.Column
	if scope == PrimaryKeyThenBase {
		cols = append(cols, t.PrimaryKeyColumns()...)
	}
	cols = append(cols, t.BaseColumns()...)
	var match *schema.Column
	for _, c := range cols {
		if slices.Contains(want, fold.String(c.Name)) {
			match = c
		}
	}
	if match != nil && exclude != nil && exclude(t, match) {
		return nil
	}
	return match
}

// Resolver memoizes a resolution per table. The cached value is dropped
// when Reset is called or a different table is passed.
type Resolver struct {
	Candidates []string
	Scope      Scope
	Exclude    Exclude

	table    *schema.Table
	resolved bool
	column   *schema.Column
}

// NewResolver returns a resolver for the given candidates.
func NewResolver(candidates []string, scope Scope, exclude Exclude) *Resolver {
	return &Resolver{Candidates: candidates, Scope: scope, Exclude: exclude}
}

// Resolve returns the policy column of t, or nil when unresolved.
func (r *Resolver) Resolve(t *schema.Table) *schema.Column {
	if r.resolved && r.table == t {
		return r.column
	}
	r.table, r.resolved = t, true
	r.column = Resolve(t, r.Candidates, r.Scope, r.Exclude)
	return r.column
}

// Reset forgets the cached resolution; call it when a new table starts.
func (r *Resolver) Reset() {
	r.table, r.resolved, r.column = nil, false, nil
}
