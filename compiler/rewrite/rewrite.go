// Package rewrite edits column assignments inside statement elements.
//
// A statement comes in one of two shapes. The flat shape lists its set
// clauses as text lines of the element itself:
//
//	update users
//	set name = #{Name,jdbcType=VARCHAR},
//	version = #{Version,jdbcType=INTEGER}
//	where id = #{ID,jdbcType=BIGINT}
//
// The selective shape nests them one per conditional element inside a
// <set> element. ColumnReference handles both with a single pre-order
// walk and rewrites only the first assignment of the column it meets.
package rewrite

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlmap/compiler/gen"
)

// Result is the outcome of a rewrite.
type Result uint8

const (
	// NotFound means no assignment of the column exists in the tree.
	NotFound Result = iota
	// Replaced means the first assignment was rewritten.
	Replaced
	// Continue is reported by subtrees without a match; the walk goes on
	// with the next sibling.
	Continue
)

func (r Result) String() string {
	switch r {
	case Replaced:
		return "replaced"
	case Continue:
		return "continue"
	}
	return "not-found"
}

// Match describes an assignment line found for a column.
type Match struct {
	// Column is the column name as written in the line.
	Column string
	// Prefix is "set " when the line opens the set clause.
	Prefix string
	// Comma reports a trailing comma.
	Comma bool
}

// Rule produces the replacement of a matched line.
type Rule func(m Match) gen.Node

// SelfAssign rewrites the assignment to "col = col", which leaves the
// stored value untouched.
func SelfAssign() Rule {
	return func(m Match) gen.Node {
		return gen.NewText(m.Prefix + m.Column + " = " + m.Column + comma(m))
	}
}

// WrapIncrement rewrites the assignment to increment the column, wrapping
// to 1 once it reaches max.
func WrapIncrement(max int64) Rule {
	n := strconv.FormatInt(max, 10)
	return func(m Match) gen.Node {
		c := m.Column
		return gen.NewText(m.Prefix + c + " = case when " + c + " = " + n + " then 1 else " + c + " + 1 end" + comma(m))
	}
}

func comma(m Match) string {
	if m.Comma {
		return ","
	}
	return ""
}

// MatchLine reports whether content assigns column. Filter clauses
// starting with where or and never match.
func MatchLine(content, column string) (Match, bool) {
	s := strings.TrimSpace(content)
	if column == "" || hasWord(s, "where") || hasWord(s, "and") {
		return Match{}, false
	}
	var m Match
	if hasWord(s, "set") {
		m.Prefix = s[:4]
		s = strings.TrimSpace(s[4:])
	}
	if len(s) <= len(column) || !strings.EqualFold(s[:len(column)], column) {
		return Match{}, false
	}
	rest := s[len(column):]
	if rest[0] != ' ' && rest[0] != '\t' && rest[0] != '=' {
		return Match{}, false
	}
	if !strings.HasPrefix(strings.TrimSpace(rest), "=") {
		return Match{}, false
	}
	m.Column = s[:len(column)]
	m.Comma = strings.HasSuffix(s, ",")
	return m, true
}

func hasWord(s, word string) bool {
	return len(s) > len(word) && strings.EqualFold(s[:len(word)], word) && (s[len(word)] == ' ' || s[len(word)] == '\t')
}

// ColumnReference rewrites the first assignment of column found in a
// pre-order walk of root. Later assignments of the same column are left
// alone.
func ColumnReference(root *gen.Element, column string, rule Rule) Result {
	if walk(root, column, rule) == Replaced {
		return Replaced
	}
	return NotFound
}

func walk(el *gen.Element, column string, rule Rule) Result {
	for i, n := range el.Children {
		switch n := n.(type) {
		case *gen.Text:
			if m, ok := MatchLine(n.Content, column); ok {
				el.Children[i] = rule(m)
				return Replaced
			}
		case *gen.Element:
			if walk(n, column, rule) == Replaced {
				return Replaced
			}
		}
	}
	return Continue
}

// Selective reports whether el has the selective shape.
func Selective(el *gen.Element) bool {
	return len(el.Elements("set")) > 0
}
