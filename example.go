package sqlmap

import (
	"fmt"
	"strings"
)

// Example is the embedded base of every generated example type. It
// collects OR-ed groups of AND-ed conditions that the Example_Where_Clause
// fragment of a statement document iterates over.
type Example struct {
	OrderByClause string
	Distinct      bool
	OredCriteria  []*Criteria
}

// Or starts a new criteria group and returns it.
func (e *Example) Or() *Criteria {
	c := &Criteria{}
	e.OredCriteria = append(e.OredCriteria, c)
	return c
}

// CreateCriteria returns a new group. The group is recorded only when it
// is the first one, mirroring how the where clause treats an empty example.
func (e *Example) CreateCriteria() *Criteria {
	c := &Criteria{}
	if len(e.OredCriteria) == 0 {
		e.OredCriteria = append(e.OredCriteria, c)
	}
	return c
}

// Clear resets the example to its zero state.
func (e *Example) Clear() {
	e.OredCriteria = nil
	e.OrderByClause = ""
	e.Distinct = false
}

// Criteria is one AND-ed group of conditions.
type Criteria struct {
	Conditions []*Condition
}

// Valid reports whether the group holds at least one condition.
func (c *Criteria) Valid() bool {
	return len(c.Conditions) > 0
}

// Condition is a single predicate. Exactly one of the value shapes is used:
// none (IS NULL), single, between (Value and SecondValue) or list.
type Condition struct {
	Condition   string
	Value       any
	SecondValue any
	Values      []any
	NoValue     bool
	SingleValue bool
	Between     bool
	List        bool
}

// Add appends a condition. The condition text holds the column and the
// operator, e.g. "name like".
func (c *Criteria) Add(condition string, values ...any) *Criteria {
	cond := &Condition{Condition: condition}
	switch len(values) {
	case 0:
		cond.NoValue = true
	case 1:
		cond.Value = values[0]
		cond.SingleValue = true
	default:
		cond.Values = values
		cond.List = true
	}
	c.Conditions = append(c.Conditions, cond)
	return c
}

// AddBetween appends a "between" condition.
func (c *Criteria) AddBetween(condition string, v1, v2 any) *Criteria {
	c.Conditions = append(c.Conditions, &Condition{
		Condition:   condition,
		Value:       v1,
		SecondValue: v2,
		Between:     true,
	})
	return c
}

// String renders the group with "?" markers, for logging.
func (c *Criteria) String() string {
	parts := make([]string, 0, len(c.Conditions))
	for _, cond := range c.Conditions {
		switch {
		case cond.NoValue:
			parts = append(parts, cond.Condition)
		case cond.Between:
			parts = append(parts, cond.Condition+" ? and ?")
		case cond.List:
			parts = append(parts, fmt.Sprintf("%s (%s)", cond.Condition, strings.TrimSuffix(strings.Repeat("?, ", len(cond.Values)), ", ")))
		default:
			parts = append(parts, cond.Condition+" ?")
		}
	}
	return strings.Join(parts, " and ")
}
