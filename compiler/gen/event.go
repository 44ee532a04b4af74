package gen

import (
	"strings"

	"github.com/syssam/sqlmap/schema"
)

// EventType tags the hook events fired while a table is generated.
type EventType uint8

// Events in the order the generator fires them for a table.
const (
	EventTableInitialized EventType = iota
	EventFieldGenerated
	EventClassGenerated
	EventMethodGenerated
	EventInterfaceGenerated
	EventElementGenerated
	EventDocumentGenerated
	EventRunFinished
)

var eventNames = [...]string{
	EventTableInitialized:   "table-initialized",
	EventFieldGenerated:     "field-generated",
	EventClassGenerated:     "class-generated",
	EventMethodGenerated:    "method-generated",
	EventInterfaceGenerated: "interface-generated",
	EventElementGenerated:   "element-generated",
	EventDocumentGenerated:  "document-generated",
	EventRunFinished:        "run-finished",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Op identifies a standard data access operation. An operation names both
// the interface method and the statement element generated for it; the
// fragment ops only exist as elements.
type Op uint8

// Standard operations, in method generation order.
const (
	OpCountByExample Op = iota
	OpDeleteByExample
	OpDeleteByPrimaryKey
	OpInsert
	OpInsertSelective
	OpSelectByExample
	OpSelectByPrimaryKey
	OpUpdateByExampleSelective
	OpUpdateByExample
	OpUpdateByPrimaryKeySelective
	OpUpdateByPrimaryKey
	// Shared fragments.
	OpResultMap
	OpBaseColumnList
	OpExampleWhereClause
	OpUpdateByExampleWhereClause
	// OpCustom tags elements and methods added by plugins.
	OpCustom
)

var opNames = [...]string{
	OpCountByExample:              "CountByExample",
	OpDeleteByExample:             "DeleteByExample",
	OpDeleteByPrimaryKey:          "DeleteByPrimaryKey",
	OpInsert:                      "Insert",
	OpInsertSelective:             "InsertSelective",
	OpSelectByExample:             "SelectByExample",
	OpSelectByPrimaryKey:          "SelectByPrimaryKey",
	OpUpdateByExampleSelective:    "UpdateByExampleSelective",
	OpUpdateByExample:             "UpdateByExample",
	OpUpdateByPrimaryKeySelective: "UpdateByPrimaryKeySelective",
	OpUpdateByPrimaryKey:          "UpdateByPrimaryKey",
	OpResultMap:                   "BaseResultMap",
	OpBaseColumnList:              "Base_Column_List",
	OpExampleWhereClause:          "Example_Where_Clause",
	OpUpdateByExampleWhereClause:  "Update_By_Example_Where_Clause",
	OpCustom:                      "Custom",
}

// String returns the method name and statement id of the operation.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "unknown"
}

// Methods returns the operations that produce interface methods.
func Methods() []Op {
	return []Op{
		OpCountByExample, OpDeleteByExample, OpDeleteByPrimaryKey, OpInsert,
		OpInsertSelective, OpSelectByExample, OpSelectByPrimaryKey,
		OpUpdateByExampleSelective, OpUpdateByExample,
		OpUpdateByPrimaryKeySelective, OpUpdateByPrimaryKey,
	}
}

// ParseOp parses an operation name case-insensitively, ignoring
// underscores and dashes.
func ParseOp(s string) (Op, bool) {
	norm := func(s string) string {
		return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	}
	want := norm(s)
	for o := OpCountByExample; o < OpCustom; o++ {
		if norm(o.String()) == want {
			return o, true
		}
	}
	return 0, false
}

// IsUpdate reports whether the operation is one of the four UPDATE forms.
func (o Op) IsUpdate() bool {
	switch o {
	case OpUpdateByExampleSelective, OpUpdateByExample, OpUpdateByPrimaryKeySelective, OpUpdateByPrimaryKey:
		return true
	}
	return false
}

// ByPrimaryKey reports whether the operation addresses a row by key.
func (o Op) ByPrimaryKey() bool {
	switch o {
	case OpDeleteByPrimaryKey, OpSelectByPrimaryKey, OpUpdateByPrimaryKeySelective, OpUpdateByPrimaryKey:
		return true
	}
	return false
}

// ByExample reports whether the operation takes an example argument.
func (o Op) ByExample() bool {
	switch o {
	case OpCountByExample, OpDeleteByExample, OpSelectByExample, OpUpdateByExampleSelective, OpUpdateByExample:
		return true
	}
	return false
}

// Payload is the event specific part of an Event.
type Payload interface {
	eventType() EventType
}

// TableInitialized is fired before any artifact of a table is built.
// Handlers may change the names recorded on Event.Table.
type TableInitialized struct{}

// FieldGenerated is fired for every field of a model class.
type FieldGenerated struct {
	Class  *Class
	Field  *Field
	Column *schema.Column
}

// ClassGenerated is fired once a model class holds all its fields.
type ClassGenerated struct {
	Class *Class
}

// MethodGenerated is fired for each standard method before it is added
// to the interface.
type MethodGenerated struct {
	Op        Op
	Method    *Method
	Interface *Interface
}

// InterfaceGenerated is fired once the interface holds all its methods.
type InterfaceGenerated struct {
	Interface *Interface
}

// ElementGenerated is fired for each element before it is added to the
// document.
type ElementGenerated struct {
	Op       Op
	Element  *Element
	Document *Document
}

// DocumentGenerated is fired once the document holds all its elements.
type DocumentGenerated struct {
	Document *Document
}

// RunFinished is fired after the last table. Handlers may add artifacts
// to Output.
type RunFinished struct {
	Output *Result
}

func (*TableInitialized) eventType() EventType   { return EventTableInitialized }
func (*FieldGenerated) eventType() EventType     { return EventFieldGenerated }
func (*ClassGenerated) eventType() EventType     { return EventClassGenerated }
func (*MethodGenerated) eventType() EventType    { return EventMethodGenerated }
func (*InterfaceGenerated) eventType() EventType { return EventInterfaceGenerated }
func (*ElementGenerated) eventType() EventType   { return EventElementGenerated }
func (*DocumentGenerated) eventType() EventType  { return EventDocumentGenerated }
func (*RunFinished) eventType() EventType        { return EventRunFinished }

// Event is delivered to hook handlers. Table is nil for EventRunFinished.
type Event struct {
	Type    EventType
	Table   *Table
	Payload Payload
}

// NewEvent returns the event carrying p.
func NewEvent(t *Table, p Payload) *Event {
	return &Event{Type: p.eventType(), Table: t, Payload: p}
}
