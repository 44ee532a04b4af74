package gen

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Run carries the state of one generation run. It is created when
// Generate starts and dropped when it returns; plugins keep their caches
// and accumulators here instead of on themselves.
type Run struct {
	ID     string
	Config *Config
	Log    *logrus.Entry

	base  *logrus.Entry
	table *Table
	state map[any]any
}

type tableSlot struct {
	table *Table
	value any
}

// NewRun returns a fresh run for cfg.
func NewRun(cfg *Config) *Run {
	id := uuid.NewString()
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	base := logger.WithField("run", id)
	return &Run{
		ID:     id,
		Config: cfg,
		Log:    base,
		base:   base,
		state:  make(map[any]any),
	}
}

// Table returns the table being generated, nil outside of a table.
func (r *Run) Table() *Table {
	return r.table
}

// EnterTable makes t the current table.
func (r *Run) EnterTable(t *Table) {
	r.table = t
	r.Log = r.base.WithField("table", t.Name)
}

// LeaveTable clears the current table.
func (r *Run) LeaveTable() {
	r.table = nil
	r.Log = r.base
}

// RunState returns the value stored under key for the whole run, creating
// it with init on first use. Plugins usually key by their own pointer.
// A key holds one kind of value: reusing it for another type, or for both
// RunState and TableState, panics.
func RunState[T any](r *Run, key any, init func() *T) *T {
	if v, ok := r.state[key]; ok {
		t, ok := v.(*T)
		if !ok {
			panic(stateConflict[T](key, v))
		}
		return t
	}
	v := init()
	r.state[key] = v
	return v
}

// TableState is like RunState but the value is recreated whenever the
// current table changes.
func TableState[T any](r *Run, key any, init func() *T) *T {
	switch s := r.state[key].(type) {
	case nil:
	case *tableSlot:
		t, ok := s.value.(*T)
		if !ok {
			panic(stateConflict[T](key, s.value))
		}
		if s.table == r.table {
			return t
		}
	default:
		panic(stateConflict[T](key, s))
	}
	v := init()
	r.state[key] = &tableSlot{table: r.table, value: v}
	return v
}

func stateConflict[T any](key, v any) string {
	return fmt.Sprintf("sqlmap: state key %v holds %T, not %T", key, v, (*T)(nil))
}
