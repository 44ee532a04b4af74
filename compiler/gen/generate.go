package gen

import (
	"context"
	"time"

	"github.com/syssam/sqlmap/schema"
)

// Artifacts holds what was generated for one table. Interface and
// Document are nil when a plugin suppressed them.
type Artifacts struct {
	Table     *Table
	Classes   []*Class
	Interface *Interface
	Document  *Document
}

// Class returns the class of the given kind, or nil.
func (a *Artifacts) Class(kind ClassKind) *Class {
	for _, c := range a.Classes {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Result is the outcome of a run.
type Result struct {
	RunID  string
	Tables []*Artifacts
	// Interfaces holds extra interfaces contributed by plugins at the end
	// of the run.
	Interfaces []*Interface
	// Warnings lists the plugins disabled by configuration problems.
	Warnings []string
}

// Generator runs the artifact pipeline: for every table it builds the
// model classes, the interface and the statement document, firing the
// plugin hooks as each artifact is created.
type Generator struct {
	cfg        *Config
	dispatcher *Dispatcher
	warnings   []string
}

// NewGenerator configures the plugins of cfg. Plugins whose properties
// are invalid are logged and left out.
func NewGenerator(cfg *Config) *Generator {
	g := &Generator{cfg: cfg, dispatcher: NewDispatcher()}
	logger := cfg.Logger
	for _, e := range cfg.Plugins {
		if err := e.Plugin.Configure(e.Properties); err != nil {
			g.warnings = append(g.warnings, err.Error())
			if logger != nil {
				logger.WithField("plugin", e.Plugin.Name()).Warn(err.Error())
			}
			continue
		}
		g.dispatcher.Register(e.Plugin)
	}
	return g
}

// Warnings returns the configuration warnings collected by NewGenerator.
func (g *Generator) Warnings() []string {
	return g.warnings
}

// Dispatcher returns the dispatcher holding the enabled plugins.
func (g *Generator) Dispatcher() *Dispatcher {
	return g.dispatcher
}

// Generate runs the pipeline over tables, in order. It stops at the first
// error; plugin errors and structural errors are fatal.
func (g *Generator) Generate(ctx context.Context, tables []*schema.Table) (*Result, error) {
	run := NewRun(g.cfg)
	res := &Result{RunID: run.ID, Warnings: g.warnings}
	start := time.Now()
	for _, st := range tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tc := g.cfg.TableConfig(st.Name, st.QualifiedName())
		if tc != nil && tc.Ignore {
			continue
		}
		if err := st.Normalize(); err != nil {
			return nil, NewSchemaError(st.QualifiedName(), "", "", err)
		}
		art, err := g.table(run, NewTable(st, tc))
		if err != nil {
			return nil, err
		}
		if art != nil {
			res.Tables = append(res.Tables, art)
		}
	}
	run.LeaveTable()
	if _, err := g.dispatcher.Fire(run, NewEvent(nil, &RunFinished{Output: res})); err != nil {
		return nil, err
	}
	run.Log.WithField("tables", len(res.Tables)).WithField("took", time.Since(start)).Debug("generation finished")
	return res, nil
}

func (g *Generator) table(run *Run, t *Table) (*Artifacts, error) {
	run.EnterTable(t)
	ok, err := g.dispatcher.Fire(run, NewEvent(t, &TableInitialized{}))
	if err != nil || !ok {
		return nil, err
	}
	art := &Artifacts{Table: t}
	if art.Classes, err = g.model(run, t); err != nil {
		return nil, err
	}
	if art.Interface, err = g.client(run, t); err != nil {
		return nil, err
	}
	if art.Document, err = g.document(run, t); err != nil {
		return nil, err
	}
	run.Log.Debug("table generated")
	return art, nil
}

func (g *Generator) fire(run *Run, t *Table, p Payload) (bool, error) {
	return g.dispatcher.Fire(run, NewEvent(t, p))
}
