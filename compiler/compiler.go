// Package compiler ties the generator together: it loads the tables a
// configuration file points at, runs the plugin pipeline over them and
// renders or writes the generated package.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/syssam/sqlmap/compiler/config"
	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/schema"
)

// Session is one configured generation. It can be run repeatedly, e.g.
// by the watch command.
type Session struct {
	file *config.File
	cfg  *gen.Config
}

// NewSession builds the generator configuration described by f. Extra
// options are applied after the ones derived from the file.
func NewSession(f *config.File, opts ...gen.Option) (*Session, error) {
	fileOpts, err := f.Options()
	if err != nil {
		return nil, err
	}
	cfg, err := gen.NewConfig(append(fileOpts, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Session{file: f, cfg: cfg}, nil
}

// File returns the configuration file of the session.
func (s *Session) File() *config.File {
	return s.file
}

// Config returns the generator configuration.
func (s *Session) Config() *gen.Config {
	return s.cfg
}

// Tables loads the tables of the configured source.
func (s *Session) Tables(ctx context.Context) ([]*schema.Table, error) {
	tables, err := s.file.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}
	return tables, nil
}

// Generate loads the tables and runs the pipeline. Plugins are
// reconfigured on every call.
func (s *Session) Generate(ctx context.Context) (*gen.Result, error) {
	tables, err := s.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return gen.NewGenerator(s.cfg).Generate(ctx, tables)
}

// Render generates and renders every file in memory.
func (s *Session) Render(ctx context.Context) (*gen.Result, []*gen.File, error) {
	res, err := s.Generate(ctx)
	if err != nil {
		return nil, nil, err
	}
	files, err := gen.NewWriter(s.cfg).Render(ctx, res)
	if err != nil {
		return nil, nil, err
	}
	return res, files, nil
}

// Write generates and writes every file under the target directory.
func (s *Session) Write(ctx context.Context) (*gen.Result, error) {
	start := time.Now()
	res, err := s.Generate(ctx)
	if err != nil {
		return nil, err
	}
	w := gen.NewWriter(s.cfg)
	if err := w.Write(ctx, res); err != nil {
		return nil, err
	}
	m := w.Metrics()
	s.cfg.Logger.WithField("run", res.RunID).
		WithField("files", m.FilesGenerated).
		WithField("bytes", m.TotalBytes).
		WithField("took", time.Since(start)).
		Info("generated")
	return res, nil
}

// Generate reads the configuration at path and writes the generated
// package.
func Generate(ctx context.Context, path string, opts ...gen.Option) (*gen.Result, error) {
	f, err := config.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := NewSession(f, opts...)
	if err != nil {
		return nil, err
	}
	return s.Write(ctx)
}
