// Package config reads the sqlmap.yaml configuration file.
//
//	source:
//	  files: [schema.yaml]
//	output:
//	  target: ./mapper
//	  package: github.com/acme/app/mapper
//	tables:
//	  - name: accounts
//	    disable: [Insert]
//	plugins:
//	  - type: exclude-column
//	    properties:
//	      excludeColumns: created_by
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlmap/compiler/gen"
	"github.com/syssam/sqlmap/compiler/load"
	"github.com/syssam/sqlmap/compiler/plugin"
)

// DefaultFile is looked up when no configuration path is given.
const DefaultFile = "sqlmap.yaml"

// File is the decoded configuration file.
type File struct {
	Source  load.Config `yaml:"source"`
	Output  Output      `yaml:"output"`
	Tables  []Table     `yaml:"tables,omitempty"`
	Plugins []Plugin    `yaml:"plugins,omitempty"`
	Log     Log         `yaml:"log,omitempty"`

	// dir is the directory of the file; relative paths resolve against it.
	dir string
}

// Output configures the generated package.
type Output struct {
	Target  string `yaml:"target"`
	Package string `yaml:"package,omitempty"`
	Header  string `yaml:"header,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
}

// Table holds the per-table settings.
type Table struct {
	Name    string   `yaml:"name"`
	Model   string   `yaml:"model,omitempty"`
	Mapper  string   `yaml:"mapper,omitempty"`
	Disable []string `yaml:"disable,omitempty"`
	Ignore  bool     `yaml:"ignore,omitempty"`
}

// Plugin names a registered plugin type and its properties.
type Plugin struct {
	Type       string            `yaml:"type"`
	Properties map[string]string `yaml:"properties,omitempty"`
}

// Log configures the logger.
type Log struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Parse decodes a configuration document. Unknown keys are rejected.
func Parse(r io.Reader) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	return f, nil
}

// ReadFile reads and parses the configuration at path.
func ReadFile(path string) (*File, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	f, err := Parse(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%w (file: %s)", err, path)
	}
	f.dir = filepath.Dir(path)
	f.resolve()
	return f, nil
}

func (f *File) resolve() {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(f.dir, p)
	}
	for i, p := range f.Source.Files {
		f.Source.Files[i] = abs(p)
	}
	f.Source.Snapshot = abs(f.Source.Snapshot)
	f.Output.Target = abs(f.Output.Target)
}

// Paths returns the local files the configuration depends on.
func (f *File) Paths() []string {
	paths := append([]string(nil), f.Source.Files...)
	if f.Source.Snapshot != "" {
		paths = append(paths, f.Source.Snapshot)
	}
	return paths
}

// Logger builds the logger described by the log section.
func (f *File) Logger(w io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	switch f.Log.Format {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, gen.NewConfigError("log.format", f.Log.Format, "want text or json")
	}
	level := logrus.InfoLevel
	if f.Log.Level != "" {
		var err error
		if level, err = logrus.ParseLevel(f.Log.Level); err != nil {
			return nil, gen.NewConfigError("log.level", f.Log.Level, err.Error())
		}
	}
	logger.SetLevel(level)
	return logger, nil
}

// Options converts the file into generator options. Every plugin entry
// gets a fresh instance of its type; unknown types and operations are
// configuration errors.
func (f *File) Options() ([]gen.Option, error) {
	var opts []gen.Option
	if f.Output.Target != "" {
		opts = append(opts, gen.WithTarget(f.Output.Target))
	}
	if f.Output.Package != "" {
		opts = append(opts, gen.WithPackage(f.Output.Package))
	}
	if f.Output.Header != "" {
		opts = append(opts, gen.WithHeader(f.Output.Header))
	}
	if f.Output.Workers != 0 {
		opts = append(opts, gen.WithWorkers(f.Output.Workers))
	}
	for _, t := range f.Tables {
		tc := &gen.TableConfig{Name: t.Name, Model: t.Model, Mapper: t.Mapper, Ignore: t.Ignore}
		for _, name := range t.Disable {
			op, ok := gen.ParseOp(name)
			if !ok {
				return nil, gen.NewConfigError("tables."+t.Name+".disable", name, "unknown operation")
			}
			tc.Disable = append(tc.Disable, op)
		}
		opts = append(opts, gen.WithTable(tc))
	}
	for _, p := range f.Plugins {
		pl, err := plugin.New(p.Type)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithPlugin(pl, gen.Properties(p.Properties)))
	}
	return opts, nil
}
