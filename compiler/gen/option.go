package gen

import (
	"errors"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// DefaultHeader is written at the top of every generated Go file.
const DefaultHeader = "Code generated by sqlmap. DO NOT EDIT."

// RuntimePackage is the import path of the types generated code refers to.
const RuntimePackage = "github.com/syssam/sqlmap"

// PluginEntry is a plugin together with its properties.
type PluginEntry struct {
	Plugin     Plugin
	Properties Properties
}

// Config holds the global generation settings.
type Config struct {
	// Target is the output directory.
	Target string
	// Package is the import path of the generated package.
	Package string
	// Header is the comment written at the top of Go files.
	Header string
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// Logger receives run logs and plugin warnings.
	Logger *logrus.Logger
	// Tables holds per-table settings keyed by table name.
	Tables map[string]*TableConfig
	// Plugins in registration order.
	Plugins []PluginEntry
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns a config with defaults and opts applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  logrus.StandardLogger(),
		Tables:  make(map[string]*TableConfig),
	}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// PackageName returns the name of the generated package.
func (c *Config) PackageName() string {
	switch {
	case c.Package != "":
		return filepath.Base(c.Package)
	case c.Target != "":
		return filepath.Base(c.Target)
	}
	return "mapper"
}

// TableConfig returns the settings of a table, or nil.
func (c *Config) TableConfig(name, qualified string) *TableConfig {
	if tc, ok := c.Tables[qualified]; ok {
		return tc
	}
	return c.Tables[name]
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the output package import path.
// For example: "github.com/org/project/mapper".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of parallel file writers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithTable adds per-table settings.
func WithTable(tc *TableConfig) Option {
	return func(c *Config) error {
		if tc == nil || tc.Name == "" {
			return NewConfigError("Table", nil, "table name cannot be empty")
		}
		if c.Tables == nil {
			c.Tables = make(map[string]*TableConfig)
		}
		c.Tables[tc.Name] = tc
		return nil
	}
}

// WithPlugin registers a plugin with its properties. Plugins are
// dispatched in the order they are added.
func WithPlugin(p Plugin, props Properties) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("Plugin", nil, "plugin cannot be nil")
		}
		c.Plugins = append(c.Plugins, PluginEntry{Plugin: p, Properties: props})
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
