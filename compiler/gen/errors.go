package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a table definition error.
	ErrInvalidSchema = errors.New("sqlmap: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("sqlmap: missing configuration")
	// ErrStructural indicates that an artifact did not have the shape a
	// plugin relies on. It always aborts the run.
	ErrStructural = errors.New("sqlmap: structural assumption violated")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("sqlmap: code generation failed")
)

// SchemaError reports a table definition the generator cannot use.
type SchemaError struct {
	Table   string
	Column  string
	Message string
	Cause   error
}

func (e *SchemaError) Error() string {
	head := "sqlmap: table " + orUnnamed(e.Table)
	if e.Column != "" {
		head += " (column " + e.Column + ")"
	}
	return join(head, e.Message, causeText(e.Cause))
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Is matches ErrInvalidSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError returns a SchemaError for table, and column if set.
func NewSchemaError(table, column, message string, cause error) *SchemaError {
	return &SchemaError{Table: table, Column: column, Message: message, Cause: cause}
}

// ConfigError reports an option or property with an unusable value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("sqlmap: option %s: %s", e.Option, e.Message)
	}
	return fmt.Sprintf("sqlmap: option %s = %v: %s", e.Option, e.Value, e.Message)
}

// Is matches ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError returns a ConfigError; value may be nil when the option
// was not set at all.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{Option: option, Value: value, Message: message}
}

// MissingPropertyError is returned by Plugin.Configure when a required
// property is absent. Its message is the warning logged when the plugin
// gets disabled.
type MissingPropertyError struct {
	Property string
	Plugin   string
}

// Error implements the error interface.
func (e *MissingPropertyError) Error() string {
	return fmt.Sprintf("Property %s not set for plugin %s", e.Property, e.Plugin)
}

// Is reports whether the target matches the sentinel error for MissingPropertyError.
func (e *MissingPropertyError) Is(target error) bool {
	return target == ErrMissingConfig
}

// StructuralError reports an artifact whose shape does not match what a
// plugin requires, e.g. a statement with fewer fixed header lines than
// expected.
type StructuralError struct {
	Table    string
	Artifact string
	Message  string
}

func (e *StructuralError) Error() string {
	head := "sqlmap: structural error"
	if e.Table != "" {
		head += " on table " + e.Table
	}
	if e.Artifact != "" {
		head += " in " + e.Artifact
	}
	return join(head, e.Message)
}

// Is matches ErrStructural.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralError creates a new StructuralError.
func NewStructuralError(table, artifact, message string) *StructuralError {
	return &StructuralError{
		Table:    table,
		Artifact: artifact,
		Message:  message,
	}
}

// GenerationError reports a failed step of a run. Failures raised by a
// plugin hook carry the plugin, the event and the table being generated;
// rendering and writing failures carry the file.
type GenerationError struct {
	Phase   string // "plugin", "verify", "render", "format" or "write"
	Plugin  string
	Event   EventType
	Table   string
	File    string
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Plugin != "" {
		head := fmt.Sprintf("sqlmap: plugin %s failed at %s", e.Plugin, e.Event)
		if e.Table != "" {
			head += " on table " + e.Table
		}
		return join(head, e.Message, causeText(e.Cause))
	}
	head := "sqlmap: " + e.Phase
	if e.File != "" {
		head += " " + e.File
	}
	return join(head, e.Message, causeText(e.Cause))
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Is matches ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError returns a GenerationError for a phase outside the
// plugin pipeline.
func NewGenerationError(phase, file, message string, cause error) *GenerationError {
	return &GenerationError{Phase: phase, File: file, Message: message, Cause: cause}
}

// NewPluginError wraps the error a hook of plugin returned for ev.
func NewPluginError(plugin string, ev *Event, cause error) *GenerationError {
	e := &GenerationError{Phase: "plugin", Plugin: plugin, Event: ev.Type, Cause: cause}
	if ev.Table != nil {
		e.Table = ev.Table.Name
	}
	return e
}

// join appends the non-empty parts to head, colon separated.
func join(head string, parts ...string) string {
	var b strings.Builder
	b.WriteString(head)
	for _, p := range parts {
		if p != "" {
			b.WriteString(": ")
			b.WriteString(p)
		}
	}
	return b.String()
}

func causeText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func orUnnamed(s string) string {
	if s == "" {
		return "<unnamed>"
	}
	return s
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError or a
// MissingPropertyError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	var propErr *MissingPropertyError
	return errors.As(err, &configErr) || errors.As(err, &propErr)
}

// IsStructuralError reports whether the error is a StructuralError.
func IsStructuralError(err error) bool {
	var structErr *StructuralError
	return errors.As(err, &structErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}
