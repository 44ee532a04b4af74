package plugin

import (
	"strings"

	"github.com/syssam/sqlmap/compiler/gen"
)

// Plugin type names of the naming plugins.
const (
	NoSchemaName       = "no-schema"
	ModelSuffixName    = "model-suffix"
	RenameDocumentName = "rename-document"
)

// NoSchema writes table names into statements without their schema.
type NoSchema struct {
	named
}

// NewNoSchema returns the no-schema plugin.
func NewNoSchema() *NoSchema {
	return &NoSchema{named: NoSchemaName}
}

// Configure implements gen.Plugin.
func (p *NoSchema) Configure(gen.Properties) error { return nil }

// Hooks implements gen.Plugin.
func (p *NoSchema) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventTableInitialized: func(_ *gen.Run, e *gen.Event) (bool, error) {
		e.Table.RuntimeName = StripSchema(e.Table.RuntimeName)
		return true, nil
	}}
}

// StripSchema removes everything up to the first dot of name.
func StripSchema(name string) string {
	if _, after, ok := strings.Cut(name, "."); ok {
		return after
	}
	return name
}

// ModelSuffix appends a suffix to the record type name.
//
// Properties:
//
//	suffix  defaults to Dto
type ModelSuffix struct {
	named
	suffix string
}

// NewModelSuffix returns an unconfigured model-suffix plugin.
func NewModelSuffix() *ModelSuffix {
	return &ModelSuffix{named: ModelSuffixName}
}

// Configure implements gen.Plugin.
func (p *ModelSuffix) Configure(props gen.Properties) error {
	p.suffix = props.GetOr("suffix", "Dto")
	return nil
}

// Hooks implements gen.Plugin.
func (p *ModelSuffix) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventTableInitialized: func(_ *gen.Run, e *gen.Event) (bool, error) {
		if !strings.HasSuffix(e.Table.ModelName, p.suffix) {
			e.Table.ModelName += p.suffix
		}
		return true, nil
	}}
}

// RenameDocument names statement documents after repositories instead of
// mappers: UserMapper.xml becomes UserRepository.xml.
type RenameDocument struct {
	named
}

// NewRenameDocument returns the rename-document plugin.
func NewRenameDocument() *RenameDocument {
	return &RenameDocument{named: RenameDocumentName}
}

// Configure implements gen.Plugin.
func (p *RenameDocument) Configure(gen.Properties) error { return nil }

// Hooks implements gen.Plugin.
func (p *RenameDocument) Hooks() gen.Hooks {
	return gen.Hooks{gen.EventTableInitialized: func(_ *gen.Run, e *gen.Event) (bool, error) {
		e.Table.DocumentName = strings.ReplaceAll(e.Table.DocumentName, "Mapper", "Repository")
		return true, nil
	}}
}
