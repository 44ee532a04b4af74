// Package gen builds and renders the artifacts of a mapper package.
//
// For every table the generator produces model structs, a data access
// interface and a statement document, and hands each artifact to the
// registered plugins as it is created.
//
// # Architecture
//
// The pipeline follows this flow:
//
//	schema.Table (loaded by compiler/load)
//	        ↓
//	   Table (per-run names, disabled operations)
//	        ↓
//	   Generator (classes, interface, document; hooks fired per artifact)
//	        ↓
//	   Result (artifacts plus plugin contributions)
//	        ↓
//	   Writer (jennifer for Go, etree for XML; parallel workers)
//
// # Key Types
//
//   - Class, Field, Interface, Method, Type: the Go side of the artifact tree
//   - Document, Element, Text: the statement document, an ordered tree
//     whose statements are identified by their first attribute
//   - Plugin, Hooks, Dispatcher: the extension contract
//   - Run: run id, logger and the state plugins keep between events
//
// # Events
//
// Events are fired in this order for each table:
//
//	EventTableInitialized
//	EventFieldGenerated, EventClassGenerated   (key, record, example)
//	EventMethodGenerated ... EventInterfaceGenerated
//	EventElementGenerated ... EventDocumentGenerated
//
// followed by a single EventRunFinished. A hook returning false drops
// the artifact; a hook returning an error stops the run.
//
// # Plugin State
//
// Plugins are configured once and may be shared by several runs, so they
// keep per-run data in the run:
//
//	seen := gen.TableState(r, key{}, func() *map[string]bool {
//	    m := make(map[string]bool)
//	    return &m
//	})
//
// TableState values are dropped when the next table starts; RunState
// values live until the run ends.
//
// # Error Handling
//
//   - SchemaError: invalid table definitions
//   - ConfigError, MissingPropertyError: configuration problems; a plugin
//     whose properties are missing is disabled with a warning
//   - StructuralError: an artifact lacks the shape a plugin relies on
//   - GenerationError: a failing hook, renderer or file write
//
// Each type matches a sentinel through errors.Is:
//
//	if errors.Is(err, gen.ErrStructural) {
//	    // the generated statements changed shape
//	}
//
// # Configuration
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./mapper"),
//	    gen.WithPackage("github.com/org/project/mapper"),
//	    gen.WithPlugin(plugin.NewMerge(), nil),
//	)
//	res, err := gen.NewGenerator(cfg).Generate(ctx, tables)
//	err = gen.NewWriter(cfg).Write(ctx, res)
package gen
