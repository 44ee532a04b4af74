// Package plugin provides the generator plugins and a registry that
// builds them by type name, as referenced from configuration files.
package plugin

import (
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/syssam/sqlmap/compiler/gen"
)

// Factory returns a new, unconfigured plugin.
type Factory func() gen.Plugin

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		ExcludeColumnName:    func() gen.Plugin { return NewExcludeColumn() },
		VersionIncrementName: func() gen.Plugin { return NewVersionIncrement() },
		DeleteVersionName:    func() gen.Plugin { return NewDeleteVersion() },
		UpdateVersionName:    func() gen.Plugin { return NewUpdateVersion() },
		MergeName:            func() gen.Plugin { return NewMerge() },
		GenericInterfaceName: func() gen.Plugin { return NewGenericInterface() },
		KeyHolderName:        func() gen.Plugin { return NewKeyHolder() },
		TruncateName:         func() gen.Plugin { return NewTruncate() },
		NoSchemaName:         func() gen.Plugin { return NewNoSchema() },
		ModelSuffixName:      func() gen.Plugin { return NewModelSuffix() },
		RenameDocumentName:   func() gen.Plugin { return NewRenameDocument() },
		ColumnInterfaceName:  func() gen.Plugin { return NewColumnInterface() },
		ExampleInterfaceName: func() gen.Plugin { return NewExampleInterface() },
		TimeFormatName:       func() gen.Plugin { return NewTimeFormat() },
		HashExcludeName:      func() gen.Plugin { return NewHashExclude() },
	}
)

// Register makes a plugin type available to New. It panics if the name
// is taken or f is nil.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if f == nil {
		panic("sqlmap: Register plugin factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("sqlmap: Register called twice for plugin " + name)
	}
	factories[name] = f
}

// New returns a new plugin of the named type.
func New(name string) (gen.Plugin, error) {
	mu.RLock()
	f, ok := factories[name]
	mu.RUnlock()
	if !ok {
		return nil, gen.NewConfigError("plugin", name, "unknown plugin type")
	}
	return f(), nil
}

// Names returns the registered plugin types, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	return slices.Sorted(maps.Keys(factories))
}

// named implements the Name method shared by all plugins.
type named string

func (n named) Name() string { return string(n) }

// logger returns the run logger tagged with the plugin name.
func logger(r *gen.Run, p gen.Plugin) *logrus.Entry {
	return r.Log.WithField("plugin", p.Name())
}
