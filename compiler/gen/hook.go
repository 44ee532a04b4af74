package gen

// HookFunc handles one event. Returning false suppresses the artifact the
// event announces and stops the remaining handlers; an error aborts the
// whole run.
type HookFunc func(r *Run, e *Event) (bool, error)

// Hooks maps the events a plugin listens to onto its handlers.
type Hooks map[EventType]HookFunc

// Plugin is an extension invoked at artifact creation points.
//
// Configure validates the plugin properties before any table is
// generated and keeps the parsed values. A returned *MissingPropertyError
// or *ConfigError disables the plugin for the run with a warning.
// Plugins must not keep per-run state on the receiver; use RunState and
// TableState instead.
type Plugin interface {
	Name() string
	Configure(Properties) error
	Hooks() Hooks
}

type handler struct {
	plugin string
	fn     HookFunc
}

// Dispatcher fans events out to the registered plugins in registration
// order.
type Dispatcher struct {
	plugins []Plugin
	table   map[EventType][]handler
}

// NewDispatcher returns a dispatcher with plugins registered.
func NewDispatcher(plugins ...Plugin) *Dispatcher {
	d := &Dispatcher{table: make(map[EventType][]handler)}
	d.Register(plugins...)
	return d
}

// Register appends plugins to the dispatch table.
func (d *Dispatcher) Register(plugins ...Plugin) {
	for _, p := range plugins {
		d.plugins = append(d.plugins, p)
		for t, fn := range p.Hooks() {
			if fn != nil {
				d.table[t] = append(d.table[t], handler{plugin: p.Name(), fn: fn})
			}
		}
	}
}

// Plugins returns the registered plugins.
func (d *Dispatcher) Plugins() []Plugin {
	return d.plugins
}

// Fire delivers e to every handler registered for its type. It returns
// false as soon as one handler does.
func (d *Dispatcher) Fire(r *Run, e *Event) (bool, error) {
	for _, h := range d.table[e.Type] {
		ok, err := h.fn(r, e)
		if err != nil {
			return false, NewPluginError(h.plugin, e, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}
