package engineapi

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Binding is one engine version adapter. Bindings are registered by
// implementations in their init() functions and selected at startup by
// probing preconditions in priority order.
type Binding interface {
	// Name identifies the binding (e.g. "embedded").
	Name() string

	// Available reports whether the binding's preconditions hold. A
	// non-nil error disqualifies the binding without failing selection.
	Available() error

	// NewSession constructs the engine model context and library manager
	// for one run. A nil logger uses a discard logger.
	NewSession(logger *slog.Logger) (Session, error)
}

// BindingFactory constructs a binding instance.
type BindingFactory func(logger *slog.Logger) Binding

type bindingEntry struct {
	factory  BindingFactory
	priority int
	order    int
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]bindingEntry)
)

// RegisterBinding adds a binding factory to the registry. Lower priority
// values are probed first during automatic selection.
func RegisterBinding(name string, priority int, factory BindingFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = bindingEntry{factory: factory, priority: priority, order: len(registry)}
}

// ListBindings returns all registered binding names (sorted).
func ListBindings() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectBinding returns the engine binding for a run. With an explicit
// name, that binding must exist and be available. With an empty name,
// bindings are probed in priority order and the first whose preconditions
// hold wins.
func SelectBinding(name string, logger *slog.Logger) (Binding, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if name != "" {
		registryMu.RLock()
		entry, ok := registry[name]
		registryMu.RUnlock()
		if !ok {
			return nil, &UnknownBindingError{Name: name, Available: ListBindings()}
		}
		b := entry.factory(logger)
		if err := b.Available(); err != nil {
			return nil, fmt.Errorf("engine binding %q unavailable: %w", name, err)
		}
		return b, nil
	}

	registryMu.RLock()
	type candidate struct {
		name  string
		entry bindingEntry
	}
	candidates := make([]candidate, 0, len(registry))
	for n, e := range registry {
		candidates = append(candidates, candidate{n, e})
	}
	registryMu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].entry.priority != candidates[j].entry.priority {
			return candidates[i].entry.priority < candidates[j].entry.priority
		}
		return candidates[i].entry.order < candidates[j].entry.order
	})

	for _, c := range candidates {
		b := c.entry.factory(logger)
		if err := b.Available(); err != nil {
			logger.Debug("engine binding unavailable", "binding", c.name, "error", err)
			continue
		}
		return b, nil
	}
	return nil, &UnknownBindingError{Available: ListBindings()}
}

// UnknownBindingError is returned when no usable engine binding exists for
// the request.
type UnknownBindingError struct {
	Name      string
	Available []string
}

func (e *UnknownBindingError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown engine binding %q (available: %v)", e.Name, e.Available)
	}
	return fmt.Sprintf("no engine binding available (registered: %v)", e.Available)
}
