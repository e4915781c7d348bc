package keymap

import (
	"sort"
	"sync"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string // e.g. "ctrl+b", "alt+1"
	Command string // Command ID
	Context string // "global", "notes-list", "notes-editor", ...
}

// Registry resolves keys to commands per context, with user overrides
// taking precedence over registered defaults.
type Registry struct {
	mu        sync.RWMutex
	bindings  map[string]map[string]string // context -> key -> command
	overrides map[string]string            // key -> command, any context
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		bindings:  make(map[string]map[string]string),
		overrides: make(map[string]string),
	}
}

// RegisterBinding adds a binding. A later binding for the same key and
// context replaces the earlier one.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := r.bindings[b.Context]
	if ctx == nil {
		ctx = make(map[string]string)
		r.bindings[b.Context] = ctx
	}
	ctx[b.Key] = b.Command
}

// SetUserOverride binds key to command in every context.
// An empty command removes the override.
func (r *Registry) SetUserOverride(key, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if command == "" {
		delete(r.overrides, key)
		return
	}
	r.overrides[key] = command
}

// ApplyOverrides installs a set of user overrides, e.g. from config.
func (r *Registry) ApplyOverrides(overrides map[string]string) {
	for key, command := range overrides {
		r.SetUserOverride(key, command)
	}
}

// Lookup returns the command bound to key in context, falling back to
// the global context.
func (r *Registry) Lookup(key, context string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cmd, ok := r.overrides[key]; ok {
		return cmd, true
	}
	if cmd, ok := r.bindings[context][key]; ok {
		return cmd, true
	}
	if cmd, ok := r.bindings["global"][key]; ok {
		return cmd, true
	}
	return "", false
}

// KeysFor returns the keys bound to command in context, sorted.
func (r *Registry) KeysFor(command, context string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	for key, cmd := range r.bindings[context] {
		if cmd == command {
			keys = append(keys, key)
		}
	}
	for key, cmd := range r.overrides {
		if cmd == command {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// BindingsForContext returns the bindings registered for context,
// sorted by key.
func (r *Registry) BindingsForContext(context string) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, 0, len(r.bindings[context]))
	for key, cmd := range r.bindings[context] {
		out = append(out, Binding{Key: key, Command: cmd, Context: context})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
