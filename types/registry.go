package types

import (
	"reflect"
	"sync"
)

// Registry maps Go types to hand-built descriptors. Struct derivation
// consults it so enums and unions, which have no Go-native shape, can be
// bound to the types that represent them. Descriptors register themselves
// during init() in the usual case; the registry is read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[reflect.Type]Type)}
}

// Bind associates a descriptor with a Go type. Later bindings replace
// earlier ones.
func (r *Registry) Bind(goType reflect.Type, t Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[goType] = t
}

// Lookup returns the descriptor bound to a Go type, if any.
func (r *Registry) Lookup(goType reflect.Type) (Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[goType]
	return t, ok
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register binds a descriptor to the Go type T in the default registry,
// so that Struct derivation describes fields of type T with it.
//
//	types.Register[Color](types.NewEnum[Color]("Color", Red, Green, Blue))
func Register[T any](t Type) {
	defaultRegistry.Bind(reflect.TypeOf((*T)(nil)).Elem(), t)
}

// DefaultRegistry returns the default global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
