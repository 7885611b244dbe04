package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/bpkcongli/schema-checker/pkg/schema"
)

var (
	// ErrUnknownType is returned when a type name is neither a primitive tag nor a registered class.
	ErrUnknownType = errors.New("unknown type")
	// ErrReservedName is returned when registering a class under a primitive tag.
	ErrReservedName = errors.New("name is reserved for a primitive type")
	// ErrDuplicateClass is returned when a class name is registered twice.
	ErrDuplicateClass = errors.New("class already registered")
)

// Registry resolves type names to descriptors. Primitive tags are always
// known; classes must be registered by name.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]schema.Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]schema.Type)}
}

// Register makes a class descriptor resolvable under name.
func (r *Registry) Register(name string, class schema.Type) error {
	if _, ok := schema.ParseTag(name); ok {
		return fmt.Errorf("%s: %w", name, ErrReservedName)
	}
	if class == nil || class.Kind() != schema.KindClass {
		return fmt.Errorf("%s: expected a class descriptor", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrDuplicateClass)
	}
	r.classes[name] = class
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, class schema.Type) {
	if err := r.Register(name, class); err != nil {
		panic(err)
	}
}

// Resolve returns the descriptor for a primitive tag or a registered class.
func (r *Registry) Resolve(name string) (schema.Type, error) {
	if tag, ok := schema.ParseTag(name); ok {
		return schema.Primitive(tag), nil
	}

	if r != nil {
		r.mu.RLock()
		class, ok := r.classes[name]
		r.mu.RUnlock()
		if ok {
			return class, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnknownType)
}

// Classes returns the registered class names, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
