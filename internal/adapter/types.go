package adapter

import (
	"fmt"

	"github.com/pstuifzand/tui-listadapter/internal/model"
)

// TypeRegistry maps an item type to a prototype item. The prototype is kept
// after the item that introduced the type is gone, so a holder can still be
// created for it later.
type TypeRegistry struct {
	prototypes map[int32]model.Item
}

// NewTypeRegistry creates an empty registry
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		prototypes: make(map[int32]model.Item),
	}
}

// Register records prototype for typ unless the type is already known.
// It reports whether the type was new.
func (r *TypeRegistry) Register(typ int32, prototype model.Item) bool {
	if _, ok := r.prototypes[typ]; ok {
		return false
	}
	r.prototypes[typ] = prototype
	return true
}

// Resolve returns the prototype registered for typ
func (r *TypeRegistry) Resolve(typ int32) (model.Item, error) {
	prototype, ok := r.prototypes[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, typ)
	}
	return prototype, nil
}

// Contains reports whether typ has been registered
func (r *TypeRegistry) Contains(typ int32) bool {
	_, ok := r.prototypes[typ]
	return ok
}

// Len returns the number of registered types
func (r *TypeRegistry) Len() int {
	return len(r.prototypes)
}

// Clear forgets every registered type
func (r *TypeRegistry) Clear() {
	clear(r.prototypes)
}
