package synthdoc

import (
	"errors"
	"slices"
	"sync"
)

// ArrayStrategy generates the elements of an array field. field is the
// property name and n the array schema. Strategies draw randomness and build
// nested values through gc.
type ArrayStrategy func(gc *GenerationContext, field string, n *Node) ([]any, error)

// Registry maps array field names to strategies. Lookups are safe for
// concurrent use; register strategies before starting builds.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]ArrayStrategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]ArrayStrategy{}}
}

// DefaultRegistry returns a new registry holding the built-in strategies:
// nationalities, employerSelfEmployedActivityCodes, workPlaceNames and
// workPlaceAddresses.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.strategies["nationalities"] = EnumPrefix
	r.strategies["employerSelfEmployedActivityCodes"] = RandomStrings
	r.strategies["workPlaceNames"] = Objects
	r.strategies["workPlaceAddresses"] = ResetCounter("seqno", Objects)
	return r
}

// Register adds or replaces the strategy for field.
func (r *Registry) Register(field string, s ArrayStrategy) error {
	if field == "" {
		return errors.New("register: empty field name")
	}
	if s == nil {
		return errors.New("register: nil strategy for " + field)
	}
	r.mu.Lock()
	r.strategies[field] = s
	r.mu.Unlock()
	return nil
}

// Lookup returns the strategy registered for field.
func (r *Registry) Lookup(field string) (ArrayStrategy, bool) {
	r.mu.RLock()
	s, ok := r.strategies[field]
	r.mu.RUnlock()
	return s, ok
}

// Fields lists the registered field names, sorted.
func (r *Registry) Fields() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.strategies))
	for k := range r.strategies {
		out = append(out, k)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}

// Preflight walks the properties reachable from root and reports the first
// node that Build would reject: an unsupported type or an array field with no
// strategy.
func (r *Registry) Preflight(root *Node) error {
	return root.Walk(func(name string, n *Node) error {
		switch n.Kind {
		case KindUnsupported:
			return &UnsupportedSchemaTypeError{Path: n.Pointer, Type: n.Type}
		case KindArray:
			if _, ok := r.Lookup(name); !ok {
				return &UnsupportedFieldError{Path: n.Pointer, Field: name}
			}
		}
		return nil
	})
}

// EnumPrefix emits the first k values of items.enum in declared order, with
// k drawn from [0, N-1) for N enum values (k is 0 when N <= 1).
func EnumPrefix(gc *GenerationContext, _ string, n *Node) ([]any, error) {
	var vals []any
	if n.Items != nil {
		vals = n.Items.Enum
	}
	k := 0
	if len(vals) > 1 {
		k = gc.Rand().IntN(len(vals) - 1)
	}
	out := make([]any, k)
	for i := range k {
		out[i] = enumValue(vals[i])
	}
	return out, nil
}

// RandomStrings emits between 1 and 10 strings following the maxLength of
// items.
func RandomStrings(gc *GenerationContext, _ string, n *Node) ([]any, error) {
	c := 1 + gc.Rand().IntN(10)
	out := make([]any, c)
	for i := range out {
		out[i] = gc.RandomString(n.Items)
	}
	return out, nil
}

// Objects emits between 1 and 10 objects built from items.
func Objects(gc *GenerationContext, _ string, n *Node) ([]any, error) {
	c := 1 + gc.Rand().IntN(10)
	out := make([]any, c)
	for i := range out {
		o, err := gc.BuildObject(i, n.Items)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// ResetCounter wraps next so that counter is set to 0 before it runs.
func ResetCounter(counter string, next ArrayStrategy) ArrayStrategy {
	return func(gc *GenerationContext, field string, n *Node) ([]any, error) {
		gc.Reset(counter)
		return next(gc, field, n)
	}
}
