package synthdoc

import (
	"context"
	"math/rand/v2"
	"strings"
)

// GenerationContext is the mutable state of one Build: the random source,
// named counters and the path currently being generated. It is never shared
// between builds.
type GenerationContext struct {
	ctx      context.Context
	rng      *rand.Rand
	seed     uint64
	counters map[string]int
	dataset  *Dataset
	registry *Registry
	path     PathRef
}

func newGenerationContext(ctx context.Context, seed uint64, ds *Dataset, reg *Registry) *GenerationContext {
	return &GenerationContext{
		ctx:      ctx,
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed:     seed,
		counters: map[string]int{},
		dataset:  ds,
		registry: reg,
		path:     RootPath(),
	}
}

// Context returns the context the build was started with.
func (gc *GenerationContext) Context() context.Context { return gc.ctx }

// Rand returns the build's random source.
func (gc *GenerationContext) Rand() *rand.Rand { return gc.rng }

// Path returns the location of the value being generated.
func (gc *GenerationContext) Path() PathRef { return gc.path }

// Next increments counter name and returns the new value. The first call
// for a name returns 1.
func (gc *GenerationContext) Next(name string) int {
	gc.counters[name]++
	return gc.counters[name]
}

// Reset sets counter name back to 0.
func (gc *GenerationContext) Reset(name string) { gc.counters[name] = 0 }

// Counter returns the last value handed out for name.
func (gc *GenerationContext) Counter(name string) int { return gc.counters[name] }

// RandomString returns exactly n.MaxLength lowercase ASCII letters, or ""
// when n declares no maxLength.
func (gc *GenerationContext) RandomString(n *Node) string {
	if n == nil || n.MaxLength == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(*n.MaxLength)
	for range *n.MaxLength {
		b.WriteByte(byte('a' + gc.rng.IntN(26)))
	}
	return b.String()
}

// BuildObject generates the index-th element of the current array from the
// object schema n.
func (gc *GenerationContext) BuildObject(index int, n *Node) (*Object, error) {
	p := gc.path.Index(index)
	if n == nil || n.Kind != KindObject {
		typ := ""
		if n != nil {
			typ = n.Type
		}
		return nil, &UnsupportedSchemaTypeError{Path: p.Pointer(), Type: typ}
	}
	return gc.object(n, p)
}

func (gc *GenerationContext) object(n *Node, p PathRef) (*Object, error) {
	if err := gc.ctx.Err(); err != nil {
		return nil, err
	}
	out := NewObject(len(n.Properties))
	for _, prop := range n.Properties {
		v, err := gc.value(prop.Name, prop.Schema, p.Field(prop.Name))
		if err != nil {
			return nil, err
		}
		out.Set(prop.Name, v)
	}
	return out, nil
}

func (gc *GenerationContext) value(field string, n *Node, p PathRef) (any, error) {
	switch n.Kind {
	case KindObject:
		return gc.object(n, p)
	case KindString:
		if pool, ok := gc.dataset.Pool(field); ok {
			return pool[gc.rng.IntN(len(pool))], nil
		}
		return gc.RandomString(n), nil
	case KindNumber:
		if field == "seqno" {
			return gc.Next("seqno"), nil
		}
		return gc.rng.IntN(10), nil
	case KindBoolean:
		return true, nil
	case KindEnum:
		return enumValue(n.Enum[gc.rng.IntN(len(n.Enum))]), nil
	case KindArray:
		strategy, ok := gc.registry.Lookup(field)
		if !ok {
			return nil, &UnsupportedFieldError{Path: p.Pointer(), Field: field}
		}
		parent := gc.path
		gc.path = p
		items, err := strategy(gc, field, n)
		gc.path = parent
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []any{}
		}
		return items, nil
	}
	return nil, &UnsupportedSchemaTypeError{Path: p.Pointer(), Type: n.Type}
}

// enumValue keeps strings as they are. Other declared values are emitted
// unchanged so the document still validates against the enum.
func enumValue(v any) any {
	if o, ok := v.(*Object); ok {
		return o.Clone()
	}
	return v
}
