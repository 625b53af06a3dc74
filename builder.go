package synthdoc

import (
	"context"
	"fmt"
	"math/rand/v2"
)

// Builder generates documents from resolved schemas. A Builder holds only
// configuration and may be used from several goroutines; every Build call
// gets its own GenerationContext.
type Builder struct {
	seed     uint64
	seeded   bool
	registry *Registry
}

// Option configures a Builder.
type Option func(*Builder)

// WithSeed makes generation reproducible: the same seed, schema and dataset
// always produce the same document.
func WithSeed(seed uint64) Option {
	return func(b *Builder) { b.seed, b.seeded = seed, true }
}

// WithRegistry replaces DefaultRegistry() as the source of array strategies.
func WithRegistry(r *Registry) Option {
	return func(b *Builder) {
		if r != nil {
			b.registry = r
		}
	}
}

// NewBuilder returns a Builder configured by opts.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{}
	for _, o := range opts {
		o(b)
	}
	if b.registry == nil {
		b.registry = DefaultRegistry()
	}
	return b
}

// Registry returns the strategies used by the builder.
func (b *Builder) Registry() *Registry { return b.registry }

// Build generates one document. root must be an object schema. ds may be nil,
// in which case every string follows the maxLength rule.
//
// The schema is checked with Preflight before anything is generated. The
// first failure aborts the build and no document is returned.
func (b *Builder) Build(ctx context.Context, root *Node, ds *Dataset) (doc *Document, err error) {
	if root == nil {
		return nil, badRequest("nil schema")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root.Kind != KindObject {
		return nil, &UnsupportedSchemaTypeError{Path: "/", Type: root.Type}
	}
	if err := b.registry.Preflight(root); err != nil {
		return nil, err
	}
	seed := b.seed
	if !b.seeded {
		seed = rand.Uint64()
	}
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, &InternalFault{Op: "build", Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	gc := newGenerationContext(ctx, seed, ds, b.registry)
	obj, err := gc.object(root, RootPath())
	if err != nil {
		return nil, err
	}
	return newDocument(obj, seed)
}

// Build generates one document with a default Builder.
func Build(ctx context.Context, root *Node, ds *Dataset, opts ...Option) (*Document, error) {
	return NewBuilder(opts...).Build(ctx, root, ds)
}
