// Package synthdoc generates pseudo-random JSON documents that conform to a
// JSON Schema, and validates documents against the same schema.
//
// The pipeline has three stages:
//
//   - LoadSchema / Resolve inline every local $ref and classify each node once.
//   - Builder.Build walks the resolved properties in declaration order and
//     produces a Document. Each build owns a fresh GenerationContext, so
//     concurrent builds never share counters or random state.
//   - Validate checks serialized output against the resolved schema and
//     reports every violation as an Issue with a JSON Pointer path.
//
// Array fields are generated by name through a Registry of ArrayStrategy
// functions. DefaultRegistry carries the built-in strategies; callers may
// register more before a run.
//
// Typical usage:
//
//	root, err := synthdoc.LoadSchema(ctx, synthdoc.JSONBytes(schemaJSON))
//	ds, err := synthdoc.LoadDataset(ctx, synthdoc.JSONBytes(datasetJSON))
//	doc, err := synthdoc.NewBuilder(synthdoc.WithSeed(42)).Build(ctx, root, ds)
//	report, err := synthdoc.Validate(root, doc.Bytes())
package synthdoc
