// Package emit carries generated documents through downstream stages (for
// example compression) and into sinks.
package emit

import (
	"context"
	"fmt"
)

// Stage transforms a payload on its way to a sink. CBOR, COSE signing and
// base45 encoders plug in through this interface.
type Stage interface {
	Name() string
	Apply(ctx context.Context, in []byte) ([]byte, error)
}

// Sink persists a payload.
type Sink interface {
	Write(ctx context.Context, data []byte) error
}

// StageFunc adapts a function to Stage.
type StageFunc struct {
	Label string
	Fn    func(ctx context.Context, in []byte) ([]byte, error)
}

func (s StageFunc) Name() string { return s.Label }

func (s StageFunc) Apply(ctx context.Context, in []byte) ([]byte, error) { return s.Fn(ctx, in) }

// Pipeline runs stages in order.
type Pipeline []Stage

// Result records the payload size after one stage.
type Result struct {
	Stage string
	Bytes int
}

// Run applies every stage to in and returns the final payload with the size
// after each stage.
func (p Pipeline) Run(ctx context.Context, in []byte) ([]byte, []Result, error) {
	out := in
	results := make([]Result, 0, len(p))
	for _, s := range p {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}
		next, err := s.Apply(ctx, out)
		if err != nil {
			return nil, results, fmt.Errorf("stage %s: %w", s.Name(), err)
		}
		out = next
		results = append(results, Result{Stage: s.Name(), Bytes: len(out)})
	}
	return out, results, nil
}

// SizeDifference returns how much smaller after is than before, in percent.
func SizeDifference(before, after int) float64 {
	if before == 0 {
		return 0
	}
	return float64(before-after) / float64(before) * 100
}
