// Package model connects penstroke to the generative handwriting model.
//
// The model itself lives outside this module. It is reached through the
// [Sampler] interface, which turns text lines plus per-line bias and style
// into raw offset strokes. Implementations:
//
//   - [HTTPSampler]: calls a remote model service over HTTP
//   - [ReplaySampler]: replays recorded strokes keyed by line text
//   - [SamplerFunc]: adapts a plain function (handy in tests)
//
// Model instances are expensive to create. [Lazy] wraps a constructor and
// creates the sampler on first use, exactly once, and serializes calls into
// it unless told the model is safe for concurrent use.
package model

import (
	"context"

	"github.com/matzehuels/penstroke/pkg/core/stroke"
)

// Sampler produces one raw stroke per input line, in input order.
// biases and styles have the same length as lines.
type Sampler interface {
	Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error)
}

// SamplerFunc adapts a function to the [Sampler] interface.
type SamplerFunc func(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error)

// Sample calls f.
func (f SamplerFunc) Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	return f(ctx, lines, biases, styles)
}
