package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/penstroke/pkg/core/stroke"
)

// Factory creates a sampler. It may be slow and have side effects.
type Factory func(ctx context.Context) (Sampler, error)

// LazyOption configures a [Lazy] handle.
type LazyOption func(*Lazy)

// WithConcurrentCalls lets callers invoke the model in parallel. Only use it
// when the underlying model is known to be safe for concurrent use.
func WithConcurrentCalls() LazyOption {
	return func(l *Lazy) { l.concurrent = true }
}

// Lazy is a shared handle to a model that is created on first use.
//
// The check-and-create step runs under a single mutex, so the factory runs at
// most once successfully no matter how many callers race on first use. A
// failed initialization is not cached; the next call tries again.
//
// Calls into the model are serialized by default.
type Lazy struct {
	factory    Factory
	concurrent bool

	initMu  sync.Mutex
	sampler Sampler

	callMu sync.Mutex
}

// NewLazy returns a handle that creates its sampler with factory on first use.
func NewLazy(factory Factory, opts ...LazyOption) *Lazy {
	l := &Lazy{factory: factory}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Get returns the sampler, creating it if needed.
func (l *Lazy) Get(ctx context.Context) (Sampler, error) {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.sampler != nil {
		return l.sampler, nil
	}
	s, err := l.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize model: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("initialize model: factory returned no sampler")
	}
	l.sampler = s
	return s, nil
}

// Initialized reports whether the sampler has been created.
func (l *Lazy) Initialized() bool {
	l.initMu.Lock()
	defer l.initMu.Unlock()
	return l.sampler != nil
}

// Sample implements [Sampler]. It creates the model on first use.
func (l *Lazy) Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	s, err := l.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !l.concurrent {
		l.callMu.Lock()
		defer l.callMu.Unlock()
	}
	return s.Sample(ctx, lines, biases, styles)
}

// Static returns a factory that always yields s.
func Static(s Sampler) Factory {
	return func(context.Context) (Sampler, error) { return s, nil }
}

var _ Sampler = (*Lazy)(nil)
