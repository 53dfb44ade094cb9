// Package pkg provides the core libraries for penstroke handwriting synthesis.
//
// # Overview
//
// Penstroke turns lines of text into handwriting. A generative model samples
// pen strokes for each line; penstroke cleans those strokes up, lays them out
// on a canvas and renders them as SVG path data. The pkg directory is
// organized into these areas:
//
//  1. [core] - Domain logic (stroke geometry, layout, path data, rendering)
//  2. [model] - The sampler interface and its lazily created backends
//  3. [pipeline] - Orchestration (validate → sample → synthesize → render)
//  4. [cache] and [store] - Result caching and document persistence
//  5. [config], [errors], [observability] - Ambient concerns
//
// # Architecture
//
// The data flow through penstroke:
//
//	Text lines + per-line bias/style/color/width
//	         ↓
//	    [errors] (length and alphabet validation)
//	         ↓
//	    [model] Sampler (one raw offset stroke per line)
//	         ↓
//	    [core/stroke] (decode → denoise → align)
//	         ↓
//	    [core/layout] (flip, stack and center lines on the canvas)
//	         ↓
//	    [core/path] (M/L path data per line)
//	         ↓
//	    [core/render/sink] (SVG, JSON, PDF)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/penstroke/pkg/core/render/sink"
//	    "github.com/matzehuels/penstroke/pkg/core/synth"
//	    "github.com/matzehuels/penstroke/pkg/model"
//	)
//
//	sampler := model.NewLazy(model.Dial("http://localhost:8501"))
//	res, err := synth.Synthesize(context.Background(), sampler,
//	    synth.Lines("Dear diary,", "", "today I wrote by hand."), synth.Options{})
//	if err != nil {
//	    return err
//	}
//	svg := sink.RenderSVG(res)
//
// Use [pipeline.Runner] to add caching, multiple output formats and batch
// execution on top of [core/synth].
//
// # Main Packages
//
// [core/stroke] - Offset decoding, noise removal and least-squares baseline
// alignment of a single line's strokes.
//
// [core/layout] - Places aligned lines on a canvas of fixed width; line i
// sits one line height below line i-1 and is centered horizontally.
//
// [core/path] - Serializes a positioned stroke into SVG path data, starting a
// new subpath after every pen lift.
//
// [core/synth] - The synthesis entry point tying validation, sampling and
// the stages above together.
//
// [model] - [model.Sampler] plus an HTTP client for a remote model service,
// a replay sampler for recorded strokes and [model.Lazy], a handle that
// creates the model once and serializes calls into it.
//
// [cache] - File, Redis and null caches with content-hash keys.
//
// [store] - Memory, file and MongoDB stores for rendered documents.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core
// [core/stroke]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core/stroke
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core/layout
// [core/path]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core/path
// [core/synth]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core/synth
// [core/render/sink]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/core/render/sink
// [model]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/model
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/observability
// [model.Sampler]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/model#Sampler
// [model.Lazy]: https://pkg.go.dev/github.com/matzehuels/penstroke/pkg/model#Lazy
package pkg
