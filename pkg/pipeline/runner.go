package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/penstroke/pkg/cache"
	"github.com/matzehuels/penstroke/pkg/core/render/sink"
	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/model"
	"github.com/matzehuels/penstroke/pkg/observability"
)

// DefaultBatchLimit bounds how many requests ExecuteBatch runs at once.
const DefaultBatchLimit = 4

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-request state. Multiple goroutines can use the
// same Runner with different options; calls into the model are governed by
// the Sampler (see [model.Lazy]).
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Sampler model.Sampler
	Logger  *log.Logger

	// Model names the sampler backend in cache keys.
	Model string
}

// NewRunner creates a runner with the given cache, keyer and sampler.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, sampler model.Sampler, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Sampler: sampler,
		Logger:  logger,
	}
}

// Execute runs the complete synthesize → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	opts.Logger.Debug("executing pipeline", "request", opts.String())

	result := &Result{Stats: Stats{LineCount: len(opts.Lines)}}

	// Stage 1: Synthesize
	start := time.Now()
	res, hash, hit, err := r.SynthesizeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Synthesis = res
	result.Hash = hash
	result.Stats.SynthesizeTime = time.Since(start)
	result.Stats.PathCount = len(res.Paths)
	result.CacheInfo.SynthesisHit = hit

	r.Logger.Info("synthesized handwriting",
		"lines", result.Stats.LineCount,
		"paths", result.Stats.PathCount,
		"cached", hit,
		"duration", result.Stats.SynthesizeTime)

	// Stage 2: Render
	start = time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, hash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SynthesizeWithCacheInfo samples and lays out the request, using the cache
// unless opts.Refresh is set. It returns the result, its content hash and
// whether it came from the cache.
func (r *Runner) SynthesizeWithCacheInfo(ctx context.Context, opts Options) (*synth.Result, string, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", false, err
	}
	if r.Sampler == nil {
		return nil, "", false, fmt.Errorf("no model configured")
	}
	hooks := observability.Cache()
	cacheKey := r.Keyer.SynthesisKey(opts.SynthesisKeyOpts(r.Model))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := sink.ReadJSON(data); err == nil {
				hooks.OnCacheHit(ctx, "synthesis")
				return res, cache.Hash(data), true, nil
			}
		}
		hooks.OnCacheMiss(ctx, "synthesis")
	}

	res, err := r.synthesize(ctx, opts)
	if err != nil {
		return nil, "", false, err
	}

	data, err := sink.RenderJSON(res)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize synthesis: %w", err)
	}
	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLSynthesis); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, "synthesis", len(data))
	}
	return res, cache.Hash(data), false, nil
}

func (r *Runner) synthesize(ctx context.Context, opts Options) (*synth.Result, error) {
	reqs := opts.Requests()
	hooks := observability.Pipeline()
	hooks.OnSynthesizeStart(ctx, len(reqs))
	start := time.Now()

	res, err := synth.Synthesize(ctx, hookedSampler{r.Sampler}, reqs, opts.SynthOptions())

	pathCount := 0
	if res != nil {
		pathCount = len(res.Paths)
	}
	hooks.OnSynthesizeComplete(ctx, pathCount, time.Since(start), err)
	return res, err
}

// RenderWithCacheInfo renders every requested format, using the cache when
// all formats are present. hash is the synthesis hash from
// SynthesizeWithCacheInfo.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *synth.Result, hash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			hooks.OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render produces each requested format from a synthesis result without
// caching.
func Render(ctx context.Context, res *synth.Result, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := render(res, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func render(res *synth.Result, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = sink.RenderSVG(res, svgOpts...)
		case FormatJSON:
			data, err := sink.RenderJSON(res)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := sink.RenderPDF(res, svgOpts...)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		default:
			return nil, ValidateFormat(format)
		}
	}
	return artifacts, nil
}

// ExecuteBatch runs independent requests concurrently, at most limit at a
// time (DefaultBatchLimit if limit <= 0). Results are returned in input
// order. The first failure cancels the remaining requests.
func (r *Runner) ExecuteBatch(ctx context.Context, batch []Options, limit int) ([]*Result, error) {
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	results := make([]*Result, len(batch))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, opts := range batch {
		g.Go(func() error {
			res, err := r.Execute(ctx, opts)
			if err != nil {
				return fmt.Errorf("request %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// hookedSampler reports model calls to the pipeline hooks.
type hookedSampler struct {
	model.Sampler
}

func (h hookedSampler) Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	hooks := observability.Pipeline()
	hooks.OnSampleStart(ctx, len(lines))
	start := time.Now()
	raws, err := h.Sampler.Sample(ctx, lines, biases, styles)
	hooks.OnSampleComplete(ctx, len(lines), time.Since(start), err)
	return raws, err
}
