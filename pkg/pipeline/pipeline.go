// Package pipeline provides the synthesis pipeline shared by the CLI and the
// HTTP server.
//
// This package runs the complete validate → sample → lay out → render
// sequence with caching, so every entry point behaves the same way.
//
// # Architecture
//
// The pipeline consists of two cached stages:
//
//  1. Synthesize: sample strokes for all lines and lay them out
//     ([synth.Synthesize]); cached as a JSON document
//  2. Render: produce output documents (SVG, JSON, PDF) from the layout
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, sampler, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Lines:   []string{"Dear friend,", "", "thank you."},
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/penstroke/pkg/cache"
	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/core/synth"
	"github.com/matzehuels/penstroke/pkg/errors"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatPDF:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one synthesis request.
// This struct supports JSON serialization for API requests.
//
// Per-line slices (Biases, Styles, Colors, StrokeWidths) are optional. When
// given, they must have one entry per line; when empty, the scalar value
// applies to every line.
type Options struct {
	// Input: either Lines, or Text which is split into lines.
	Lines []string `json:"lines,omitempty"`
	Text  string   `json:"text,omitempty"`

	// Model parameters
	Bias   *float64  `json:"bias,omitempty"`
	Style  *int      `json:"style,omitempty"`
	Biases []float64 `json:"biases,omitempty"`
	Styles []int     `json:"styles,omitempty"`

	// Stroke style
	Color        string    `json:"color,omitempty"`
	StrokeWidth  float64   `json:"stroke_width,omitempty"`
	Colors       []string  `json:"colors,omitempty"`
	StrokeWidths []float64 `json:"stroke_widths,omitempty"`

	// Canvas
	Width      int     `json:"width,omitempty"`
	LineHeight int     `json:"line_height,omitempty"`
	Scale      float64 `json:"scale,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Background string   `json:"background,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Synthesis is the laid-out handwriting.
	Synthesis *synth.Result

	// Hash identifies the synthesis result; equal hashes mean equal output.
	Hash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LineCount      int
	PathCount      int
	SynthesizeTime time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SynthesisHit bool // Whether the layout came from cache
	RenderHit    bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list. An empty string means
// SVG only.
func ParseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the input lines, checks the per-line
// slices and formats, and applies defaults. Line contents are checked later
// by [synth.Synthesize]. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Lines) == 0 && o.Text != "" {
		lines, err := synth.SplitText(o.Text)
		if err != nil {
			return err
		}
		o.Lines = lines
	}
	if len(o.Lines) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "no text provided")
	}

	n := len(o.Lines)
	for _, s := range []struct {
		name string
		len  int
	}{
		{"biases", len(o.Biases)},
		{"styles", len(o.Styles)},
		{"colors", len(o.Colors)},
		{"stroke_widths", len(o.StrokeWidths)},
	} {
		if s.len != 0 && s.len != n {
			return errors.New(errors.ErrCodeInvalidInput, "%s has %d entries for %d lines", s.name, s.len, n)
		}
	}

	o.SetSynthesisDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetSynthesisDefaults sets default values for sampling and layout.
func (o *Options) SetSynthesisDefaults() {
	if o.Bias == nil {
		b := synth.DefaultBias
		o.Bias = &b
	}
	if o.Style == nil {
		s := synth.DefaultStyle
		o.Style = &s
	}
	if o.Color == "" {
		o.Color = path.DefaultColor
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = path.DefaultStrokeWidth
	}
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if o.LineHeight == 0 {
		o.LineHeight = layout.DefaultLineHeight
	}
	if o.Scale == 0 {
		o.Scale = stroke.DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Requests returns one line request per line, resolving per-line values
// against the scalar defaults. Call ValidateAndSetDefaults first.
func (o *Options) Requests() []synth.LineRequest {
	reqs := make([]synth.LineRequest, len(o.Lines))
	for i, text := range o.Lines {
		r := synth.Line(text)
		if o.Bias != nil {
			r.Bias = *o.Bias
		}
		if o.Style != nil {
			r.Style = *o.Style
		}
		if o.Color != "" {
			r.Color = o.Color
		}
		if o.StrokeWidth != 0 {
			r.StrokeWidth = o.StrokeWidth
		}
		if len(o.Biases) > 0 {
			r.Bias = o.Biases[i]
		}
		if len(o.Styles) > 0 {
			r.Style = o.Styles[i]
		}
		if len(o.Colors) > 0 && o.Colors[i] != "" {
			r.Color = o.Colors[i]
		}
		if len(o.StrokeWidths) > 0 && o.StrokeWidths[i] != 0 {
			r.StrokeWidth = o.StrokeWidths[i]
		}
		reqs[i] = r
	}
	return reqs
}

// SynthOptions returns the canvas options for [synth.Synthesize].
func (o *Options) SynthOptions() synth.Options {
	return synth.Options{Width: o.Width, LineHeight: o.LineHeight, Scale: o.Scale}
}

// SynthesisKeyOpts returns cache key options for the synthesis stage.
func (o *Options) SynthesisKeyOpts(model string) cache.SynthesisKeyOpts {
	reqs := o.Requests()
	k := cache.SynthesisKeyOpts{
		Lines:      make([]string, len(reqs)),
		Biases:     make([]float64, len(reqs)),
		Styles:     make([]int, len(reqs)),
		Colors:     make([]string, len(reqs)),
		Widths:     make([]float64, len(reqs)),
		Width:      o.Width,
		LineHeight: o.LineHeight,
		Scale:      o.Scale,
		Model:      model,
	}
	for i, r := range reqs {
		k.Lines[i], k.Biases[i], k.Styles[i] = r.Text, r.Bias, r.Style
		k.Colors[i], k.Widths[i] = r.Color, r.StrokeWidth
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Background: o.Background}
}

// String summarizes the request for log output.
func (o *Options) String() string {
	return fmt.Sprintf("%d lines, formats %s", len(o.Lines), strings.Join(o.Formats, ","))
}
