package synth

import (
	"context"
	"strings"

	"github.com/matzehuels/penstroke/pkg/core/layout"
	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/model"
)

const (
	// DefaultBias is the model bias used when none is given. Higher values
	// give neater, less varied handwriting.
	DefaultBias = 0.75

	// DefaultStyle is the handwriting style index used when none is given.
	DefaultStyle = 9
)

// LineRequest is one line of text to write plus its model and stroke
// parameters.
type LineRequest struct {
	Text        string  `json:"text"`
	Bias        float64 `json:"bias"`
	Style       int     `json:"style"`
	Color       string  `json:"color"`
	StrokeWidth float64 `json:"stroke_width"`
}

// Line returns a request for text with default parameters.
func Line(text string) LineRequest {
	return LineRequest{
		Text:        text,
		Bias:        DefaultBias,
		Style:       DefaultStyle,
		Color:       path.DefaultColor,
		StrokeWidth: path.DefaultStrokeWidth,
	}
}

// Lines returns default requests for each text.
func Lines(texts ...string) []LineRequest {
	reqs := make([]LineRequest, len(texts))
	for i, t := range texts {
		reqs[i] = Line(t)
	}
	return reqs
}

// Blank reports whether the line has no ink to write.
func (r LineRequest) Blank() bool { return strings.TrimSpace(r.Text) == "" }

// Options holds canvas and decoding parameters shared by all lines.
// Zero fields take their defaults.
type Options struct {
	Width      int
	LineHeight int
	Scale      float64
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if o.LineHeight == 0 {
		o.LineHeight = layout.DefaultLineHeight
	}
	if o.Scale == 0 {
		o.Scale = stroke.DefaultScale
	}
	return o
}

// Result is the output of one synthesis call.
type Result struct {
	Canvas layout.Canvas     `json:"canvas"`
	Paths  []path.Descriptor `json:"paths"`
}

// Validate checks every request without calling the model. Empty colors and
// zero stroke widths are accepted; [Synthesize] fills them with defaults.
func Validate(reqs []LineRequest, opts Options) error {
	opts = opts.withDefaults()
	if err := errors.ValidateCanvas(opts.Width, opts.LineHeight); err != nil {
		return err
	}
	if opts.Scale <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive (got %v)", opts.Scale)
	}
	for i, r := range reqs {
		if err := errors.ValidateLine(i, r.Text, model.Allowed); err != nil {
			return err
		}
	}
	for i, r := range fill(reqs) {
		if err := validateStyle(i, r); err != nil {
			return err
		}
	}
	for _, r := range reqs {
		if !r.Blank() {
			return nil
		}
	}
	return errors.New(errors.ErrCodeEmptyInput, "no non-blank lines to write")
}

func validateStyle(i int, r LineRequest) error {
	if err := errors.ValidateBias(i, r.Bias); err != nil {
		return err
	}
	if err := errors.ValidateStyle(i, r.Style); err != nil {
		return err
	}
	if err := errors.ValidateColor(i, r.Color); err != nil {
		return err
	}
	return errors.ValidateStrokeWidth(i, r.StrokeWidth)
}

// fill returns a copy of reqs with empty colors and zero widths defaulted.
func fill(reqs []LineRequest) []LineRequest {
	out := make([]LineRequest, len(reqs))
	for i, r := range reqs {
		if r.Color == "" {
			r.Color = path.DefaultColor
		}
		if r.StrokeWidth == 0 {
			r.StrokeWidth = path.DefaultStrokeWidth
		}
		out[i] = r
	}
	return out
}

// Synthesize validates reqs, samples strokes for all lines in one model call
// and lays them out.
func Synthesize(ctx context.Context, sampler model.Sampler, reqs []LineRequest, opts Options) (*Result, error) {
	if err := Validate(reqs, opts); err != nil {
		return nil, err
	}

	texts := make([]string, len(reqs))
	biases := make([]float64, len(reqs))
	styles := make([]int, len(reqs))
	for i, r := range reqs {
		texts[i], biases[i], styles[i] = r.Text, r.Bias, r.Style
	}

	raws, err := sampler.Sample(ctx, texts, biases, styles)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelInvocation, err, "sample %d lines", len(reqs))
	}
	return Process(reqs, raws, opts)
}

// Process runs the stroke pipeline over already sampled strokes. raws must
// hold one stroke per request, in request order. Strokes of blank lines are
// ignored.
func Process(reqs []LineRequest, raws []stroke.Raw, opts Options) (*Result, error) {
	if len(raws) != len(reqs) {
		return nil, errors.New(errors.ErrCodeModelInvocation,
			"model returned %d strokes for %d lines", len(raws), len(reqs))
	}
	opts = opts.withDefaults()
	reqs = fill(reqs)

	lines := make([]stroke.Stroke, len(reqs))
	for i, r := range reqs {
		if r.Blank() {
			continue
		}
		if len(raws[i]) == 0 {
			return nil, errors.NewLine(errors.ErrCodeModelInvocation, i,
				"model returned an empty stroke for line %d", i)
		}
		lines[i] = Prepare(raws[i], opts.Scale)
	}

	placed, canvas := layout.Place(lines, opts.Width, opts.LineHeight)

	res := &Result{Canvas: canvas, Paths: []path.Descriptor{}}
	for i, r := range reqs {
		if r.Blank() {
			continue
		}
		res.Paths = append(res.Paths, path.Describe(placed[i], r.Color, r.StrokeWidth))
	}
	return res, nil
}

// Prepare decodes, denoises and aligns the offsets of a single line.
func Prepare(raw stroke.Raw, scale float64) stroke.Stroke {
	return stroke.Align(stroke.Denoise(stroke.Decode(raw, scale)))
}
