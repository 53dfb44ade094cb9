package model

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/matzehuels/penstroke/pkg/core/stroke"
)

// ReplaySampler returns previously recorded strokes keyed by line text.
// Bias and style are ignored. It is safe for concurrent use.
//
// Recordings are JSON objects mapping a line to its offsets:
//
//	{"Hello": [[1.2, 0.4, 0], [0.8, -0.1, 1]], "": []}
type ReplaySampler struct {
	mu      sync.RWMutex
	strokes map[string]stroke.Raw
}

// NewReplaySampler returns a sampler seeded with the given recordings.
func NewReplaySampler(strokes map[string]stroke.Raw) *ReplaySampler {
	r := &ReplaySampler{strokes: make(map[string]stroke.Raw, len(strokes))}
	for k, v := range strokes {
		r.strokes[k] = v
	}
	return r
}

// ReadReplay decodes a recording from r.
func ReadReplay(r io.Reader) (*ReplaySampler, error) {
	var in map[string][][]float64
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode recording: %w", err)
	}
	out := make(map[string]stroke.Raw, len(in))
	for text, pts := range in {
		raw, err := decodeStrokes([][][]float64{pts})
		if err != nil {
			return nil, fmt.Errorf("recording %q: %w", text, err)
		}
		out[text] = raw[0]
	}
	return &ReplaySampler{strokes: out}, nil
}

// LoadReplay reads a recording from a JSON file.
func LoadReplay(path string) (*ReplaySampler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadReplay(f)
}

// Record stores raw as the strokes for text, replacing any earlier entry.
func (r *ReplaySampler) Record(text string, raw stroke.Raw) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strokes[text] = raw
}

// WriteTo encodes the recording as JSON.
func (r *ReplaySampler) WriteTo(w io.Writer) (int64, error) {
	r.mu.RLock()
	out := make(map[string][][3]float64, len(r.strokes))
	for text, raw := range r.strokes {
		pts := make([][3]float64, len(raw))
		for i, o := range raw {
			eos := 0.0
			if o.EOS {
				eos = 1
			}
			pts[i] = [3]float64{o.DX, o.DY, eos}
		}
		out[text] = pts
	}
	r.mu.RUnlock()

	data, err := json.Marshal(out)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Sample implements [Sampler]. Every line must have a recording. Blank
// lines without one yield an empty stroke.
func (r *ReplaySampler) Sample(_ context.Context, lines []string, _ []float64, _ []int) ([]stroke.Raw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stroke.Raw, len(lines))
	for i, line := range lines {
		raw, ok := r.strokes[line]
		if !ok {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("no recording for line %d (%q)", i, line)
		}
		out[i] = append(stroke.Raw(nil), raw...)
	}
	return out, nil
}

// Recorder wraps a sampler and stores every sampled line into a
// [ReplaySampler].
type Recorder struct {
	Sampler Sampler
	Replay  *ReplaySampler
}

// Sample implements [Sampler].
func (r Recorder) Sample(ctx context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	out, err := r.Sampler.Sample(ctx, lines, biases, styles)
	if err != nil {
		return nil, err
	}
	for i, raw := range out {
		if i < len(lines) {
			r.Replay.Record(lines[i], raw)
		}
	}
	return out, nil
}

var (
	_ Sampler = (*ReplaySampler)(nil)
	_ Sampler = Recorder{}
)
