package synth

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/penstroke/pkg/core/path"
	"github.com/matzehuels/penstroke/pkg/core/stroke"
	"github.com/matzehuels/penstroke/pkg/errors"
	"github.com/matzehuels/penstroke/pkg/model"
)

// fakeStrokes writes one short pen segment per character.
func fakeStrokes(text string) stroke.Raw {
	var raw stroke.Raw
	for i, r := range text {
		if r == ' ' {
			raw = append(raw, stroke.Offset{DX: 6, DY: 0, EOS: true})
			continue
		}
		h := float64(int(r)%7 + 3)
		raw = append(raw,
			stroke.Offset{DX: 1, DY: h},
			stroke.Offset{DX: 2, DY: -h},
			stroke.Offset{DX: 2, DY: float64(i % 3), EOS: true},
		)
	}
	return raw
}

type fakeSampler struct {
	mu    sync.Mutex
	calls int
	lines []string
}

func (f *fakeSampler) Sample(_ context.Context, lines []string, biases []float64, styles []int) ([]stroke.Raw, error) {
	f.mu.Lock()
	f.calls++
	f.lines = append([]string(nil), lines...)
	f.mu.Unlock()

	if len(biases) != len(lines) || len(styles) != len(lines) {
		return nil, fmt.Errorf("parameter count mismatch")
	}
	out := make([]stroke.Raw, len(lines))
	for i, l := range lines {
		out[i] = fakeStrokes(l)
	}
	return out, nil
}

func TestSynthesizeHelloWorld(t *testing.T) {
	s := &fakeSampler{}
	res, err := Synthesize(context.Background(), s, Lines("Hello", "", "World"), Options{})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if res.Canvas.Width != 1000 || res.Canvas.Height != 240 {
		t.Errorf("canvas = %+v, want 1000x240", res.Canvas)
	}
	if len(res.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(res.Paths))
	}
	for i, p := range res.Paths {
		if p.Color != "black" || p.Width != 2 {
			t.Errorf("path %d style = %s/%v, want black/2", i, p.Color, p.Width)
		}
		if !strings.HasPrefix(p.Path, "M0,0 M") {
			t.Errorf("path %d = %.20q..., want prefix \"M0,0 M\"", i, p.Path)
		}
	}
	if s.calls != 1 {
		t.Errorf("sampler called %d times, want 1", s.calls)
	}
	if !reflect.DeepEqual(s.lines, []string{"Hello", "", "World"}) {
		t.Errorf("sampler got lines %q", s.lines)
	}
}

func TestCanvasHeightIgnoresBlankLines(t *testing.T) {
	tests := [][]string{
		{"a"},
		{"a", ""},
		{"", "", "a"},
		{"a", "", "b", "", ""},
	}
	for _, lines := range tests {
		res, err := Synthesize(context.Background(), &fakeSampler{}, Lines(lines...), Options{LineHeight: 50})
		if err != nil {
			t.Fatalf("%q: %v", lines, err)
		}
		if want := 50 * (len(lines) + 1); res.Canvas.Height != want {
			t.Errorf("%q: height = %d, want %d", lines, res.Canvas.Height, want)
		}
	}
}

func TestBlankLinesAdvanceCursor(t *testing.T) {
	sampler := &fakeSampler{}
	tight, err := Synthesize(context.Background(), sampler, Lines("a", "b"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	spaced, err := Synthesize(context.Background(), sampler, Lines("a", "", "b"), Options{})
	if err != nil {
		t.Fatal(err)
	}

	got := topOf(t, spaced.Paths[1]) - topOf(t, tight.Paths[1])
	if math.Abs(got-60) > 1e-9 {
		t.Errorf("blank line moved next line by %v, want 60", got)
	}
}

// topOf returns the smallest y of a line's path, ignoring the leading move
// to the origin.
func topOf(t *testing.T, d path.Descriptor) float64 {
	t.Helper()
	cmds, err := d.Commands()
	if err != nil {
		t.Fatal(err)
	}
	top := cmds[1].Y
	for _, c := range cmds[1:] {
		top = min(top, c.Y)
	}
	return top
}

func TestSynthesizeValidation(t *testing.T) {
	tests := []struct {
		name  string
		reqs  []LineRequest
		code  errors.Code
		line  int
		match string
	}{
		{
			name:  "too long",
			reqs:  Lines("ok", strings.Repeat("a", 76)),
			code:  errors.ErrCodeInvalidLine,
			line:  1,
			match: "76",
		},
		{
			name:  "bad character",
			reqs:  Lines("Hello", "quiz", "Zebra"),
			code:  errors.ErrCodeInvalidLine,
			line:  2,
			match: `'Z'`,
		},
		{
			name:  "bias out of range",
			reqs:  []LineRequest{{Text: "hi", Bias: 1.5, Style: 1}},
			code:  errors.ErrCodeInvalidInput,
			line:  0,
			match: "bias",
		},
		{
			name:  "negative width",
			reqs:  []LineRequest{{Text: "hi", Bias: 0.5, StrokeWidth: -1}},
			code:  errors.ErrCodeInvalidInput,
			line:  0,
			match: "stroke width",
		},
		{
			name: "all blank",
			reqs: Lines("", "  "),
			code: errors.ErrCodeEmptyInput,
			line: -1,
		},
		{
			name: "no lines",
			reqs: nil,
			code: errors.ErrCodeEmptyInput,
			line: -1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSampler{}
			_, err := Synthesize(context.Background(), s, tt.reqs, Options{})
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
			if s.calls != 0 {
				t.Error("model called for an invalid request")
			}
			line, ok := errors.LineOf(err)
			if tt.line >= 0 && (!ok || line != tt.line) {
				t.Errorf("line = %d (%v), want %d", line, ok, tt.line)
			}
			if tt.match != "" && !strings.Contains(err.Error(), tt.match) {
				t.Errorf("error %q does not mention %q", err, tt.match)
			}
		})
	}
}

func TestSynthesizeModelErrors(t *testing.T) {
	fail := model.SamplerFunc(func(context.Context, []string, []float64, []int) ([]stroke.Raw, error) {
		return nil, fmt.Errorf("out of memory")
	})
	short := model.SamplerFunc(func(_ context.Context, lines []string, _ []float64, _ []int) ([]stroke.Raw, error) {
		return []stroke.Raw{fakeStrokes(lines[0])}, nil
	})
	empty := model.SamplerFunc(func(_ context.Context, lines []string, _ []float64, _ []int) ([]stroke.Raw, error) {
		return make([]stroke.Raw, len(lines)), nil
	})

	tests := []struct {
		name    string
		sampler model.Sampler
		match   string
	}{
		{"failure", fail, "out of memory"},
		{"count mismatch", short, "1 strokes for 2 lines"},
		{"empty stroke", empty, "empty stroke for line 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(context.Background(), tt.sampler, Lines("ab", "cd"), Options{})
			if !errors.Is(err, errors.ErrCodeModelInvocation) {
				t.Fatalf("error = %v, want MODEL_INVOCATION", err)
			}
			if !strings.Contains(err.Error(), tt.match) {
				t.Errorf("error %q does not mention %q", err, tt.match)
			}
		})
	}
}

func TestSynthesizeFillsStyleDefaults(t *testing.T) {
	reqs := []LineRequest{{Text: "hi", Bias: 0.2, Style: 3}}
	res, err := Synthesize(context.Background(), &fakeSampler{}, reqs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p := res.Paths[0]; p.Color != "black" || p.Width != 2 {
		t.Errorf("style = %s/%v, want defaults", p.Color, p.Width)
	}
}

func TestSynthesizePerLineStyle(t *testing.T) {
	reqs := Lines("one", "two")
	reqs[1].Color = "#336699"
	reqs[1].StrokeWidth = 3.5
	res, err := Synthesize(context.Background(), &fakeSampler{}, reqs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if p := res.Paths[1]; p.Color != "#336699" || p.Width != 3.5 {
		t.Errorf("style = %s/%v", p.Color, p.Width)
	}
	if p := res.Paths[0]; p.Color != "black" {
		t.Errorf("first line color = %s", p.Color)
	}
}

func TestSynthesizeConcurrent(t *testing.T) {
	inputs := [][]string{
		{"Hello", "", "World"},
		{"the quick brown fox", "jumps over the lazy dog"},
		{"", "12:30 ok?"},
	}
	want := make([]*Result, len(inputs))
	for i, in := range inputs {
		res, err := Synthesize(context.Background(), &fakeSampler{}, Lines(in...), Options{})
		if err != nil {
			t.Fatal(err)
		}
		want[i] = res
	}

	shared := model.NewLazy(model.Static(&fakeSampler{}), model.WithConcurrentCalls())
	var wg sync.WaitGroup
	for round := range 20 {
		for i, in := range inputs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := Synthesize(context.Background(), shared, Lines(in...), Options{})
				if err != nil {
					t.Errorf("round %d input %d: %v", round, i, err)
					return
				}
				if !reflect.DeepEqual(got, want[i]) {
					t.Errorf("round %d input %d: result differs from sequential run", round, i)
				}
			}()
		}
	}
	wg.Wait()
}

func TestProcessCenteredLines(t *testing.T) {
	raws := []stroke.Raw{fakeStrokes("wide line here"), fakeStrokes("i")}
	res, err := Process(Lines("wide line here", "i"), raws, Options{Width: 800})
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range res.Paths {
		cmds, err := d.Commands()
		if err != nil {
			t.Fatal(err)
		}
		minX, maxX := cmds[1].X, cmds[1].X
		for _, c := range cmds[1:] {
			minX, maxX = min(minX, c.X), max(maxX, c.X)
		}
		if mid := (minX + maxX) / 2; mid < 399.999 || mid > 400.001 {
			t.Errorf("line %d centered at %v, want 400", i, mid)
		}
	}
}

func TestSplitText(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Hello", []string{"Hello"}},
		{"  Hello \n\n World\n", []string{"Hello", "World"}},
		{"a\r\nb", []string{"a", "b"}},
	}
	for _, tt := range tests {
		got, err := SplitText(tt.in)
		if err != nil {
			t.Fatalf("SplitText(%q): %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	for _, in := range []string{"", "   ", "\n \n"} {
		_, err := SplitText(in)
		if !errors.Is(err, errors.ErrCodeEmptyInput) {
			t.Errorf("SplitText(%q) error = %v, want EMPTY_INPUT", in, err)
		}
	}
}

func ExampleSynthesize() {
	res, err := Synthesize(context.Background(), &fakeSampler{}, Lines("Hello", "", "World"), Options{})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%dx%d, %d paths\n", res.Canvas.Width, res.Canvas.Height, len(res.Paths))
	fmt.Println(res.Paths[0].Color, res.Paths[0].Width)
	// Output:
	// 1000x240, 2 paths
	// black 2
}

func ExampleSplitText() {
	lines, _ := SplitText("Dear friend,\n\n  thanks for the letter.\n")
	fmt.Printf("%q\n", lines)
	// Output: ["Dear friend," "thanks for the letter."]
}
