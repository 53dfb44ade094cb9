package stroke

import "math"

// Offset is one model sample: relative pen motion plus the end-of-stroke flag.
type Offset struct {
	DX  float64
	DY  float64
	EOS bool
}

// Raw is the offset sequence sampled for a single line of text.
type Raw []Offset

// Point is an absolute pen position. EOS marks the last point of a segment.
type Point struct {
	X   float64
	Y   float64
	EOS bool
}

// Stroke is a time-ordered sequence of absolute points.
type Stroke []Point

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float64 { return math.Hypot(b.Width(), b.Height()) }

// Bounds returns the bounding box of s. The zero Bounds is returned for an
// empty stroke.
func (s Stroke) Bounds() Bounds {
	if len(s) == 0 {
		return Bounds{}
	}
	b := Bounds{MinX: s[0].X, MinY: s[0].Y, MaxX: s[0].X, MaxY: s[0].Y}
	for _, p := range s[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Clone returns a copy of s that shares no memory with it.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Map returns a new stroke with fn applied to every point's coordinates.
// EOS flags are carried over unchanged.
func (s Stroke) Map(fn func(x, y float64) (float64, float64)) Stroke {
	out := make(Stroke, len(s))
	for i, p := range s {
		x, y := fn(p.X, p.Y)
		out[i] = Point{X: x, Y: y, EOS: p.EOS}
	}
	return out
}

// Segments splits s into maximal pen-down runs. A segment ends at a point
// whose EOS flag is set, or at the end of the stroke. The returned slices
// alias s.
func (s Stroke) Segments() []Stroke {
	var segs []Stroke
	start := 0
	for i, p := range s {
		if p.EOS {
			segs = append(segs, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		segs = append(segs, s[start:])
	}
	return segs
}

// Segments is a convenience wrapper around [Stroke.Segments].
func Segments(s Stroke) []Stroke { return s.Segments() }
