package stroke

import "math"

// AlignEpsilon is the horizontal variance at or below which the slope of a
// stroke is treated as undefined and alignment is skipped.
const AlignEpsilon = 1e-9

// Slope returns the least-squares slope of y over x. ok is false when s has
// fewer than two points or no horizontal spread.
func Slope(s Stroke) (slope float64, ok bool) {
	n := float64(len(s))
	if len(s) < 2 {
		return 0, false
	}
	var sumX, sumY float64
	for _, p := range s {
		sumX += p.X
		sumY += p.Y
	}
	meanX, meanY := sumX/n, sumY/n

	var varX, covXY float64
	for _, p := range s {
		dx := p.X - meanX
		varX += dx * dx
		covXY += dx * (p.Y - meanY)
	}
	if varX/n <= AlignEpsilon {
		return 0, false
	}
	return covXY / varX, true
}

// Align rotates s about the origin by the negative of its trend angle so the
// dominant writing direction becomes horizontal. No translation is applied.
// Degenerate strokes are returned unchanged.
func Align(s Stroke) Stroke {
	slope, ok := Slope(s)
	if !ok {
		return s.Clone()
	}
	theta := math.Atan(slope)
	sin, cos := math.Sincos(theta)
	return s.Map(func(x, y float64) (float64, float64) {
		return x*cos + y*sin, -x*sin + y*cos
	})
}
