// Package layout places processed handwriting lines on a fixed-width canvas.
//
// Lines are stacked top to bottom with a constant pitch. Every line, blank or
// not, advances the vertical cursor by one line height, so the canvas size
// depends on the line count alone:
//
//	height = lineHeight * (lines + 1)
//
// Each line is centered horizontally on its own.
package layout

import "github.com/matzehuels/penstroke/pkg/core/stroke"

const (
	// DefaultWidth is the default canvas width.
	DefaultWidth = 1000

	// DefaultLineHeight is the default vertical pitch between lines.
	DefaultLineHeight = 60
)

// Canvas holds the dimensions of the output drawing.
type Canvas struct {
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

// CanvasFor returns the canvas for n lines.
func CanvasFor(n, width, lineHeight int) Canvas {
	return Canvas{Width: width, Height: lineHeight * (n + 1)}
}

// Baseline returns the vertical cursor for line i. The cursor starts three
// quarters of a line above the nominal top and moves down one line height
// per line.
func Baseline(i, lineHeight int) float64 {
	h := float64(lineHeight)
	return -(3*h/4) - float64(i)*h
}

// Place positions every line in canvas coordinates and returns the placed
// lines in input order together with the canvas size. Empty lines stay
// empty but still consume a line of vertical space.
func Place(lines []stroke.Stroke, width, lineHeight int) ([]stroke.Stroke, Canvas) {
	placed := make([]stroke.Stroke, len(lines))
	for i, s := range lines {
		placed[i] = PlaceLine(s, Baseline(i, lineHeight), width)
	}
	return placed, CanvasFor(len(lines), width, lineHeight)
}

// PlaceLine flips s into image coordinates (y grows downward), moves its top
// edge to -cursor and its left edge to 0, and then centers it within width.
func PlaceLine(s stroke.Stroke, cursor float64, width int) stroke.Stroke {
	if len(s) == 0 {
		return stroke.Stroke{}
	}
	flipped := s.Map(func(x, y float64) (float64, float64) { return x, -y })

	b := flipped.Bounds()
	shiftX := -b.MinX + (float64(width)-b.Width())/2
	shiftY := -b.MinY - cursor
	return flipped.Map(func(x, y float64) (float64, float64) {
		return x + shiftX, y + shiftY
	})
}
