package path

import "github.com/matzehuels/penstroke/pkg/core/stroke"

const (
	// DefaultColor is the stroke color used when none is given.
	DefaultColor = "black"

	// DefaultStrokeWidth is the stroke width used when none is given.
	DefaultStrokeWidth = 2.0
)

// Descriptor is the serialized path of one line plus its stroke style.
// Paths are always open, unfilled and drawn with round caps, so only color
// and width vary.
type Descriptor struct {
	Path  string  `json:"path" bson:"path"`
	Color string  `json:"color" bson:"color"`
	Width float64 `json:"width" bson:"width"`
}

// Describe builds the descriptor for a laid-out stroke.
func Describe(s stroke.Stroke, color string, width float64) Descriptor {
	return Descriptor{
		Path:  FromStroke(s).String(),
		Color: color,
		Width: width,
	}
}

// Commands parses the descriptor's path back into commands.
func (d Descriptor) Commands() (Path, error) {
	return Parse(d.Path)
}
