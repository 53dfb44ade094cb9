// Package path converts laid-out strokes into pen-up/pen-down path commands.
//
// A [Path] is a typed sequence of [Command] values. Geometry stays typed until
// [Path.String] serializes it to SVG path syntax ("M x,y" / "L x,y"), and
// [Parse] reads that syntax back.
//
// Every path starts with a move to the origin. After that, a point opens a
// new subpath when it is the first point of the stroke or when the point
// before it carried the end-of-stroke flag; otherwise it is connected to its
// predecessor with a line:
//
//	p := path.FromStroke(s)
//	d := p.String() // "M0,0 M12.5,40 L13,41.5 ..."
package path

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/penstroke/pkg/core/stroke"
)

// Op identifies a path command.
type Op byte

const (
	// MoveOp lifts the pen and moves it to a point.
	MoveOp Op = 'M'
	// LineOp draws a straight line to a point.
	LineOp Op = 'L'
)

// Command is a single path instruction.
type Command struct {
	Op Op
	X  float64
	Y  float64
}

// MoveTo returns a move command.
func MoveTo(x, y float64) Command { return Command{Op: MoveOp, X: x, Y: y} }

// LineTo returns a line command.
func LineTo(x, y float64) Command { return Command{Op: LineOp, X: x, Y: y} }

// String formats the command in SVG path syntax.
func (c Command) String() string {
	return string(c.Op) + formatFloat(c.X) + "," + formatFloat(c.Y)
}

// Path is an ordered list of commands.
type Path []Command

// FromStroke builds the path for a laid-out stroke. An empty stroke yields an
// empty path.
func FromStroke(s stroke.Stroke) Path {
	if len(s) == 0 {
		return nil
	}
	p := make(Path, 0, len(s)+1)
	p = append(p, MoveTo(0, 0))

	prevEOS := true
	for _, pt := range s {
		if prevEOS {
			p = append(p, MoveTo(pt.X, pt.Y))
		} else {
			p = append(p, LineTo(pt.X, pt.Y))
		}
		prevEOS = pt.EOS
	}
	return p
}

// Subpaths returns the number of move commands in p.
func (p Path) Subpaths() int {
	n := 0
	for _, c := range p {
		if c.Op == MoveOp {
			n++
		}
	}
	return n
}

// String serializes p as space-separated SVG path commands.
func (p Path) String() string {
	var b strings.Builder
	for i, c := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

// Parse reads a path written by [Path.String]. Only absolute M and L commands
// are accepted.
func Parse(d string) (Path, error) {
	fields := strings.Fields(d)
	p := make(Path, 0, len(fields))
	for _, f := range fields {
		op := Op(f[0])
		if op != MoveOp && op != LineOp {
			return nil, fmt.Errorf("unsupported path command %q", f[0])
		}
		xs, ys, ok := strings.Cut(f[1:], ",")
		if !ok {
			return nil, fmt.Errorf("malformed coordinate %q", f)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("parse x in %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("parse y in %q: %w", f, err)
		}
		p = append(p, Command{Op: op, X: x, Y: y})
	}
	return p, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
