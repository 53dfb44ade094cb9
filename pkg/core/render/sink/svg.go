package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/penstroke/pkg/core/synth"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	background string
	sized      bool
}

// WithBackground fills the canvas with color behind the strokes.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithSize adds explicit width and height attributes matching the viewBox.
func WithSize() SVGOption { return func(r *svgRenderer) { r.sized = true } }

// RenderSVG writes res as a standalone SVG document with viewBox
// "0 0 width height".
func RenderSVG(res *synth.Result, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	w, h := res.Canvas.Width, res.Canvas.Height
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" viewBox="0 0 %d %d"`, w, h)
	if r.sized {
		fmt.Fprintf(&buf, ` width="%d" height="%d"`, w, h)
	}
	buf.WriteString(">\n")

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
			w, h, html.EscapeString(r.background))
	}
	for _, p := range res.Paths {
		fmt.Fprintf(&buf, `  <path d="%s" fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round"/>`+"\n",
			p.Path, html.EscapeString(p.Color), p.Width)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
