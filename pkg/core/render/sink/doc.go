// Package sink renders synthesized handwriting into output documents.
//
// A "sink" turns a [synth.Result] into bytes:
//
//   - SVG: one open, unfilled, round-capped path per written line
//   - JSON: canvas size plus the path descriptors, for storage and clients
//   - PDF: the SVG converted with rsvg-convert
//
// Basic usage:
//
//	svg := sink.RenderSVG(res, sink.WithBackground("white"))
//	doc, err := sink.RenderJSON(res)
package sink
