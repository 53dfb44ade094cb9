// Package stroke reconstructs and cleans pen trajectories sampled by a
// handwriting model.
//
// # Overview
//
// A handwriting model emits one [Offset] per time step: the relative pen
// motion (DX, DY) and an end-of-stroke flag. This package turns such a [Raw]
// sequence into an absolute [Stroke] and prepares it for layout:
//
//  1. [Decode]: scale the offsets and integrate them into absolute points
//  2. [Denoise]: drop tiny segments produced by sampling jitter
//  3. [Align]: rotate the point cloud so the writing direction is horizontal
//
// Every function returns a new slice and never modifies its input, so stages
// can be tested in isolation and buffers can be shared between lines safely.
//
// # Pen Lifts
//
// A point with EOS set is the last point of a segment; the point after it
// starts a new pen-down segment. [Segments] splits a stroke along these
// boundaries.
//
//	s := stroke.Decode(raw, stroke.DefaultScale)
//	s = stroke.Denoise(s)
//	s = stroke.Align(s)
package stroke
