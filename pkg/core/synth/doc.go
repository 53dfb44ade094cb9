// Package synth turns sampled handwriting into laid-out, styled vector paths.
//
// A synthesis call takes one [LineRequest] per line of text. The lines are
// validated, sent to a [model.Sampler] in a single call, and the returned
// offsets run through the stroke pipeline:
//
//	decode → denoise → align → layout → path
//
// Each non-blank line yields one [path.Descriptor]. Blank lines yield none
// but still take up a line of vertical space, so the canvas height depends
// on the line count alone.
//
// Every stage after sampling is a pure function of its input. Concurrent
// calls share no state; the only shared resource is the sampler, which the
// caller owns (see [model.Lazy]).
//
// # Errors
//
// A call fails as a whole; no line is skipped. Errors carry a code from
// [github.com/matzehuels/penstroke/pkg/errors]:
//
//   - INVALID_LINE: a line is too long or has a character outside
//     [model.Alphabet]. Reported before the model is called.
//   - EMPTY_INPUT: every line is blank.
//   - MODEL_INVOCATION: the sampler failed, returned the wrong number of
//     strokes, or returned an empty stroke for a non-blank line.
package synth
