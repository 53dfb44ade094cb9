package stroke

// DefaultDenoiseRatio is the fraction of the whole stroke's bounding-box
// diagonal below which a segment counts as sampling jitter. Tunable; chosen
// against reference output so that i-dots and short accents survive.
const DefaultDenoiseRatio = 0.002

// Denoise drops jitter segments using [DefaultDenoiseRatio].
func Denoise(s Stroke) Stroke {
	return DenoiseWithRatio(s, DefaultDenoiseRatio)
}

// DenoiseWithRatio drops every segment whose bounding-box diagonal is below
// ratio times the diagonal of the whole stroke. The first and last segments
// are always kept, so the endpoints of the stroke never move.
//
// Dropping segments can only shrink the overall bounding box, which lowers
// the threshold, so a second pass keeps everything the first pass kept.
func DenoiseWithRatio(s Stroke, ratio float64) Stroke {
	segs := s.Segments()
	if len(segs) <= 2 {
		return s.Clone()
	}
	threshold := ratio * s.Bounds().Diagonal()

	out := make(Stroke, 0, len(s))
	last := len(segs) - 1
	for i, seg := range segs {
		if i != 0 && i != last && seg.Bounds().Diagonal() < threshold {
			continue
		}
		out = append(out, seg...)
	}
	return out
}
