package stroke

// DefaultScale matches the model's native sampling scale to the canvas scale.
const DefaultScale = 1.5

// Decode scales every offset by scale and integrates the result into absolute
// coordinates. Point i is the running sum of offsets 0..i; the EOS flag of
// offset i is carried to point i.
func Decode(raw Raw, scale float64) Stroke {
	out := make(Stroke, len(raw))
	var x, y float64
	for i, o := range raw {
		x += o.DX * scale
		y += o.DY * scale
		out[i] = Point{X: x, Y: y, EOS: o.EOS}
	}
	return out
}

// Offsets differentiates s back into relative offsets, the inverse of
// [Decode] with a scale of 1.
func Offsets(s Stroke) Raw {
	out := make(Raw, len(s))
	var px, py float64
	for i, p := range s {
		out[i] = Offset{DX: p.X - px, DY: p.Y - py, EOS: p.EOS}
		px, py = p.X, p.Y
	}
	return out
}
