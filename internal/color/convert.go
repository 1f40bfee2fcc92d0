package color

// U8ToF32 converts ColorU8 to ColorF32.
// Each uint8 component [0,255] is mapped to float32 [0,1].
func U8ToF32(c ColorU8) ColorF32 {
	return ColorF32{
		R: float32(c.R) / 255.0,
		G: float32(c.G) / 255.0,
		B: float32(c.B) / 255.0,
		A: float32(c.A) / 255.0,
	}
}

// F32ToU8 converts ColorF32 to ColorU8.
// Each component is saturated to [0,1] and mapped to [0,255] with rounding.
// NaN maps to 0.
func F32ToU8(c ColorF32) ColorU8 {
	return ColorU8{
		R: saturateAndRound(c.R),
		G: saturateAndRound(c.G),
		B: saturateAndRound(c.B),
		A: saturateAndRound(c.A),
	}
}

// saturateAndRound maps v to uint8 with rounding to nearest.
// The comparison order sends NaN to 0.
func saturateAndRound(v float32) uint8 {
	if v >= 1 {
		return 255
	}
	if !(v > 0) {
		return 0
	}
	return uint8(v*255.0 + 0.5)
}
