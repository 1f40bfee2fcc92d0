package stage

import (
	stdcolor "image/color"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/stage/internal/color"
)

// RGBA represents a straight-alpha color with float32 components.
// Components are typically in [0, 1] but any finite value is accepted;
// the fragment stage clamps its output.
type RGBA struct {
	R, G, B, A float32
}

// White is the default base color of the stage.
var White = RGBA{R: 1, G: 1, B: 1, A: 1}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float32) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Vec4 returns the color as an (r, g, b, a) vector.
func (c RGBA) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// FromVec4 creates a color from an (r, g, b, a) vector.
func FromVec4(v mgl32.Vec4) RGBA {
	return RGBA{R: v[0], G: v[1], B: v[2], A: v[3]}
}

// Clamp clamps every component to [0, 1] using Clamp01.
func (c RGBA) Clamp() RGBA {
	return RGBA{
		R: Clamp01(c.R),
		G: Clamp01(c.G),
		B: Clamp01(c.B),
		A: Clamp01(c.A),
	}
}

// Premultiplied returns the color with RGB multiplied by alpha.
func (c RGBA) Premultiplied() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// NRGBA converts the color to an 8-bit straight-alpha color.
// Out-of-range components saturate.
func (c RGBA) NRGBA() stdcolor.NRGBA {
	u := color.F32ToU8(color.ColorF32{R: c.R, G: c.G, B: c.B, A: c.A})
	return stdcolor.NRGBA{R: u.R, G: u.G, B: u.B, A: u.A}
}

// FromColor converts a standard color.Color to a straight-alpha RGBA.
func FromColor(c stdcolor.Color) RGBA {
	n := stdcolor.NRGBAModel.Convert(c).(stdcolor.NRGBA)
	f := color.U8ToF32(color.ColorU8{R: n.R, G: n.G, B: n.B, A: n.A})
	return RGBA{R: f.R, G: f.G, B: f.B, A: f.A}
}
