package stage

import "github.com/go-gl/mathgl/mgl32"

// Clamp01 clamps v to [0, 1].
//
// The bounds are tested with ordered comparisons, so NaN fails both and is
// returned unchanged. +Inf clamps to 1 and -Inf to 0.
func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// ComputeFragmentColor modulates the alpha channel of c by opacity and
// clamps every component to [0, 1].
//
// Red, green and blue are not affected by opacity. For finite inputs each
// component of the result lies in [0, 1]; NaN propagates per Clamp01.
func ComputeFragmentColor(c RGBA, opacity float32) RGBA {
	return RGBA{
		R: Clamp01(c.R),
		G: Clamp01(c.G),
		B: Clamp01(c.B),
		A: Clamp01(c.A * opacity),
	}
}

// PassThroughTextureCoordinate returns uv unchanged.
func PassThroughTextureCoordinate(uv mgl32.Vec2) mgl32.Vec2 {
	return uv
}

// ComputeClipPosition transforms a planar position into clip space.
//
// The position is extended to (x, y, 0, 1), transformed by modelView and
// then by projection. The matrices are not validated: singular matrices
// produce degenerate but deterministic output.
func ComputeClipPosition(position mgl32.Vec2, modelView, projection mgl32.Mat4) mgl32.Vec4 {
	p := mgl32.Vec4{position[0], position[1], 0, 1}
	return projection.Mul4x1(modelView.Mul4x1(p))
}
