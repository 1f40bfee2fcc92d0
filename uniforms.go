package stage

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniforms holds the inputs that may be shared by every invocation of a pass.
// The stage only reads them.
type Uniforms struct {
	// ModelView maps model coordinates into view space.
	ModelView mgl32.Mat4

	// Projection maps view space into clip space.
	Projection mgl32.Mat4

	// Color is the base color before opacity modulation.
	Color RGBA

	// Opacity scales the alpha channel of Color.
	Opacity float32
}

// DefaultUniforms returns identity matrices, a white color and full opacity.
func DefaultUniforms() Uniforms {
	return Uniforms{
		ModelView:  mgl32.Ident4(),
		Projection: mgl32.Ident4(),
		Color:      White,
		Opacity:    1,
	}
}

// WindowProjection returns an orthographic projection that maps a window of
// width x height units, origin at the bottom-left, onto clip space.
func WindowProjection(width, height float32) mgl32.Mat4 {
	return mgl32.Ortho2D(0, width, 0, height)
}

// Validate reports the first NaN or infinite value in u.
// The returned error wraps ErrNonFinite.
//
// The stage itself never validates; callers that accept uniforms from
// outside (scene files, GPU uploads) check them here first.
func (u Uniforms) Validate() error {
	if i, ok := firstNonFinite(u.ModelView[:]); ok {
		return fmt.Errorf("modelview[%d] = %v: %w", i, u.ModelView[i], ErrNonFinite)
	}
	if i, ok := firstNonFinite(u.Projection[:]); ok {
		return fmt.Errorf("projection[%d] = %v: %w", i, u.Projection[i], ErrNonFinite)
	}
	c := [4]float32{u.Color.R, u.Color.G, u.Color.B, u.Color.A}
	if i, ok := firstNonFinite(c[:]); ok {
		return fmt.Errorf("color[%d] = %v: %w", i, c[i], ErrNonFinite)
	}
	if !finite(u.Opacity) {
		return fmt.Errorf("opacity = %v: %w", u.Opacity, ErrNonFinite)
	}
	return nil
}

func firstNonFinite(values []float32) (int, bool) {
	for i, v := range values {
		if !finite(v) {
			return i, true
		}
	}
	return 0, false
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
