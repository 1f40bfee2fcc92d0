// Package stage implements an opacity-modulating shading stage for planar
// content drawn through a 3D transform pipeline.
//
// # Overview
//
// The stage is a pure function split into the two invocation contexts of a
// graphics pipeline:
//
//   - vertex: (x, y) is extended to (x, y, 0, 1) and transformed by the
//     model-view and then the projection matrix; the texture coordinate
//     passes through unchanged.
//   - fragment: the base color is multiplied by (1, 1, 1, opacity) and each
//     component is clamped to [0, 1].
//
// # Quick Start
//
//	u := stage.DefaultUniforms()
//	u.Projection = stage.WindowProjection(800, 600)
//	u.Color = stage.RGB(1, 0.5, 0)
//	u.Opacity = 0.5
//
//	out := u.Vertex(stage.VertexIn{Position: mgl32.Vec2{400, 300}})
//	frag := u.Fragment() // (1, 0.5, 0, 0.5)
//
// # Concurrency
//
// The free functions and Uniforms methods keep no state and may be called
// from any number of goroutines. Processor spreads large batches over a
// worker pool.
//
// # NaN
//
// Clamping uses ordered comparisons: NaN fails both bounds and propagates
// unchanged, +Inf clamps to 1 and -Inf to 0. Uniforms.Validate lets callers
// reject non-finite input before it reaches the stage.
//
// # Architecture
//
//   - Public API: Uniforms, RGBA, VertexIn/VertexOut, Processor, Preview, Scene
//   - gpu: the same stage as a WGSL render pipeline on gogpu/wgpu
//   - internal/parallel: worker pool behind Processor
//   - internal/color: float32 to 8-bit conversion for image output
package stage

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
