package stage

import "github.com/go-gl/mathgl/mgl32"

// VertexIn is the per-vertex input of the stage.
type VertexIn struct {
	Position mgl32.Vec2
	TexCoord mgl32.Vec2
}

// VertexOut is the per-vertex output of the stage.
type VertexOut struct {
	// ClipPosition is the homogeneous position before perspective divide.
	ClipPosition mgl32.Vec4

	// TexCoord is the input texture coordinate, unchanged.
	TexCoord mgl32.Vec2
}

// Vertex runs one vertex invocation.
func (u Uniforms) Vertex(in VertexIn) VertexOut {
	return VertexOut{
		ClipPosition: ComputeClipPosition(in.Position, u.ModelView, u.Projection),
		TexCoord:     PassThroughTextureCoordinate(in.TexCoord),
	}
}

// Fragment runs one fragment invocation with the uniform color and opacity.
func (u Uniforms) Fragment() RGBA {
	return ComputeFragmentColor(u.Color, u.Opacity)
}
