// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/stage"
)

// UniformSize is the byte size of the stage uniform block.
// Layout (std140-compatible, column-major matrices):
//
//	model_view (mat4x4<f32>) = 64 bytes  (offset 0)
//	projection (mat4x4<f32>) = 64 bytes  (offset 64)
//	color      (vec4<f32>)   = 16 bytes  (offset 128)
//	opacity    (f32)         = 4 bytes   (offset 144)
//	padding                  = 12 bytes  (offset 148)
//
// Total = 160 bytes.
const UniformSize = 160

// VertexStride is the byte stride per vertex.
// Layout per vertex:
//
//	position  (vec2<f32>) = 8 bytes (location 0)
//	tex_coord (vec2<f32>) = 8 bytes (location 1)
const VertexStride = 16

// VertexLayout returns the vertex buffer layout of the stage pipeline.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1}, // tex_coord
			},
		},
	}
}

// PackUniforms serializes u into the uniform block layout.
func PackUniforms(u stage.Uniforms) []byte {
	buf := make([]byte, UniformSize)
	off := 0
	put := func(v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
		off += 4
	}

	for _, v := range u.ModelView {
		put(v)
	}
	for _, v := range u.Projection {
		put(v)
	}
	put(u.Color.R)
	put(u.Color.G)
	put(u.Color.B)
	put(u.Color.A)
	put(u.Opacity)
	// Remaining 12 bytes stay zero.
	return buf
}

// PackVertices serializes vertices into the vertex buffer layout.
func PackVertices(vertices []stage.VertexIn) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	for i, v := range vertices {
		base := i * VertexStride
		binary.LittleEndian.PutUint32(buf[base+0:], math.Float32bits(v.Position[0]))
		binary.LittleEndian.PutUint32(buf[base+4:], math.Float32bits(v.Position[1]))
		binary.LittleEndian.PutUint32(buf[base+8:], math.Float32bits(v.TexCoord[0]))
		binary.LittleEndian.PutUint32(buf[base+12:], math.Float32bits(v.TexCoord[1]))
	}
	return buf
}

// straightAlphaBlend composites the stage's non-premultiplied output over
// the target.
func straightAlphaBlend() gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorSrcAlpha,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: gputypes.BlendFactorOne,
			DstFactor: gputypes.BlendFactorOneMinusSrcAlpha,
			Operation: gputypes.BlendOperationAdd,
		},
	}
}
