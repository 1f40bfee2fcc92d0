//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stage"
)

// Renderer draws triangle lists through the stage shader.
//
// GPU objects are created lazily by EnsurePipeline (or the first Prepare)
// and released by Destroy. A Renderer is not safe for concurrent use; the
// resulting Frames may be recorded from the goroutine that owns the pass.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
}

// NewRenderer creates a renderer that targets color attachments of the
// given format. No GPU objects are created until EnsurePipeline.
func NewRenderer(device hal.Device, queue hal.Queue, format gputypes.TextureFormat) *Renderer {
	return &Renderer{
		device: device,
		queue:  queue,
		format: format,
	}
}

// Format returns the color target format of the pipeline.
func (r *Renderer) Format() gputypes.TextureFormat {
	return r.format
}

// EnsurePipeline creates the shader, layouts and render pipeline if they
// don't already exist.
func (r *Renderer) EnsurePipeline() error {
	if r.pipeline != nil {
		return nil
	}
	if err := r.createPipeline(); err != nil {
		r.destroyPipeline()
		return err
	}
	stage.Logger().Info("gpu: stage pipeline created", "format", r.format)
	return nil
}

func (r *Renderer) createPipeline() error { //nolint:funlen // pipeline descriptor is a single cohesive unit
	shader, err := r.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "stage_shader",
		Source: hal.ShaderSource{WGSL: stageShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile stage shader: %w", err)
	}
	r.shader = shader

	uniformLayout, err := r.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "stage_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create stage uniform layout: %w", err)
	}
	r.uniformLayout = uniformLayout

	pipeLayout, err := r.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "stage_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{r.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create stage pipeline layout: %w", err)
	}
	r.pipeLayout = pipeLayout

	blend := straightAlphaBlend()
	pipeline, err := r.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "stage_pipeline",
		Layout: r.pipeLayout,
		Vertex: hal.VertexState{
			Module:     r.shader,
			EntryPoint: VertexEntryPoint,
			Buffers:    VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     r.shader,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    r.format,
					Blend:     &blend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create stage pipeline: %w", err)
	}
	r.pipeline = pipeline

	return nil
}

// Frame holds the GPU resources of one draw: the vertex buffer, the uniform
// buffer and the bind group that exposes it.
type Frame struct {
	device     hal.Device
	vertBuf    hal.Buffer
	uniformBuf hal.Buffer
	bindGroup  hal.BindGroup
	vertCount  uint32
}

// VertexCount returns the number of vertices the frame draws.
func (f *Frame) VertexCount() uint32 {
	if f == nil {
		return 0
	}
	return f.vertCount
}

// Destroy releases the frame's resources. Safe to call on a nil Frame and
// more than once.
func (f *Frame) Destroy() {
	if f == nil || f.device == nil {
		return
	}
	if f.bindGroup != nil {
		f.device.DestroyBindGroup(f.bindGroup)
		f.bindGroup = nil
	}
	if f.uniformBuf != nil {
		f.device.DestroyBuffer(f.uniformBuf)
		f.uniformBuf = nil
	}
	if f.vertBuf != nil {
		f.device.DestroyBuffer(f.vertBuf)
		f.vertBuf = nil
	}
}

// Prepare uploads vertices and uniforms for one draw. The uniforms must be
// finite (see stage.Uniforms.Validate). An empty vertex list returns a nil
// Frame, which Record ignores.
func (r *Renderer) Prepare(u stage.Uniforms, vertices []stage.VertexIn) (*Frame, error) {
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}
	if len(vertices) == 0 {
		return nil, nil
	}
	if err := r.EnsurePipeline(); err != nil {
		return nil, err
	}

	f := &Frame{device: r.device, vertCount: uint32(len(vertices))} //nolint:gosec // vertex counts fit in uint32

	var err error
	f.vertBuf, err = r.upload("stage_vertices", PackVertices(vertices),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	f.uniformBuf, err = r.upload("stage_uniforms", PackUniforms(u),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		f.Destroy()
		return nil, err
	}

	f.bindGroup, err = r.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "stage_bind",
		Layout: r.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: f.uniformBuf.NativeHandle(), Offset: 0, Size: UniformSize,
			}},
		},
	})
	if err != nil {
		f.Destroy()
		return nil, fmt.Errorf("create stage bind group: %w", err)
	}

	stage.Logger().Debug("gpu: stage frame prepared", "vertices", f.vertCount)
	return f, nil
}

func (r *Renderer) upload(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	r.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// Record records the frame's draw into rp. This is a no-op for a nil or
// empty frame.
func (r *Renderer) Record(rp hal.RenderPassEncoder, f *Frame) {
	if f == nil || f.vertCount == 0 || r.pipeline == nil {
		return
	}
	rp.SetPipeline(r.pipeline)
	rp.SetBindGroup(0, f.bindGroup, nil)
	rp.SetVertexBuffer(0, f.vertBuf, 0)
	rp.Draw(f.vertCount, 1, 0, 0)
}

// Destroy releases all GPU resources held by the renderer. Safe to call
// multiple times.
func (r *Renderer) Destroy() {
	r.destroyPipeline()
}

// destroyPipeline releases pipeline resources in reverse creation order.
func (r *Renderer) destroyPipeline() {
	if r.device == nil {
		return
	}
	if r.pipeline != nil {
		r.device.DestroyRenderPipeline(r.pipeline)
		r.pipeline = nil
	}
	if r.pipeLayout != nil {
		r.device.DestroyPipelineLayout(r.pipeLayout)
		r.pipeLayout = nil
	}
	if r.uniformLayout != nil {
		r.device.DestroyBindGroupLayout(r.uniformLayout)
		r.uniformLayout = nil
	}
	if r.shader != nil {
		r.device.DestroyShaderModule(r.shader)
		r.shader = nil
	}
}
