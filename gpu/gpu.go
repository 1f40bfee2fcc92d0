// Package gpu runs the opacity shading stage as a WebGPU render pipeline.
//
// The WGSL module in shaders/stage.wgsl mirrors the CPU reference in package
// stage: vs_main computes projection * (modelView * (x, y, 0, 1)) and passes
// the texture coordinate through, fs_main returns
// clamp(color * (1, 1, 1, opacity), 0, 1).
//
// Renderer owns the shader module, layouts and pipeline on a wgpu/hal device.
// Per-draw vertex and uniform data is uploaded by Prepare and recorded into
// a caller-owned render pass with Record:
//
//	r := gpu.NewRenderer(device, queue, gputypes.TextureFormatBGRA8Unorm)
//	defer r.Destroy()
//
//	frame, err := r.Prepare(uniforms, vertices)
//	if err != nil {
//	    return err
//	}
//	defer frame.Destroy()
//	r.Record(pass, frame)
//
// RenderImage draws offscreen and reads the pixels back, and
// NewRendererFromProvider attaches to a host's device (for example gogpu)
// through gpucontext.
//
// NaN handling on the GPU follows the platform's clamp; the CPU reference
// documents the deterministic rule.
package gpu
