//go:build !nogpu

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stage"
)

// copyPitchAlignment is the WebGPU row alignment for texture-to-buffer copies.
const copyPitchAlignment = 256

// readbackTimeout bounds the fence wait of RenderImage.
const readbackTimeout = 5 * time.Second

// ErrUnsupportedFormat is returned by RenderImage for targets that are not
// 8-bit RGBA or BGRA.
var ErrUnsupportedFormat = errors.New("gpu: render target format not readable")

// ErrTimeout is returned when the GPU does not signal a fence in time.
var ErrTimeout = errors.New("gpu: wait for GPU timed out")

// RenderImage draws vertices into an offscreen texture cleared to
// transparent and reads the result back.
//
// The renderer's format must be RGBA8Unorm or BGRA8Unorm. The returned image
// holds straight-alpha blending results as written by the GPU.
func (r *Renderer) RenderImage(u stage.Uniforms, vertices []stage.VertexIn, width, height int) (*image.RGBA, error) {
	if err := stage.CheckImageSize(width, height); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}
	bgra := false
	switch r.format {
	case gputypes.TextureFormatRGBA8Unorm:
	case gputypes.TextureFormatBGRA8Unorm:
		bgra = true
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, r.format)
	}

	frame, err := r.Prepare(u, vertices)
	if err != nil {
		return nil, err
	}
	defer frame.Destroy()
	if err := r.EnsurePipeline(); err != nil {
		return nil, err
	}

	w, h := uint32(width), uint32(height) //nolint:gosec // bounded by CheckImageSize
	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "stage_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        r.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create stage target: %w", err)
	}
	defer r.device.DestroyTexture(tex)

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "stage_target_view",
	})
	if err != nil {
		return nil, fmt.Errorf("create stage target view: %w", err)
	}
	defer r.device.DestroyTextureView(view)

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "stage_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create stage staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(staging)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "stage_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("stage_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "stage_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})
	r.Record(rp, frame)
	rp.End()

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := r.waitFence(fence); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	unpackRows(img.Pix, readback, int(bytesPerRow), int(alignedBytesPerRow), height, bgra)

	stage.Logger().Debug("gpu: stage image rendered", "width", width, "height", height, "vertices", frame.VertexCount())
	return img, nil
}

func (r *Renderer) waitFence(fence hal.Fence) error {
	ok, err := r.device.Wait(fence, 1, readbackTimeout)
	return fenceResult(ok, err)
}

// fenceResult maps the outcome of a fence wait to an error.
func fenceResult(signaled bool, err error) error {
	if err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	if !signaled {
		return ErrTimeout
	}
	return nil
}

// unpackRows copies height rows of rowBytes from the padded src into the
// tight dst, swapping red and blue when bgra is set.
func unpackRows(dst, src []byte, rowBytes, srcStride, height int, bgra bool) {
	for y := range height {
		d := dst[y*rowBytes : (y+1)*rowBytes]
		copy(d, src[y*srcStride:y*srcStride+rowBytes])
		if bgra {
			for i := 0; i < len(d); i += 4 {
				d[i], d[i+2] = d[i+2], d[i]
			}
		}
	}
}
