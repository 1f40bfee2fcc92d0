//go:build !nogpu

package gpu

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrNoHAL is returned when a device provider doesn't expose wgpu/hal
// objects.
var ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

// DefaultFormat is used when the provider reports an undefined surface
// format, as in offscreen setups.
const DefaultFormat = gputypes.TextureFormatRGBA8Unorm

// halProvider is implemented by hosts (e.g. gogpu) that share their
// wgpu/hal device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewRendererFromProvider creates a Renderer on a host's shared device.
// The renderer does not own the device; Destroy only releases what the
// renderer created.
func NewRendererFromProvider(provider gpucontext.DeviceProvider) (*Renderer, error) {
	if provider == nil {
		return nil, ErrNoHAL
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, errors.New("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("gpu: provider HalQueue is not hal.Queue")
	}

	format := provider.SurfaceFormat()
	if format == gputypes.TextureFormatUndefined {
		format = DefaultFormat
	}
	return NewRenderer(device, queue, format), nil
}
