// Package color provides the float32 and 8-bit color representations used
// when stage output is written into images.
package color

// ColorF32 represents a color with float32 components.
// Components are expected in [0,1]; conversions saturate values outside it.
// Alpha is straight (not premultiplied).
type ColorF32 struct {
	R, G, B, A float32
}

// ColorU8 represents a color with uint8 components in [0,255].
// Alpha is straight (not premultiplied).
type ColorU8 struct {
	R, G, B, A uint8
}
