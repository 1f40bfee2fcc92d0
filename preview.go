package stage

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"
)

// MaxImageSize is the largest width or height accepted for rendered images
// and scenes.
const MaxImageSize = 16384

// CheckImageSize reports ErrInvalidSize unless both dimensions are in
// [1, MaxImageSize].
func CheckImageSize(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxImageSize || height > MaxImageSize {
		return fmt.Errorf("%dx%d (max %d): %w", width, height, MaxImageSize, ErrInvalidSize)
	}
	return nil
}

// Preview rasterizes a triangle list through the stage on the CPU.
//
// Vertices are consumed three at a time; a trailing partial triangle is
// ignored. Each vertex runs through u.Vertex and the results are drawn by
// PreviewClip with u.Fragment() as the color.
func Preview(u Uniforms, vertices []VertexIn, width, height int) (*image.RGBA, error) {
	if err := CheckImageSize(width, height); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	clip := make([]VertexOut, len(vertices))
	for i, v := range vertices {
		clip[i] = u.Vertex(v)
	}
	return PreviewClip(clip, u.Fragment(), width, height)
}

// PreviewClip rasterizes already transformed vertices, for example the
// output of Processor.ProcessVertices, filled with c.
//
// Each clip position is divided by w and mapped to the image with clip-space
// y pointing up. Triangles are clipped to the image rectangle, covered by an
// anti-aliased scanline rasterizer and composited source-over. There is no
// clipping against the near plane: a triangle with any w <= 0 is skipped.
func PreviewClip(vertices []VertexOut, c RGBA, width, height int) (*image.RGBA, error) {
	if err := CheckImageSize(width, height); err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := image.NewUniform(c.NRGBA())
	z := vector.NewRasterizer(width, height)

	var poly [maxClipVertices][2]float32
	drawn, skipped := 0, 0
	for i := 0; i+3 <= len(vertices); i += 3 {
		var tri [3][2]float32
		visible := true
		for j := range tri {
			clip := vertices[i+j].ClipPosition
			if !(clip[3] > 0) {
				visible = false
				break
			}
			tri[j] = toViewport(clip, width, height)
			if !finite(tri[j][0]) || !finite(tri[j][1]) {
				visible = false
				break
			}
		}
		if !visible {
			skipped++
			continue
		}

		n := clipToRect(tri, float32(width), float32(height), &poly)
		if n < 3 {
			continue
		}

		z.Reset(width, height)
		z.DrawOp = draw.Over
		z.MoveTo(poly[0][0], poly[0][1])
		for _, p := range poly[1:n] {
			z.LineTo(p[0], p[1])
		}
		z.ClosePath()
		z.Draw(dst, dst.Bounds(), src, image.Point{})
		drawn++
	}

	log := Logger()
	log.Debug("preview rasterized", "triangles", drawn, "width", width, "height", height)
	if skipped > 0 {
		log.Warn("preview skipped triangles behind the eye", "count", skipped)
	}
	return dst, nil
}

// toViewport performs the perspective divide and maps normalized device
// coordinates to pixels. The result may lie outside the image.
func toViewport(clip mgl32.Vec4, width, height int) [2]float32 {
	w, h := float32(width), float32(height)
	x := (clip[0]/clip[3] + 1) * 0.5 * w
	y := (1 - clip[1]/clip[3]) * 0.5 * h
	return [2]float32{x, y}
}

// maxClipVertices bounds a triangle clipped by four half-planes.
const maxClipVertices = 7

// clipToRect clips tri to [0, w] x [0, h] (Sutherland-Hodgman) and writes
// the resulting polygon to out. It returns the number of vertices, which is
// below 3 when nothing remains.
func clipToRect(tri [3][2]float32, w, h float32, out *[maxClipVertices][2]float32) int {
	var a, b [maxClipVertices][2]float32
	copy(a[:], tri[:])
	n := 3

	// Each edge keeps the points where axis coordinate (0 = x, 1 = y) is on
	// the inside of bound.
	edges := [4]struct {
		axis  int
		bound float32
		keep  func(v, bound float32) bool
	}{
		{0, 0, func(v, bound float32) bool { return v >= bound }},
		{0, w, func(v, bound float32) bool { return v <= bound }},
		{1, 0, func(v, bound float32) bool { return v >= bound }},
		{1, h, func(v, bound float32) bool { return v <= bound }},
	}

	in, res := &a, &b
	for _, e := range edges {
		m := 0
		for i := range n {
			cur, next := in[i], in[(i+1)%n]
			curIn, nextIn := e.keep(cur[e.axis], e.bound), e.keep(next[e.axis], e.bound)
			if curIn {
				res[m] = cur
				m++
			}
			if curIn != nextIn {
				t := (e.bound - cur[e.axis]) / (next[e.axis] - cur[e.axis])
				p := [2]float32{
					cur[0] + t*(next[0]-cur[0]),
					cur[1] + t*(next[1]-cur[1]),
				}
				p[e.axis] = e.bound
				res[m] = p
				m++
			}
		}
		n = m
		if n == 0 {
			return 0
		}
		in, res = res, in
	}
	*out = *in
	return n
}
