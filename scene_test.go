package stage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const quadScene = `
width: 64
height: 32
color: [1, 0.5, 0.25, 1]
opacity: 0.5
modelview: {translate: [32, 16], scale: [16, 8]}
projection: {ortho: [0, 64, 0, 32]}
vertices:
  - {pos: [-1, -1], uv: [0, 0]}
  - {pos: [1, -1], uv: [1, 0]}
  - {pos: [1, 1], uv: [1, 1]}
  - {pos: [-1, -1]}
`

func TestParseScene(t *testing.T) {
	s, err := ParseScene([]byte(quadScene))
	if err != nil {
		t.Fatalf("ParseScene() = %v", err)
	}
	if s.Width != 64 || s.Height != 32 {
		t.Errorf("size = %dx%d, want 64x32", s.Width, s.Height)
	}

	u, err := s.Uniforms()
	if err != nil {
		t.Fatalf("Uniforms() = %v", err)
	}
	if got, want := u.Fragment(), (RGBA{1, 0.5, 0.25, 0.5}); got != want {
		t.Errorf("Fragment() = %v, want %v", got, want)
	}

	in := s.VertexInputs()
	if len(in) != 4 {
		t.Fatalf("len(VertexInputs()) = %d, want 4", len(in))
	}
	if in[3].TexCoord != (mgl32.Vec2{}) {
		t.Errorf("missing uv = %v, want zero", in[3].TexCoord)
	}

	// (1, 1) -> model (48, 24) -> clip (0.5, 0.5).
	clip := u.Vertex(in[2]).ClipPosition
	if !clip.ApproxEqualThreshold(mgl32.Vec4{0.5, 0.5, 0, 1}, 1e-5) {
		t.Errorf("clip = %v, want (0.5, 0.5, 0, 1)", clip)
	}
}

func TestParseSceneDefaults(t *testing.T) {
	s, err := ParseScene([]byte("vertices: []\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width != DefaultSceneSize || s.Height != DefaultSceneSize {
		t.Errorf("size = %dx%d, want default", s.Width, s.Height)
	}
	u, err := s.Uniforms()
	if err != nil {
		t.Fatal(err)
	}
	if u != DefaultUniforms() {
		t.Errorf("Uniforms() = %+v, want defaults", u)
	}
}

func TestParseSceneRGBColor(t *testing.T) {
	s, err := ParseScene([]byte("color: [0.1, 0.2, 0.3]\nopacity: 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	u, err := s.Uniforms()
	if err != nil {
		t.Fatal(err)
	}
	if u.Color != RGB(0.1, 0.2, 0.3) {
		t.Errorf("color = %v", u.Color)
	}
	if u.Fragment().A != 0 {
		t.Errorf("alpha with zero opacity = %v", u.Fragment().A)
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", ""},
		{"unknown field", "colour: [1, 1, 1]\n"},
		{"negative size", "width: -3\n"},
		{"bad pos", "vertices:\n  - {pos: [1]}\n"},
		{"bad uv", "vertices:\n  - {pos: [1, 2], uv: [1, 2, 3]}\n"},
		{"bad color", "color: [1, 1]\n"},
		{"not yaml", "width: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.yaml)); err == nil {
				t.Error("ParseScene() = nil error")
			}
		})
	}
}

func TestParseSceneSizeLimit(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative width", "width: -3\n"},
		{"huge width", "width: 4294967296\nheight: 16\n"},
		{"huge height", "height: 4294967296\n"},
		{"just over the limit", "width: 16385\nheight: 16\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseScene([]byte(tt.yaml)); !errors.Is(err, ErrInvalidSize) {
				t.Errorf("ParseScene() = %v, want ErrInvalidSize", err)
			}
		})
	}

	s, err := ParseScene([]byte("width: 16384\nheight: 1\n"))
	if err != nil {
		t.Fatalf("ParseScene(at limit) = %v", err)
	}
	if s.Width != MaxImageSize {
		t.Errorf("Width = %d, want %d", s.Width, MaxImageSize)
	}
}

func TestSceneUniformsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"short values", "projection: {values: [1, 2, 3]}\n", ErrBadMatrix},
		{"short ortho", "projection: {ortho: [0, 1]}\n", ErrBadMatrix},
		{"bad translate", "modelview: {translate: [1]}\n", ErrBadMatrix},
		{"bad scale", "modelview: {scale: [1, 2, 3, 4]}\n", ErrBadMatrix},
		{"nan opacity", "opacity: .nan\n", ErrNonFinite},
		{"inf color", "color: [1, .inf, 0, 1]\n", ErrNonFinite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScene([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("ParseScene() = %v", err)
			}
			if _, err := s.Uniforms(); !errors.Is(err, tt.want) {
				t.Errorf("Uniforms() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMatrixSpec(t *testing.T) {
	values := make([]float32, 16)
	for i := range values {
		values[i] = float32(i)
	}

	tests := []struct {
		name string
		spec MatrixSpec
		want mgl32.Mat4
	}{
		{"identity", MatrixSpec{}, mgl32.Ident4()},
		{"values column-major", MatrixSpec{Values: values}, mgl32.Mat4{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{"values win over ortho", MatrixSpec{Values: values, Ortho: []float32{0, 1, 0, 1}}, mgl32.Mat4{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}},
		{"ortho", MatrixSpec{Ortho: []float32{0, 10, 0, 20}}, mgl32.Ortho2D(0, 10, 0, 20)},
		{"translate 3d", MatrixSpec{Translate: []float32{1, 2, 3}}, mgl32.Translate3D(1, 2, 3)},
		{"scale 2d", MatrixSpec{Scale: []float32{2, 3}}, mgl32.Scale3D(2, 3, 1)},
		{"rotate", MatrixSpec{Rotate: 0.5}, mgl32.HomogRotate3DZ(0.5)},
		{
			"trs order",
			MatrixSpec{Translate: []float32{5, 0}, Rotate: 1, Scale: []float32{2, 2}},
			mgl32.Translate3D(5, 0, 0).Mul4(mgl32.HomogRotate3DZ(1)).Mul4(mgl32.Scale3D(2, 2, 1)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.spec.Matrix()
			if err != nil {
				t.Fatal(err)
			}
			if !got.ApproxEqualThreshold(tt.want, 1e-6) {
				t.Errorf("Matrix() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(quadScene), 0o600); err != nil {
		t.Fatal(err)
	}
	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene() = %v", err)
	}
	if len(s.Vertices) != 4 {
		t.Errorf("len(Vertices) = %d, want 4", len(s.Vertices))
	}

	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadScene(missing) = %v, want ErrNotExist", err)
	}
}
