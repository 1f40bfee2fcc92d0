package stage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// DefaultSceneSize is the preview width and height used when a scene file
// does not set them.
const DefaultSceneSize = 256

// Scene is a declarative description of one stage pass: the uniforms, the
// triangle list and the preview size. Scenes are stored as YAML:
//
//	width: 256
//	height: 256
//	color: [1, 0.5, 0.25, 1]
//	opacity: 0.5
//	modelview: {translate: [128, 128], rotate: 0.3, scale: [64, 64]}
//	projection: {ortho: [0, 256, 0, 256]}
//	vertices:
//	  - {pos: [-1, -1], uv: [0, 0]}
//	  - {pos: [1, -1], uv: [1, 0]}
//	  - {pos: [1, 1], uv: [1, 1]}
type Scene struct {
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Color      []float32     `yaml:"color"`
	Opacity    *float32      `yaml:"opacity"`
	ModelView  MatrixSpec    `yaml:"modelview"`
	Projection MatrixSpec    `yaml:"projection"`
	Vertices   []SceneVertex `yaml:"vertices"`
}

// SceneVertex is one vertex of a scene's triangle list.
type SceneVertex struct {
	Pos []float32 `yaml:"pos"`
	UV  []float32 `yaml:"uv"`
}

// MatrixSpec describes a 4x4 matrix in a scene file.
//
// The base matrix is Values (16 numbers, column-major) if present, else an
// orthographic projection from Ortho (left, right, bottom, top), else the
// identity. Translate, Rotate (radians about Z) and Scale are then applied
// on top, in that order: base * T * R * S.
type MatrixSpec struct {
	Values    []float32 `yaml:"values"`
	Ortho     []float32 `yaml:"ortho"`
	Translate []float32 `yaml:"translate"`
	Rotate    float32   `yaml:"rotate"`
	Scale     []float32 `yaml:"scale"`
}

// Matrix builds the described matrix.
func (m MatrixSpec) Matrix() (mgl32.Mat4, error) {
	base := mgl32.Ident4()
	switch {
	case m.Values != nil:
		if len(m.Values) != 16 {
			return base, fmt.Errorf("values: got %d numbers, want 16: %w", len(m.Values), ErrBadMatrix)
		}
		copy(base[:], m.Values)
	case m.Ortho != nil:
		if len(m.Ortho) != 4 {
			return base, fmt.Errorf("ortho: got %d numbers, want 4: %w", len(m.Ortho), ErrBadMatrix)
		}
		base = mgl32.Ortho2D(m.Ortho[0], m.Ortho[1], m.Ortho[2], m.Ortho[3])
	}

	if m.Translate != nil {
		t, err := vec3(m.Translate, 0, "translate")
		if err != nil {
			return base, err
		}
		base = base.Mul4(mgl32.Translate3D(t[0], t[1], t[2]))
	}
	if m.Rotate != 0 {
		base = base.Mul4(mgl32.HomogRotate3DZ(m.Rotate))
	}
	if m.Scale != nil {
		s, err := vec3(m.Scale, 1, "scale")
		if err != nil {
			return base, err
		}
		base = base.Mul4(mgl32.Scale3D(s[0], s[1], s[2]))
	}
	return base, nil
}

// vec3 accepts two or three numbers; a missing z takes the given default.
func vec3(v []float32, z float32, name string) (mgl32.Vec3, error) {
	switch len(v) {
	case 2:
		return mgl32.Vec3{v[0], v[1], z}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("%s: got %d numbers, want 2 or 3: %w", name, len(v), ErrBadMatrix)
}

// ParseScene decodes a YAML scene. Unknown keys are rejected and missing
// values take their defaults.
func ParseScene(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("scene: empty document")
		}
		return nil, fmt.Errorf("scene: %w", err)
	}

	if s.Width == 0 {
		s.Width = DefaultSceneSize
	}
	if s.Height == 0 {
		s.Height = DefaultSceneSize
	}
	if err := CheckImageSize(s.Width, s.Height); err != nil {
		return nil, fmt.Errorf("scene: size %w", err)
	}
	for i, v := range s.Vertices {
		if len(v.Pos) != 2 {
			return nil, fmt.Errorf("scene: vertex %d: pos has %d numbers, want 2", i, len(v.Pos))
		}
		if v.UV != nil && len(v.UV) != 2 {
			return nil, fmt.Errorf("scene: vertex %d: uv has %d numbers, want 2", i, len(v.UV))
		}
	}
	if s.Color != nil && len(s.Color) != 3 && len(s.Color) != 4 {
		return nil, fmt.Errorf("scene: color has %d numbers, want 3 or 4", len(s.Color))
	}
	return &s, nil
}

// LoadScene reads and parses a YAML scene file.
func LoadScene(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return ParseScene(data)
}

// Uniforms builds and validates the scene's uniforms.
func (s *Scene) Uniforms() (Uniforms, error) {
	u := DefaultUniforms()

	var err error
	if u.ModelView, err = s.ModelView.Matrix(); err != nil {
		return u, fmt.Errorf("scene: modelview: %w", err)
	}
	if u.Projection, err = s.Projection.Matrix(); err != nil {
		return u, fmt.Errorf("scene: projection: %w", err)
	}

	switch len(s.Color) {
	case 3:
		u.Color = RGB(s.Color[0], s.Color[1], s.Color[2])
	case 4:
		u.Color = RGBA{R: s.Color[0], G: s.Color[1], B: s.Color[2], A: s.Color[3]}
	}
	if s.Opacity != nil {
		u.Opacity = *s.Opacity
	}

	if err := u.Validate(); err != nil {
		return u, fmt.Errorf("scene: %w", err)
	}
	return u, nil
}

// VertexInputs converts the scene's vertices to stage inputs.
// A missing uv is (0, 0).
func (s *Scene) VertexInputs() []VertexIn {
	in := make([]VertexIn, len(s.Vertices))
	for i, v := range s.Vertices {
		in[i].Position = mgl32.Vec2{v.Pos[0], v.Pos[1]}
		if v.UV != nil {
			in[i].TexCoord = mgl32.Vec2{v.UV[0], v.UV[1]}
		}
	}
	return in
}
