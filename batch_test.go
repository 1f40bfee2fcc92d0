package stage

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func randomVertices(n int, seed uint64) []VertexIn {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	in := make([]VertexIn, n)
	for i := range in {
		in[i] = VertexIn{
			Position: mgl32.Vec2{rng.Float32()*200 - 100, rng.Float32()*200 - 100},
			TexCoord: mgl32.Vec2{rng.Float32(), rng.Float32()},
		}
	}
	return in
}

func TestProcessorMatchesSequential(t *testing.T) {
	u := DefaultUniforms()
	u.ModelView = mgl32.Translate3D(3, -2, 0).Mul4(mgl32.HomogRotate3DZ(0.4))
	u.Projection = WindowProjection(640, 480)

	in := randomVertices(5000, 42)

	for _, workers := range []int{1, 3, 8} {
		for _, chunk := range []int{1, 7, 1024, 10000} {
			p := NewProcessor(WithWorkers(workers), WithChunkSize(chunk))
			out := make([]VertexOut, len(in))
			if err := p.ProcessVertices(u, in, out); err != nil {
				t.Fatalf("workers=%d chunk=%d: %v", workers, chunk, err)
			}
			for i := range in {
				if want := u.Vertex(in[i]); out[i] != want {
					t.Fatalf("workers=%d chunk=%d: out[%d] = %v, want %v", workers, chunk, i, out[i], want)
				}
			}
			p.Close()
		}
	}
}

func TestProcessorDoesNotMutateInput(t *testing.T) {
	in := randomVertices(300, 1)
	orig := append([]VertexIn(nil), in...)

	p := NewProcessor(WithChunkSize(16))
	defer p.Close()
	if err := p.ProcessVertices(DefaultUniforms(), in, make([]VertexOut, len(in))); err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != orig[i] {
			t.Fatalf("input %d modified", i)
		}
	}
}

func TestProcessorFragments(t *testing.T) {
	colors := []RGBA{
		{0.5, 0.5, 0.5, 1},
		{2, -1, 0.5, 1},
		{0.1, 0.2, 0.3, 0.4},
	}
	out := make([]RGBA, len(colors))

	p := NewProcessor(WithWorkers(2), WithChunkSize(1))
	defer p.Close()
	if err := p.ProcessFragments(colors, 0.5, out); err != nil {
		t.Fatal(err)
	}

	want := []RGBA{
		{0.5, 0.5, 0.5, 0.5},
		{1, 0, 0.5, 0.5},
		{0.1, 0.2, 0.3, 0.2},
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestProcessorLengthMismatch(t *testing.T) {
	p := NewProcessor(WithWorkers(1))
	defer p.Close()

	err := p.ProcessVertices(DefaultUniforms(), make([]VertexIn, 3), make([]VertexOut, 2))
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("ProcessVertices() = %v, want ErrLengthMismatch", err)
	}
	err = p.ProcessFragments(make([]RGBA, 3), 1, nil)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("ProcessFragments() = %v, want ErrLengthMismatch", err)
	}

	// Longer output is fine; the tail is untouched.
	out := make([]VertexOut, 4)
	out[3].TexCoord = mgl32.Vec2{9, 9}
	if err := p.ProcessVertices(DefaultUniforms(), make([]VertexIn, 3), out); err != nil {
		t.Fatal(err)
	}
	if out[3].TexCoord != (mgl32.Vec2{9, 9}) {
		t.Error("output tail was overwritten")
	}
}

func TestProcessorEmpty(t *testing.T) {
	p := NewProcessor()
	defer p.Close()
	if err := p.ProcessVertices(DefaultUniforms(), nil, nil); err != nil {
		t.Errorf("ProcessVertices(nil) = %v", err)
	}
}

func TestProcessorClosed(t *testing.T) {
	p := NewProcessor(WithWorkers(2))
	p.Close()
	p.Close()

	err := p.ProcessVertices(DefaultUniforms(), make([]VertexIn, 1), make([]VertexOut, 1))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("ProcessVertices() after Close = %v, want ErrClosed", err)
	}
	err = p.ProcessFragments(make([]RGBA, 1), 1, make([]RGBA, 1))
	if !errors.Is(err, ErrClosed) {
		t.Errorf("ProcessFragments() after Close = %v, want ErrClosed", err)
	}
}

func TestProcessorConcurrentCallers(t *testing.T) {
	p := NewProcessor(WithWorkers(4), WithChunkSize(32))
	defer p.Close()

	u := DefaultUniforms()
	u.Projection = WindowProjection(100, 100)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in := randomVertices(500, uint64(g))
			out := make([]VertexOut, len(in))
			if err := p.ProcessVertices(u, in, out); err != nil {
				errs <- err
				return
			}
			for i := range in {
				if out[i] != u.Vertex(in[i]) {
					errs <- errors.New("mismatched output")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestProcessorOptions(t *testing.T) {
	o := defaultProcessorOptions()
	WithChunkSize(-1)(&o)
	if o.chunkSize != defaultChunkSize {
		t.Errorf("chunkSize = %d, want default %d", o.chunkSize, defaultChunkSize)
	}
	WithWorkers(3)(&o)
	if o.workers != 3 {
		t.Errorf("workers = %d, want 3", o.workers)
	}

	p := NewProcessor(WithWorkers(3))
	defer p.Close()
	if p.Workers() != 3 {
		t.Errorf("Workers() = %d, want 3", p.Workers())
	}
}

func BenchmarkProcessVertices(b *testing.B) {
	p := NewProcessor()
	defer p.Close()

	u := DefaultUniforms()
	u.Projection = WindowProjection(1920, 1080)
	in := randomVertices(1<<16, 9)
	out := make([]VertexOut, len(in))

	b.ReportAllocs()
	for b.Loop() {
		_ = p.ProcessVertices(u, in, out)
	}
}
