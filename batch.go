package stage

import (
	"fmt"

	"github.com/gogpu/stage/internal/parallel"
)

// Processor runs the stage over many vertices or fragments in parallel.
//
// Invocations are independent: every output element is written by exactly
// one invocation and inputs are never modified, so results match the
// sequential calls for any worker count.
//
// Thread safety: Processor is safe for concurrent use.
type Processor struct {
	pool      *parallel.WorkerPool
	chunkSize int
}

// NewProcessor creates a Processor and starts its workers.
// Call Close to release them.
func NewProcessor(opts ...ProcessorOption) *Processor {
	o := defaultProcessorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Processor{
		pool:      parallel.NewWorkerPool(o.workers),
		chunkSize: o.chunkSize,
	}
}

// Workers returns the number of worker goroutines.
func (p *Processor) Workers() int {
	return p.pool.Workers()
}

// ProcessVertices runs u.Vertex for every element of in and stores the
// results in the matching elements of out.
func (p *Processor) ProcessVertices(u Uniforms, in []VertexIn, out []VertexOut) error {
	if len(out) < len(in) {
		return fmt.Errorf("vertices: %d outputs for %d inputs: %w", len(out), len(in), ErrLengthMismatch)
	}

	Logger().Debug("vertex batch", "count", len(in), "workers", p.pool.Workers(), "chunk", p.chunkSize)

	ok := p.pool.Range(len(in), p.chunkSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = u.Vertex(in[i])
		}
	})
	if !ok {
		return ErrClosed
	}
	return nil
}

// ProcessFragments runs ComputeFragmentColor for every element of colors with
// a shared opacity and stores the results in out.
func (p *Processor) ProcessFragments(colors []RGBA, opacity float32, out []RGBA) error {
	if len(out) < len(colors) {
		return fmt.Errorf("fragments: %d outputs for %d inputs: %w", len(out), len(colors), ErrLengthMismatch)
	}

	Logger().Debug("fragment batch", "count", len(colors), "opacity", opacity)

	ok := p.pool.Range(len(colors), p.chunkSize, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = ComputeFragmentColor(colors[i], opacity)
		}
	})
	if !ok {
		return ErrClosed
	}
	return nil
}

// Close stops the workers. It is safe to call more than once.
func (p *Processor) Close() {
	p.pool.Close()
}
