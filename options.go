package stage

// ProcessorOption configures a Processor during creation.
//
// Example:
//
//	// One worker per CPU, default chunking
//	p := stage.NewProcessor()
//
//	// Fixed worker count and smaller chunks
//	p := stage.NewProcessor(stage.WithWorkers(4), stage.WithChunkSize(256))
type ProcessorOption func(*processorOptions)

// defaultChunkSize is the number of invocations handed to a worker at once.
const defaultChunkSize = 1024

type processorOptions struct {
	workers   int
	chunkSize int
}

func defaultProcessorOptions() processorOptions {
	return processorOptions{
		workers:   0, // GOMAXPROCS
		chunkSize: defaultChunkSize,
	}
}

// WithWorkers sets the number of worker goroutines.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) ProcessorOption {
	return func(o *processorOptions) {
		o.workers = n
	}
}

// WithChunkSize sets how many invocations a worker runs per task.
// Zero or negative restores the default.
func WithChunkSize(n int) ProcessorOption {
	return func(o *processorOptions) {
		if n <= 0 {
			n = defaultChunkSize
		}
		o.chunkSize = n
	}
}
