package stage

import "errors"

var (
	// ErrNonFinite is returned when a uniform contains NaN or an infinity.
	ErrNonFinite = errors.New("stage: non-finite value")

	// ErrLengthMismatch is returned when an output slice is shorter than its input.
	ErrLengthMismatch = errors.New("stage: output shorter than input")

	// ErrClosed is returned when a closed Processor is used.
	ErrClosed = errors.New("stage: processor closed")

	// ErrInvalidSize is returned for non-positive image dimensions.
	ErrInvalidSize = errors.New("stage: invalid image size")

	// ErrBadMatrix is returned when a scene matrix has the wrong number of values.
	ErrBadMatrix = errors.New("stage: bad matrix")
)
