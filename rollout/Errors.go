package rollout

import "errors"

// Error implements errors unique to rollout buffers and the
// return/advantage recursions.
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap supports errors.Is on wrapped sentinel errors
func (e *Error) Unwrap() error {
	return e.Err
}

var errEmptyBuffer = errors.New("no timesteps stored")

var errShapeMismatch = errors.New("inconsistent array shapes")

var errInvalidParameter = errors.New("parameter out of range")

var errBufferFull = errors.New("buffer at maximum capacity")

var errBufferNotFull = errors.New("buffer must be full before computing " +
	"estimates")

// IsEmptyBuffer returns whether an error reports that a rollout buffer
// holds no timesteps.
func IsEmptyBuffer(err error) bool {
	return errors.Is(err, errEmptyBuffer)
}

// IsShapeMismatch returns whether an error reports that reward, done,
// and value arrays have inconsistent lengths.
func IsShapeMismatch(err error) bool {
	return errors.Is(err, errShapeMismatch)
}

// IsInvalidParameter returns whether an error reports that a discount
// or trace-decay parameter is outside its legal range.
func IsInvalidParameter(err error) bool {
	return errors.Is(err, errInvalidParameter)
}
