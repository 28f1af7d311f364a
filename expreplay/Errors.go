package expreplay

import "errors"

var (
	errEmptyCache          = errors.New("cache holds no samples")
	errInsufficientSamples = errors.New("cache below minimum capacity")
)

// ExpReplayError describes an error that occurred on an operation of
// an experience replay buffer
type ExpReplayError struct {
	Op  string
	Err error
}

func (e *ExpReplayError) Error() string {
	return "expreplay: " + e.Op + ": " + e.Err.Error()
}

func (e *ExpReplayError) Unwrap() error {
	return e.Err
}

// IsEmptyCache returns whether an error was caused by sampling an
// empty replay buffer
func IsEmptyCache(err error) bool {
	return errors.Is(err, errEmptyCache)
}

// IsInsufficientSamples returns whether an error was caused by
// sampling a replay buffer holding fewer samples than its minimum
// capacity
func IsInsufficientSamples(err error) bool {
	return errors.Is(err, errInsufficientSamples)
}
