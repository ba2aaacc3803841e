package async

import "fmt"

// Status is the lifecycle position of a Controller.
type Status int

const (
	// Idle means the producer has never been started.
	Idle Status = iota
	// Loading means a run is outstanding.
	Loading
	// Succeeded means the latest run returned a value.
	Succeeded
	// Failed means the latest run returned an error.
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// State is a snapshot of a Controller.
type State[T any] struct {
	Status Status
	// Data is the produced value; the zero value unless Status is Succeeded.
	Data T
	// Err is the producer's error; nil unless Status is Failed.
	Err error
	// Generation identifies the run this state belongs to, 0 when Idle.
	Generation uint64
}

// Loading reports whether a run is outstanding.
func (s State[T]) Loading() bool {
	return s.Status == Loading
}
