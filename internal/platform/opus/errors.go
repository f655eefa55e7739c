package opus

import (
	"errors"
	"fmt"
	"time"
)

// The three failure kinds callers need to distinguish: the call itself
// failed (ErrRemote), the job ran and failed (ErrJobFailed), or the job
// never finished within the deadline (ErrTimeout). All are matchable with
// errors.Is.
var (
	// ErrRemote indicates a transport-level failure talking to the Opus
	// service: network error, non-2xx response, or a malformed body.
	ErrRemote = errors.New("opus request failed")

	// ErrJobFailed indicates the remote job reached a terminal failure
	// state (FAILED, ERROR or CANCELLED).
	ErrJobFailed = errors.New("opus job failed")

	// ErrTimeout indicates the job did not complete within the polling
	// deadline.
	ErrTimeout = errors.New("opus job timed out")
)

// JobFailureError carries the terminal status string reported by the
// remote service. It unwraps to ErrJobFailed.
type JobFailureError struct {
	Status string
}

func (e *JobFailureError) Error() string {
	return fmt.Sprintf("opus job failed with status: %s", e.Status)
}

func (e *JobFailureError) Unwrap() error {
	return ErrJobFailed
}

// TimeoutError carries the deadline that was exhausted while polling.
// It unwraps to ErrTimeout.
type TimeoutError struct {
	MaxWait time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("opus job timed out after %s", e.MaxWait)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}
