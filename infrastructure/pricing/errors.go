package pricing

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is matched by every non-success HTTP status from the pricing API.
var ErrFetchFailed = errors.New("failed to fetch skip data")

// StatusError carries the upstream status behind ErrFetchFailed.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status %d", ErrFetchFailed, e.Code)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrFetchFailed
}

// UnexpectedError wraps transport and decode failures.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("pricing %s: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// StatusCode returns the upstream HTTP status for a fetch failure, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
