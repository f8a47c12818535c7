package listing

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the single error kind for any failed listings fetch:
// transport, HTTP status and decode failures are not differentiated.
var ErrFetchFailed = errors.New("fetch listings failed")

// FetchError carries the cause of a failed fetch for diagnostics.
type FetchError struct {
	Filter Filter
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v (filter %s): %v", ErrFetchFailed, e.Filter, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// NewFetchError wraps err as a FetchError. A nil err returns nil.
func NewFetchError(filter Filter, err error) error {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	return &FetchError{Filter: filter, Err: err}
}
