package scrape

import (
	"errors"
	"fmt"
)

// FetchError is a failed fetch of a target URL.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// RetryableError wraps a transient failure that should be retried.
type RetryableError struct {
	Err        error
	RetryAfter int
}

func (e *RetryableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("retryable: %v (retry after %ds)", e.Err, e.RetryAfter)
	}
	return fmt.Sprintf("retryable: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a transient failure.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}
