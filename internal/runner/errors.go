package runner

import "fmt"

// StatusError reports a response whose status code did not match the expected
// one. It distinguishes "the server answered, but not as expected" from a
// request that failed to complete at all.
type StatusError struct {
	StatusCode int
	Expected   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d (want %d)", e.StatusCode, e.Expected)
}
