//nolint:revive // var-naming: package name "common" is intentional for shared internal utilities
package common

import (
	"errors"
	"fmt"
)

// ErrSearchExhausted is returned when a generate-and-test search runs out of
// its attempt budget without finding an acceptable value.
var ErrSearchExhausted = errors.New("search exhausted its attempt budget")

// Search runs a bounded generate-and-test loop: it calls generate up to
// maxAttempts times and returns the first value for which accept is true.
// On exhaustion the returned error wraps ErrSearchExhausted.
func Search[T any](maxAttempts int, generate func() T, accept func(T) bool) (T, error) {
	var zero T
	if maxAttempts <= 0 {
		return zero, fmt.Errorf("%w: attempt budget must be positive, got %d", ErrSearchExhausted, maxAttempts)
	}
	for range maxAttempts {
		v := generate()
		if accept(v) {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w after %d attempts", ErrSearchExhausted, maxAttempts)
}
