package utils

import (
	"fmt"
)

// MakeError wraps a sentinel error with a formatted detail message, so
// callers can errors.Is/errors.As back to the sentinel while still getting
// a specific, contextual message.
func MakeError(err error, detailsBody string, args ...any) error {
	return fmt.Errorf("%w: "+detailsBody, append([]any{err}, args...)...)
}
