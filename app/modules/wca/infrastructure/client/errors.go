package wcaclient

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is returned when the token endpoint rejects a grant or answers
	// with something that is not a token.
	ErrAuth = errors.New("wca: authorization failed")

	// ErrIO is returned for transport failures. *StatusError matches it too.
	ErrIO = errors.New("wca: request failed")

	// ErrRefreshUnsupported is returned by Refresh on implicit-flow clients.
	ErrRefreshUnsupported = errors.New("wca: refresh is not supported for implicit-flow clients")

	// ErrScopeNotGranted is returned by operations that need a scope the
	// client was not granted.
	ErrScopeNotGranted = errors.New("wca: scope not granted")
)

// StatusError is a non-2xx response from the API.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wca: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrIO
}
