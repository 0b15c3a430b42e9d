package restapi

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrRateLimited is returned internally when the API answers 429.
	ErrRateLimited = errors.New("api rate limit exceeded")

	// ErrTimeout is returned when a request times out at the network level.
	ErrTimeout = errors.New("api request timeout")

	// ErrRetriesExhausted is the sentinel returned once every attempt has
	// failed. Callers must treat it like a non-2xx response; there is no
	// response body to read.
	ErrRetriesExhausted = errors.New("max retries reached")

	// ErrTransport is returned for transport failures that retrying cannot
	// fix (connection refused, DNS resolution, TLS handshake).
	ErrTransport = errors.New("transport error")
)

// APIError wraps a call-layer failure with request context.
type APIError struct {
	StatusCode int
	Method     string
	URL        string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api error: %s %s (status: %d): %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsRetriesExhausted reports whether err is the call layer's give-up sentinel.
func IsRetriesExhausted(err error) bool {
	return errors.Is(err, ErrRetriesExhausted)
}

// isTimeoutError distinguishes read timeouts, which are worth retrying, from
// hard transport failures, which are not.
func isTimeoutError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
