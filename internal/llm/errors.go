package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ProviderError wraps a transport or API failure from one provider.
// StatusCode is zero when the failure happened before an HTTP status was
// available (network error, timeout).
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s returned status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsProviderDown reports whether err indicates the provider itself is
// unusable right now (auth rejection, rate limiting, outage, timeout), as
// opposed to a malformed response. Down providers are skipped, not retried.
func IsProviderDown(err error) bool {
	var perr *ProviderError
	if !errors.As(err, &perr) {
		return false
	}
	if perr.StatusCode == 0 {
		// No HTTP status means we never got a response: network failure,
		// DNS, or deadline. All of those make the provider unusable.
		return true
	}
	return downStatus(perr.StatusCode)
}

// downStatus classifies HTTP statuses that mean "stop sending this provider
// traffic". Other statuses (400s from a bad request we built) are treated as
// our problem, not the provider's.
func downStatus(code int) bool {
	switch code {
	case http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
