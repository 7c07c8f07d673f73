package hub

import (
	"errors"
	"fmt"
)

// Domain errors for the hub package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, hub.ErrAuthFailed) {
//	    // credentials are wrong, do not retry
//	}
var (
	// ErrAuthFailed is returned when the cloud rejects the credentials.
	// Retrying will not help until the user fixes them.
	ErrAuthFailed = errors.New("hub: authentication failed")

	// ErrSessionExpired is returned when a previously valid session cookie
	// is no longer accepted. A re-login usually recovers.
	ErrSessionExpired = errors.New("hub: session expired")

	// ErrTooManyRequests is returned when the cloud rate-limits us.
	ErrTooManyRequests = errors.New("hub: too many requests")

	// ErrMaintenance is returned when the cloud is in a maintenance window.
	ErrMaintenance = errors.New("hub: cloud maintenance")

	// ErrUnavailable is returned for server errors and network failures.
	ErrUnavailable = errors.New("hub: cloud unavailable")

	// ErrNotLoggedIn is returned when an operation needs a session and
	// Login has not succeeded yet.
	ErrNotLoggedIn = errors.New("hub: not logged in")
)

// classifyStatus maps an HTTP status code to a domain error, or nil for
// success codes.
func classifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 401 || status == 403:
		return ErrSessionExpired
	case status == 429:
		return ErrTooManyRequests
	case status == 503:
		return ErrMaintenance
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return fmt.Errorf("hub: unexpected status %d", status)
	}
}

// IsRetryable reports whether the error is transient: rate limits,
// maintenance windows, server errors and network failures. Authentication
// failures are not retryable.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTooManyRequests) ||
		errors.Is(err, ErrMaintenance) ||
		errors.Is(err, ErrUnavailable)
}

// IsAuthError reports whether the error means the stored credentials are
// bad and user action is required.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}
