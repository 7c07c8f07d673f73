package media

import (
	"errors"
	"fmt"
)

// Domain errors for the media package.
var (
	// ErrAuthFailed is returned when the streaming service rejects the token.
	ErrAuthFailed = errors.New("media: authentication failed")

	// ErrRateLimited is returned when the service throttles us.
	ErrRateLimited = errors.New("media: rate limited")

	// ErrUnavailable is returned for server errors and network failures.
	ErrUnavailable = errors.New("media: service unavailable")

	// ErrNoActiveDevice is returned when a playback command finds no active
	// player device on the account.
	ErrNoActiveDevice = errors.New("media: no active playback device")

	// ErrNotFound is returned when a catalog item does not exist.
	ErrNotFound = errors.New("media: not found")

	// ErrUnknownCommand is returned for commands missing from the dispatch
	// table.
	ErrUnknownCommand = errors.New("media: unknown command")
)

// classifyStatus maps an HTTP status code to a domain error, or nil for
// success codes. playerCall marks playback-control endpoints where 404
// means "no active device" rather than "no such resource".
func classifyStatus(status int, playerCall bool) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == 401 || status == 403:
		return ErrAuthFailed
	case status == 404:
		if playerCall {
			return ErrNoActiveDevice
		}
		return ErrNotFound
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, status)
	default:
		return fmt.Errorf("media: unexpected status %d", status)
	}
}

// IsRetryable reports whether the error is transient.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}

// IsAuthError reports whether the error means the token is dead.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}
