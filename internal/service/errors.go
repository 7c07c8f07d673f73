package service

import "errors"

// Domain errors for the service package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, service.ErrUnknownService) {
//	    // no such domain/name registered
//	}
var (
	// ErrUnknownService is returned when no definition matches domain+name.
	ErrUnknownService = errors.New("service: unknown service")

	// ErrServiceExists is returned when registering a duplicate definition.
	ErrServiceExists = errors.New("service: already registered")

	// ErrMissingField is returned when a required parameter is absent.
	ErrMissingField = errors.New("service: missing required field")

	// ErrInvalidField is returned when a parameter has the wrong type or an
	// unknown name.
	ErrInvalidField = errors.New("service: invalid field")

	// ErrOutOfRange is returned when a numeric parameter violates its bounds.
	ErrOutOfRange = errors.New("service: value out of range")

	// ErrServiceFailed wraps handler errors that are not recognized domain
	// errors. The original error remains available via errors.Unwrap.
	ErrServiceFailed = errors.New("service: call failed")
)
