package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device URL does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when adding a device whose URL is already registered.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrUnknownClass is returned when a hub device type has no model.
	ErrUnknownClass = errors.New("device: unknown class")

	// ErrInvalidPosition is returned when a position is outside 0-100.
	ErrInvalidPosition = errors.New("device: invalid position")

	// ErrInvalidLevel is returned when a brightness level is outside 0-100.
	ErrInvalidLevel = errors.New("device: invalid level")

	// ErrInvalidTemperature is returned when a setpoint is outside the
	// device's supported range.
	ErrInvalidTemperature = errors.New("device: invalid temperature")

	// ErrInvalidMode is returned when a mode value is not recognised.
	ErrInvalidMode = errors.New("device: invalid mode")
)
