package device

import "context"

// Capability interfaces. Concrete models implement only the interfaces that
// match their hardware; callers type-assert rather than consult string state.
//
// All positions and levels are canonical percentages: 0 is closed/off,
// 100 is fully open/full brightness. Vendor scales are converted in
// translate.go before they reach a model.

// OnOff is a device that can be switched on and off.
type OnOff interface {
	TurnOn(ctx context.Context) error
	TurnOff(ctx context.Context) error
	IsOn() bool
}

// Dimmable is a light whose brightness can be set, 0-100.
type Dimmable interface {
	OnOff
	SetLevel(ctx context.Context, level int) error
	Level() int
}

// PositionControllable is a device that moves between open and closed and
// can hold intermediate positions, 0 (closed) to 100 (open).
type PositionControllable interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	Stop(ctx context.Context) error
	SetPosition(ctx context.Context, position int) error
	Position() int
	Moving() bool
}

// Tiltable is a device with orientable slats, tilt 0-100.
type Tiltable interface {
	SetTilt(ctx context.Context, tilt int) error
	Tilt() int
}

// TemperatureControllable is a device with a temperature setpoint in
// degrees Celsius.
type TemperatureControllable interface {
	SetTargetTemperature(ctx context.Context, celsius float64) error
	TargetTemperature() float64
	CurrentTemperature() float64
}

// ModeSelectable is a device with a finite set of operating modes.
type ModeSelectable interface {
	SetMode(ctx context.Context, mode string) error
	Mode() string
	SupportedModes() []string
}

// Lockable is a device that can be locked and unlocked.
type Lockable interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	IsLocked() bool
}

// AwayModeControllable is a device with an away (absence) mode, typically a
// water heater dropping to frost protection while the house is empty.
type AwayModeControllable interface {
	SetAwayMode(ctx context.Context, away bool) error
	AwayMode() bool
}
