package device

import (
	"context"
	"sync"
)

// Class identifies the kind of device a model represents.
type Class string

// Class constants.
const (
	ClassShutter     Class = "shutter"
	ClassLight       Class = "light"
	ClassClimate     Class = "climate"
	ClassWaterHeater Class = "water_heater"
	ClassLock        Class = "lock"
)

// AllClasses returns all valid device classes.
func AllClasses() []Class {
	return []Class{ClassShutter, ClassLight, ClassClimate, ClassWaterHeater, ClassLock}
}

// Capability names what a device can do. API clients use these to decide
// which controls to render; in code, the capability interfaces in
// capability.go are the contract.
type Capability string

// Capability constants.
const (
	CapOnOff          Capability = "on_off"
	CapDim            Capability = "dim"
	CapPosition       Capability = "position"
	CapTilt           Capability = "tilt"
	CapTemperatureSet Capability = "temperature_set"
	CapModeSelect     Capability = "mode_select"
	CapLockUnlock     Capability = "lock_unlock"
	CapAwayMode       Capability = "away_mode"
)

// Command is one vendor command sent to the hub for a device.
// Args are serialized as the command's parameter list.
type Command struct {
	Name string `json:"name"`
	Args []any  `json:"parameters,omitempty"`
}

// Executor sends commands to a device through the hub.
// It is implemented by the hub client; tests use fakes.
type Executor interface {
	Execute(ctx context.Context, deviceURL string, label string, commands ...Command) error
}

// Device is the common surface of every concrete model.
//
// ApplyState is called by the hub bridge with vendor state reports;
// Snapshot returns the canonical state for API responses and the state
// history recorder. Both vocabularies are defined in translate.go.
type Device interface {
	URL() string
	Name() string
	Class() Class
	Capabilities() []Capability

	// ApplyState ingests vendor state values (vendor names, vendor units).
	ApplyState(states map[string]any)

	// Snapshot returns the canonical state (canonical names and units).
	Snapshot() map[string]any
}

// base carries the identity and plumbing shared by all concrete models.
type base struct {
	url  string
	name string
	exec Executor

	mu sync.RWMutex
}

// URL returns the vendor device URL, the device's unique identity.
func (b *base) URL() string { return b.url }

// Name returns the user-visible label reported by the hub.
func (b *base) Name() string { return b.name }
