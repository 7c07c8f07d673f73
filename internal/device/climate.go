package device

import "context"

// Setpoint bounds for electric heaters and thermostats, degrees Celsius.
const (
	climateMinSetpoint = 5.0
	climateMaxSetpoint = 30.0
)

// Climate is a heater or thermostat with a temperature setpoint and a set of
// operating modes.
type Climate struct {
	base

	targetTemperature  float64
	currentTemperature float64
	mode               string
}

var (
	_ Device                  = (*Climate)(nil)
	_ TemperatureControllable = (*Climate)(nil)
	_ ModeSelectable          = (*Climate)(nil)
)

// NewClimate builds a climate model.
func NewClimate(url, name string, exec Executor) *Climate {
	return &Climate{
		base: base{url: url, name: name, exec: exec},
		mode: ClimateModeOff,
	}
}

func (c *Climate) Class() Class { return ClassClimate }

func (c *Climate) Capabilities() []Capability {
	return []Capability{CapTemperatureSet, CapModeSelect}
}

// SetTargetTemperature sets the setpoint in degrees Celsius.
func (c *Climate) SetTargetTemperature(ctx context.Context, celsius float64) error {
	if celsius < climateMinSetpoint || celsius > climateMaxSetpoint {
		return ErrInvalidTemperature
	}
	return c.exec.Execute(ctx, c.url, "set target temperature",
		Command{Name: cmdSetTargetTemperature, Args: []any{celsius}})
}

// SetMode selects a canonical operating mode.
func (c *Climate) SetMode(ctx context.Context, mode string) error {
	vendor, ok := climateModeToVendor[mode]
	if !ok {
		return ErrInvalidMode
	}
	return c.exec.Execute(ctx, c.url, "set mode",
		Command{Name: cmdSetOperatingMode, Args: []any{vendor}})
}

// TargetTemperature returns the last reported setpoint.
func (c *Climate) TargetTemperature() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.targetTemperature
}

// CurrentTemperature returns the last measured room temperature.
func (c *Climate) CurrentTemperature() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentTemperature
}

// Mode returns the last reported canonical mode.
func (c *Climate) Mode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mode
}

// SupportedModes lists the canonical modes the device accepts.
func (c *Climate) SupportedModes() []string {
	return []string{ClimateModeAuto, ClimateModeHeat, ClimateModeEco, ClimateModeFrost, ClimateModeOff}
}

// ApplyState ingests a vendor state report. Unknown operating modes are
// ignored so a firmware update adding modes cannot corrupt the mirror.
func (c *Climate) ApplyState(states map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := states[stateTargetTemperature]; ok {
		if t, ok := asFloat(v); ok {
			c.targetTemperature = t
		}
	}
	if v, ok := states[stateTemperature]; ok {
		if t, ok := asFloat(v); ok {
			c.currentTemperature = t
		}
	}
	if v, ok := states[stateOperatingMode]; ok {
		if s, ok := asString(v); ok {
			if mode, ok := climateModeFromVendor[s]; ok {
				c.mode = mode
			}
		}
	}
}

// Snapshot returns the canonical state.
func (c *Climate) Snapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]any{
		"target_temperature":  c.targetTemperature,
		"current_temperature": c.currentTemperature,
		"mode":                c.mode,
	}
}
