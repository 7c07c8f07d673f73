package device

import "context"

// Setpoint bounds for domestic hot water tanks, degrees Celsius.
const (
	waterHeaterMinSetpoint = 30.0
	waterHeaterMaxSetpoint = 65.0
)

// WaterHeater is a domestic hot water tank with a setpoint, operating modes
// and an away (absence) mode.
type WaterHeater struct {
	base

	targetTemperature  float64
	currentTemperature float64
	mode               string
	away               bool
}

var (
	_ Device                  = (*WaterHeater)(nil)
	_ TemperatureControllable = (*WaterHeater)(nil)
	_ ModeSelectable          = (*WaterHeater)(nil)
	_ AwayModeControllable    = (*WaterHeater)(nil)
)

// NewWaterHeater builds a water heater model.
func NewWaterHeater(url, name string, exec Executor) *WaterHeater {
	return &WaterHeater{
		base: base{url: url, name: name, exec: exec},
		mode: WaterHeaterModeAuto,
	}
}

func (w *WaterHeater) Class() Class { return ClassWaterHeater }

func (w *WaterHeater) Capabilities() []Capability {
	return []Capability{CapTemperatureSet, CapModeSelect, CapAwayMode}
}

// SetTargetTemperature sets the tank setpoint in degrees Celsius.
func (w *WaterHeater) SetTargetTemperature(ctx context.Context, celsius float64) error {
	if celsius < waterHeaterMinSetpoint || celsius > waterHeaterMaxSetpoint {
		return ErrInvalidTemperature
	}
	return w.exec.Execute(ctx, w.url, "set target temperature",
		Command{Name: cmdSetTargetTemperature, Args: []any{celsius}})
}

// SetMode selects a canonical operating mode.
func (w *WaterHeater) SetMode(ctx context.Context, mode string) error {
	vendor, ok := dhwModeToVendor[mode]
	if !ok {
		return ErrInvalidMode
	}
	return w.exec.Execute(ctx, w.url, "set mode",
		Command{Name: cmdSetDHWMode, Args: []any{vendor}})
}

// SetAwayMode toggles absence mode.
func (w *WaterHeater) SetAwayMode(ctx context.Context, away bool) error {
	arg := "off"
	if away {
		arg = "on"
	}
	return w.exec.Execute(ctx, w.url, "set away mode",
		Command{Name: cmdSetAbsenceMode, Args: []any{arg}})
}

// TargetTemperature returns the last reported setpoint.
func (w *WaterHeater) TargetTemperature() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.targetTemperature
}

// CurrentTemperature returns the last measured tank temperature.
func (w *WaterHeater) CurrentTemperature() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.currentTemperature
}

// Mode returns the last reported canonical mode.
func (w *WaterHeater) Mode() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mode
}

// SupportedModes lists the canonical modes the device accepts.
func (w *WaterHeater) SupportedModes() []string {
	return []string{WaterHeaterModeAuto, WaterHeaterModeEco, WaterHeaterModePerformance, WaterHeaterModeOff}
}

// AwayMode reports whether absence mode is active.
func (w *WaterHeater) AwayMode() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.away
}

// ApplyState ingests a vendor state report.
func (w *WaterHeater) ApplyState(states map[string]any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if v, ok := states[stateTargetTemperature]; ok {
		if t, ok := asFloat(v); ok {
			w.targetTemperature = t
		}
	}
	if v, ok := states[stateTemperature]; ok {
		if t, ok := asFloat(v); ok {
			w.currentTemperature = t
		}
	}
	if v, ok := states[stateDHWMode]; ok {
		if s, ok := asString(v); ok {
			if mode, ok := dhwModeFromVendor[s]; ok {
				w.mode = mode
			}
		}
	}
	if v, ok := states[stateAbsenceMode]; ok {
		if s, ok := asString(v); ok {
			w.away = s == "on"
		}
	}
}

// Snapshot returns the canonical state.
func (w *WaterHeater) Snapshot() map[string]any {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return map[string]any{
		"target_temperature":  w.targetTemperature,
		"current_temperature": w.currentTemperature,
		"mode":                w.mode,
		"away":                w.away,
	}
}
