package device

import "context"

// Light is an on/off or dimmable light. Level is canonical brightness 0-100.
type Light struct {
	base

	on      bool
	level   int
	dimming bool
}

var (
	_ Device   = (*Light)(nil)
	_ Dimmable = (*Light)(nil)
)

// NewLight builds a light model. dimming marks lights with brightness control.
func NewLight(url, name string, exec Executor, dimming bool) *Light {
	return &Light{
		base:    base{url: url, name: name, exec: exec},
		dimming: dimming,
	}
}

func (l *Light) Class() Class { return ClassLight }

func (l *Light) Capabilities() []Capability {
	caps := []Capability{CapOnOff}
	if l.dimming {
		caps = append(caps, CapDim)
	}
	return caps
}

// TurnOn switches the light on.
func (l *Light) TurnOn(ctx context.Context) error {
	return l.exec.Execute(ctx, l.url, "turn on", Command{Name: cmdOn})
}

// TurnOff switches the light off.
func (l *Light) TurnOff(ctx context.Context) error {
	return l.exec.Execute(ctx, l.url, "turn off", Command{Name: cmdOff})
}

// SetLevel sets the brightness, 0-100. Level 0 is sent as an off command so
// the hub does not leave the light "on at zero".
func (l *Light) SetLevel(ctx context.Context, level int) error {
	if level < 0 || level > 100 {
		return ErrInvalidLevel
	}
	if level == 0 {
		return l.TurnOff(ctx)
	}
	return l.exec.Execute(ctx, l.url, "set level",
		Command{Name: cmdSetIntensity, Args: []any{level}})
}

// IsOn reports the last known on/off state.
func (l *Light) IsOn() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.on
}

// Level returns the last reported brightness.
func (l *Light) Level() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// ApplyState ingests a vendor state report.
func (l *Light) ApplyState(states map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := states[stateOnOff]; ok {
		if s, ok := asString(v); ok {
			l.on = s == "on"
		}
	}
	if v, ok := states[stateLightIntensity]; ok {
		if level, ok := asInt(v); ok {
			l.level = level
		}
	}
}

// Snapshot returns the canonical state.
func (l *Light) Snapshot() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := map[string]any{
		"on": l.on,
	}
	if l.dimming {
		snap["level"] = l.level
	}
	return snap
}
