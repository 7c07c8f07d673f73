package device

import "context"

// Shutter is a roller shutter or awning. Position is canonical: 0 closed,
// 100 fully open. Shutters with orientable slats also implement Tiltable.
type Shutter struct {
	base

	position int
	tilt     int
	moving   bool
	hasTilt  bool
}

var (
	_ Device               = (*Shutter)(nil)
	_ PositionControllable = (*Shutter)(nil)
	_ Tiltable             = (*Shutter)(nil)
)

// NewShutter builds a shutter model. hasTilt marks shutters with orientable
// slats (venetian blinds).
func NewShutter(url, name string, exec Executor, hasTilt bool) *Shutter {
	return &Shutter{
		base:    base{url: url, name: name, exec: exec},
		hasTilt: hasTilt,
	}
}

func (s *Shutter) Class() Class { return ClassShutter }

func (s *Shutter) Capabilities() []Capability {
	caps := []Capability{CapPosition}
	if s.hasTilt {
		caps = append(caps, CapTilt)
	}
	return caps
}

// Open drives the shutter fully open.
func (s *Shutter) Open(ctx context.Context) error {
	return s.exec.Execute(ctx, s.url, "open", Command{Name: cmdOpen})
}

// Close drives the shutter fully closed.
func (s *Shutter) Close(ctx context.Context) error {
	return s.exec.Execute(ctx, s.url, "close", Command{Name: cmdClose})
}

// Stop halts an in-flight movement.
func (s *Shutter) Stop(ctx context.Context) error {
	return s.exec.Execute(ctx, s.url, "stop", Command{Name: cmdStop})
}

// SetPosition moves the shutter to a canonical position (0 closed, 100 open).
func (s *Shutter) SetPosition(ctx context.Context, position int) error {
	if position < 0 || position > 100 {
		return ErrInvalidPosition
	}
	return s.exec.Execute(ctx, s.url, "set position",
		Command{Name: cmdSetClosure, Args: []any{closureFromPosition(position)}})
}

// SetTilt orients the slats, 0-100.
func (s *Shutter) SetTilt(ctx context.Context, tilt int) error {
	if tilt < 0 || tilt > 100 {
		return ErrInvalidPosition
	}
	return s.exec.Execute(ctx, s.url, "set tilt",
		Command{Name: cmdSetOrientation, Args: []any{closureFromPosition(tilt)}})
}

// Position returns the last reported canonical position.
func (s *Shutter) Position() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// Tilt returns the last reported canonical slat orientation.
func (s *Shutter) Tilt() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tilt
}

// Moving reports whether the hub says the shutter is in motion.
func (s *Shutter) Moving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moving
}

// ApplyState ingests a vendor state report.
func (s *Shutter) ApplyState(states map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := states[stateClosure]; ok {
		if closure, ok := asInt(v); ok {
			s.position = positionFromClosure(closure)
		}
	}
	if v, ok := states[stateSlateOrientation]; ok {
		if orientation, ok := asInt(v); ok {
			s.tilt = positionFromClosure(orientation)
		}
	}
	if v, ok := states[stateMoving]; ok {
		if moving, ok := v.(bool); ok {
			s.moving = moving
		}
	}
}

// Snapshot returns the canonical state.
func (s *Shutter) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := map[string]any{
		"position": s.position,
		"moving":   s.moving,
	}
	if s.hasTilt {
		snap["tilt"] = s.tilt
	}
	return snap
}
