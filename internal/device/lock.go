package device

import "context"

// Lock is a door lock.
type Lock struct {
	base

	locked bool
}

var (
	_ Device   = (*Lock)(nil)
	_ Lockable = (*Lock)(nil)
)

// NewLock builds a lock model.
func NewLock(url, name string, exec Executor) *Lock {
	return &Lock{base: base{url: url, name: name, exec: exec}}
}

func (l *Lock) Class() Class { return ClassLock }

func (l *Lock) Capabilities() []Capability {
	return []Capability{CapLockUnlock}
}

// Lock engages the lock.
func (l *Lock) Lock(ctx context.Context) error {
	return l.exec.Execute(ctx, l.url, "lock", Command{Name: cmdLock})
}

// Unlock releases the lock.
func (l *Lock) Unlock(ctx context.Context) error {
	return l.exec.Execute(ctx, l.url, "unlock", Command{Name: cmdUnlock})
}

// IsLocked reports the last known lock state.
func (l *Lock) IsLocked() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.locked
}

// ApplyState ingests a vendor state report.
func (l *Lock) ApplyState(states map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := states[stateLockedUnlocked]; ok {
		if s, ok := asString(v); ok {
			l.locked = s == "locked"
		}
	}
}

// Snapshot returns the canonical state.
func (l *Lock) Snapshot() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return map[string]any{
		"locked": l.locked,
	}
}
