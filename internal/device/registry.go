package device

import (
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// StateListener receives a canonical state snapshot after a device's mirror
// has been updated. Listeners are called synchronously outside the registry
// lock; slow consumers should hand off to their own goroutine.
type StateListener func(dev Device, snapshot map[string]any)

// Registry holds the live device models, keyed by vendor device URL.
//
// Models are shared live objects, not copies: each model guards its own
// state, and the registry only guards membership. The hub bridge populates
// the registry at setup and feeds it state reports; API handlers and the
// state recorder read from it.
//
// All public methods are thread-safe.
type Registry struct {
	mu        sync.RWMutex
	devices   map[string]Device
	listeners []StateListener
	logger    Logger
}

// NewRegistry creates an empty device registry.
func NewRegistry() *Registry {
	return &Registry{
		devices: make(map[string]Device),
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Add registers a device. Returns ErrDeviceExists if the URL is taken.
func (r *Registry) Add(dev Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[dev.URL()]; ok {
		return ErrDeviceExists
	}
	r.devices[dev.URL()] = dev

	r.logger.Info("device registered",
		"url", dev.URL(),
		"name", dev.Name(),
		"class", dev.Class())
	return nil
}

// Get retrieves a device by URL.
// Returns ErrDeviceNotFound if the device does not exist.
func (r *Registry) Get(url string) (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dev, ok := r.devices[url]
	if !ok {
		return nil, ErrDeviceNotFound
	}
	return dev, nil
}

// List returns all devices sorted by URL.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.devices))
	for _, d := range r.devices {
		devices = append(devices, d)
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].URL() < devices[j].URL()
	})
	return devices
}

// ListByClass returns all devices of one class sorted by URL.
func (r *Registry) ListByClass(class Class) []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var devices []Device
	for _, d := range r.devices {
		if d.Class() == class {
			devices = append(devices, d)
		}
	}
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].URL() < devices[j].URL()
	})
	return devices
}

// Len returns the number of registered devices.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.devices)
}

// Remove unregisters a device. Returns false if the URL was not registered.
func (r *Registry) Remove(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.devices[url]; !ok {
		return false
	}
	delete(r.devices, url)
	r.logger.Info("device removed", "url", url)
	return true
}

// UpdateState applies a vendor state report to a device and notifies
// state listeners with the resulting canonical snapshot.
// Returns ErrDeviceNotFound for URLs not in the registry.
func (r *Registry) UpdateState(url string, states map[string]any) error {
	r.mu.RLock()
	dev, ok := r.devices[url]
	listeners := make([]StateListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.mu.RUnlock()

	if !ok {
		return ErrDeviceNotFound
	}

	dev.ApplyState(states)
	snapshot := dev.Snapshot()

	for _, fn := range listeners {
		fn(dev, snapshot)
	}
	return nil
}

// OnStateChange registers a listener for device state updates.
func (r *Registry) OnStateChange(fn StateListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
