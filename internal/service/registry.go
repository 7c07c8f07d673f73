package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Logger defines the logging interface used by the Registry.
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

// Handler executes one service call with validated parameters.
type Handler func(ctx context.Context, params map[string]any) (any, error)

// Definition binds a named service to its schema and handler.
type Definition struct {
	Domain  string
	Name    string
	Schema  Schema
	Handler Handler
}

// Recorder writes service calls to the audit trail.
// Satisfied by *audit.Repository via an adapter; tests use fakes.
type Recorder interface {
	RecordCall(ctx context.Context, domain, name, source string, params map[string]any, callErr error)
}

// Registry holds service definitions and dispatches calls.
//
// Call owns the error boundary: errors registered as passthrough (typically
// package sentinel errors like device.ErrDeviceNotFound) reach the caller
// unchanged, everything else is wrapped in ErrServiceFailed so internal
// failures never leak raw to API clients.
//
// All public methods are thread-safe.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	passthrough []error
	recorder    Recorder
	logger      Logger
}

// NewRegistry creates an empty service registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
		logger:      noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// SetRecorder sets the audit recorder. Nil disables audit recording.
func (r *Registry) SetRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

// AddPassthrough registers sentinel errors that Call returns unchanged.
func (r *Registry) AddPassthrough(errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passthrough = append(r.passthrough, errs...)
}

// Register adds a service definition.
// Returns ErrServiceExists if domain+name is already taken.
func (r *Registry) Register(def Definition) error {
	if def.Domain == "" || def.Name == "" {
		return fmt.Errorf("%w: domain and name are required", ErrInvalidField)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: handler is required", ErrInvalidField)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := def.Domain + "." + def.Name
	if _, ok := r.definitions[key]; ok {
		return fmt.Errorf("%w: %s", ErrServiceExists, key)
	}
	r.definitions[key] = def

	r.logger.Debug("service registered", "domain", def.Domain, "name", def.Name)
	return nil
}

// List returns all registered services as "domain.name", sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.definitions))
	for key := range r.definitions {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Call validates params against the service's schema, dispatches to its
// handler and records the call in the audit trail. source identifies the
// caller (API user, automation, system) for the audit entry.
func (r *Registry) Call(ctx context.Context, domain, name, source string, params map[string]any) (any, error) {
	r.mu.RLock()
	def, ok := r.definitions[domain+"."+name]
	recorder := r.recorder
	passthrough := r.passthrough
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrUnknownService, domain, name)
	}

	validated, err := def.Schema.Apply(params)
	if err != nil {
		// Schema rejections are caller mistakes, not handler failures;
		// they are audited but never wrapped.
		if recorder != nil {
			recorder.RecordCall(ctx, domain, name, source, params, err)
		}
		return nil, err
	}

	result, err := def.Handler(ctx, validated)
	if err != nil {
		err = r.boundary(passthrough, err)
		r.logger.Warn("service call failed",
			"domain", domain,
			"name", name,
			"source", source,
			"error", err)
	}

	if recorder != nil {
		recorder.RecordCall(ctx, domain, name, source, validated, err)
	}
	return result, err
}

// boundary passes recognized domain errors through and wraps the rest.
func (r *Registry) boundary(passthrough []error, err error) error {
	for _, known := range passthrough {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrServiceFailed, err)
}
