package audit

import "context"

// Logger defines the logging interface used by the recorder.
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

// CallRecorder adapts the repository to the service registry's recorder
// hook. Recording is best-effort: a failed insert is logged, never allowed
// to fail the service call it describes.
type CallRecorder struct {
	repo   Repository
	logger Logger
}

// NewCallRecorder creates a recorder writing through repo.
func NewCallRecorder(repo Repository) *CallRecorder {
	return &CallRecorder{repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger for the recorder.
func (c *CallRecorder) SetLogger(logger Logger) {
	c.logger = logger
}

// RecordCall writes one service invocation to the trail.
func (c *CallRecorder) RecordCall(ctx context.Context, domain, name, source string, params map[string]any, callErr error) {
	details := map[string]any{}
	if len(params) > 0 {
		details["params"] = params
	}
	if callErr != nil {
		details["error"] = callErr.Error()
	}

	entry := &Entry{
		Action:  ActionCall,
		Domain:  domain,
		Service: name,
		Source:  source,
		Details: details,
	}
	if err := c.repo.Create(ctx, entry); err != nil {
		c.logger.Error("writing audit entry failed",
			"domain", domain,
			"service", name,
			"error", err)
	}
}
