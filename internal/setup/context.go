package setup

import (
	"context"

	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/service"
)

// Logger defines the logging interface used by the setup package.
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

// IssueRegistry is the slice of the issue registry the supervisor and
// integrations need. Satisfied by *issue.Registry.
type IssueRegistry interface {
	Upsert(domain, issueID string, opts issue.Options) (*issue.Issue, error)
	Delete(domain, issueID string) bool
}

// Context is the per-instance environment handed to an integration's Setup.
// It replaces process-global lookups: everything an instance may touch
// arrives through here.
type Context struct {
	// InstanceID uniquely names this configured instance.
	InstanceID string

	// Domain is the integration's issue/service domain, e.g. "hub" or "media".
	Domain string

	Logger   Logger
	Issues   IssueRegistry
	Services *service.Registry
}

// Integration is one configurable integration. Setup must be safe to call
// again after any non-ready outcome; Teardown must tolerate being called
// after a failed or never-completed Setup.
type Integration interface {
	Setup(ctx context.Context, ic *Context) Result
	Teardown() error
}
