package setup

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hearthway/hearth-core/internal/issue"
)

// Status is the supervisor's view of one instance.
type Status string

// Instance statuses.
const (
	StatusPending      Status = "pending"
	StatusRunning      Status = "running"
	StatusRetrying     Status = "retrying"
	StatusAuthRequired Status = "auth_required"
	StatusFailed       Status = "failed"
	StatusStopped      Status = "stopped"
)

// Supervisor defaults.
const (
	defaultRetryDelay = 10 * time.Second
	maxRetryDelay     = 10 * time.Minute
)

// authIssueID is the issue id raised when an instance needs new credentials.
const authIssueID = "auth_required"

// Domain errors for the setup package.
var (
	ErrInstanceExists   = errors.New("setup: instance already registered")
	ErrInstanceNotFound = errors.New("setup: instance not found")
)

// instance is one supervised integration instance.
type instance struct {
	id          string
	domain      string
	integration Integration
	ictx        *Context

	status   Status
	attempts int
	lastErr  error
	timer    *time.Timer
}

// Config tunes the supervisor's retry behavior.
type Config struct {
	// RetryDelay is the first retry interval. Zero means 10 seconds.
	// Subsequent retries double the delay, capped at 10 minutes.
	RetryDelay time.Duration

	// MaxAttempts caps setup attempts per instance. 0 means unlimited.
	MaxAttempts int
}

// Supervisor drives integration instances through setup, matching on each
// attempt's Result. Auth failures surface as fixable issues keyed
// (domain, "auth_required"); a successful setup clears them.
//
// All public methods are thread-safe.
type Supervisor struct {
	cfg    Config
	issues IssueRegistry
	logger Logger

	mu        sync.Mutex
	instances map[string]*instance
	closed    bool
	onStatus  func(id string, status Status)
}

// NewSupervisor creates a supervisor. issues may not be nil; auth outcomes
// are meaningless without somewhere to raise them.
func NewSupervisor(cfg Config, issues IssueRegistry) (*Supervisor, error) {
	if issues == nil {
		return nil, errors.New("setup: issue registry is required")
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	return &Supervisor{
		cfg:       cfg,
		issues:    issues,
		logger:    noopLogger{},
		instances: make(map[string]*instance),
	}, nil
}

// SetLogger sets the logger for the supervisor.
func (s *Supervisor) SetLogger(logger Logger) {
	s.logger = logger
}

// SetOnStatusChange registers a callback invoked after an instance's status
// changes. The callback runs outside the supervisor lock. Set before Start.
func (s *Supervisor) SetOnStatusChange(fn func(id string, status Status)) {
	s.mu.Lock()
	s.onStatus = fn
	s.mu.Unlock()
}

// Add registers an instance. It does not start setup; call Start.
func (s *Supervisor) Add(id, domain string, integration Integration, ictx *Context) error {
	if integration == nil {
		return errors.New("setup: integration is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.instances[id]; ok {
		return fmt.Errorf("%w: %s", ErrInstanceExists, id)
	}
	s.instances[id] = &instance{
		id:          id,
		domain:      domain,
		integration: integration,
		ictx:        ictx,
		status:      StatusPending,
	}
	return nil
}

// Start runs setup for every pending instance. Each instance's first
// attempt runs synchronously so the caller sees immediate config errors in
// the logs at boot; retries happen on timers.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	pending := make([]*instance, 0, len(s.instances))
	for _, inst := range s.instances {
		if inst.status == StatusPending {
			pending = append(pending, inst)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].id < pending[j].id })
	s.mu.Unlock()

	for _, inst := range pending {
		s.attempt(ctx, inst)
	}
}

// Retry forces a new setup attempt for an instance, typically after the
// user has supplied fresh credentials. Resets the backoff.
func (s *Supervisor) Retry(ctx context.Context, id string) error {
	s.mu.Lock()
	inst, ok := s.instances[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	if inst.timer != nil {
		inst.timer.Stop()
		inst.timer = nil
	}
	inst.attempts = 0
	s.mu.Unlock()

	s.attempt(ctx, inst)
	return nil
}

// Status returns the supervisor's view of one instance.
func (s *Supervisor) Status(id string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInstanceNotFound, id)
	}
	return inst.status, nil
}

// Statuses returns the status of every instance keyed by id.
func (s *Supervisor) Statuses() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Status, len(s.instances))
	for id, inst := range s.instances {
		out[id] = inst.status
	}
	return out
}

// Close stops retry timers and tears down running instances.
func (s *Supervisor) Close() {
	s.mu.Lock()
	s.closed = true
	instances := make([]*instance, 0, len(s.instances))
	for _, inst := range s.instances {
		if inst.timer != nil {
			inst.timer.Stop()
			inst.timer = nil
		}
		instances = append(instances, inst)
	}
	s.mu.Unlock()

	for _, inst := range instances {
		s.mu.Lock()
		running := inst.status == StatusRunning
		inst.status = StatusStopped
		notify := s.onStatus
		s.mu.Unlock()

		if running {
			if err := inst.integration.Teardown(); err != nil {
				s.logger.Warn("instance teardown failed", "instance", inst.id, "error", err)
			}
		}
		if notify != nil {
			notify(inst.id, StatusStopped)
		}
	}
}

// attempt runs one setup attempt and reacts to its outcome.
func (s *Supervisor) attempt(ctx context.Context, inst *instance) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	inst.attempts++
	attempt := inst.attempts
	s.mu.Unlock()

	result := inst.integration.Setup(ctx, inst.ictx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	inst.lastErr = result.Err

	switch result.Outcome {
	case OutcomeReady:
		inst.status = StatusRunning
		inst.attempts = 0
		s.issues.Delete(inst.domain, authIssueID)
		s.logger.Info("instance ready", "instance", inst.id, "attempt", attempt)

	case OutcomeRetryLater:
		if s.cfg.MaxAttempts > 0 && attempt >= s.cfg.MaxAttempts {
			inst.status = StatusFailed
			s.logger.Error("instance gave up after retries",
				"instance", inst.id,
				"attempts", attempt,
				"error", result.Err)
			break
		}
		inst.status = StatusRetrying
		delay := s.retryDelay(attempt, result.RetryAfter)
		s.logger.Warn("instance setup deferred",
			"instance", inst.id,
			"attempt", attempt,
			"retry_in", delay,
			"reason", result.Reason,
			"error", result.Err)
		inst.timer = time.AfterFunc(delay, func() {
			s.attempt(ctx, inst)
		})

	case OutcomeAuthRequired:
		inst.status = StatusAuthRequired
		s.logger.Error("instance needs reauthorization",
			"instance", inst.id,
			"reason", result.Reason,
			"error", result.Err)
		if _, err := s.issues.Upsert(inst.domain, authIssueID, issue.Options{
			IsFixable:    true,
			IsPersistent: true,
			Severity:     issue.SeverityError,
			Data:         map[string]any{"instance_id": inst.id, "reason": result.Reason},
		}); err != nil {
			s.logger.Error("raising auth issue failed", "instance", inst.id, "error", err)
		}

	case OutcomeFatal:
		inst.status = StatusFailed
		s.logger.Error("instance setup failed permanently",
			"instance", inst.id,
			"reason", result.Reason,
			"error", result.Err)

	default:
		inst.status = StatusFailed
		s.logger.Error("instance setup returned unknown outcome",
			"instance", inst.id,
			"outcome", result.Outcome)
	}

	status := inst.status
	notify := s.onStatus
	s.mu.Unlock()

	if notify != nil {
		notify(inst.id, status)
	}
}

// retryDelay doubles the base delay per attempt, capped, unless the result
// suggested its own delay.
func (s *Supervisor) retryDelay(attempt int, suggested time.Duration) time.Duration {
	if suggested > 0 {
		return suggested
	}
	delay := s.cfg.RetryDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
