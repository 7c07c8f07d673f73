package repair

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hearthway/hearth-core/internal/issue"
)

// Logger defines the logging interface used by the Manager.
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

// IssueRegistry is the slice of the issue registry the manager needs.
// Satisfied by *issue.Registry.
type IssueRegistry interface {
	Get(domain, issueID string) (*issue.Issue, bool)
	Delete(domain, issueID string) bool
}

// FlowState is a live repair flow.
type FlowState struct {
	// ID is the flow's handle, a UUID.
	ID string

	// Domain and IssueID key the issue under repair.
	Domain  string
	IssueID string

	// Current is the step the flow is waiting on.
	Current StepResult

	flow Flow
}

// Manager owns the active repair flows.
//
// Handlers register per issue domain; the most specific registration wins:
// a handler keyed (domain, issue_id) beats a handler keyed (domain, "").
// Issues without any handler fall back to a plain confirm flow only if the
// domain registered one explicitly; otherwise starting a repair fails with
// ErrNoHandler.
//
// All public methods are thread-safe.
type Manager struct {
	issues IssueRegistry
	logger Logger

	mu        sync.Mutex
	factories map[string]Factory
	flows     map[string]*FlowState
}

// NewManager creates a repair flow manager.
func NewManager(issues IssueRegistry) *Manager {
	return &Manager{
		issues:    issues,
		logger:    noopLogger{},
		factories: make(map[string]Factory),
		flows:     make(map[string]*FlowState),
	}
}

// SetLogger sets the logger for the manager.
func (m *Manager) SetLogger(logger Logger) {
	m.logger = logger
}

// RegisterHandler binds a flow factory to issues of a domain. issueID may
// be empty to cover every fixable issue in the domain.
func (m *Manager) RegisterHandler(domain, issueID string, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[handlerKey(domain, issueID)] = factory
}

func handlerKey(domain, issueID string) string {
	return domain + "\x00" + issueID
}

// StartFlow begins a repair for a fixable issue and returns the flow with
// its first step.
func (m *Manager) StartFlow(ctx context.Context, domain, issueID string) (*FlowState, error) {
	iss, ok := m.issues.Get(domain, issueID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrIssueNotFound, domain, issueID)
	}
	if !iss.IsFixable {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFixable, domain, issueID)
	}

	m.mu.Lock()
	factory, ok := m.factories[handlerKey(domain, issueID)]
	if !ok {
		factory, ok = m.factories[handlerKey(domain, "")]
	}
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNoHandler, domain, issueID)
	}

	flow := factory(*iss)
	state := &FlowState{
		ID:      uuid.NewString(),
		Domain:  domain,
		IssueID: issueID,
		Current: flow.Begin(ctx, *iss),
		flow:    flow,
	}

	// A flow may finish or bail in Begin; only parked forms stay live.
	if state.Current.Kind == KindForm {
		m.mu.Lock()
		m.flows[state.ID] = state
		m.mu.Unlock()
	} else if state.Current.Kind == KindDone {
		m.resolve(state)
	}

	m.logger.Info("repair flow started",
		"flow_id", state.ID,
		"issue", domain+"/"+issueID,
		"step", state.Current.StepID)
	return state, nil
}

// Submit advances a flow with the user's input for its current step. The
// input is validated against the step's schema before it reaches the flow.
func (m *Manager) Submit(ctx context.Context, flowID string, input map[string]any) (*FlowState, error) {
	m.mu.Lock()
	state, ok := m.flows[flowID]
	m.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
	}

	validated, err := state.Current.Schema.Apply(input)
	if err != nil {
		return nil, err
	}

	result, err := state.flow.Submit(ctx, state.Current.StepID, validated)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	state.Current = result
	if result.Kind != KindForm {
		delete(m.flows, flowID)
	}
	m.mu.Unlock()

	switch result.Kind {
	case KindDone:
		m.resolve(state)
	case KindAbort:
		m.logger.Info("repair flow aborted",
			"flow_id", flowID,
			"issue", state.Domain+"/"+state.IssueID,
			"reason", result.Reason)
	}
	return state, nil
}

// Abort drops a live flow without touching the issue.
func (m *Manager) Abort(flowID string) error {
	m.mu.Lock()
	state, ok := m.flows[flowID]
	if ok {
		delete(m.flows, flowID)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
	}
	m.logger.Info("repair flow aborted",
		"flow_id", flowID,
		"issue", state.Domain+"/"+state.IssueID)
	return nil
}

// Get returns a live flow by id.
func (m *Manager) Get(flowID string) (*FlowState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.flows[flowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
	}
	return state, nil
}

// ActiveCount returns the number of live flows.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.flows)
}

// resolve deletes the repaired issue.
func (m *Manager) resolve(state *FlowState) {
	if m.issues.Delete(state.Domain, state.IssueID) {
		m.logger.Info("issue resolved by repair flow",
			"flow_id", state.ID,
			"issue", state.Domain+"/"+state.IssueID)
	}
}
