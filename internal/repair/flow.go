package repair

import (
	"context"
	"errors"

	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/service"
)

// Domain errors for the repair package.
var (
	ErrFlowNotFound   = errors.New("repair: flow not found")
	ErrNoHandler      = errors.New("repair: no flow handler for issue")
	ErrIssueNotFound  = errors.New("repair: issue not found")
	ErrNotFixable     = errors.New("repair: issue is not fixable")
	ErrUnexpectedStep = errors.New("repair: unexpected step")
)

// StepKind tells the caller what to do with a StepResult.
type StepKind string

// Step kinds.
const (
	// KindForm means the flow wants user input for the named step.
	KindForm StepKind = "form"

	// KindDone means the flow finished and the issue is resolved.
	KindDone StepKind = "done"

	// KindAbort means the flow gave up; the issue stays.
	KindAbort StepKind = "abort"
)

// StepResult is what a flow returns from Begin and Submit.
type StepResult struct {
	Kind StepKind

	// StepID names the form step when Kind is KindForm.
	StepID string

	// Schema declares the form's fields when Kind is KindForm.
	Schema service.Schema

	// Description is an operator-facing hint for the form.
	Description string

	// Reason explains an abort.
	Reason string
}

// Form builds a form step result.
func Form(stepID, description string, schema service.Schema) StepResult {
	return StepResult{Kind: KindForm, StepID: stepID, Description: description, Schema: schema}
}

// Done builds a completion result.
func Done() StepResult {
	return StepResult{Kind: KindDone}
}

// Abort builds an abort result.
func Abort(reason string) StepResult {
	return StepResult{Kind: KindAbort, Reason: reason}
}

// Flow is one repair wizard bound to an issue. Submit receives input
// already validated against the schema the flow returned for that step.
type Flow interface {
	Begin(ctx context.Context, iss issue.Issue) StepResult
	Submit(ctx context.Context, stepID string, input map[string]any) (StepResult, error)
}

// Factory builds a flow for an issue when the user starts a repair.
type Factory func(iss issue.Issue) Flow

// ConfirmFlow is the stock single-step flow: show a confirm form, finish on
// submission. Issues that only need acknowledgement use it directly.
type ConfirmFlow struct {
	// Description is shown on the confirm form.
	Description string
}

// Begin returns the confirm form.
func (f *ConfirmFlow) Begin(_ context.Context, _ issue.Issue) StepResult {
	return Form("confirm", f.Description, service.NewSchema())
}

// Submit completes the flow on the confirm step.
func (f *ConfirmFlow) Submit(_ context.Context, stepID string, _ map[string]any) (StepResult, error) {
	if stepID != "confirm" {
		return StepResult{}, ErrUnexpectedStep
	}
	return Done(), nil
}
