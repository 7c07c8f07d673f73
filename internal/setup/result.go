package setup

import (
	"fmt"
	"time"
)

// Outcome classifies a setup attempt.
type Outcome string

// Setup outcomes.
const (
	// OutcomeReady means the instance is up and serving.
	OutcomeReady Outcome = "ready"

	// OutcomeRetryLater means a transient failure: cloud outage, rate
	// limit, network trouble. The supervisor retries with backoff.
	OutcomeRetryLater Outcome = "retry_later"

	// OutcomeAuthRequired means the stored credentials were rejected.
	// Retrying is pointless until the user fixes them.
	OutcomeAuthRequired Outcome = "auth_required"

	// OutcomeFatal means setup cannot proceed: bad config, unsupported
	// hardware. The instance is parked.
	OutcomeFatal Outcome = "fatal"
)

// Result is the explicit return value of an integration setup attempt.
type Result struct {
	Outcome Outcome

	// Reason is a short operator-facing explanation for non-ready outcomes.
	Reason string

	// Err is the underlying error, if any.
	Err error

	// RetryAfter suggests a delay before the next attempt. Zero lets the
	// supervisor pick its own backoff. Only meaningful with RetryLater.
	RetryAfter time.Duration
}

// Ready reports a successful setup.
func Ready() Result {
	return Result{Outcome: OutcomeReady}
}

// RetryLater reports a transient failure.
func RetryLater(reason string, err error) Result {
	return Result{Outcome: OutcomeRetryLater, Reason: reason, Err: err}
}

// AuthRequired reports rejected credentials.
func AuthRequired(reason string, err error) Result {
	return Result{Outcome: OutcomeAuthRequired, Reason: reason, Err: err}
}

// Fatal reports an unrecoverable setup failure.
func Fatal(reason string, err error) Result {
	return Result{Outcome: OutcomeFatal, Reason: reason, Err: err}
}

// String renders the result for logs.
func (r Result) String() string {
	if r.Reason == "" {
		return string(r.Outcome)
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
}
