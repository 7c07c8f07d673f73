package issue

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key uniquely identifies an issue by the raising domain and a
// domain-scoped issue ID.
type Key struct {
	Domain  string
	IssueID string
}

// String returns the canonical "domain/issue_id" form of the key.
func (k Key) String() string {
	return k.Domain + "/" + k.IssueID
}

// Severity indicates how urgently a user should act on an issue.
type Severity string

// Severity constants.
const (
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
	SeverityWarning  Severity = "warning"
)

// AllSeverities returns all valid severity values.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityError, SeverityWarning}
}

// valid reports whether the severity is one of the known values.
// The empty severity is allowed (severity is optional on an issue).
func (s Severity) valid() bool {
	switch s {
	case "", SeverityCritical, SeverityError, SeverityWarning:
		return true
	default:
		return false
	}
}

// Issue is the in-memory record of a detected problem.
//
// The on-disk shape is different: see store.go. Non-persistent issues are
// written to disk stripped down to identity, creation time and dismissal
// marker only.
type Issue struct {
	// Identity
	Domain  string `json:"domain"`
	IssueID string `json:"issue_id"`

	// Active is true while the raising integration considers the problem
	// current. Issues rehydrated from stripped on-disk stubs are inactive
	// until raised again.
	Active bool `json:"active"`

	// Created is the UTC time the issue was first raised.
	Created time.Time `json:"created"`

	// Data is an optional structured payload consumed by repair flows.
	Data map[string]any `json:"data,omitempty"`

	// DismissedVersion holds the core version at which the user ignored the
	// issue, or nil if not ignored.
	DismissedVersion *string `json:"dismissed_version,omitempty"`

	// IsFixable indicates a repair flow exists for this issue.
	IsFixable bool `json:"is_fixable"`

	// IsPersistent controls whether the full record survives a restart.
	IsPersistent bool `json:"is_persistent"`

	// Severity is optional; empty means unclassified.
	Severity Severity `json:"severity,omitempty"`

	// LearnMoreURL is an optional documentation link.
	LearnMoreURL string `json:"learn_more_url,omitempty"`

	// TranslationKey and TranslationPlaceholders drive user-facing rendering.
	TranslationKey          string            `json:"translation_key,omitempty"`
	TranslationPlaceholders map[string]string `json:"translation_placeholders,omitempty"`

	// BreaksInVersion optionally names the calendar version in which the
	// reported behaviour stops working. Validated eagerly on upsert.
	BreaksInVersion string `json:"breaks_in_version,omitempty"`
}

// Key returns the registry key for the issue.
func (i *Issue) Key() Key {
	return Key{Domain: i.Domain, IssueID: i.IssueID}
}

// Ignored reports whether the issue has been dismissed by the user.
func (i *Issue) Ignored() bool {
	return i.DismissedVersion != nil
}

// DeepCopy creates a complete independent copy of the Issue.
// All map fields are cloned so modifications to the copy do not
// affect the original. This is essential for cache isolation.
func (i *Issue) DeepCopy() *Issue {
	if i == nil {
		return nil
	}

	cpy := *i // Shallow copy of value fields

	cpy.Data = deepCopyMap(i.Data)

	if i.TranslationPlaceholders != nil {
		cpy.TranslationPlaceholders = make(map[string]string, len(i.TranslationPlaceholders))
		for k, v := range i.TranslationPlaceholders {
			cpy.TranslationPlaceholders[k] = v
		}
	}

	if i.DismissedVersion != nil {
		v := *i.DismissedVersion
		cpy.DismissedVersion = &v
	}

	return &cpy
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, int, float64, etc.) are safe to copy by value
		return v
	}
}

// Options holds the mutable fields supplied to Registry.Upsert.
type Options struct {
	Data                    map[string]any
	IsFixable               bool
	IsPersistent            bool
	Severity                Severity
	LearnMoreURL            string
	TranslationKey          string
	TranslationPlaceholders map[string]string
	BreaksInVersion         string
}

// Calendar version bounds. Versions are YYYY.M or YYYY.M.PATCH,
// e.g. "2026.8" or "2026.8.2".
const (
	calverMinYear  = 2000
	calverMaxYear  = 3000
	calverMinParts = 2
	calverMaxParts = 3
)

// ValidateBreakVersion checks that v is a well-formed calendar version
// string. The empty string is valid (the field is optional).
//
// Returns:
//   - error: ErrInvalidBreakVersion (wrapped with detail) if malformed
func ValidateBreakVersion(v string) error {
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ".")
	if len(parts) < calverMinParts || len(parts) > calverMaxParts {
		return fmt.Errorf("%w: %q must have %d or %d dot-separated parts",
			ErrInvalidBreakVersion, v, calverMinParts, calverMaxParts)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil || year < calverMinYear || year > calverMaxYear {
		return fmt.Errorf("%w: %q has invalid year", ErrInvalidBreakVersion, v)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return fmt.Errorf("%w: %q has invalid month", ErrInvalidBreakVersion, v)
	}

	if len(parts) == calverMaxParts {
		patch, err := strconv.Atoi(parts[2])
		if err != nil || patch < 0 {
			return fmt.Errorf("%w: %q has invalid patch", ErrInvalidBreakVersion, v)
		}
	}

	return nil
}
