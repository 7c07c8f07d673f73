package issue

import "errors"

// Domain errors for the issue package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, issue.ErrIssueNotFound) {
//	    // handle not found case
//	}
var (
	// ErrIssueNotFound is returned when a (domain, issue_id) pair does not exist.
	ErrIssueNotFound = errors.New("issue: not found")

	// ErrInvalidDomain is returned when a domain is empty.
	ErrInvalidDomain = errors.New("issue: invalid domain")

	// ErrInvalidIssueID is returned when an issue ID is empty.
	ErrInvalidIssueID = errors.New("issue: invalid issue id")

	// ErrInvalidSeverity is returned when a severity value is not recognised.
	ErrInvalidSeverity = errors.New("issue: invalid severity")

	// ErrInvalidBreakVersion is returned when a breaks_in_version value is not
	// a valid calendar version string. Validation happens before any record is
	// stored.
	ErrInvalidBreakVersion = errors.New("issue: invalid breaks_in_version")

	// ErrStoreCorrupt is returned when the on-disk store cannot be decoded.
	ErrStoreCorrupt = errors.New("issue: store corrupt")

	// ErrUnsupportedStoreVersion is returned when the store file was written
	// by a newer major schema version than this binary understands.
	ErrUnsupportedStoreVersion = errors.New("issue: unsupported store version")
)
