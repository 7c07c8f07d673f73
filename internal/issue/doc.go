// Package issue provides the Hearth Core issue registry: a deduplicated,
// persisted store of detected problems keyed by (domain, issue_id).
//
// Integrations raise issues when they detect a condition a user should know
// about or act on (expired credentials, a deprecated configuration, an
// unreachable gateway). The registry deduplicates reports, tracks dismissal,
// and persists records across restarts.
//
// Persistence uses a single JSON store file with a debounced save: mutations
// within the save window coalesce into one atomic write. Issues raised with
// IsPersistent=false survive restarts only as inactive stubs; the raising
// integration is expected to re-detect the condition and raise them again.
//
// The in-memory record and the on-disk record are two distinct shapes with
// explicit conversions between them. See store.go.
//
// Usage:
//
//	reg := issue.NewRegistry(store, coreVersion)
//	reg.Upsert(ctx, "hub", "gateway_unreachable", issue.Options{
//	    Severity:  issue.SeverityError,
//	    IsFixable: true,
//	})
package issue
