package issue

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry and Store.
// This allows different logging implementations to be used.
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

// Registry is the deduplicated store of issue records.
//
// It keeps the authoritative copy in memory and schedules a debounced write
// to the Store after every mutation. Reads return deep copies so callers can
// never mutate registry state.
//
// All public methods are thread-safe.
type Registry struct {
	store *Store

	// coreVersion is stamped into DismissedVersion when an issue is ignored.
	coreVersion string

	mu     sync.RWMutex
	issues map[Key]*Issue

	listenerMu sync.RWMutex
	listeners  []Listener

	logger Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewRegistry creates an issue registry backed by the given store.
// The coreVersion is the running application version; it is recorded on
// issues the user ignores.
func NewRegistry(store *Store, coreVersion string) *Registry {
	return &Registry{
		store:       store,
		coreVersion: coreVersion,
		issues:      make(map[Key]*Issue),
		logger:      noopLogger{},
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetLogger sets the logger for the registry and its store.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
	r.store.SetLogger(logger)
}

// Load populates the registry from the store file.
// This should be called once on application startup, before any mutation.
func (r *Registry) Load() error {
	issues, err := r.store.Load()
	if err != nil {
		return fmt.Errorf("loading issue registry: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.issues = make(map[Key]*Issue, len(issues))
	for _, iss := range issues {
		r.issues[iss.Key()] = iss
	}

	r.logger.Info("issue registry loaded", "count", len(issues))
	return nil
}

// Get retrieves an issue by domain and ID.
// The returned issue is a deep copy; callers can safely modify it.
func (r *Registry) Get(domain, issueID string) (*Issue, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	iss, ok := r.issues[Key{Domain: domain, IssueID: issueID}]
	if !ok {
		return nil, false
	}
	return iss.DeepCopy(), true
}

// List returns all issues sorted by domain then issue ID.
// The returned issues are deep copies; callers can safely modify them.
func (r *Registry) List() []Issue {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Issue, 0, len(r.issues))
	for _, iss := range r.issues {
		out = append(out, *iss.DeepCopy())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Domain != out[j].Domain {
			return out[i].Domain < out[j].Domain
		}
		return out[i].IssueID < out[j].IssueID
	})
	return out
}

// Len returns the number of tracked issues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.issues)
}

// Upsert creates or replaces an issue.
//
// If no record exists for (domain, issueID), a new active record is created
// with Created set to now, and a create event fires. If a record exists, all
// mutable fields are replaced while identity, creation time and dismissal
// state are preserved, the record becomes active, and an update event fires.
//
// A malformed Options.BreaksInVersion is rejected before any record is
// stored.
//
// Returns:
//   - *Issue: Deep copy of the stored record
//   - error: Validation failure; the registry is unchanged
func (r *Registry) Upsert(domain, issueID string, opts Options) (*Issue, error) {
	if domain == "" {
		return nil, ErrInvalidDomain
	}
	if issueID == "" {
		return nil, ErrInvalidIssueID
	}
	if !opts.Severity.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeverity, opts.Severity)
	}
	if err := ValidateBreakVersion(opts.BreaksInVersion); err != nil {
		return nil, err
	}

	key := Key{Domain: domain, IssueID: issueID}

	r.mu.Lock()
	existing, exists := r.issues[key]

	iss := &Issue{
		Domain:                  domain,
		IssueID:                 issueID,
		Active:                  true,
		Data:                    deepCopyMap(opts.Data),
		IsFixable:               opts.IsFixable,
		IsPersistent:            opts.IsPersistent,
		Severity:                opts.Severity,
		LearnMoreURL:            opts.LearnMoreURL,
		TranslationKey:          opts.TranslationKey,
		TranslationPlaceholders: opts.TranslationPlaceholders,
		BreaksInVersion:         opts.BreaksInVersion,
	}

	if exists {
		// Identity, creation time and dismissal state survive the replace.
		iss.Created = existing.Created
		iss.DismissedVersion = existing.DismissedVersion
	} else {
		iss.Created = r.now()
	}

	r.issues[key] = iss
	result := iss.DeepCopy()
	// The snapshot is handed to the store under the registry lock so
	// concurrent mutations cannot persist out of order.
	r.store.ScheduleSave(r.snapshotLocked())
	r.mu.Unlock()

	if exists {
		r.logger.Debug("issue updated", "domain", domain, "issue_id", issueID)
		r.notify(Event{Action: ActionUpdate, Issue: result.DeepCopy()})
	} else {
		r.logger.Info("issue created",
			"domain", domain, "issue_id", issueID, "severity", string(iss.Severity))
		r.notify(Event{Action: ActionCreate, Issue: result.DeepCopy()})
	}

	return result, nil
}

// Delete removes an issue.
// It reports whether a record was removed; deleting an absent issue is a
// no-op and fires no event.
func (r *Registry) Delete(domain, issueID string) bool {
	key := Key{Domain: domain, IssueID: issueID}

	r.mu.Lock()
	iss, ok := r.issues[key]
	if !ok {
		r.mu.Unlock()
		return false
	}
	delete(r.issues, key)
	removed := iss.DeepCopy()
	r.store.ScheduleSave(r.snapshotLocked())
	r.mu.Unlock()

	r.logger.Info("issue removed", "domain", domain, "issue_id", issueID)
	r.notify(Event{Action: ActionRemove, Issue: removed})
	return true
}

// SetIgnored marks an issue as ignored (dismissed) or clears the marker.
//
// Ignoring stamps the current core version into DismissedVersion. The call
// is idempotent: ignoring an issue already dismissed at this version, or
// un-ignoring one that is not dismissed, changes nothing and fires no event.
//
// Returns:
//   - *Issue: Deep copy of the (possibly unchanged) record
//   - error: ErrIssueNotFound if the issue does not exist
func (r *Registry) SetIgnored(domain, issueID string, ignored bool) (*Issue, error) {
	key := Key{Domain: domain, IssueID: issueID}

	r.mu.Lock()
	iss, ok := r.issues[key]
	if !ok {
		r.mu.Unlock()
		return nil, ErrIssueNotFound
	}

	var changed bool
	if ignored {
		if iss.DismissedVersion == nil || *iss.DismissedVersion != r.coreVersion {
			v := r.coreVersion
			iss.DismissedVersion = &v
			changed = true
		}
	} else if iss.DismissedVersion != nil {
		iss.DismissedVersion = nil
		changed = true
	}

	result := iss.DeepCopy()
	if changed {
		r.store.ScheduleSave(r.snapshotLocked())
	}
	r.mu.Unlock()

	if !changed {
		return result, nil
	}

	r.logger.Info("issue dismissal changed",
		"domain", domain, "issue_id", issueID, "ignored", ignored)
	r.notify(Event{Action: ActionUpdate, Issue: result.DeepCopy()})
	return result, nil
}

// OnChange registers a listener for registry change events.
// Listeners cannot be unregistered; register once at startup.
func (r *Registry) OnChange(l Listener) {
	r.listenerMu.Lock()
	r.listeners = append(r.listeners, l)
	r.listenerMu.Unlock()
}

// Close flushes any pending store write. Call on shutdown.
func (r *Registry) Close() error {
	return r.store.Flush()
}

// snapshotLocked returns a deep-copied snapshot of all issues.
// The caller must hold r.mu.
func (r *Registry) snapshotLocked() []Issue {
	snapshot := make([]Issue, 0, len(r.issues))
	for _, iss := range r.issues {
		snapshot = append(snapshot, *iss.DeepCopy())
	}
	return snapshot
}

// notify delivers an event to all listeners outside the registry lock.
func (r *Registry) notify(ev Event) {
	r.listenerMu.RLock()
	listeners := make([]Listener, len(r.listeners))
	copy(listeners, r.listeners)
	r.listenerMu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
