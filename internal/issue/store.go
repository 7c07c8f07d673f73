package issue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Store schema version. The major version changes only for incompatible
// rewrites of the document; the minor version bumps when a field is added
// with a load-time migration backfilling its default.
const (
	StoreVersionMajor = 1
	StoreVersionMinor = 2
)

// Store file permission modes.
const (
	storeDirPermissions  = 0750
	storeFilePermissions = 0600
)

// DefaultSaveDelay is the debounce window for coalescing store writes.
var DefaultSaveDelay = 500 * time.Millisecond

// storeFile is the top-level on-disk document.
type storeFile struct {
	Version      int           `json:"version"`
	MinorVersion int           `json:"minor_version"`
	Issues       []storedIssue `json:"issues"`
}

// storedIssue is the on-disk shape of one record. It is deliberately a
// separate type from Issue: the two shapes are distinct serialization
// contracts.
//
// Persistent issues carry every field. Non-persistent issues are written
// stripped to identity, creation time, and dismissal marker only (a "stub"),
// which keeps the store file small for issues that are re-detected on every
// start anyway.
//
// IsPersistent is a pointer so load can distinguish "absent" (stub, or a
// pre-1.2 record awaiting migration) from an explicit value.
type storedIssue struct {
	Domain           string    `json:"domain"`
	IssueID          string    `json:"issue_id"`
	Created          time.Time `json:"created"`
	DismissedVersion *string   `json:"dismissed_version,omitempty"`

	// Detail fields, present only on persistent records.
	IsPersistent            *bool             `json:"is_persistent,omitempty"`
	Data                    map[string]any    `json:"data,omitempty"`
	IsFixable               bool              `json:"is_fixable,omitempty"`
	Severity                string            `json:"severity,omitempty"`
	LearnMoreURL            string            `json:"learn_more_url,omitempty"`
	TranslationKey          string            `json:"translation_key,omitempty"`
	TranslationPlaceholders map[string]string `json:"translation_placeholders,omitempty"`
	BreaksInVersion         string            `json:"breaks_in_version,omitempty"`
}

// stubRecord converts an issue to its stripped on-disk form.
func stubRecord(i *Issue) storedIssue {
	return storedIssue{
		Domain:           i.Domain,
		IssueID:          i.IssueID,
		Created:          i.Created,
		DismissedVersion: i.DismissedVersion,
	}
}

// fullRecord converts a persistent issue to its complete on-disk form.
func fullRecord(i *Issue) storedIssue {
	persistent := true
	return storedIssue{
		Domain:                  i.Domain,
		IssueID:                 i.IssueID,
		Created:                 i.Created,
		DismissedVersion:        i.DismissedVersion,
		IsPersistent:            &persistent,
		Data:                    i.Data,
		IsFixable:               i.IsFixable,
		Severity:                string(i.Severity),
		LearnMoreURL:            i.LearnMoreURL,
		TranslationKey:          i.TranslationKey,
		TranslationPlaceholders: i.TranslationPlaceholders,
		BreaksInVersion:         i.BreaksInVersion,
	}
}

// rehydrate converts an on-disk record back to an in-memory issue.
//
// Records marked persistent come back complete and active. Everything else
// is a stub: inactive, with only identity, creation time and dismissal
// marker retained.
func (r *storedIssue) rehydrate() *Issue {
	if r.IsPersistent != nil && *r.IsPersistent {
		return &Issue{
			Domain:                  r.Domain,
			IssueID:                 r.IssueID,
			Active:                  true,
			Created:                 r.Created,
			Data:                    r.Data,
			DismissedVersion:        r.DismissedVersion,
			IsFixable:               r.IsFixable,
			IsPersistent:            true,
			Severity:                Severity(r.Severity),
			LearnMoreURL:            r.LearnMoreURL,
			TranslationKey:          r.TranslationKey,
			TranslationPlaceholders: r.TranslationPlaceholders,
			BreaksInVersion:         r.BreaksInVersion,
		}
	}

	return &Issue{
		Domain:           r.Domain,
		IssueID:          r.IssueID,
		Active:           false,
		Created:          r.Created,
		DismissedVersion: r.DismissedVersion,
	}
}

// Store persists issue records to a single JSON file with a debounced,
// atomic write.
//
// Mutations call ScheduleSave with a full snapshot; repeated calls within
// the save window coalesce into one write of the latest snapshot. Flush
// writes any pending snapshot immediately and is called on shutdown.
//
// All methods are safe for concurrent use.
type Store struct {
	path  string
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending []Issue
	dirty   bool

	logger Logger
}

// NewStore creates a store writing to path with the given debounce window.
// A non-positive delay makes every ScheduleSave write synchronously.
func NewStore(path string, delay time.Duration) *Store {
	return &Store{
		path:   path,
		delay:  delay,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Load reads and decodes the store file, applying schema migrations.
//
// A missing file is not an error: it returns (nil, nil) for a fresh start.
//
// Returns:
//   - []*Issue: Rehydrated issues (persistent records complete and active,
//     stubs inactive)
//   - error: ErrStoreCorrupt or ErrUnsupportedStoreVersion (wrapped) on
//     undecodable or future-versioned data
func (s *Store) Load() ([]*Issue, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading issue store: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreCorrupt, err)
	}

	if file.Version > StoreVersionMajor {
		return nil, fmt.Errorf("%w: store is version %d.%d, this build understands %d.%d",
			ErrUnsupportedStoreVersion, file.Version, file.MinorVersion,
			StoreVersionMajor, StoreVersionMinor)
	}

	migrated := migrateStore(&file)
	if migrated {
		s.logger.Info("issue store migrated",
			"from_minor", file.MinorVersion, "to_minor", StoreVersionMinor)
	}

	issues := make([]*Issue, 0, len(file.Issues))
	for i := range file.Issues {
		issues = append(issues, file.Issues[i].rehydrate())
	}
	return issues, nil
}

// migrateStore applies in-place minor-version migrations and reports whether
// any were needed.
//
// 1.1 -> 1.2: the is_persistent field was introduced. Records written by 1.1
// predate persistent issues entirely, so every pre-existing record backfills
// is_persistent=false and rehydrates as a stub.
func migrateStore(file *storeFile) bool {
	if file.Version != StoreVersionMajor || file.MinorVersion >= StoreVersionMinor {
		return false
	}

	if file.MinorVersion < 2 {
		notPersistent := false
		for i := range file.Issues {
			if file.Issues[i].IsPersistent == nil {
				file.Issues[i].IsPersistent = &notPersistent
			}
		}
	}

	return true
}

// ScheduleSave records the latest snapshot and arms the debounce timer.
//
// The snapshot must be an isolated copy (the registry passes deep copies);
// the store retains it until written. Multiple calls within the save window
// replace the pending snapshot without re-arming the timer, so a burst of
// mutations produces exactly one write.
func (s *Store) ScheduleSave(snapshot []Issue) {
	if s.delay <= 0 {
		if err := s.write(snapshot); err != nil {
			s.logger.Error("issue store save failed", "error", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending = snapshot
	s.dirty = true

	if s.timer == nil {
		s.timer = time.AfterFunc(s.delay, s.saveDebounced)
	}
}

// saveDebounced is the timer callback: writes the pending snapshot.
//
// The timer may have fired while a Flush was waiting on the mutex. In that
// case Flush already wrote the snapshot and cleared dirty; writing again
// here would persist an empty document over it, so an undirtied store is
// left alone.
func (s *Store) saveDebounced() {
	s.mu.Lock()
	if !s.dirty {
		s.timer = nil
		s.mu.Unlock()
		return
	}
	snapshot := s.pending
	s.pending = nil
	s.dirty = false
	s.timer = nil
	s.mu.Unlock()

	if err := s.write(snapshot); err != nil {
		s.logger.Error("issue store save failed", "error", err)
	}
}

// Flush writes any pending snapshot immediately and cancels the timer.
// It should be called on shutdown so the debounce window cannot drop the
// final mutations.
//
// Returns:
//   - error: If the write fails
func (s *Store) Flush() error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snapshot := s.pending
	s.pending = nil
	s.dirty = false
	s.mu.Unlock()

	return s.write(snapshot)
}

// write marshals the snapshot and writes it atomically (temp file + rename).
func (s *Store) write(snapshot []Issue) error {
	records := make([]storedIssue, 0, len(snapshot))
	for i := range snapshot {
		iss := &snapshot[i]
		if iss.IsPersistent {
			records = append(records, fullRecord(iss))
		} else {
			records = append(records, stubRecord(iss))
		}
	}

	file := storeFile{
		Version:      StoreVersionMajor,
		MinorVersion: StoreVersionMinor,
		Issues:       records,
	}

	data, err := json.MarshalIndent(&file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding issue store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), storeDirPermissions); err != nil {
		return fmt.Errorf("creating issue store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, storeFilePermissions); err != nil {
		return fmt.Errorf("writing issue store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing issue store: %w", err)
	}

	return nil
}
