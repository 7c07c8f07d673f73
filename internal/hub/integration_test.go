package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/setup"
)

// fakeIssues records Upsert and Delete calls for the setup context.
type fakeIssues struct {
	mu      sync.Mutex
	upserts []string
	data    map[string]any
}

func (f *fakeIssues) Upsert(domain, issueID string, opts issue.Options) (*issue.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, domain+"."+issueID)
	f.data = opts.Data
	return &issue.Issue{Domain: domain, IssueID: issueID}, nil
}

func (f *fakeIssues) Delete(domain, issueID string) bool { return false }

func testIntegrationContext(issues *fakeIssues) *setup.Context {
	return &setup.Context{
		InstanceID: "hub-main",
		Domain:     "hub",
		Issues:     issues,
	}
}

func newHubServer(t *testing.T, login http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/login", login)
	mux.HandleFunc("/setup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Setup{
			Devices: []DeviceRecord{
				{
					DeviceURL: "io://1234/1",
					Label:     "Bedroom",
					Widget:    "RollerShutter",
					Enabled:   true,
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewIntegrationRequiresRegistry(t *testing.T) {
	if _, err := NewIntegration(IntegrationOptions{}); err == nil {
		t.Fatal("NewIntegration() with nil registry should fail")
	}
}

func TestIntegrationSetupReady(t *testing.T) {
	srv := newHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	registry := newFakeRegistry()

	integ, err := NewIntegration(IntegrationOptions{
		Config:       Config{URL: srv.URL, Username: "u", Password: "p"},
		Registry:     registry,
		PollInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewIntegration() error = %v", err)
	}
	defer func() {
		if err := integ.Teardown(); err != nil {
			t.Errorf("Teardown() error = %v", err)
		}
	}()

	result := integ.Setup(context.Background(), testIntegrationContext(&fakeIssues{}))
	if result.Outcome != setup.OutcomeReady {
		t.Fatalf("Setup() = %v, want ready", result)
	}
	if _, ok := registry.devices["io://1234/1"]; !ok {
		t.Error("device was not registered")
	}
	if !integ.Healthy() {
		t.Error("Healthy() = false after a successful setup")
	}
}

func TestIntegrationSetupBadCredentials(t *testing.T) {
	srv := newHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	integ, err := NewIntegration(IntegrationOptions{
		Config:   Config{URL: srv.URL, Username: "u", Password: "wrong"},
		Registry: newFakeRegistry(),
	})
	if err != nil {
		t.Fatalf("NewIntegration() error = %v", err)
	}

	result := integ.Setup(context.Background(), testIntegrationContext(&fakeIssues{}))
	if result.Outcome != setup.OutcomeAuthRequired {
		t.Fatalf("Setup() = %v, want auth_required", result)
	}
	if !errors.Is(result.Err, ErrAuthFailed) {
		t.Errorf("Setup() err = %v, want ErrAuthFailed", result.Err)
	}
	if integ.Healthy() {
		t.Error("Healthy() = true after a failed setup")
	}
}

func TestIntegrationSetupCloudDown(t *testing.T) {
	srv := newHubServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	integ, err := NewIntegration(IntegrationOptions{
		Config:   Config{URL: srv.URL, Username: "u", Password: "p"},
		Registry: newFakeRegistry(),
	})
	if err != nil {
		t.Fatalf("NewIntegration() error = %v", err)
	}

	result := integ.Setup(context.Background(), testIntegrationContext(&fakeIssues{}))
	if result.Outcome != setup.OutcomeRetryLater {
		t.Fatalf("Setup() = %v, want retry_later", result)
	}
}

func TestIntegrationAuthLossRaisesIssue(t *testing.T) {
	hookCalled := false
	integ, err := NewIntegration(IntegrationOptions{
		Registry:    newFakeRegistry(),
		OnAuthError: func(error) { hookCalled = true },
	})
	if err != nil {
		t.Fatalf("NewIntegration() error = %v", err)
	}

	issues := &fakeIssues{}
	handler := integ.authErrorHandler(testIntegrationContext(issues))
	handler(ErrAuthFailed)

	if len(issues.upserts) != 1 || issues.upserts[0] != "hub.auth_required" {
		t.Fatalf("upserts = %v, want [hub.auth_required]", issues.upserts)
	}
	if issues.data["instance_id"] != "hub-main" {
		t.Errorf("issue data instance_id = %v, want hub-main", issues.data["instance_id"])
	}
	if !hookCalled {
		t.Error("OnAuthError hook was not called")
	}
}
