package hub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hearthway/hearth-core/internal/device"
)

// newTestClient wires a client to an httptest server with a logged-in session.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{
		URL:      srv.URL,
		Username: "user@example.com",
		Password: "secret",
	})
	return c, srv
}

func TestLoginBadCredentials(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	err := c.Login(context.Background())
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("Login() error = %v, want ErrAuthFailed", err)
	}
	if IsRetryable(err) {
		t.Error("auth failure should not be retryable")
	}
}

func TestLoginServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := c.Login(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Login() error = %v, want ErrUnavailable", err)
	}
	if !IsRetryable(err) {
		t.Error("server error should be retryable")
	}
}

func TestOperationsRequireLogin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected before login")
	}))

	if _, err := c.FetchSetup(context.Background()); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("FetchSetup() error = %v, want ErrNotLoggedIn", err)
	}
	if err := c.Execute(context.Background(), "io://1/1", "open", device.Command{Name: "open"}); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Execute() error = %v, want ErrNotLoggedIn", err)
	}
}

func TestFetchSetup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("userId") != "user@example.com" {
			t.Errorf("userId = %q", r.FormValue("userId"))
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/setup", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Setup{
			Gateways: []Gateway{{GatewayID: "1234-5678", Alive: true}},
			Devices: []DeviceRecord{
				{
					DeviceURL: "io://1234/1",
					Label:     "Living Room",
					Widget:    "RollerShutter",
					Enabled:   true,
					States:    []StateValue{{Name: "core:ClosureState", Value: 30}},
				},
			},
		})
	})

	c, _ := newTestClient(t, mux)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	setup, err := c.FetchSetup(context.Background())
	if err != nil {
		t.Fatalf("FetchSetup() error = %v", err)
	}
	if len(setup.Devices) != 1 || setup.Devices[0].Widget != "RollerShutter" {
		t.Errorf("unexpected setup: %+v", setup)
	}

	states := StateMap(setup.Devices[0].States)
	if v, ok := states["core:ClosureState"]; !ok || v != float64(30) {
		t.Errorf("StateMap = %v, want closure 30", states)
	}
}

func TestSessionExpiryTriggersRelogin(t *testing.T) {
	var logins, setups atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/setup", func(w http.ResponseWriter, r *http.Request) {
		// First setup call hits an expired session.
		if setups.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Setup{})
	})

	c, _ := newTestClient(t, mux)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := c.FetchSetup(context.Background()); err != nil {
		t.Fatalf("FetchSetup() error = %v", err)
	}
	if got := logins.Load(); got != 2 {
		t.Errorf("login count = %d, want 2 (initial + re-login)", got)
	}
	if got := setups.Load(); got != 2 {
		t.Errorf("setup count = %d, want 2 (expired + retry)", got)
	}
}

func TestExecutePayload(t *testing.T) {
	var got execRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/exec/apply", func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding exec body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(execResponse{ExecID: "exec-1"})
	})

	c, _ := newTestClient(t, mux)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	err := c.Execute(context.Background(), "io://1234/1", "set position",
		device.Command{Name: "setClosure", Args: []any{25}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got.Label != "set position" {
		t.Errorf("label = %q, want set position", got.Label)
	}
	if len(got.Actions) != 1 || got.Actions[0].DeviceURL != "io://1234/1" {
		t.Fatalf("actions = %+v", got.Actions)
	}
	cmd := got.Actions[0].Commands[0]
	if cmd.Name != "setClosure" || cmd.Parameters[0] != float64(25) {
		t.Errorf("command = %+v, want setClosure(25)", cmd)
	}
}

func TestPollEventsRegistersListener(t *testing.T) {
	var registers atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/events/register", func(w http.ResponseWriter, r *http.Request) {
		registers.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(registerResponse{ID: "listener-1"})
	})
	mux.HandleFunc("/events/listener-1/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Event{
			{
				Name:      "DeviceStateChangedEvent",
				DeviceURL: "io://1234/1",
				DeviceStates: []StateValue{
					{Name: "core:ClosureState", Value: 40},
				},
			},
		})
	})

	c, _ := newTestClient(t, mux)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	events, err := c.PollEvents(context.Background())
	if err != nil {
		t.Fatalf("PollEvents() error = %v", err)
	}
	if len(events) != 1 || events[0].DeviceURL != "io://1234/1" {
		t.Fatalf("events = %+v", events)
	}

	// Second poll reuses the listener.
	if _, err := c.PollEvents(context.Background()); err != nil {
		t.Fatalf("PollEvents() second call error = %v", err)
	}
	if got := registers.Load(); got != 1 {
		t.Errorf("register count = %d, want 1", got)
	}
}

func TestPollEventsExpiredListenerReRegisters(t *testing.T) {
	var registers atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/events/register", func(w http.ResponseWriter, r *http.Request) {
		n := registers.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_ = json.NewEncoder(w).Encode(registerResponse{ID: "stale"})
		} else {
			_ = json.NewEncoder(w).Encode(registerResponse{ID: "fresh"})
		}
	})
	mux.HandleFunc("/events/stale/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/events/fresh/fetch", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]Event{})
	})

	c, _ := newTestClient(t, mux)
	if err := c.Login(context.Background()); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	// First poll hits the expired listener; the cloud's 404 drops it.
	if _, err := c.PollEvents(context.Background()); err != nil {
		t.Fatalf("PollEvents() first call error = %v", err)
	}
	// Second poll must register a fresh listener.
	if _, err := c.PollEvents(context.Background()); err != nil {
		t.Fatalf("PollEvents() second call error = %v", err)
	}
	if got := registers.Load(); got != 2 {
		t.Errorf("register count = %d, want 2", got)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{200, nil},
		{204, nil},
		{401, ErrSessionExpired},
		{403, ErrSessionExpired},
		{429, ErrTooManyRequests},
		{503, ErrMaintenance},
		{500, ErrUnavailable},
		{502, ErrUnavailable},
	}

	for _, tt := range tests {
		err := classifyStatus(tt.status)
		if tt.want == nil {
			if err != nil {
				t.Errorf("classifyStatus(%d) = %v, want nil", tt.status, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("classifyStatus(%d) = %v, want %v", tt.status, err, tt.want)
		}
	}
}
