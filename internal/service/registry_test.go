package service

import (
	"context"
	"errors"
	"sync"
	"testing"
)

var errDeviceGone = errors.New("device: not found")

// fakeRecorder captures audit entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []recordedCall
}

type recordedCall struct {
	domain string
	name   string
	source string
	params map[string]any
	err    error
}

func (f *fakeRecorder) RecordCall(_ context.Context, domain, name, source string, params map[string]any, callErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, recordedCall{domain, name, source, params, callErr})
}

func testDefinition(handler Handler) Definition {
	return Definition{
		Domain: "media",
		Name:   "set_volume",
		Schema: NewSchema(
			Field{Name: "volume", Kind: KindInt, Required: true, Min: Ptr(0), Max: Ptr(100)},
		),
		Handler: handler,
	}
}

func TestRegistryCallDispatchesValidatedParams(t *testing.T) {
	reg := NewRegistry()

	var gotParams map[string]any
	def := testDefinition(func(_ context.Context, params map[string]any) (any, error) {
		gotParams = params
		return "ok", nil
	})
	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	result, err := reg.Call(context.Background(), "media", "set_volume", "api", map[string]any{"volume": float64(70)})
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if result != "ok" {
		t.Errorf("result = %v", result)
	}
	if gotParams["volume"] != 70 {
		t.Errorf("handler received volume = %v (%T), want int 70", gotParams["volume"], gotParams["volume"])
	}
}

func TestRegistryUnknownService(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Call(context.Background(), "media", "nope", "api", nil)
	if !errors.Is(err, ErrUnknownService) {
		t.Errorf("Call() error = %v, want ErrUnknownService", err)
	}
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	reg := NewRegistry()
	def := testDefinition(func(context.Context, map[string]any) (any, error) { return nil, nil })

	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(def); !errors.Is(err, ErrServiceExists) {
		t.Errorf("Register() duplicate error = %v, want ErrServiceExists", err)
	}
}

func TestRegistryErrorBoundary(t *testing.T) {
	reg := NewRegistry()
	reg.AddPassthrough(errDeviceGone)

	failWith := errDeviceGone
	def := testDefinition(func(context.Context, map[string]any) (any, error) {
		return nil, failWith
	})
	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Recognized domain error passes through unchanged.
	_, err := reg.Call(context.Background(), "media", "set_volume", "api", map[string]any{"volume": 10})
	if !errors.Is(err, errDeviceGone) {
		t.Errorf("Call() error = %v, want errDeviceGone", err)
	}
	if errors.Is(err, ErrServiceFailed) {
		t.Error("recognized error should not be wrapped in ErrServiceFailed")
	}

	// Unrecognized error is wrapped.
	failWith = errors.New("nil pointer somewhere deep")
	_, err = reg.Call(context.Background(), "media", "set_volume", "api", map[string]any{"volume": 10})
	if !errors.Is(err, ErrServiceFailed) {
		t.Errorf("Call() error = %v, want ErrServiceFailed wrap", err)
	}
}

func TestRegistryAuditsCallsAndFailures(t *testing.T) {
	reg := NewRegistry()
	rec := &fakeRecorder{}
	reg.SetRecorder(rec)

	def := testDefinition(func(context.Context, map[string]any) (any, error) { return nil, nil })
	if err := reg.Register(def); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Success audited.
	if _, err := reg.Call(context.Background(), "media", "set_volume", "api", map[string]any{"volume": 10}); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	// Schema rejection audited too.
	if _, err := reg.Call(context.Background(), "media", "set_volume", "api", map[string]any{"volume": 500}); err == nil {
		t.Fatal("Call() expected range error")
	}

	if len(rec.entries) != 2 {
		t.Fatalf("audit entries = %d, want 2", len(rec.entries))
	}
	if rec.entries[0].err != nil {
		t.Errorf("first entry error = %v, want nil", rec.entries[0].err)
	}
	if !errors.Is(rec.entries[1].err, ErrOutOfRange) {
		t.Errorf("second entry error = %v, want ErrOutOfRange", rec.entries[1].err)
	}
	if rec.entries[0].source != "api" {
		t.Errorf("source = %q, want api", rec.entries[0].source)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	noop := func(context.Context, map[string]any) (any, error) { return nil, nil }

	for _, def := range []Definition{
		{Domain: "media", Name: "pause", Handler: noop},
		{Domain: "hub", Name: "set_position", Handler: noop},
		{Domain: "media", Name: "resume", Handler: noop},
	} {
		if err := reg.Register(def); err != nil {
			t.Fatalf("Register(%s.%s) error = %v", def.Domain, def.Name, err)
		}
	}

	got := reg.List()
	want := []string{"hub.set_position", "media.pause", "media.resume"}
	if len(got) != len(want) {
		t.Fatalf("List() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
