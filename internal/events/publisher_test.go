package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/hearthway/hearth-core/internal/device"
	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/setup"
)

type published struct {
	topic    string
	payload  []byte
	retained bool
}

type fakeBus struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (b *fakeBus) Publish(topic string, payload []byte, _ byte, retained bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.messages = append(b.messages, published{topic: topic, payload: payload, retained: retained})
	return nil
}

func (b *fakeBus) PublishRetained(topic string, payload []byte) error {
	return b.Publish(topic, payload, 1, true)
}

func (b *fakeBus) last(t *testing.T) published {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.messages) == 0 {
		t.Fatal("no messages published")
	}
	return b.messages[len(b.messages)-1]
}

type capturingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *capturingLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	l.warns = append(l.warns, msg)
	l.mu.Unlock()
}

func TestHandleIssueEvent(t *testing.T) {
	bus := &fakeBus{}
	pub := NewPublisher(bus, nil)

	pub.HandleIssueEvent(issue.Event{
		Action: issue.ActionCreate,
		Issue:  &issue.Issue{Domain: "hub", IssueID: "auth_required", Active: true},
	})

	msg := bus.last(t)
	if msg.topic != "hearth/core/issue/create" {
		t.Errorf("topic = %q, want hearth/core/issue/create", msg.topic)
	}
	if msg.retained {
		t.Error("issue events must not be retained")
	}

	var decoded struct {
		Action string       `json:"action"`
		Issue  *issue.Issue `json:"issue"`
	}
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if decoded.Action != "create" {
		t.Errorf("action = %q, want create", decoded.Action)
	}
	if decoded.Issue == nil || decoded.Issue.IssueID != "auth_required" {
		t.Errorf("unexpected issue payload: %+v", decoded.Issue)
	}
}

func TestHandleDeviceState(t *testing.T) {
	bus := &fakeBus{}
	pub := NewPublisher(bus, nil)

	dev, err := device.FromWidget("PositionableRollerShutter", "io://1234/1", "Living Room", &fakeExecutor{})
	if err != nil {
		t.Fatalf("FromWidget failed: %v", err)
	}

	pub.HandleDeviceState(dev, dev.Snapshot())

	msg := bus.last(t)
	if msg.topic != "hearth/core/device/io:%2F%2F1234%2F1/state" {
		t.Errorf("topic = %q", msg.topic)
	}
	if !msg.retained {
		t.Error("device state must be retained")
	}

	var decoded struct {
		DeviceURL string         `json:"device_url"`
		Class     string         `json:"class"`
		State     map[string]any `json:"state"`
	}
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if decoded.DeviceURL != "io://1234/1" {
		t.Errorf("device_url = %q", decoded.DeviceURL)
	}
	if decoded.State == nil {
		t.Error("expected state snapshot in payload")
	}
}

func TestHandleIntegrationStatus(t *testing.T) {
	bus := &fakeBus{}
	pub := NewPublisher(bus, nil)

	pub.HandleIntegrationStatus("hub-main", setup.StatusRunning)

	msg := bus.last(t)
	if msg.topic != "hearth/core/integration/hub-main/status" {
		t.Errorf("topic = %q", msg.topic)
	}

	var decoded struct {
		InstanceID string `json:"instance_id"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(msg.payload, &decoded); err != nil {
		t.Fatalf("decoding payload: %v", err)
	}
	if decoded.Status != "running" {
		t.Errorf("status = %q, want running", decoded.Status)
	}
}

func TestPublishFailureIsLoggedNotFatal(t *testing.T) {
	bus := &fakeBus{err: errors.New("broker down")}
	logger := &capturingLogger{}
	pub := NewPublisher(bus, logger)

	pub.HandleIntegrationStatus("hub-main", setup.StatusRetrying)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	if len(logger.warns) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(logger.warns))
	}
}

// fakeExecutor satisfies device.Executor for snapshot construction.
type fakeExecutor struct{}

func (fakeExecutor) Execute(_ context.Context, _ string, _ string, _ ...device.Command) error {
	return nil
}
