package events

import (
	"encoding/json"
	"time"

	"github.com/hearthway/hearth-core/internal/device"
	"github.com/hearthway/hearth-core/internal/infrastructure/mqtt"
	"github.com/hearthway/hearth-core/internal/issue"
	"github.com/hearthway/hearth-core/internal/setup"
)

// Logger is the minimal logging interface the publisher needs.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Bus is the subset of the MQTT client the publisher uses.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
}

// Publisher mirrors core state changes onto the MQTT bus.
type Publisher struct {
	bus    Bus
	topics mqtt.Topics
	logger Logger
}

// NewPublisher creates a Publisher. A nil logger disables logging.
func NewPublisher(bus Bus, logger Logger) *Publisher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Publisher{bus: bus, logger: logger}
}

// issuePayload is the wire shape for issue lifecycle events.
type issuePayload struct {
	Action    string       `json:"action"`
	Issue     *issue.Issue `json:"issue"`
	Timestamp string       `json:"timestamp"`
}

// HandleIssueEvent publishes an issue registry change.
// Register with issue.Registry.OnChange.
func (p *Publisher) HandleIssueEvent(ev issue.Event) {
	payload, err := json.Marshal(issuePayload{
		Action:    string(ev.Action),
		Issue:     ev.Issue,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Warn("marshaling issue event", "error", err)
		return
	}

	if err := p.bus.Publish(p.topics.Issue(string(ev.Action)), payload, 1, false); err != nil {
		p.logger.Warn("publishing issue event", "action", ev.Action, "error", err)
	}
}

// statePayload is the wire shape for canonical device state.
type statePayload struct {
	DeviceURL string         `json:"device_url"`
	Name      string         `json:"name"`
	Class     string         `json:"class"`
	State     map[string]any `json:"state"`
	Timestamp string         `json:"timestamp"`
}

// HandleDeviceState publishes a canonical device state snapshot, retained
// so late subscribers see current state. Register with
// device.Registry.OnStateChange.
func (p *Publisher) HandleDeviceState(dev device.Device, snapshot map[string]any) {
	payload, err := json.Marshal(statePayload{
		DeviceURL: dev.URL(),
		Name:      dev.Name(),
		Class:     string(dev.Class()),
		State:     snapshot,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Warn("marshaling device state", "device", dev.URL(), "error", err)
		return
	}

	if err := p.bus.PublishRetained(p.topics.DeviceState(dev.URL()), payload); err != nil {
		p.logger.Warn("publishing device state", "device", dev.URL(), "error", err)
	}
}

// integrationPayload is the wire shape for integration status changes.
type integrationPayload struct {
	InstanceID string `json:"instance_id"`
	Status     string `json:"status"`
	Timestamp  string `json:"timestamp"`
}

// HandleIntegrationStatus publishes a setup supervisor status change,
// retained per instance.
func (p *Publisher) HandleIntegrationStatus(instanceID string, status setup.Status) {
	payload, err := json.Marshal(integrationPayload{
		InstanceID: instanceID,
		Status:     string(status),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Warn("marshaling integration status", "instance", instanceID, "error", err)
		return
	}

	if err := p.bus.PublishRetained(p.topics.IntegrationStatus(instanceID), payload); err != nil {
		p.logger.Warn("publishing integration status", "instance", instanceID, "error", err)
	}
}
