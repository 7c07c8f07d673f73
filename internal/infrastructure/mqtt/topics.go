package mqtt

import "fmt"

// Topic prefixes for the Hearth MQTT hierarchy.
//
// All topics live under the "hearth" root:
//
//	hearth/core/...    canonical state and lifecycle events from Core
//	hearth/system/...  process-level status topics
const (
	// TopicPrefixRoot is the base for all Hearth topics.
	TopicPrefixRoot = "hearth"

	// TopicPrefixCore is the base for all core topics.
	TopicPrefixCore = "hearth/core"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "hearth/system"
)

// Topics provides builders for Hearth MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("io://1234-5678-9012/12345678")
//	// Returns: "hearth/core/device/io:%2F%2F1234-5678-9012%2F12345678/state"
type Topics struct{}

// =============================================================================
// Core Topics
// =============================================================================

// DeviceState returns the canonical device state topic.
// This is the authoritative state published by Core after translating
// vendor state updates.
//
// Example: hearth/core/device/{deviceID}/state
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/device/%s/state", TopicPrefixCore, escapeSegment(deviceID))
}

// Event returns the topic for core lifecycle events.
//
// Example: hearth/core/event/device_state_changed
func (Topics) Event(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixCore, eventType)
}

// Issue returns the topic for issue registry lifecycle events.
// The action is one of "create", "update" or "remove".
//
// Example: hearth/core/issue/create
func (Topics) Issue(action string) string {
	return fmt.Sprintf("%s/issue/%s", TopicPrefixCore, action)
}

// IntegrationStatus returns the topic for integration setup status changes.
//
// Example: hearth/core/integration/hub-main/status
func (Topics) IntegrationStatus(instanceID string) string {
	return fmt.Sprintf("%s/integration/%s/status", TopicPrefixCore, escapeSegment(instanceID))
}

// ServiceCalled returns the topic for service call notifications.
//
// Example: hearth/core/service/media/player_media_pause
func (Topics) ServiceCalled(domain, name string) string {
	return fmt.Sprintf("%s/service/%s/%s", TopicPrefixCore, domain, name)
}

// =============================================================================
// System Topics
// =============================================================================

// SystemStatus returns the system status topic. Core publishes online and
// offline payloads here, and the broker publishes the LWT on crash.
//
// Example: hearth/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// SystemShutdown returns the shutdown signal topic.
//
// Example: hearth/system/shutdown
func (Topics) SystemShutdown() string {
	return fmt.Sprintf("%s/shutdown", TopicPrefixSystem)
}

// =============================================================================
// Wildcard Patterns for Subscriptions
// =============================================================================

// AllDeviceStates returns a pattern matching all canonical device states.
//
// Pattern: hearth/core/device/+/state
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/device/+/state", TopicPrefixCore)
}

// AllEvents returns a pattern matching all core events.
//
// Pattern: hearth/core/event/+
func (Topics) AllEvents() string {
	return fmt.Sprintf("%s/event/+", TopicPrefixCore)
}

// AllIssues returns a pattern matching all issue lifecycle events.
//
// Pattern: hearth/core/issue/+
func (Topics) AllIssues() string {
	return fmt.Sprintf("%s/issue/+", TopicPrefixCore)
}

// AllIntegrationStatuses returns a pattern matching all integration status
// topics.
//
// Pattern: hearth/core/integration/+/status
func (Topics) AllIntegrationStatuses() string {
	return fmt.Sprintf("%s/integration/+/status", TopicPrefixCore)
}

// AllServiceCalls returns a pattern matching all service call notifications.
//
// Pattern: hearth/core/service/+/+
func (Topics) AllServiceCalls() string {
	return fmt.Sprintf("%s/service/+/+", TopicPrefixCore)
}

// AllTopics returns a pattern matching all Hearth topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: hearth/#
func (Topics) AllTopics() string {
	return TopicPrefixRoot + "/#"
}

// escapeSegment makes an identifier safe for use as a single topic level.
// Device URLs contain '/' and vendor prefixes contain '#', both of which
// carry meaning in MQTT topics.
func escapeSegment(id string) string {
	out := make([]byte, 0, len(id))
	for i := 0; i < len(id); i++ {
		switch id[i] {
		case '/':
			out = append(out, "%2F"...)
		case '+':
			out = append(out, "%2B"...)
		case '#':
			out = append(out, "%23"...)
		default:
			out = append(out, id[i])
		}
	}
	return string(out)
}
