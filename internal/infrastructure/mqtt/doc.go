// Package mqtt provides MQTT client connectivity for Hearth Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Hearth uses MQTT as its outbound event bus: canonical device state,
// issue lifecycle events and integration status changes are published so
// that dashboards and companion services can follow Core without polling
// the REST API.
//
//	Hearth Core → MQTT Broker → subscribers (dashboards, recorders, bots)
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all issue lifecycle events
//	err = client.Subscribe(mqtt.Topics{}.AllIssues(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish canonical device state
//	topic := mqtt.Topics{}.DeviceState("io://1234-5678-9012/12345678")
//	client.PublishRetained(topic, []byte(`{"position":70,"moving":false}`))
package mqtt
