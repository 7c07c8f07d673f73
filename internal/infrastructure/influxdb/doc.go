// Package influxdb provides InfluxDB connectivity for Hearth Core.
//
// It wraps the official influxdb-client-go v2 library with Hearth-specific
// patterns for connection management, state-history writes, and health
// monitoring.
//
// # Purpose
//
// This package handles time-series storage for:
//   - Canonical device state transitions (position, setpoints, lock state)
//   - Media playback telemetry (volume, shuffle state)
//   - Custom measurements via the generic point writers
//
// # Usage
//
//	cfg := config.InfluxDBConfig{
//	    URL:    "http://localhost:8086",
//	    Token:  "your-token",
//	    Org:    "hearth",
//	    Bucket: "state_history",
//	}
//
//	client, err := influxdb.Connect(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Record a canonical device snapshot
//	client.WriteDeviceState("io://1234/1", "shutter",
//	    map[string]any{"position": 70, "moving": false})
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write operations are non-blocking and batch errors are logged via a callback.
// Connection and health check errors are returned directly.
//
// # Performance
//
// Writes are batched according to config.yaml settings (batch_size, flush_interval).
// This reduces network overhead for chatty devices such as moving shutters.
package influxdb
