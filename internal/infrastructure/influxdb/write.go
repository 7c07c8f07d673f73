package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteDeviceState records a canonical device state snapshot.
//
// Numeric and boolean snapshot values become fields; string values (mode
// names, repeat state) are stored as string fields so they can be graphed
// as discrete series. The write is non-blocking; data is batched and sent
// asynchronously.
//
// Example:
//
//	client.WriteDeviceState("io://1234/1", "shutter",
//	    map[string]any{"position": 70, "moving": false})
func (c *Client) WriteDeviceState(deviceURL string, class string, state map[string]any) {
	if !c.IsConnected() || len(state) == 0 {
		return
	}

	fields := make(map[string]interface{}, len(state))
	for name, value := range state {
		switch v := value.(type) {
		case int:
			fields[name] = float64(v)
		case int64:
			fields[name] = float64(v)
		case float64:
			fields[name] = v
		case bool:
			fields[name] = v
		case string:
			fields[name] = v
		default:
			// Nested or unsupported values are dropped, not stringified.
		}
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"device_state",
		map[string]string{
			"device_url": deviceURL,
			"class":      class,
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePlayerState records media playback telemetry.
//
// Parameters:
//   - deviceID: The active player device identifier
//   - volume: Volume percent 0-100
//   - playing: Whether playback is active
func (c *Client) WritePlayerState(deviceID string, volume int, playing bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"player_state",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"volume":  float64(volume),
			"playing": playing,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("hub_poll",
//	    map[string]string{"gateway": "1234-5678-9012"},
//	    map[string]interface{}{"events": 3, "latency_ms": 42.0})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., replayed hub events).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
