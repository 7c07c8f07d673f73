// Package events fans core state changes out to the MQTT bus.
//
// The issue registry, device registry and setup supervisor know nothing
// about transports; the composition root hooks their change callbacks up
// to a Publisher, which serialises each event and publishes it on the
// Hearth topic hierarchy. Publish failures are logged and dropped; the
// bus is a best-effort mirror, never a source of truth.
package events
