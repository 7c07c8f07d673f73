package issue

// Action describes what happened to an issue in a change event.
type Action string

// Action constants.
const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionRemove Action = "remove"
)

// Event is delivered to change listeners after a registry mutation.
// The Issue field is a deep copy; listeners may retain or modify it.
// For ActionRemove the Issue holds the record as it was before removal.
type Event struct {
	Action Action `json:"action"`
	Issue  *Issue `json:"issue"`
}

// Listener receives registry change events.
//
// Listeners are invoked synchronously after the mutation commits, outside the
// registry lock. They must not block for extended periods; fan-out to MQTT or
// WebSocket clients should hand the event to a queue or goroutine.
type Listener func(Event)
