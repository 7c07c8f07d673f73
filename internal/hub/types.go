package hub

// Setup is the gateway configuration downloaded after login. It lists every
// device the gateway knows about with its last reported states.
type Setup struct {
	Gateways []Gateway      `json:"gateways"`
	Devices  []DeviceRecord `json:"devices"`
}

// Gateway identifies one physical gateway box on the account.
type Gateway struct {
	GatewayID string `json:"gatewayId"`
	Alive     bool   `json:"alive"`
}

// DeviceRecord is one device as described by the cloud.
type DeviceRecord struct {
	DeviceURL string       `json:"deviceURL"`
	Label     string       `json:"label"`
	Widget    string       `json:"widget"`
	Enabled   bool         `json:"enabled"`
	States    []StateValue `json:"states"`
}

// StateValue is a single named state in a device record or event.
type StateValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// StateMap flattens a state list into the map form the device models ingest.
func StateMap(states []StateValue) map[string]any {
	if len(states) == 0 {
		return nil
	}
	m := make(map[string]any, len(states))
	for _, s := range states {
		m[s.Name] = s.Value
	}
	return m
}

// Event is one entry from the polling endpoint. Only state change events
// carry DeviceStates; other event names pass through for logging.
type Event struct {
	Name         string       `json:"name"`
	DeviceURL    string       `json:"deviceURL"`
	DeviceStates []StateValue `json:"deviceStates"`
	GatewayID    string       `json:"gatewayId"`
}

// Event names the bridge reacts to.
const (
	eventDeviceStateChanged = "DeviceStateChangedEvent"
	eventGatewayDown        = "GatewayDownEvent"
	eventGatewayAlive       = "GatewayAliveEvent"
)

// action is the wire form of one device's command list in an exec request.
type action struct {
	DeviceURL string        `json:"deviceURL"`
	Commands  []wireCommand `json:"commands"`
}

type wireCommand struct {
	Name       string `json:"name"`
	Parameters []any  `json:"parameters,omitempty"`
}

// execRequest is the body of an apply call.
type execRequest struct {
	Label   string   `json:"label"`
	Actions []action `json:"actions"`
}

// execResponse carries the execution id the cloud assigns to an apply call.
type execResponse struct {
	ExecID string `json:"execId"`
}

// registerResponse carries the listener id assigned by event registration.
type registerResponse struct {
	ID string `json:"id"`
}
