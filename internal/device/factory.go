package device

// Vendor widget names the hub reports for supported devices. The factory is
// the single place hub vocabulary maps onto model constructors.
const (
	widgetRollerShutter    = "RollerShutter"
	widgetPositionShutter  = "PositionableRollerShutter"
	widgetVenetianBlind    = "VenetianBlind"
	widgetAwning           = "Awning"
	widgetOnOffLight       = "OnOffLight"
	widgetDimmableLight    = "DimmableLight"
	widgetHeater           = "AtlanticElectricalHeater"
	widgetThermostat       = "SomfyThermostat"
	widgetWaterHeater      = "DomesticHotWaterProduction"
	widgetDoorLock         = "DoorLock"
	widgetUnlockedDoorLock = "UnlockDoorLock"
)

// FromWidget builds the model for a hub widget name. Returns ErrUnknownClass
// for widgets without a model so the bridge can skip them with a log line
// instead of failing setup.
func FromWidget(widget, url, name string, exec Executor) (Device, error) {
	switch widget {
	case widgetRollerShutter, widgetPositionShutter, widgetAwning:
		return NewShutter(url, name, exec, false), nil
	case widgetVenetianBlind:
		return NewShutter(url, name, exec, true), nil
	case widgetOnOffLight:
		return NewLight(url, name, exec, false), nil
	case widgetDimmableLight:
		return NewLight(url, name, exec, true), nil
	case widgetHeater, widgetThermostat:
		return NewClimate(url, name, exec), nil
	case widgetWaterHeater:
		return NewWaterHeater(url, name, exec), nil
	case widgetDoorLock, widgetUnlockedDoorLock:
		return NewLock(url, name, exec), nil
	default:
		return nil, ErrUnknownClass
	}
}
