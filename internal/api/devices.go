package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/hearthway/hearth-core/internal/device"
)

// deviceResponse is the wire shape of one device.
type deviceResponse struct {
	URL          string              `json:"url"`
	Name         string              `json:"name"`
	Class        device.Class        `json:"class"`
	Capabilities []device.Capability `json:"capabilities"`
	State        map[string]any      `json:"state"`
}

func toDeviceResponse(dev device.Device) deviceResponse {
	return deviceResponse{
		URL:          dev.URL(),
		Name:         dev.Name(),
		Class:        dev.Class(),
		Capabilities: dev.Capabilities(),
		State:        dev.Snapshot(),
	}
}

// handleListDevices returns all registered devices. Optional ?class= filter.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	var devices []device.Device
	if class := r.URL.Query().Get("class"); class != "" {
		devices = s.devices.ListByClass(device.Class(class))
	} else {
		devices = s.devices.List()
	}

	out := make([]deviceResponse, 0, len(devices))
	for _, dev := range devices {
		out = append(out, toDeviceResponse(dev))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"devices": out,
		"total":   len(out),
	})
}

// deviceFromRequest resolves the URL-encoded device ID path segment.
func (s *Server) deviceFromRequest(w http.ResponseWriter, r *http.Request) (device.Device, bool) {
	encoded := chi.URLParam(r, "deviceID")
	id, err := url.PathUnescape(encoded)
	if err != nil {
		writeBadRequest(w, "invalid device id encoding")
		return nil, false
	}

	dev, err := s.devices.Get(id)
	if err != nil {
		writeNotFound(w, "device not found")
		return nil, false
	}
	return dev, true
}

// handleGetDevice returns one device with its canonical state.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	dev, ok := s.deviceFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDeviceResponse(dev))
}

// commandRequest is the request body for POST /devices/{deviceID}/command.
//
// Actions map onto capability interfaces; a device that lacks the
// capability gets a 400. Numeric values are canonical units (percent,
// degrees Celsius).
type commandRequest struct {
	Action      string   `json:"action"`
	Position    *int     `json:"position,omitempty"`
	Tilt        *int     `json:"tilt,omitempty"`
	Level       *int     `json:"level,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Mode        string   `json:"mode,omitempty"`
	Away        *bool    `json:"away,omitempty"`
}

// handleDeviceCommand executes a capability action against a device.
func (s *Server) handleDeviceCommand(w http.ResponseWriter, r *http.Request) { //nolint:gocognit // one arm per capability action
	dev, ok := s.deviceFromRequest(w, r)
	if !ok {
		return
	}

	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ctx := r.Context()
	var err error

	switch req.Action {
	case "open":
		if d, ok := dev.(device.PositionControllable); ok {
			err = d.Open(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "close":
		if d, ok := dev.(device.PositionControllable); ok {
			err = d.Close(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "stop":
		if d, ok := dev.(device.PositionControllable); ok {
			err = d.Stop(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "set_position":
		d, okCap := dev.(device.PositionControllable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Position == nil {
			writeValidationError(w, "position is required")
			return
		}
		err = d.SetPosition(ctx, *req.Position)
	case "set_tilt":
		d, okCap := dev.(device.Tiltable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Tilt == nil {
			writeValidationError(w, "tilt is required")
			return
		}
		err = d.SetTilt(ctx, *req.Tilt)
	case "turn_on":
		if d, ok := dev.(device.OnOff); ok {
			err = d.TurnOn(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "turn_off":
		if d, ok := dev.(device.OnOff); ok {
			err = d.TurnOff(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "set_level":
		d, okCap := dev.(device.Dimmable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Level == nil {
			writeValidationError(w, "level is required")
			return
		}
		err = d.SetLevel(ctx, *req.Level)
	case "set_temperature":
		d, okCap := dev.(device.TemperatureControllable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Temperature == nil {
			writeValidationError(w, "temperature is required")
			return
		}
		err = d.SetTargetTemperature(ctx, *req.Temperature)
	case "set_mode":
		d, okCap := dev.(device.ModeSelectable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Mode == "" {
			writeValidationError(w, "mode is required")
			return
		}
		err = d.SetMode(ctx, req.Mode)
	case "set_away_mode":
		d, okCap := dev.(device.AwayModeControllable)
		if !okCap {
			err = errUnsupportedAction
			break
		}
		if req.Away == nil {
			writeValidationError(w, "away is required")
			return
		}
		err = d.SetAwayMode(ctx, *req.Away)
	case "lock":
		if d, ok := dev.(device.Lockable); ok {
			err = d.Lock(ctx)
		} else {
			err = errUnsupportedAction
		}
	case "unlock":
		if d, ok := dev.(device.Lockable); ok {
			err = d.Unlock(ctx)
		} else {
			err = errUnsupportedAction
		}
	default:
		writeBadRequest(w, "unknown action: "+req.Action)
		return
	}

	if err != nil {
		s.writeDeviceError(w, dev, req.Action, err)
		return
	}

	writeJSON(w, http.StatusOK, toDeviceResponse(dev))
}

// errUnsupportedAction marks an action the device's class cannot perform.
var errUnsupportedAction = errors.New("api: device does not support this action")

// writeDeviceError maps device command failures onto HTTP responses.
func (s *Server) writeDeviceError(w http.ResponseWriter, dev device.Device, action string, err error) {
	switch {
	case errors.Is(err, errUnsupportedAction):
		writeBadRequest(w, "device does not support action "+action)
	case errors.Is(err, device.ErrInvalidPosition),
		errors.Is(err, device.ErrInvalidLevel),
		errors.Is(err, device.ErrInvalidTemperature),
		errors.Is(err, device.ErrInvalidMode):
		writeValidationError(w, err.Error())
	default:
		s.logger.Error("device command failed",
			"device", dev.URL(),
			"action", action,
			"error", err)
		writeInternalError(w, "device command failed")
	}
}
