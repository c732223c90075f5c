package hue

// createUserRequest is the body of a registration attempt. The device type
// is a free-form label the bridge stores alongside the issued username.
type createUserRequest struct {
	DeviceType string `json:"devicetype"`
}

// LightState is the state of a light as reported by the bridge. Color
// fields are pointers because not every light supports them: a plain white
// bulb reports neither hue nor xy.
type LightState struct {
	On        bool      `json:"on"`
	Bri       uint8     `json:"bri"`
	Hue       *uint16   `json:"hue,omitempty"`
	Sat       *uint8    `json:"sat,omitempty"`
	XY        []float32 `json:"xy,omitempty"`
	Ct        *uint16   `json:"ct,omitempty"`
	Effect    *string   `json:"effect,omitempty"`
	Alert     string    `json:"alert,omitempty"`
	ColorMode *string   `json:"colormode,omitempty"`
	Reachable bool      `json:"reachable"`
}

// Light is one bridge-managed light. ID is the bridge-local identifier the
// light is addressed by; it comes from the response's object key, not its
// body. A Light is a point-in-time snapshot, nothing refreshes it.
type Light struct {
	ID               string     `json:"-"`
	Name             string     `json:"name"`
	Type             string     `json:"type,omitempty"`
	ModelID          string     `json:"modelid,omitempty"`
	ManufacturerName string     `json:"manufacturername,omitempty"`
	ProductName      string     `json:"productname,omitempty"`
	UniqueID         string     `json:"uniqueid,omitempty"`
	SWVersion        string     `json:"swversion,omitempty"`
	State            LightState `json:"state"`
}

// StateChange is a partial desired state for one light. Only set fields are
// sent, so attributes left nil keep their current value on the bridge.
// TransitionTime is in the bridge's 100ms steps.
type StateChange struct {
	On             *bool     `json:"on,omitempty"`
	Bri            *uint8    `json:"bri,omitempty"`
	Hue            *uint16   `json:"hue,omitempty"`
	Sat            *uint8    `json:"sat,omitempty"`
	XY             []float32 `json:"xy,omitempty"`
	Ct             *uint16   `json:"ct,omitempty"`
	Effect         *string   `json:"effect,omitempty"`
	Alert          *string   `json:"alert,omitempty"`
	TransitionTime *uint16   `json:"transitiontime,omitempty"`
}

// IsEmpty reports whether the change specifies nothing at all. The bridge
// answers an empty body with an error, so callers reject it up front.
func (c StateChange) IsEmpty() bool {
	return c.On == nil && c.Bri == nil && c.Hue == nil && c.Sat == nil &&
		c.XY == nil && c.Ct == nil && c.Effect == nil && c.Alert == nil &&
		c.TransitionTime == nil
}
