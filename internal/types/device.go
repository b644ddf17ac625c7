package types

// DeviceType categorizes an input device
type DeviceType string

const (
	DeviceKeyboard DeviceType = "keyboard"
	DeviceMouse    DeviceType = "mouse"
	DeviceGamepad  DeviceType = "gamepad"
)

// Device is an input device node such as /dev/input/event12
type Device struct {
	Name    string     `yaml:"name,omitempty" json:"name,omitempty"`
	Path    string     `yaml:"path" json:"path"`
	Type    DeviceType `yaml:"type" json:"type"`
	Enabled bool       `yaml:"enabled" json:"enabled"`
}

// IsKBM reports whether the device is a keyboard or a mouse
func (d Device) IsKBM() bool {
	return d.Type == DeviceKeyboard || d.Type == DeviceMouse
}
