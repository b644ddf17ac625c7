// Package session turns a session file into a launch plan and runs it in the
// configured layout mode.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/partygrid/internal/game"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

// File describes one launch: what to run, which devices exist and how they
// are split between instances.
type File struct {
	Screen    *types.Resolution `yaml:"screen,omitempty" json:"screen,omitempty"` // Overrides the configured screen
	Game      GameRef           `yaml:"game" json:"game"`
	Devices   []DeviceSpec      `yaml:"devices" json:"devices"`
	Instances []InstanceSpec    `yaml:"instances" json:"instances"`
	Profiles  []string          `yaml:"profiles,omitempty" json:"profiles,omitempty"` // Replaces the scanned profile list; index 0 is Guest

	dir string
}

// GameRef selects the game. Exactly one field must be set.
type GameRef struct {
	Executable *game.Executable `yaml:"executable,omitempty" json:"executable,omitempty"`
	Handler    string           `yaml:"handler,omitempty" json:"handler,omitempty"` // Path to a handler file
	Inline     *game.Handler    `yaml:"inline,omitempty" json:"inline,omitempty"`
}

// DeviceSpec is a device entry. Devices are enabled unless stated otherwise.
type DeviceSpec struct {
	Name    string           `yaml:"name,omitempty" json:"name,omitempty"`
	Path    string           `yaml:"path" json:"path"`
	Type    types.DeviceType `yaml:"type" json:"type"`
	Enabled *bool            `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// InstanceSpec assigns devices and a profile to one instance
type InstanceSpec struct {
	Devices []int `yaml:"devices" json:"devices"`
	Profile int   `yaml:"profile" json:"profile"` // 0 = guest
}

// LoadFile reads a session file. The format follows the extension (.yaml,
// .yml or .json). Relative paths inside it resolve against its directory.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	f, err := ParseFile(data, format)
	if err != nil {
		return nil, err
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// ParseFile decodes a session from raw bytes. format is "yaml" or "json".
func ParseFile(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML session: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON session: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported session format: %s", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the structure of the session. Device indices are checked
// later, when the launch command is built.
func (f *File) Validate() error {
	set := 0
	if f.Game.Executable != nil {
		set++
		if f.Game.Executable.Path == "" {
			return fmt.Errorf("game.executable: missing path")
		}
	}
	if f.Game.Handler != "" {
		set++
	}
	if f.Game.Inline != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("game: exactly one of executable, handler or inline is required")
	}

	if f.Screen != nil && !f.Screen.Valid() {
		return fmt.Errorf("invalid screen: %s", f.Screen)
	}

	for i, d := range f.Devices {
		if d.Path == "" {
			return fmt.Errorf("device %d: missing path", i)
		}
		switch d.Type {
		case types.DeviceKeyboard, types.DeviceMouse, types.DeviceGamepad:
		default:
			return fmt.Errorf("device %d: unknown type %q", i, d.Type)
		}
	}

	if len(f.Instances) == 0 {
		return fmt.Errorf("no instances")
	}
	return nil
}

// ResolveGame loads the referenced game
func (f *File) ResolveGame() (game.Game, error) {
	switch {
	case f.Game.Executable != nil:
		e := *f.Game.Executable
		if !filepath.IsAbs(e.Path) && f.dir != "" {
			e.Path = filepath.Join(f.dir, e.Path)
		}
		return &e, nil
	case f.Game.Inline != nil:
		h := *f.Game.Inline
		if h.RootPath != "" && !filepath.IsAbs(h.RootPath) && f.dir != "" {
			h.RootPath = filepath.Join(f.dir, h.RootPath)
		}
		if err := h.Validate(); err != nil {
			return nil, err
		}
		return &h, nil
	default:
		path := f.Game.Handler
		if !filepath.IsAbs(path) && f.dir != "" {
			path = filepath.Join(f.dir, path)
		}
		return game.LoadHandler(path)
	}
}

// DeviceList returns the devices in file order
func (f *File) DeviceList() []types.Device {
	devices := make([]types.Device, len(f.Devices))
	for i, d := range f.Devices {
		devices[i] = types.Device{
			Name:    d.Name,
			Path:    d.Path,
			Type:    d.Type,
			Enabled: d.Enabled == nil || *d.Enabled,
		}
	}
	return devices
}

// Registry creates a registry with one unassigned instance per entry
func (f *File) Registry() *state.Registry {
	instances := make([]*state.Instance, len(f.Instances))
	for i, spec := range f.Instances {
		instances[i] = state.NewInstance(append([]int(nil), spec.Devices...), spec.Profile)
	}
	return state.NewRegistry(instances)
}
