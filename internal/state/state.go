package state

import (
	"fmt"

	"github.com/yourusername/partygrid/internal/types"
)

// Instance is one running copy of the game
type Instance struct {
	Devices          []int               `yaml:"devices" json:"devices"`                   // Indices into the session device list
	ProfileName      string              `yaml:"profileName" json:"profileName"`           // Resolved profile name, "." prefix for guests
	ProfileSelection int                 `yaml:"profileSelection" json:"profileSelection"` // 0 = guest, otherwise index into the profile list
	Width            int                 `yaml:"width" json:"width"`
	Height           int                 `yaml:"height" json:"height"`
	Position         *types.GridPosition `yaml:"position,omitempty" json:"position,omitempty"` // Set only in grid mode
}

// NewInstance creates an instance owning the given devices
func NewInstance(devices []int, profileSelection int) *Instance {
	return &Instance{
		Devices:          devices,
		ProfileSelection: profileSelection,
	}
}

// Resolution returns the instance's assigned size
func (i *Instance) Resolution() types.Resolution {
	return types.Resolution{Width: i.Width, Height: i.Height}
}

// HasDevice reports whether the device index belongs to this instance
func (i *Instance) HasDevice(idx int) bool {
	for _, d := range i.Devices {
		if d == idx {
			return true
		}
	}
	return false
}

// Registry holds the session's instances in launch order, the active grid and
// the reverse lookup from grid cell to instance index.
//
// It is populated once by layout assignment and only read afterwards, so it
// carries no lock.
type Registry struct {
	Instances []*Instance
	Grid      *types.Grid

	positions map[types.GridPosition]int
}

// NewRegistry creates a registry over the given instances
func NewRegistry(instances []*Instance) *Registry {
	return &Registry{
		Instances: instances,
		positions: make(map[types.GridPosition]int),
	}
}

// Len returns the number of instances
func (r *Registry) Len() int {
	return len(r.Instances)
}

// SetGrid records the active grid
func (r *Registry) SetGrid(g types.Grid) {
	r.Grid = &g
}

// RebuildPositions recomputes the cell -> instance map from the instances'
// recorded positions. It fails if two instances claim the same cell, leaving
// the previous map in place.
func (r *Registry) RebuildPositions() error {
	positions := make(map[types.GridPosition]int, len(r.Instances))
	for i, inst := range r.Instances {
		if inst.Position == nil {
			continue
		}
		if prev, ok := positions[*inst.Position]; ok {
			return fmt.Errorf("instances %d and %d both occupy cell %s", prev, i, inst.Position)
		}
		positions[*inst.Position] = i
	}
	r.positions = positions
	return nil
}
