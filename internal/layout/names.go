package layout

import (
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/profile"
	"github.com/yourusername/partygrid/internal/state"
)

// AssignNames sets each instance's profile name. Selection 0 takes a guest
// name from pool; any other selection indexes profiles (as returned by
// profile.Store.Scan, Guest at index 0). Names are only written, and guest
// names only taken from pool, when every instance resolves.
func AssignNames(reg *state.Registry, pool *profile.GuestPool, profiles []string) error {
	names := make([]string, reg.Len())
	guests := 0
	for i, inst := range reg.Instances {
		if inst.ProfileSelection == 0 {
			guests++
			continue
		}
		if inst.ProfileSelection < 0 || inst.ProfileSelection >= len(profiles) {
			return perrors.Precondition("assign names",
				"instance %d: profile selection %d out of range (have %d profiles)", i+1, inst.ProfileSelection, len(profiles))
		}
		names[i] = profiles[inst.ProfileSelection]
	}
	if guests > pool.Len() {
		return perrors.Precondition("assign names", "%d guests but only %d guest names left", guests, pool.Len())
	}

	for i, inst := range reg.Instances {
		if inst.ProfileSelection != 0 {
			continue
		}
		guest, err := pool.Take()
		if err != nil {
			return perrors.Precondition("assign names", "instance %d: %v", i+1, err)
		}
		names[i] = profile.GuestProfileName(guest)
	}

	for i, inst := range reg.Instances {
		inst.ProfileName = names[i]
	}
	return nil
}
