package session

import (
	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/yourusername/partygrid/internal/config"
	"github.com/yourusername/partygrid/internal/game"
	"github.com/yourusername/partygrid/internal/launch"
	"github.com/yourusername/partygrid/internal/layout"
	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/profile"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

// Plan is a fully resolved launch: names, geometry and the command line.
// Building a plan touches nothing on disk.
type Plan struct {
	ID       string
	Mode     types.LayoutMode
	Screen   types.Resolution
	Game     game.Game
	Devices  []types.Device
	Registry *state.Registry
	Command  string
}

// Handler returns the plan's handler, or nil for a bare executable
func (p *Plan) Handler() *game.Handler {
	h, _ := p.Game.(*game.Handler)
	return h
}

// BuildPlan resolves a session file against the configuration. Guest names
// are drawn from pool. When the file has no profile list, the profiles found
// in store are used.
func BuildPlan(f *File, cfg *config.Config, paths config.Paths, fs afero.Fs, store *profile.Store, pool *profile.GuestPool) (*Plan, error) {
	g, err := f.ResolveGame()
	if err != nil {
		return nil, err
	}

	screen := cfg.Screen
	if f.Screen != nil {
		screen = *f.Screen
	}

	profiles := f.Profiles
	if len(profiles) == 0 {
		if profiles, err = store.Scan(); err != nil {
			return nil, err
		}
	}

	reg := f.Registry()
	if err := layout.AssignNames(reg, pool, profiles); err != nil {
		return nil, err
	}

	opts := layout.Options{
		VerticalTwoPlayer: cfg.VerticalTwoPlayer,
		LowResFix:         cfg.LowResFix,
		GridPolicy:        cfg.GridPolicy,
	}
	if err := layout.AssignLayout(reg, cfg.InstanceLayoutMode, screen, opts); err != nil {
		return nil, err
	}

	devices := f.DeviceList()
	cmd, err := launch.NewSynthesizer(fs, cfg, paths).Build(g, devices, reg.Instances)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		ID:       uuid.NewString(),
		Mode:     cfg.InstanceLayoutMode,
		Screen:   screen,
		Game:     g,
		Devices:  devices,
		Registry: reg,
		Command:  cmd,
	}
	logging.Info().
		Str("session", p.ID).
		Str("mode", string(p.Mode)).
		Int("instances", reg.Len()).
		Msg("Built launch plan")
	return p, nil
}
