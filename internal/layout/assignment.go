package layout

import (
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/logging"
	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

const (
	// MaxFixedQuadrantPlayers is the most players the fixed-quadrant layout can tile
	MaxFixedQuadrantPlayers = 4

	// LowResMinHeight is the height small instances are raised to when the
	// low resolution fix is on
	LowResMinHeight = 600
)

// Options tunes layout assignment
type Options struct {
	VerticalTwoPlayer bool             // Two players side by side instead of stacked
	LowResFix         bool             // Raise instance height to LowResMinHeight in fixed-quadrant mode
	GridPolicy        types.GridPolicy // Grid mode row/column policy
}

// AssignLayout writes each instance's resolution, and in grid mode its grid
// position, according to mode. It is called once per session before launch.
// On error the registry is left untouched.
func AssignLayout(reg *state.Registry, mode types.LayoutMode, screen types.Resolution, opts Options) error {
	switch mode {
	case types.LayoutFixedQuadrant:
		return assignFixedQuadrant(reg, screen, opts)
	case types.LayoutGrid:
		return assignGrid(reg, screen, opts)
	case types.LayoutManual:
		logging.Warn().
			Int("instances", reg.Len()).
			Msg("Manual layout: instance geometry left unchanged")
		return nil
	default:
		return perrors.Precondition("assign layout", "unknown layout mode %q", mode)
	}
}

// FixedQuadrantResolution returns the size of every instance when players
// share the screen in halves or quarters.
func FixedQuadrantResolution(players int, screen types.Resolution, opts Options) (types.Resolution, error) {
	if players <= 0 || players > MaxFixedQuadrantPlayers {
		return types.Resolution{}, perrors.Precondition("assign layout",
			"fixed-quadrant layout supports 1 to %d players, got %d", MaxFixedQuadrantPlayers, players)
	}
	if !screen.Valid() {
		return types.Resolution{}, perrors.Precondition("assign layout", "invalid screen resolution %s", screen)
	}

	var res types.Resolution
	switch players {
	case 1:
		res = screen
	case 2:
		if opts.VerticalTwoPlayer {
			res = types.Resolution{Width: screen.Width / 2, Height: screen.Height}
		} else {
			res = types.Resolution{Width: screen.Width, Height: screen.Height / 2}
		}
	default:
		res = types.Resolution{Width: screen.Width / 2, Height: screen.Height / 2}
	}

	if opts.LowResFix && res.Height < LowResMinHeight {
		res.Width = res.Width * LowResMinHeight / res.Height
		res.Height = LowResMinHeight
	}
	return res, nil
}

func assignFixedQuadrant(reg *state.Registry, screen types.Resolution, opts Options) error {
	res, err := FixedQuadrantResolution(reg.Len(), screen, opts)
	if err != nil {
		return err
	}

	for i, inst := range reg.Instances {
		inst.Width = res.Width
		inst.Height = res.Height
		logging.Info().
			Int("instance", i+1).
			Int("of", reg.Len()).
			Str("resolution", res.String()).
			Msg("Assigned fixed-quadrant resolution")
	}
	return nil
}

func assignGrid(reg *state.Registry, screen types.Resolution, opts Options) error {
	grid, err := ComputeGrid(reg.Len(), screen, opts.GridPolicy)
	if err != nil {
		return err
	}
	cell := grid.CellResolution()

	for i, inst := range reg.Instances {
		inst.Width = cell.Width
		inst.Height = cell.Height
		inst.Position = &types.GridPosition{Row: i / grid.Cols, Col: i % grid.Cols}
	}
	reg.SetGrid(grid)

	if err := reg.RebuildPositions(); err != nil {
		return err
	}

	logging.Info().
		Int("rows", grid.Rows).
		Int("cols", grid.Cols).
		Str("cell", cell.String()).
		Msg("Assigned grid layout")
	return nil
}
