package layout

import (
	perrors "github.com/yourusername/partygrid/internal/errors"
	"github.com/yourusername/partygrid/internal/types"
)

// ComputeGrid chooses rows and columns for a number of players.
//
// Parameters:
//   - players: Number of instances to fit, must be positive
//   - screen: Screen resolution, both dimensions positive
//   - policy: GridAspect or GridSquare (empty means GridAspect)
//
// Returns: Grid with Rows*Cols >= players and fewer than Cols unused cells
func ComputeGrid(players int, screen types.Resolution, policy types.GridPolicy) (types.Grid, error) {
	if players <= 0 {
		return types.Grid{}, perrors.Precondition("compute grid", "player count must be positive, got %d", players)
	}
	if !screen.Valid() {
		return types.Grid{}, perrors.Precondition("compute grid", "invalid screen resolution %s", screen)
	}

	var cols, rows int
	switch policy {
	case types.GridSquare:
		rows = ceilSqrt(players)
		cols = ceilDiv(players, rows)
	case types.GridAspect, "":
		cols = aspectColumns(players, screen)
		rows = ceilDiv(players, cols)
	default:
		return types.Grid{}, perrors.Precondition("compute grid", "unknown grid policy %q", policy)
	}

	return types.Grid{Rows: rows, Cols: cols, Screen: screen}, nil
}

// aspectColumns returns ceil(sqrt(players * width / height)), capped at
// players. It is the smallest c with c*c*height >= players*width, found in
// integers so exact squares are not pushed up by rounding.
func aspectColumns(players int, screen types.Resolution) int {
	target := int64(players) * int64(screen.Width)
	h := int64(screen.Height)

	c := int64(1)
	for c*c*h < target {
		c++
	}

	// Departs from the bare formula on purpose: columns never outnumber players
	if c > int64(players) {
		return players
	}
	return int(c)
}

// ceilSqrt returns the smallest r with r*r >= n
func ceilSqrt(n int) int {
	r := 1
	for r*r < n {
		r++
	}
	return r
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
