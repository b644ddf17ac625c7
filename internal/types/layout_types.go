package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolution is a pixel size. It is written and parsed as "WxH".
type Resolution struct {
	Width  int
	Height int
}

// String returns the "WxH" form of the resolution
func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// Valid reports whether both dimensions are positive
func (r Resolution) Valid() bool {
	return r.Width > 0 && r.Height > 0
}

// MarshalText implements encoding.TextMarshaler
func (r Resolution) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Resolution) UnmarshalText(text []byte) error {
	parsed, err := ParseResolution(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseResolution parses a "WxH" string such as "1920x1080".
func ParseResolution(s string) (Resolution, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Resolution{}, fmt.Errorf("invalid resolution %q: expected WxH", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", w, err)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", h, err)
	}
	res := Resolution{Width: width, Height: height}
	if !res.Valid() {
		return Resolution{}, fmt.Errorf("invalid resolution %q: dimensions must be positive", s)
	}
	return res, nil
}

// GridPosition identifies a cell in the instance grid.
type GridPosition struct {
	Row int `yaml:"row" json:"row"`
	Col int `yaml:"col" json:"col"`
}

// String returns the "row,col" form of the position
func (p GridPosition) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

// LayoutMode selects how instance geometry is decided
type LayoutMode string

const (
	LayoutFixedQuadrant LayoutMode = "fixed-quadrant" // At most 4 players, KWin tiling script
	LayoutGrid          LayoutMode = "grid"           // Any player count, sway placement
	LayoutManual        LayoutMode = "manual"         // Geometry left to the operator
)

// ParseLayoutMode converts a string to LayoutMode
func ParseLayoutMode(s string) (LayoutMode, bool) {
	switch LayoutMode(strings.ToLower(s)) {
	case LayoutFixedQuadrant:
		return LayoutFixedQuadrant, true
	case LayoutGrid:
		return LayoutGrid, true
	case LayoutManual:
		return LayoutManual, true
	default:
		return "", false
	}
}

// GridPolicy selects how rows and columns are derived from the player count
type GridPolicy string

const (
	GridAspect GridPolicy = "aspect" // Columns follow the screen aspect ratio
	GridSquare GridPolicy = "square" // Rows first, as close to square as possible
)

// ParseGridPolicy converts a string to GridPolicy
func ParseGridPolicy(s string) (GridPolicy, bool) {
	switch GridPolicy(strings.ToLower(s)) {
	case GridAspect:
		return GridAspect, true
	case GridSquare:
		return GridSquare, true
	default:
		return "", false
	}
}

// Grid is a rows x cols arrangement of equally sized cells over a screen.
type Grid struct {
	Rows   int        `yaml:"rows" json:"rows"`
	Cols   int        `yaml:"cols" json:"cols"`
	Screen Resolution `yaml:"screen" json:"screen"`
}

// Capacity returns the number of cells in the grid
func (g Grid) Capacity() int {
	return g.Rows * g.Cols
}

// CellResolution returns the size of one cell. Division floors, so up to
// Cols-1 horizontal and Rows-1 vertical pixels stay unused.
func (g Grid) CellResolution() Resolution {
	if g.Rows <= 0 || g.Cols <= 0 {
		return Resolution{}
	}
	return Resolution{
		Width:  g.Screen.Width / g.Cols,
		Height: g.Screen.Height / g.Rows,
	}
}
