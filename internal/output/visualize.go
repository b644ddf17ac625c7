package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"github.com/yourusername/partygrid/internal/state"
	"github.com/yourusername/partygrid/internal/types"
)

// VisualizationOptions controls the appearance of the visualization
type VisualizationOptions struct {
	UseUnicode bool
	MaxWidth   int
	MaxHeight  int
}

// DefaultVisualizationOptions sizes the drawing to the terminal
func DefaultVisualizationOptions() VisualizationOptions {
	width, height := getTerminalSize()
	if width > 100 {
		width = 100
	}
	return VisualizationOptions{
		UseUnicode: supportsUnicode(),
		MaxWidth:   width,
		MaxHeight:  height - 4,
	}
}

// VisualizeGrid draws the registry's grid with one labelled box per cell.
// Cells without an instance are drawn empty.
func VisualizeGrid(reg *state.Registry, opts VisualizationOptions) (string, error) {
	if reg.Grid == nil {
		return "", fmt.Errorf("no grid assigned")
	}
	grid := *reg.Grid
	cell := grid.CellResolution()

	sc := NewScalingContext(grid.Screen, opts.MaxWidth, opts.MaxHeight)
	canvas := NewCanvas(sc.TermWidth, sc.TermHeight, opts.UseUnicode)

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			x0, y0 := sc.X(col*cell.Width), sc.Y(row*cell.Height)
			x1, y1 := sc.X((col+1)*cell.Width), sc.Y((row+1)*cell.Height)
			canvas.DrawBox(x0, y0, x1-x0+1, y1-y0+1)

			idx, ok := reg.InstanceAt(types.GridPosition{Row: row, Col: col})
			if !ok || y1-y0 < 2 {
				continue
			}
			inst := reg.Instances[idx]
			mid := (y0 + y1) / 2
			canvas.DrawTextCentered(x0+1, mid, x1-x0-1, fmt.Sprintf("P%d", idx+1))
			if mid+1 < y1 && inst.ProfileName != "" {
				canvas.DrawTextCentered(x0+1, mid+1, x1-x0-1, strings.TrimPrefix(inst.ProfileName, "."))
			}
		}
	}

	header := fmt.Sprintf("Grid %dx%d on %s, cell %s\n", grid.Rows, grid.Cols, grid.Screen, cell)
	return header + rowSummary(reg) + canvas.String() + "\n", nil
}

// rowSummary lists how many instances each row holds and how many cells
// stay empty, e.g. "Rows 2+1, 1 free"
func rowSummary(reg *state.Registry) string {
	counts := reg.RowCapacities()
	parts := make([]string, len(counts))
	used := 0
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
		used += n
	}
	return fmt.Sprintf("Rows %s, %d free\n", strings.Join(parts, "+"), reg.Grid.Capacity()-used)
}

// getTerminalSize returns the current terminal dimensions
func getTerminalSize() (width, height int) {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		// Default to 80x24 if we can't detect
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// supportsUnicode checks if the terminal supports Unicode
func supportsUnicode() bool {
	lang := os.Getenv("LANG")
	lcAll := os.Getenv("LC_ALL")

	return strings.Contains(lang, "UTF-8") || strings.Contains(lcAll, "UTF-8")
}

// PrintVisualization writes a drawing, in cyan when color is enabled
func PrintVisualization(w io.Writer, drawing string) {
	if color.NoColor {
		fmt.Fprint(w, drawing)
		return
	}
	color.New(color.FgCyan).Fprint(w, drawing)
}
