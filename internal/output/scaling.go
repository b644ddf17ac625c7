package output

import (
	"github.com/yourusername/partygrid/internal/types"
)

// charAspect is the height of a terminal character relative to its width
const charAspect = 2

// ScalingContext maps screen pixels to canvas characters
type ScalingContext struct {
	Screen     types.Resolution
	TermWidth  int
	TermHeight int
}

// NewScalingContext fits the screen into at most maxWidth x maxHeight
// characters, keeping its aspect ratio
func NewScalingContext(screen types.Resolution, maxWidth, maxHeight int) *ScalingContext {
	width := maxWidth
	height := width * screen.Height / screen.Width / charAspect
	if height > maxHeight {
		height = maxHeight
		width = height * charAspect * screen.Width / screen.Height
	}
	if width < 10 {
		width = 10
	}
	if height < 5 {
		height = 5
	}
	return &ScalingContext{Screen: screen, TermWidth: width, TermHeight: height}
}

// X converts a horizontal pixel offset to a column
func (sc *ScalingContext) X(px int) int {
	return px * (sc.TermWidth - 1) / sc.Screen.Width
}

// Y converts a vertical pixel offset to a row
func (sc *ScalingContext) Y(px int) int {
	return px * (sc.TermHeight - 1) / sc.Screen.Height
}
