package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for the board
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background

	RgbFinish   = tcell.NewRGBColor(255, 200, 0)   // Gold finish markers
	RgbPlayable = tcell.NewRGBColor(90, 90, 110)   // Dim empty cells
	RgbPlaced   = tcell.NewRGBColor(180, 180, 180) // Placed hexagons, no lit line
	RgbLit      = tcell.NewRGBColor(0, 200, 0)     // Placed hexagons carrying an active line
	RgbActive   = tcell.NewRGBColor(0, 200, 200)   // Hexagon under player control
	RgbPreview  = tcell.NewRGBColor(200, 100, 255) // Preview target
	RgbSpare    = tcell.NewRGBColor(255, 165, 0)   // Spare hexagon

	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)       // Dark text for status
	RgbAwaitingBg = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbFinishedBg = tcell.NewRGBColor(200, 50, 50)   // Red finished banner
	RgbLoadingBg  = tcell.NewRGBColor(128, 0, 128)   // Dark purple
	RgbPanelText  = tcell.NewRGBColor(180, 180, 180) // Brighter gray
)

// StateBackground returns the status bar color for a flow state
func StateBackground(state string) tcell.Color {
	switch state {
	case "awaiting":
		return RgbAwaitingBg
	case "finished":
		return RgbFinishedBg
	default:
		return RgbLoadingBg
	}
}

// LineStyle returns the style of a line state label
func LineStyle(lit, preview bool) tcell.Style {
	base := tcell.StyleDefault.Background(RgbBackground)
	switch {
	case lit:
		return base.Foreground(RgbLit)
	case preview:
		return base.Foreground(RgbPreview)
	default:
		return base.Foreground(RgbPanelText)
	}
}
