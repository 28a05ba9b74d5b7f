package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/entangled/game"
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
	"github.com/lixenwraith/entangled/tilemap"
)

// Board layout in terminal cells
const (
	CellWidth  = 4 // Columns per hexagon; even rows shift right by half
	CellHeight = 2 // Rows per hexagon row
	BoardX     = 1
	BoardY     = 1
	panelGap   = 4
)

// exitArrows point at sides 0..5
var exitArrows = [geometry.SideCount]rune{'↗', '→', '↘', '↙', '←', '↖'}

const (
	glyphFinish   = '◆'
	glyphPlayable = '·'
	glyphPlaced   = '⬡'
	glyphLit      = '⬢'
	glyphPreview  = '○'
)

// TerminalRenderer draws a game onto a tcell screen
type TerminalRenderer struct {
	screen tcell.Screen
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer(screen tcell.Screen) *TerminalRenderer {
	return &TerminalRenderer{screen: screen}
}

// CellOrigin returns the screen position of the left bracket of a cell
func CellOrigin(c geometry.Cell) (x, y int) {
	x = BoardX + c.Col*CellWidth
	if c.Row%2 == 0 {
		x += CellWidth / 2
	}
	return x, BoardY + c.Row*CellHeight
}

// ExitArrow returns the arrow for the side a hexagon's path leaves through from entry
func ExitArrow(h *hexagon.Hexagon, entry int) rune {
	exit, err := h.ExitPoint(entry)
	if err != nil {
		return '?'
	}
	return exitArrows[geometry.SideOf(exit)]
}

// RenderFrame renders the entire game frame
func (r *TerminalRenderer) RenderFrame(g *game.Game, log *EventLog) {
	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.SetStyle(defaultStyle)
	r.screen.Clear()

	l := g.Logic
	board := l.Board()
	r.drawBoard(board, defaultStyle)
	r.drawPlacements(l, defaultStyle)

	_, cols := board.Size()
	panelX := BoardX + cols*CellWidth + CellWidth/2 + panelGap
	r.drawPanel(g, log, panelX, defaultStyle)
	r.drawStatusBar(g, defaultStyle)

	r.screen.Show()
}

func (r *TerminalRenderer) drawBoard(board *tilemap.Map, style tcell.Style) {
	rows, cols := board.Size()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := geometry.Cell{Row: row, Col: col}
			switch board.Tile(c) {
			case tilemap.Finish:
				r.drawCell(c, glyphFinish, style.Foreground(RgbFinish))
			case tilemap.Playable:
				r.drawCell(c, glyphPlayable, style.Foreground(RgbPlayable))
			}
		}
	}
}

func (r *TerminalRenderer) drawPlacements(l *game.Logic, style tcell.Style) {
	active := l.Active()
	l.Board().EachPlaced(func(c geometry.Cell, h *hexagon.Hexagon) {
		if h == active {
			return
		}
		if hasLine(h, hexagon.Active) {
			r.drawCell(c, glyphLit, style.Foreground(RgbLit))
			return
		}
		r.drawCell(c, glyphPlaced, style.Foreground(RgbPlaced))
	})

	if cell, ok := l.Preview(); ok && l.Board().Tile(cell) == tilemap.Playable {
		r.drawCell(cell, glyphPreview, style.Foreground(RgbPreview))
	}
	if active != nil {
		r.drawBracketed(active.Position(), ExitArrow(active, l.Entry()), style.Foreground(RgbActive))
	}
}

func (r *TerminalRenderer) drawPanel(g *game.Game, log *EventLog, x int, style tcell.Style) {
	l := g.Logic
	text := style.Foreground(RgbPanelText)
	y := BoardY

	r.drawText(x, y, fmt.Sprintf("Score      %d", g.Score.Total()), style.Foreground(RgbStatusBar).Bold(true))
	y++
	r.drawText(x, y, fmt.Sprintf("Multiplier x%d", l.Multiplier()), text)
	y += 2

	if spare := l.Spare(); spare != nil {
		r.drawText(x, y, "Spare", text)
		r.screen.SetContent(x+7, y, ExitArrow(spare, l.Entry()), nil, style.Foreground(RgbSpare))
		y += 2
	}

	if active := l.Active(); active != nil {
		r.drawText(x, y, fmt.Sprintf("Active %s  %d°", active.Position(), geometry.NormalizeRotation(active.Rotation())), text)
		y++
		for _, line := range active.WorldLines() {
			label := fmt.Sprintf("  %2d-%-2d %s", line.Start, line.End, line.State)
			r.drawText(x, y, label, LineStyle(line.State == hexagon.Active, line.State == hexagon.Preview))
			y++
		}
		y++
	}

	if log != nil {
		r.drawText(x, y, "Events", text)
		y++
		for _, entry := range log.Entries() {
			r.drawText(x, y, "  "+entry, text)
			y++
		}
		y++
	}

	for _, help := range []string{"←/→ rotate", "Enter place", "Space switch", "Tab new game", "q quit"} {
		r.drawText(x, y, help, style.Foreground(RgbPlayable))
		y++
	}
}

func (r *TerminalRenderer) drawStatusBar(g *game.Game, style tcell.Style) {
	_, height := r.screen.Size()
	state := g.Logic.State()
	label := " " + state + " "
	if g.Finished.Visible() {
		label = fmt.Sprintf(" finished, score %d - Tab for a new game ", g.Score.Total())
	}
	r.drawText(0, height-1, label, style.Background(StateBackground(state)).Foreground(RgbStatusText))
}

func (r *TerminalRenderer) drawCell(c geometry.Cell, glyph rune, style tcell.Style) {
	x, y := CellOrigin(c)
	r.screen.SetContent(x+1, y, glyph, nil, style)
}

func (r *TerminalRenderer) drawBracketed(c geometry.Cell, glyph rune, style tcell.Style) {
	x, y := CellOrigin(c)
	r.screen.SetContent(x, y, '[', nil, style)
	r.screen.SetContent(x+1, y, glyph, nil, style.Bold(true))
	r.screen.SetContent(x+2, y, ']', nil, style)
}

func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}

func hasLine(h *hexagon.Hexagon, state hexagon.LineState) bool {
	for _, line := range h.Lines() {
		if line.State == state {
			return true
		}
	}
	return false
}
