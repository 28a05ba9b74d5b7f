package game

import (
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
)

// LineView is a line in world frame
type LineView struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	State string `json:"state"`
}

// HexagonView is a read-only copy of a hexagon for hosts
type HexagonView struct {
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Rotation int        `json:"rotation"`
	Lines    []LineView `json:"lines"`
}

// Snapshot is a serializable copy of the session state
type Snapshot struct {
	State      string         `json:"state"`
	Score      int            `json:"score"`
	Multiplier int            `json:"multiplier"`
	Entry      int            `json:"entry"`
	Active     *HexagonView   `json:"active,omitempty"`
	Spare      *HexagonView   `json:"spare,omitempty"`
	Preview    *geometry.Cell `json:"preview,omitempty"`
	Placed     []HexagonView  `json:"placed"`
}

func viewOf(h *hexagon.Hexagon) *HexagonView {
	if h == nil {
		return nil
	}
	pos := h.Position()
	v := &HexagonView{Row: pos.Row, Col: pos.Col, Rotation: geometry.NormalizeRotation(h.Rotation())}
	for _, l := range h.WorldLines() {
		v.Lines = append(v.Lines, LineView{Start: l.Start, End: l.End, State: l.State.String()})
	}
	return v
}

// Snapshot copies the current session state
func (g *Game) Snapshot() Snapshot {
	l := g.Logic
	s := Snapshot{
		State:      l.State(),
		Score:      g.Score.Total(),
		Multiplier: l.Multiplier(),
		Entry:      l.Entry(),
		Active:     viewOf(l.active),
		Spare:      viewOf(l.spare),
		Placed:     make([]HexagonView, 0, l.board.PlacedCount()),
	}
	if cell, ok := l.Preview(); ok {
		s.Preview = &cell
	}
	l.board.EachPlaced(func(_ geometry.Cell, h *hexagon.Hexagon) {
		s.Placed = append(s.Placed, *viewOf(h))
	})
	return s
}
