package game

import (
	"github.com/lixenwraith/entangled/event"
	"github.com/lixenwraith/entangled/tilemap"
)

// Game bundles a bus with the logic and display listeners of a single play session
// Hosts register their own listeners (renderer, relay, store) on Bus before sending init
type Game struct {
	Bus      *event.Bus
	Logic    *Logic
	Score    *ScoreBoard
	Finished *FinishedDisplay
}

// NewGame wires a session over board; nothing happens until Start or an init command
func NewGame(board *tilemap.Map, opts Options) (*Game, error) {
	bus := event.NewBus()

	logic, err := New(bus, board, opts)
	if err != nil {
		return nil, err
	}
	score, err := NewScoreBoard(bus, logic.log)
	if err != nil {
		return nil, err
	}
	finished, err := NewFinishedDisplay(bus)
	if err != nil {
		return nil, err
	}

	return &Game{Bus: bus, Logic: logic, Score: score, Finished: finished}, nil
}

// Start sends init, which with AutoStart also spawns the first hexagon
func (g *Game) Start() error {
	return g.Logic.Handle(event.EventInit)
}

// Command forwards a command to the logic listener
func (g *Game) Command(t event.EventType) error {
	return g.Logic.Handle(t)
}
