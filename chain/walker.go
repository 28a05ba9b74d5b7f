package chain

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
	"github.com/lixenwraith/entangled/tilemap"
)

var (
	// ErrCycle means a walk revisited a hexagon through the same entry point
	ErrCycle = errors.New("chain walk cycle")
	// ErrOffMap means a path left the playable area without reaching a finish marker
	ErrOffMap = errors.New("chain walk left the map")
)

// Sink receives the side effects of a placement walk, in emission order
type Sink interface {
	// IncreaseScore reports a score delta
	IncreaseScore(delta int) error
	// Finish reports that the path reached a finish marker
	Finish() error
	// Spawn creates the next active hexagon at cell with entry marked as preview and stores it on the map
	Spawn(cell geometry.Cell, entry int) error
}

// Result summarizes a placement walk
type Result struct {
	Hops     int           // Placed hexagons passed through
	Finished bool          // Path ended on a finish marker
	End      geometry.Cell // Empty cell the path stopped at
	Entry    int           // Entry point into End
}

// Walker follows connected lines hexagon to hexagon across a map
// Holds the score multiplier and the accumulator of the last placement
// Not safe for concurrent use
type Walker struct {
	board      *tilemap.Map
	multiplier int
	path       Path
}

// NewWalker creates a walker over board with the multiplier at 1
func NewWalker(board *tilemap.Map) *Walker {
	return &Walker{board: board, multiplier: 1}
}

// Multiplier returns the current score multiplier
func (w *Walker) Multiplier() int {
	return w.multiplier
}

// Path returns the accumulator of the most recent placement
func (w *Walker) Path() *Path {
	return &w.path
}

// Reset restores the multiplier and drops the accumulator
func (w *Walker) Reset() {
	w.multiplier = 1
	w.path.Reset()
}

// MapAcrossEdge converts an exit point to the matching entry point of the neighbor sharing that edge
// Matching points sit 5 or 7 positions apart around the ring, alternating by parity
func MapAcrossEdge(exit int) int {
	modifier := 7
	if (exit+1)%2 == 0 {
		modifier = 5
	}
	return (exit + modifier) % geometry.ConnectionPointCount
}

// hop is one geometric step out of a hexagon
type hop struct {
	next  geometry.Cell
	entry int
}

func (w *Walker) step(h *hexagon.Hexagon, entry int) (hop, error) {
	exit, err := h.ExitPoint(entry)
	if err != nil {
		return hop{}, err
	}
	pos := h.Position()
	next, err := geometry.NeighborBySide(pos.Row, pos.Col, geometry.SideOf(exit))
	if err != nil {
		return hop{}, err
	}
	return hop{next: next, entry: MapAcrossEdge(exit)}, nil
}

type visitKey struct {
	cell  geometry.Cell
	entry int
}

// guard records a visit and fails on repetition
// A cell may legitimately be crossed several times on different lines, so the key includes the entry point
func guard(visited map[visitKey]struct{}, h *hexagon.Hexagon, entry int) error {
	key := visitKey{cell: h.Position(), entry: entry}
	if _, seen := visited[key]; seen {
		return fmt.Errorf("%w: %s entry %d", ErrCycle, key.cell, entry)
	}
	visited[key] = struct{}{}
	return nil
}

// Place commits a walk starting at entry of h
//
// Each placed neighbor gets its entry point marked active and is walked through.
// At the first empty neighbor the current multiplier is scored and reset to 1; a finish marker
// then ends the game, a playable cell receives the next active hexagon.
// Afterwards each hop scores the incremented multiplier, walking back from the dead end,
// so a chain of n hops scores dead-end value then 2..n+1.
func (w *Walker) Place(h *hexagon.Hexagon, entry int, sink Sink) (Result, error) {
	var res Result
	visited := make(map[visitKey]struct{})
	w.path.Reset()

	cur, curEntry := h, entry
	for {
		if err := guard(visited, cur, curEntry); err != nil {
			return res, err
		}
		st, err := w.step(cur, curEntry)
		if err != nil {
			return res, err
		}

		neighbor, placed := w.board.Placed(st.next)
		if !placed {
			marker := w.board.Tile(st.next)
			if marker == tilemap.Blocked {
				return res, fmt.Errorf("%w: %s", ErrOffMap, st.next)
			}
			w.path.Add(cur, curEntry)
			res.End, res.Entry = st.next, st.entry

			if err := sink.IncreaseScore(w.multiplier); err != nil {
				return res, err
			}
			w.multiplier = 1

			if marker == tilemap.Finish {
				res.Finished = true
				if err := sink.Finish(); err != nil {
					return res, err
				}
			} else if err := sink.Spawn(st.next, st.entry); err != nil {
				return res, err
			}
			break
		}

		if err := neighbor.SetConnection(st.entry, hexagon.Active); err != nil {
			return res, err
		}
		w.path.Add(cur, curEntry)
		res.Hops++
		cur, curEntry = neighbor, st.entry
	}

	for i := 0; i < res.Hops; i++ {
		w.multiplier++
		if err := sink.IncreaseScore(w.multiplier); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Preview projects the walk from entry of h without committing anything
// Placed neighbors get their entry point marked preview; returns the first empty cell reached
// A path running off the map or onto a blocked tile fails with ErrOffMap, as Place would
func (w *Walker) Preview(h *hexagon.Hexagon, entry int) (geometry.Cell, error) {
	visited := make(map[visitKey]struct{})

	cur, curEntry := h, entry
	for {
		if err := guard(visited, cur, curEntry); err != nil {
			return geometry.Cell{}, err
		}
		st, err := w.step(cur, curEntry)
		if err != nil {
			return geometry.Cell{}, err
		}

		neighbor, placed := w.board.Placed(st.next)
		if !placed {
			if w.board.Tile(st.next) == tilemap.Blocked {
				return geometry.Cell{}, fmt.Errorf("%w: %s", ErrOffMap, st.next)
			}
			return st.next, nil
		}
		if err := neighbor.SetConnection(st.entry, hexagon.Preview); err != nil {
			return geometry.Cell{}, err
		}
		cur, curEntry = neighbor, st.entry
	}
}
