package tilemap

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
)

var (
	ErrEmptyMap     = errors.New("map has no tiles")
	ErrRagged       = errors.New("map rows differ in length")
	ErrBadMarker    = errors.New("unknown tile marker")
	ErrOutOfBounds  = errors.New("cell outside map")
	ErrNotPlayable  = errors.New("cell is not playable")
	ErrOpenBoundary = errors.New("playable cell borders blocked or missing tile")
)

// Marker is the immutable background of a map cell
type Marker uint8

const (
	Blocked  Marker = 0
	Finish   Marker = 1
	Playable Marker = 2
)

func (m Marker) String() string {
	switch m {
	case Blocked:
		return "blocked"
	case Finish:
		return "finish"
	case Playable:
		return "playable"
	default:
		return fmt.Sprintf("marker(%d)", uint8(m))
	}
}

// emptySlot marks a cell without a placed hexagon
const emptySlot = -1

// Map is the background grid plus the overlay of placed hexagons
// Background never changes after construction; the overlay grows during a game and is cleared on reset
// Not safe for concurrent use
type Map struct {
	rows, cols int
	tiles      []Marker

	// Arena: slots index into records, emptySlot when vacant
	slots   []int
	records []*hexagon.Hexagon
}

// New builds a map from rows of markers
func New(tiles [][]Marker) (*Map, error) {
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, ErrEmptyMap
	}

	rows, cols := len(tiles), len(tiles[0])
	m := &Map{
		rows:  rows,
		cols:  cols,
		tiles: make([]Marker, 0, rows*cols),
		slots: make([]int, rows*cols),
	}

	for r, row := range tiles {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrRagged, r, len(row), cols)
		}
		for c, marker := range row {
			if marker > Playable {
				return nil, fmt.Errorf("%w: %d at (%d,%d)", ErrBadMarker, marker, r, c)
			}
			m.tiles = append(m.tiles, marker)
		}
	}

	m.ClearPlaced()
	return m, nil
}

// Default returns the standard 9x9 map, finish ring plus a finish tile at the center
func Default() *Map {
	m, err := New(DefaultTiles())
	if err != nil {
		panic(err)
	}
	return m
}

// DefaultTiles returns a fresh copy of the default board layout
func DefaultTiles() [][]Marker {
	return [][]Marker{
		{0, 0, 1, 1, 1, 1, 1, 0, 0},
		{0, 0, 1, 2, 2, 2, 2, 1, 0},
		{0, 1, 2, 2, 2, 2, 2, 1, 0},
		{0, 1, 2, 2, 2, 2, 2, 2, 1},
		{1, 2, 2, 2, 1, 2, 2, 2, 1},
		{0, 1, 2, 2, 2, 2, 2, 2, 1},
		{0, 1, 2, 2, 2, 2, 2, 1, 0},
		{0, 0, 1, 2, 2, 2, 2, 1, 0},
		{0, 0, 1, 1, 1, 1, 1, 0, 0},
	}
}

// Size returns rows and columns
func (m *Map) Size() (rows, cols int) {
	return m.rows, m.cols
}

// InBounds reports whether a cell lies inside the grid
func (m *Map) InBounds(c geometry.Cell) bool {
	return c.Row >= 0 && c.Row < m.rows && c.Col >= 0 && c.Col < m.cols
}

// Tile returns the background marker, Blocked outside the grid
func (m *Map) Tile(c geometry.Cell) Marker {
	if !m.InBounds(c) {
		return Blocked
	}
	return m.tiles[m.index(c)]
}

// Placed returns the hexagon at a cell, false when vacant or out of bounds
func (m *Map) Placed(c geometry.Cell) (*hexagon.Hexagon, bool) {
	if !m.InBounds(c) {
		return nil, false
	}
	slot := m.slots[m.index(c)]
	if slot == emptySlot {
		return nil, false
	}
	return m.records[slot], true
}

// Place stores h at a playable cell, replacing any previous occupant
func (m *Map) Place(c geometry.Cell, h *hexagon.Hexagon) error {
	if !m.InBounds(c) {
		return fmt.Errorf("%w: %s", ErrOutOfBounds, c)
	}
	if m.Tile(c) != Playable {
		return fmt.Errorf("%w: %s is %s", ErrNotPlayable, c, m.Tile(c))
	}

	idx := m.index(c)
	if slot := m.slots[idx]; slot != emptySlot {
		m.records[slot] = h
		return nil
	}
	m.slots[idx] = len(m.records)
	m.records = append(m.records, h)
	return nil
}

// ClearPlaced empties the overlay
func (m *Map) ClearPlaced() {
	for i := range m.slots {
		m.slots[i] = emptySlot
	}
	clear(m.records)
	m.records = m.records[:0]
}

// PlacedCount returns the number of occupied cells
func (m *Map) PlacedCount() int {
	return len(m.records)
}

// EachPlaced visits occupied cells in row-major order
func (m *Map) EachPlaced(fn func(c geometry.Cell, h *hexagon.Hexagon)) {
	for i, slot := range m.slots {
		if slot == emptySlot {
			continue
		}
		fn(geometry.Cell{Row: i / m.cols, Col: i % m.cols}, m.records[slot])
	}
}

// Validate checks that every playable cell is enclosed by playable or finish tiles,
// so a path leaving the board always ends on a finish marker
func (m *Map) Validate() error {
	for i, marker := range m.tiles {
		if marker != Playable {
			continue
		}
		c := geometry.Cell{Row: i / m.cols, Col: i % m.cols}
		for side := 0; side < geometry.SideCount; side++ {
			n, err := c.Neighbor(side)
			if err != nil {
				return err
			}
			if m.Tile(n) == Blocked {
				return fmt.Errorf("%w: %s side %d", ErrOpenBoundary, c, side)
			}
		}
	}
	return nil
}

func (m *Map) index(c geometry.Cell) int {
	return c.Row*m.cols + c.Col
}
