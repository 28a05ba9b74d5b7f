package geometry

import (
	"errors"
	"fmt"
)

// ErrInvalidSide is returned for a side index outside [0, SideCount)
var ErrInvalidSide = errors.New("invalid hexagon side")

// Cell addresses a tile in an even-r offset grid
type Cell struct {
	Row int `json:"row" toml:"row"`
	Col int `json:"col" toml:"col"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// NeighborBySide returns the cell sharing the given edge with (row, col)
// Sides run clockwise: 0 top-right, 1 right, 2 bottom-right, 3 bottom-left, 4 left, 5 top-left
// Even rows sit half a tile to the right, so diagonal column deltas depend on row parity
func NeighborBySide(row, col, side int) (Cell, error) {
	shift := 0
	if row%2 == 0 {
		shift = 1
	}

	switch side {
	case 0:
		return Cell{row - 1, col + shift}, nil
	case 1:
		return Cell{row, col + 1}, nil
	case 2:
		return Cell{row + 1, col + shift}, nil
	case 3:
		return Cell{row + 1, col + shift - 1}, nil
	case 4:
		return Cell{row, col - 1}, nil
	case 5:
		return Cell{row - 1, col + shift - 1}, nil
	default:
		return Cell{}, fmt.Errorf("%w: %d", ErrInvalidSide, side)
	}
}

// Neighbor is NeighborBySide for a Cell
func (c Cell) Neighbor(side int) (Cell, error) {
	return NeighborBySide(c.Row, c.Col, side)
}

// OppositeSide returns the edge facing side from the neighbor's point of view
func OppositeSide(side int) int {
	return (side + SideCount/2) % SideCount
}
