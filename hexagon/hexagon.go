package hexagon

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/entangled/geometry"
)

var (
	// ErrInvalidPoint is returned for a connection point outside [0, 12)
	ErrInvalidPoint = errors.New("invalid connection point")
	// ErrNoLine means no line ends at a point, which breaks the perfect matching invariant
	ErrNoLine = errors.New("no line at connection point")
	// ErrInvalidPairing is returned when pairs do not cover every connection point exactly once
	ErrInvalidPairing = errors.New("pairing is not a perfect matching")
)

// RotationStep is the rotation applied by a single left or right turn
const RotationStep = 60

// degreesPerPoint maps rotation degrees onto connection point offsets (360 / 12)
const degreesPerPoint = 360 / geometry.ConnectionPointCount

// Color is the role a hexagon plays on the board, used by renderers
type Color uint8

const (
	ColorPlaced Color = iota // Committed to the board
	ColorActive              // Under player control
	ColorSpare               // Held aside for a switch
)

// Hexagon is the connection state of a single tile
// Line pairing is fixed at creation; only rotation and line states change afterwards
// Not safe for concurrent use
type Hexagon struct {
	lines    [LineCount]Line
	points   [geometry.ConnectionPointCount]LineState // Per world-facing point intent
	rotation int                                      // Degrees, unbounded, normalized on read
	position geometry.Cell
	color    Color
}

// New builds a hexagon from six pairs forming a perfect matching of 0..11
func New(pairs [LineCount][2]int) (*Hexagon, error) {
	var seen [geometry.ConnectionPointCount]bool
	h := &Hexagon{}

	for i, pair := range pairs {
		for _, p := range pair {
			if p < 0 || p >= geometry.ConnectionPointCount || seen[p] {
				return nil, fmt.Errorf("%w: %v", ErrInvalidPairing, pairs)
			}
			seen[p] = true
		}
		h.lines[i] = Line{Start: pair[0], End: pair[1]}
	}
	return h, nil
}

// Generate creates a hexagon with a fresh random pairing drawn from pool
func Generate(pool *NumberPool) (*Hexagon, error) {
	pairs, err := Pairing(pool)
	if err != nil {
		return nil, fmt.Errorf("generate pairing: %w", err)
	}
	return New(pairs)
}

// Rotation returns the raw rotation in degrees
func (h *Hexagon) Rotation() int {
	return h.rotation
}

// RotationSide returns the normalized rotation as a connection point offset in [0, 12)
func (h *Hexagon) RotationSide() int {
	return geometry.NormalizeRotation(h.rotation) / degreesPerPoint
}

// RotateBy turns the hexagon clockwise by deg degrees and re-derives line states
func (h *Hexagon) RotateBy(deg int) {
	h.rotation += deg
	h.updateConnections()
}

// RotateLeft turns the hexagon counter-clockwise by one step
func (h *Hexagon) RotateLeft() {
	h.RotateBy(-RotationStep)
}

// RotateRight turns the hexagon clockwise by one step
func (h *Hexagon) RotateRight() {
	h.RotateBy(RotationStep)
}

// RotatePoint maps a world-facing point to the unrotated line table index
func (h *Hexagon) RotatePoint(point int) int {
	return rotatePoint(point, h.RotationSide())
}

func rotatePoint(point, side int) int {
	n := geometry.ConnectionPointCount
	return ((point-side)%n + n) % n
}

// SetConnection records the state intent for a world-facing point and refreshes all lines
func (h *Hexagon) SetConnection(point int, state LineState) error {
	if point < 0 || point >= geometry.ConnectionPointCount {
		return fmt.Errorf("%w: %d", ErrInvalidPoint, point)
	}
	h.points[point] = state
	h.updateConnections()
	return nil
}

// Connection returns the recorded intent for a world-facing point
func (h *Hexagon) Connection(point int) LineState {
	if point < 0 || point >= geometry.ConnectionPointCount {
		return Inactive
	}
	return h.points[point]
}

// ExitPoint returns the world-facing point at the other end of the line entered at entry
func (h *Hexagon) ExitPoint(entry int) (int, error) {
	if entry < 0 || entry >= geometry.ConnectionPointCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPoint, entry)
	}

	side := h.RotationSide()
	rotated := rotatePoint(entry, side)
	idx := h.lineIndex(rotated)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNoLine, entry)
	}
	return (h.lines[idx].Exit(rotated) + side) % geometry.ConnectionPointCount, nil
}

// LineByPoint returns a copy of the line through a world-facing point, endpoints in world frame
func (h *Hexagon) LineByPoint(point int) (Line, error) {
	if point < 0 || point >= geometry.ConnectionPointCount {
		return Line{}, fmt.Errorf("%w: %d", ErrInvalidPoint, point)
	}

	side := h.RotationSide()
	idx := h.lineIndex(rotatePoint(point, side))
	if idx < 0 {
		return Line{}, fmt.Errorf("%w: %d", ErrNoLine, point)
	}
	l := h.lines[idx]
	return Line{
		Start: (l.Start + side) % geometry.ConnectionPointCount,
		End:   (l.End + side) % geometry.ConnectionPointCount,
		State: l.State,
	}, nil
}

// ChangeLineState moves every point intent and line in state from to state to
func (h *Hexagon) ChangeLineState(from, to LineState) {
	for i := range h.points {
		if h.points[i] == from {
			h.points[i] = to
		}
	}
	for i := range h.lines {
		if h.lines[i].State == from {
			h.lines[i].State = to
		}
	}
}

// Lines returns the lines in the unrotated frame
func (h *Hexagon) Lines() [LineCount]Line {
	return h.lines
}

// WorldLines returns the lines with endpoints mapped through the current rotation
func (h *Hexagon) WorldLines() [LineCount]Line {
	side := h.RotationSide()
	out := h.lines
	for i := range out {
		out[i].Start = (out[i].Start + side) % geometry.ConnectionPointCount
		out[i].End = (out[i].End + side) % geometry.ConnectionPointCount
	}
	return out
}

// Position returns the grid cell the hexagon occupies
func (h *Hexagon) Position() geometry.Cell {
	return h.position
}

// SetPosition moves the hexagon to a grid cell
func (h *Hexagon) SetPosition(c geometry.Cell) {
	h.position = c
}

// Color returns the board role of the hexagon
func (h *Hexagon) Color() Color {
	return h.color
}

// SetColor assigns the board role of the hexagon
func (h *Hexagon) SetColor(c Color) {
	h.color = c
}

// lineIndex finds the line ending at an unrotated point, -1 if none
func (h *Hexagon) lineIndex(point int) int {
	for i := range h.lines {
		if h.lines[i].Matches(point) {
			return i
		}
	}
	return -1
}

// updateConnections recomputes displayed line states from the point intents
// When both ends of a line carry an intent, Active wins; otherwise the later point does
func (h *Hexagon) updateConnections() {
	for i := range h.lines {
		h.lines[i].State = Inactive
	}

	side := h.RotationSide()
	for point, state := range h.points {
		if state == Inactive {
			continue
		}
		rotated := rotatePoint(point, side)
		for i := range h.lines {
			if h.lines[i].Matches(rotated) && (state == Active || h.lines[i].State != Active) {
				h.lines[i].State = state
			}
		}
	}
}
