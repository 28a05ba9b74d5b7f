package geometry

import "math"

// Point is a 2D position in pixel space
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by o
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Hexagon holds the derived measures of a pointy-top hexagon with a given side length
// Outline and connection points are laid out clockwise starting at the top
type Hexagon struct {
	SideLength     float64
	Height         float64 // Vertical rise of the slanted edges
	Distance       float64 // Half of the flat-to-flat width
	RectHeight     float64
	RectWidth      float64
	HalfRectHeight float64
	HalfRectWidth  float64

	// Closed outline, first vertex repeated at the end
	Path [7]Point

	connectionPoints [ConnectionPointCount]Point
	helperPoints     [ConnectionPointCount]Point
}

// New calculates geometry for the given side length
func New(sideLength float64) *Hexagon {
	h := &Hexagon{}
	h.Calculate(sideLength)
	return h
}

// Calculate recomputes every derived measure for a new side length
func (h *Hexagon) Calculate(sideLength float64) {
	thirty := 30.0 * (math.Pi / 180.0)

	h.SideLength = sideLength
	h.Height = math.Sin(thirty) * sideLength
	h.Distance = math.Cos(thirty) * sideLength
	h.RectHeight = sideLength + 2.0*h.Height
	h.RectWidth = 2.0 * h.Distance
	h.HalfRectHeight = h.RectHeight / 2.0
	h.HalfRectWidth = h.Distance

	h.Path = [7]Point{
		{h.Distance, 0},                        // top-middle
		{h.RectWidth, h.Height},                // top-right
		{h.RectWidth, h.RectHeight - h.Height}, // bottom-right
		{h.Distance, h.RectHeight},             // bottom-middle
		{0, h.RectHeight - h.Height},           // bottom-left
		{0, h.Height},                          // top-left
		{h.Distance, 0},                        // top-middle
	}

	h.calculateConnectionPoints()
	h.calculateHelperPoints()
}

// Center returns the centroid relative to the bounding rectangle origin
func (h *Hexagon) Center() Point {
	return Point{X: h.HalfRectWidth, Y: h.HalfRectHeight}
}

// PositionOnMap converts a grid cell to the pixel origin of its bounding rectangle
// Even rows are shifted right by half a hexagon width
func (h *Hexagon) PositionOnMap(row, col int) Point {
	y := float64(row) * (h.Height + h.SideLength)
	if row%2 == 0 {
		return Point{X: float64(col)*h.RectWidth + h.Distance, Y: y}
	}
	return Point{X: float64(col) * h.RectWidth, Y: y}
}

// RotateAround rotates point around pivot by angle radians
func RotateAround(point, pivot Point, angle float64) Point {
	sin, cos := math.Sincos(angle)
	dx := point.X - pivot.X
	dy := point.Y - pivot.Y
	return Point{
		X: cos*dx - sin*dy + pivot.X,
		Y: sin*dx + cos*dy + pivot.Y,
	}
}

// NormalizeRotation reduces degrees into [0, 360)
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
