package geometry

import "math"

// ConnectionPointCount is the number of line endpoints around a hexagon, two per edge
const ConnectionPointCount = 12

// SideCount is the number of hexagon edges
const SideCount = 6

// ConnectionPoints returns the twelve peripheral points, clockwise from the top-right edge
func (h *Hexagon) ConnectionPoints() [ConnectionPointCount]Point {
	return h.connectionPoints
}

// HelperPoints returns one curve control point per connection point
// Each lies on the perpendicular from its edge toward the hexagon center
func (h *Hexagon) HelperPoints() [ConnectionPointCount]Point {
	return h.helperPoints
}

// SideOf returns the edge that owns a connection point
func SideOf(point int) int {
	return point / 2
}

// calculateConnectionPoints places points a quarter and three quarters along each edge (sine rule)
func (h *Hexagon) calculateConnectionPoints() {
	quarter := h.SideLength / 4.0
	threeQuarter := quarter * 3.0

	pY := quarter / 2.0
	pX := (math.Sqrt(3) * quarter) / 2.0
	pY2 := threeQuarter / 2.0
	pX2 := (math.Sqrt(3) * threeQuarter) / 2.0
	pY3 := quarter + h.Height
	bottom := h.RectHeight - h.Height

	h.connectionPoints = [ConnectionPointCount]Point{
		{h.RectWidth - pX2, h.Height - pY2}, // top-right-a
		{h.RectWidth - pX, h.Height - pY},   // top-right-b
		{h.RectWidth, pY3},                  // middle-right-a
		{h.RectWidth, h.RectHeight - pY3},   // middle-right-b
		{h.RectWidth - pX, pY + bottom},     // bottom-right-a
		{h.RectWidth - pX2, pY2 + bottom},   // bottom-right-b
		{pX2, pY2 + bottom},                 // bottom-left-a
		{pX, pY + bottom},                   // bottom-left-b
		{0, h.RectHeight - pY3},             // middle-left-a
		{0, pY3},                            // middle-left-b
		{pX, h.Height - pY},                 // top-left-a
		{pX2, h.Height - pY2},               // top-left-b
	}
}

// calculateHelperPoints rotates the nearest outline vertex around each connection point
// by 270° for the first point of an edge and 90° for the second
func (h *Hexagon) calculateHelperPoints() {
	const (
		ninety     = 90.0 * (math.Pi / 180.0)
		twoSeventy = 270.0 * (math.Pi / 180.0)
	)

	for i := 0; i < ConnectionPointCount; i++ {
		// Point 2s uses the vertex opening edge s, point 2s+1 the vertex closing it
		vertex := h.Path[(i+1)/2]
		angle := twoSeventy
		if i%2 == 1 {
			angle = ninety
		}
		h.helperPoints[i] = RotateAround(vertex, h.connectionPoints[i], angle)
	}
}
