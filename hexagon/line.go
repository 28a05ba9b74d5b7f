package hexagon

// LineState marks how a line participates in the signal path
type LineState uint8

const (
	// Inactive is the default state of every line
	Inactive LineState = iota
	// Active marks a committed path segment, sticky until the map resets
	Active
	// Preview marks a projected look-ahead segment
	Preview
)

func (s LineState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case Active:
		return "active"
	case Preview:
		return "preview"
	default:
		return "unknown"
	}
}

// Line joins two connection points in the hexagon's unrotated frame
type Line struct {
	Start, End int
	State      LineState
}

// Matches reports whether point is either endpoint
func (l Line) Matches(point int) bool {
	return l.Start == point || l.End == point
}

// Exit returns the endpoint opposite to point
// Callers must check Matches first; a non-matching point yields Start
func (l Line) Exit(point int) int {
	if l.Start == point {
		return l.End
	}
	return l.Start
}
