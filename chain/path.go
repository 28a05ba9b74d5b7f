package chain

import (
	"github.com/lixenwraith/entangled/geometry"
	"github.com/lixenwraith/entangled/hexagon"
)

// Step is one hexagon traversed by a walk and the point the path entered it
type Step struct {
	Hexagon *hexagon.Hexagon
	Entry   int
}

// Path accumulates the steps of the most recent placement, in walk order
type Path struct {
	steps []Step
}

// Add appends a step
func (p *Path) Add(h *hexagon.Hexagon, entry int) {
	p.steps = append(p.steps, Step{Hexagon: h, Entry: entry})
}

// Reset drops every step
func (p *Path) Reset() {
	clear(p.steps)
	p.steps = p.steps[:0]
}

// Len returns the number of steps
func (p *Path) Len() int {
	return len(p.steps)
}

// Steps returns a copy of the steps
func (p *Path) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Polyline returns pixel waypoints following the path: entry point, hexagon center, exit point per step
// World-facing point indices map directly onto the unrotated connection point geometry
func (p *Path) Polyline(g *geometry.Hexagon) ([]geometry.Point, error) {
	points := g.ConnectionPoints()
	center := g.Center()
	out := make([]geometry.Point, 0, len(p.steps)*3)

	for _, s := range p.steps {
		exit, err := s.Hexagon.ExitPoint(s.Entry)
		if err != nil {
			return nil, err
		}
		pos := s.Hexagon.Position()
		origin := g.PositionOnMap(pos.Row, pos.Col)
		out = append(out,
			points[s.Entry].Add(origin),
			center.Add(origin),
			points[exit].Add(origin),
		)
	}
	return out, nil
}
