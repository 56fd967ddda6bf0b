package pathfind

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// PerimeterStrategy follows the sides of the nearest obstacle instead of
// sweeping every step. Inside an obstacle only the moves leaving it are
// offered. Outside, a move that would enter the nearest obstacle is replaced
// by its right-hand and left-hand perpendiculars so the route slides along the side.
type PerimeterStrategy struct {
	Obstacles  *Obstacles
	directions []mgl64.Vec3
}

func NewPerimeterStrategy(obstacles *Obstacles) *PerimeterStrategy {
	return &PerimeterStrategy{Obstacles: obstacles}
}

func (p *PerimeterStrategy) Prepare(s *Search) {
	p.directions = Directions(s.End().Sub(s.Start()), s.Config().MaxSlope)
}

func (p *PerimeterStrategy) Expand(s *Search, index int) []mgl64.Vec3 {
	node := s.Node(index)
	step := s.Config().StepLength
	from := node.Location

	nearest, ok := actor.AABB{}, false
	if p.Obstacles != nil {
		nearest, ok = p.Obstacles.Nearest(from)
	}

	var candidates []mgl64.Vec3
	add := func(d mgl64.Vec3) {
		if isReversal(d, node.Direction) {
			return
		}
		to := from.Add(d.Mul(step))
		for _, c := range candidates {
			if c.ApproxEqualThreshold(to, actor.Epsilon) {
				return
			}
		}
		candidates = append(candidates, to)
	}

	if ok && nearest.ContainsPointStrict(from) {
		center := nearest.Center()
		for _, d := range p.directions {
			to := from.Add(d.Mul(step))
			if !nearest.ContainsPointStrict(to) || to.Sub(center).LenSqr() > from.Sub(center).LenSqr() {
				add(d)
			}
		}
		return candidates
	}

	for _, d := range p.directions {
		to := from.Add(d.Mul(step))
		if !ok || !crosses(nearest, from, to) {
			add(d)
			continue
		}

		right := d.Cross(up)
		if right.Len() < actor.Epsilon {
			continue
		}
		right = right.Normalize()
		for _, slide := range [2]mgl64.Vec3{right, right.Mul(-1)} {
			if !crosses(nearest, from, from.Add(slide.Mul(step))) {
				add(slide)
			}
		}
	}

	return candidates
}

func (p *PerimeterStrategy) Reached(s *Search, index int) ([]mgl64.Vec3, bool) {
	return slabReached(s, index, func(from, to mgl64.Vec3) bool {
		return p.Obstacles == nil || !p.Obstacles.Crosses(from, to)
	})
}

func (p *PerimeterStrategy) Metrics(s *Search, from, to mgl64.Vec3) (float64, float64) {
	return squaredMetrics(s, from, to)
}
