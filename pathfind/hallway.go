package pathfind

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// HallwayStrategy steps along the axis and slope directions and rejects every
// step whose swept corridor box overlaps an obstacle.
type HallwayStrategy struct {
	Obstacles  *Obstacles
	directions []mgl64.Vec3
}

func NewHallwayStrategy(obstacles *Obstacles) *HallwayStrategy {
	return &HallwayStrategy{Obstacles: obstacles}
}

func (h *HallwayStrategy) Prepare(s *Search) {
	h.directions = Directions(s.End().Sub(s.Start()), s.Config().MaxSlope)
}

func (h *HallwayStrategy) Expand(s *Search, index int) []mgl64.Vec3 {
	node := s.Node(index)
	config := s.Config()

	candidates := make([]mgl64.Vec3, 0, len(h.directions))
	for _, d := range h.directions {
		if isReversal(d, node.Direction) {
			continue
		}
		to := node.Location.Add(d.Mul(config.StepLength))
		if !h.clear(s, node.Location, to) {
			continue
		}
		candidates = append(candidates, to)
	}

	return candidates
}

func (h *HallwayStrategy) Reached(s *Search, index int) ([]mgl64.Vec3, bool) {
	return slabReached(s, index, func(from, to mgl64.Vec3) bool {
		return h.clear(s, from, to)
	})
}

func (h *HallwayStrategy) Metrics(s *Search, from, to mgl64.Vec3) (float64, float64) {
	return squaredMetrics(s, from, to)
}

func (h *HallwayStrategy) clear(s *Search, from, to mgl64.Vec3) bool {
	if h.Obstacles == nil {
		return true
	}
	config := s.Config()

	return h.Obstacles.SweepClear(from, to, config.Width, config.Height)
}

// squaredMetrics costs a step by its squared length and estimates the rest by
// the squared distance to the end
func squaredMetrics(s *Search, from, to mgl64.Vec3) (float64, float64) {
	return to.Sub(from).LenSqr(), s.End().Sub(to).LenSqr()
}

// slabReached treats the last step of the node as an infinite corridor: when
// the end lies ahead inside its cross-section, the route ends at the projection
// of the end on the corridor line, followed by the end itself when it is off the line.
// Every new leg must pass clear.
func slabReached(s *Search, index int, clear func(from, to mgl64.Vec3) bool) ([]mgl64.Vec3, bool) {
	node := s.Node(index)
	config := s.Config()
	end := s.End()
	tolerance := math.Max(config.LocationTolerance, actor.Epsilon)

	if node.Parent < 0 {
		if actor.PointsEqual(node.Location, end, tolerance) {
			return []mgl64.Vec3{end}, true
		}
		return nil, false
	}

	from := s.Node(node.Parent).Location
	dir := node.Direction
	t := end.Sub(from).Dot(dir)
	if t <= actor.Epsilon {
		return nil, false
	}

	projection := from.Add(dir.Mul(t))
	offset := end.Sub(projection)

	side := up.Cross(dir)
	if side.Len() < actor.Epsilon {
		side = mgl64.Vec3{0, 1, 0}
	}
	side = side.Normalize()
	upward := dir.Cross(side)

	if math.Abs(offset.Dot(side)) > config.Width*0.5+actor.Epsilon ||
		math.Abs(offset.Dot(upward)) > config.Height*0.5+actor.Epsilon {
		return nil, false
	}

	if offset.Len() <= tolerance {
		if !clear(from, end) {
			return nil, false
		}
		return []mgl64.Vec3{end}, true
	}

	if !clear(from, projection) || !clear(projection, end) {
		return nil, false
	}

	return []mgl64.Vec3{projection, end}, true
}
