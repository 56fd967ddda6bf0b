package pathfind

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/spatial"
	"github.com/go-gl/mathgl/mgl64"
)

// Obstacles is the set of boxes a route must avoid, read-only while a search runs
type Obstacles struct {
	boxes []actor.AABB
	grid  *spatial.Grid
}

func NewObstacles(boxes []actor.AABB) *Obstacles {
	return &Obstacles{boxes: boxes, grid: spatial.Build(boxes)}
}

// Reset replaces the boxes, reusing the grid cells
func (o *Obstacles) Reset(boxes []actor.AABB) {
	o.boxes = boxes
	o.grid.Clear()
	for i, box := range boxes {
		o.grid.Insert(i, box)
	}
}

// Overlaps reports whether box shares volume with any obstacle. Touching faces are allowed.
func (o *Obstacles) Overlaps(box actor.AABB) bool {
	for _, index := range o.grid.Query(box) {
		if o.boxes[index].OverlapsStrict(box) {
			return true
		}
	}

	return false
}

// SweepClear reports whether a corridor of the given cross-section can run from one point to another
func (o *Obstacles) SweepClear(from, to mgl64.Vec3, width, height float64) bool {
	box, _ := actor.NewSegmentBox(from, to, width, height)
	return !o.Overlaps(box.GetAABB())
}

// Crosses reports whether the segment passes through the inside of an obstacle.
// Running along a face does not count.
func (o *Obstacles) Crosses(from, to mgl64.Vec3) bool {
	for _, index := range o.grid.QuerySegment(from, to) {
		if crosses(o.boxes[index], from, to) {
			return true
		}
	}

	return false
}

func crosses(box actor.AABB, from, to mgl64.Vec3) bool {
	hit, ok := box.IntersectSegment(from, to)
	if !ok || hit.Exit-hit.Enter <= actor.Epsilon {
		return false
	}
	mid := from.Add(to.Sub(from).Mul((hit.Enter + hit.Exit) * 0.5))

	return box.ContainsPointStrict(mid)
}

// Nearest returns the obstacle closest to point
func (o *Obstacles) Nearest(point mgl64.Vec3) (actor.AABB, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, box := range o.boxes {
		d := distanceSqr(box, point)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return actor.AABB{}, false
	}

	return o.boxes[best], true
}

func distanceSqr(box actor.AABB, point mgl64.Vec3) float64 {
	d := 0.0
	for i := 0; i < 3; i++ {
		if point[i] < box.Min[i] {
			d += (box.Min[i] - point[i]) * (box.Min[i] - point[i])
		} else if point[i] > box.Max[i] {
			d += (point[i] - box.Max[i]) * (point[i] - box.Max[i])
		}
	}

	return d
}
