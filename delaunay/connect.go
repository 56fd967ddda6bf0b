package delaunay

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/spatial"
)

// Occlusion answers whether the straight line between two rooms crosses the box of a third one
type Occlusion struct {
	rooms []*actor.Room
	grid  *spatial.Grid
}

func NewOcclusion(rooms []*actor.Room) *Occlusion {
	boxes := make([]actor.AABB, len(rooms))
	for i, room := range rooms {
		boxes[i] = room.AABB()
	}

	return &Occlusion{rooms: rooms, grid: spatial.Build(boxes)}
}

// Blocks reports whether the segment between the centers of a and b intersects
// the box of any other room
func (o *Occlusion) Blocks(a, b *actor.Room) bool {
	for _, index := range o.grid.QuerySegment(a.Position, b.Position) {
		room := o.rooms[index]
		if room == a || room == b {
			continue
		}
		if _, hit := room.AABB().IntersectSegment(a.Position, b.Position); hit {
			return true
		}
	}

	return false
}

// Filter returns the edges not blocked by a third room, preserving their order.
// forEach runs fn for every index in [0, n) and may do so concurrently; nil runs sequentially.
func (o *Occlusion) Filter(edges []*actor.Connection, forEach func(n int, fn func(i int))) []*actor.Connection {
	blocked := make([]bool, len(edges))
	check := func(i int) {
		blocked[i] = o.Blocks(edges[i].A, edges[i].B)
	}

	if forEach == nil {
		for i := range edges {
			check(i)
		}
	} else {
		forEach(len(edges), check)
	}

	connections := make([]*actor.Connection, 0, len(edges))
	for i, edge := range edges {
		if !blocked[i] {
			connections = append(connections, edge)
		}
	}

	return connections
}

// Connect triangulates the rooms and returns the unoccluded, deduplicated connections
func Connect(rooms []*actor.Room) ([]*actor.Connection, error) {
	tr, err := Triangulate(rooms)
	if err != nil {
		return nil, err
	}

	return NewOcclusion(rooms).Filter(tr.Edges(), nil), nil
}
