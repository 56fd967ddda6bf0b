package hallway

import (
	"math"
	"sort"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/spatial"
	"github.com/go-gl/mathgl/mgl64"
)

type crossing struct {
	room        *actor.Room
	enter, exit float64
	enterNormal mgl64.Vec3
	exitNormal  mgl64.Vec3
}

// FixCrossings cuts every segment running through the box of a room at the
// box surface and replaces it by the pieces outside the rooms.
// With connectors enabled, a door is added on the crossed room at each cut and
// a room connection half a width long is emitted for pieces at least one width long.
func FixCrossings(segments []*Segment, rooms []*actor.Room, connectors bool) []*Segment {
	boxes := make([]actor.AABB, len(rooms))
	for i, room := range rooms {
		boxes[i] = room.AABB()
	}
	grid := spatial.Build(boxes)

	result := make([]*Segment, 0, len(segments))
	for _, s := range segments {
		if s.Invalid {
			continue
		}

		crossings := findCrossings(s, rooms, boxes, grid)
		if len(crossings) == 0 {
			result = append(result, s)
			continue
		}
		s.Invalid = true

		var previous *crossing
		cursor := 0.0
		for i := range crossings {
			c := &crossings[i]
			if c.enter > cursor {
				result = appendPiece(result, s, cursor, c.enter, previous, c, connectors)
			}
			if c.exit > cursor {
				cursor = c.exit
				previous = c
			}
		}
		if cursor < 1 {
			result = appendPiece(result, s, cursor, 1, previous, nil, connectors)
		}
	}

	return result
}

func findCrossings(s *Segment, rooms []*actor.Room, boxes []actor.AABB, grid *spatial.Grid) []crossing {
	var crossings []crossing
	for _, index := range grid.QuerySegment(s.Start, s.End) {
		hit, ok := boxes[index].IntersectSegment(s.Start, s.End)
		if !ok || hit.Exit-hit.Enter <= actor.Epsilon {
			continue
		}
		mid := s.Start.Add(s.End.Sub(s.Start).Mul((hit.Enter + hit.Exit) * 0.5))
		if !boxes[index].ContainsPointStrict(mid) {
			continue
		}

		crossings = append(crossings, crossing{
			room:        rooms[index],
			enter:       hit.Enter,
			exit:        hit.Exit,
			enterNormal: hit.EnterNormal,
			exitNormal:  hit.ExitNormal,
		})
	}

	sort.Slice(crossings, func(i, j int) bool {
		return crossings[i].enter < crossings[j].enter
	})

	return crossings
}

// appendPiece appends the part [from, to] of s, attached to the room it leaves and the room it enters
func appendPiece(result []*Segment, s *Segment, from, to float64, leaving, entering *crossing, connectors bool) []*Segment {
	dir := s.End.Sub(s.Start)
	start := s.Start.Add(dir.Mul(from))
	end := s.Start.Add(dir.Mul(to))
	if actor.PointsEqual(start, end, JointTolerance) {
		return result
	}

	corridorType := s.Type
	piece := NewSegment(start, end, corridorType, s.Width, s.Height)
	if corridorType == Straight || corridorType == Stairs {
		piece.Type = Straight
		if piece.IsSloped() {
			piece.Type = Stairs
		}
	}
	result = Unique(result, piece)

	if !connectors {
		return result
	}
	if leaving != nil {
		result = appendConnection(result, leaving.room, start, leaving.exitNormal, piece)
	}
	if entering != nil {
		result = appendConnection(result, entering.room, end, entering.enterNormal, piece)
	}

	return result
}

// appendConnection adds a door on the room at point, facing out of the room,
// and the matching room connection when the piece is long enough
func appendConnection(result []*Segment, room *actor.Room, point mgl64.Vec3, facing mgl64.Vec3, piece *Segment) []*Segment {
	if facing.Len() < actor.Epsilon {
		return result
	}
	room.AddDoor(actor.NewTransformFacing(point.Sub(room.Position), facing))

	if piece.Length() < piece.Width {
		return result
	}

	connectionType := RoomConnection
	if math.Abs(facing.Z()) > 1-actor.Epsilon {
		connectionType = VerticalRoomConnection
	}

	return Unique(result, NewSegment(point, point.Add(facing.Mul(piece.Width*0.5)), connectionType, piece.Width, piece.Height))
}
