package graph

import (
	"math/rand/v2"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/zyedidia/generic/mapset"
)

// Result of Simplify
type Result struct {
	Connections []*actor.Connection
	Start       *actor.Room
	End         *actor.Room
	// Unreachable lists the rooms no path from Start could reach
	Unreachable []*actor.Room
}

// Simplify keeps the connections used by the paths from the start room to
// every other room and tags the start and end rooms.
//
// A room already tagged Start (resp. End) is kept, otherwise Start is drawn
// uniformly with rng and End is the far end of the longest path. Hallway rooms
// are never picked unless no other room exists. The room back-references are
// rebuilt from the kept connections.
func Simplify(rooms []*actor.Room, connections []*actor.Connection, rng *rand.Rand) Result {
	var result Result
	if len(rooms) == 0 {
		return result
	}

	result.Start = findType(rooms, actor.RoomTypeStart)
	if result.Start == nil {
		candidates := destinations(rooms)
		if len(candidates) == 0 {
			candidates = rooms
		}
		result.Start = candidates[rng.IntN(len(candidates))]
		result.Start.Type = actor.RoomTypeStart
	}

	adjacency := NewAdjacency(connections)
	used := mapset.New[*actor.Connection]()
	var farthest *actor.Room
	longest := -1.0

	for _, room := range rooms {
		if room == result.Start {
			continue
		}

		path, ok := FindPath(result.Start, room, adjacency)
		if !ok {
			result.Unreachable = append(result.Unreachable, room)
			continue
		}

		length := 0.0
		for _, c := range path {
			used.Put(c)
			length += c.Length()
		}
		if length > longest && room.Type != actor.RoomTypeHallway {
			longest = length
			farthest = room
		}
	}

	for _, c := range connections {
		if used.Has(c) {
			result.Connections = append(result.Connections, c)
		}
	}
	actor.RebuildConnections(rooms, result.Connections)

	result.End = findType(rooms, actor.RoomTypeEnd)
	if result.End == nil && farthest != nil {
		result.End = farthest
		result.End.Type = actor.RoomTypeEnd
	}

	return result
}

// destinations returns the rooms that are not hallway rooms
func destinations(rooms []*actor.Room) []*actor.Room {
	var result []*actor.Room
	for _, room := range rooms {
		if room.Type != actor.RoomTypeHallway {
			result = append(result, room)
		}
	}

	return result
}

func findType(rooms []*actor.Room, roomType actor.RoomType) *actor.Room {
	for _, room := range rooms {
		if room.Type == roomType {
			return room
		}
	}

	return nil
}
