package labyrinth

import (
	"sort"
	"sync"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/spatial"
)

// RoomPair is a pair of rooms whose boxes may share some volume
type RoomPair struct {
	RoomA *actor.Room
	RoomB *actor.Room
}

// BroadPhase emits the pairs of rooms whose boxes touch or overlap, from the
// hashed grid. Each room index appears as RoomA only with rooms of higher index.
func BroadPhase(rooms []*actor.Room, workersCount int) <-chan RoomPair {
	boxes := make([]actor.AABB, len(rooms))
	for i, room := range rooms {
		boxes[i] = room.AABB()
	}
	grid := spatial.Build(boxes)

	var wg sync.WaitGroup
	pairsChan := make(chan RoomPair, workersCount*10)

	roomsPerWorker := len(rooms) / workersCount
	if roomsPerWorker == 0 {
		roomsPerWorker = 1
	}

	for w := 0; w < workersCount; w++ {
		startIdx := w * roomsPerWorker
		endIdx := startIdx + roomsPerWorker
		if w == workersCount-1 {
			endIdx = len(rooms)
		}
		if startIdx >= len(rooms) {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for roomIdx := start; roomIdx < end; roomIdx++ {
				for _, otherIdx := range grid.Query(boxes[roomIdx]) {
					if otherIdx <= roomIdx {
						continue
					}
					pairsChan <- RoomPair{RoomA: rooms[roomIdx], RoomB: rooms[otherIdx]}
				}
			}
		}(startIdx, min(endIdx, len(rooms)))
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

// NarrowPhase keeps the pairs whose boxes share some volume, ordered by room IDs
func NarrowPhase(pairs <-chan RoomPair, workersCount int) []RoomPair {
	overlapping := make(chan RoomPair, workersCount)

	go func() {
		var wg sync.WaitGroup
		defer close(overlapping)

		for range workersCount {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for pair := range pairs {
					if pair.RoomA.AABB().OverlapsStrict(pair.RoomB.AABB()) {
						overlapping <- pair
					}
				}
			}()
		}

		wg.Wait()
	}()

	result := make([]RoomPair, 0)
	for pair := range overlapping {
		result = append(result, pair)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].RoomA.ID != result[j].RoomA.ID {
			return result[i].RoomA.ID < result[j].RoomA.ID
		}
		return result[i].RoomB.ID < result[j].RoomB.ID
	})

	return result
}

// Overlaps returns the pairs of rooms whose boxes share some volume
func (d *Dungeon) Overlaps() []RoomPair {
	return NarrowPhase(BroadPhase(d.Rooms, d.workers()), d.workers())
}
