package main

import (
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"github.com/akmonengine/labyrinth"
	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/hallway"
	"github.com/akmonengine/labyrinth/layout"
)

// SetupDungeon lays the rooms out and returns the dungeon ready for its phases
func SetupDungeon(seed uint64) (*labyrinth.Dungeon, *rand.Rand) {
	config := labyrinth.DefaultConfig()
	config.Seed = seed
	config.Relax = true
	config.Workers = 4

	rng := rand.New(rand.NewPCG(seed, seed))
	dungeon := labyrinth.NewDungeon(config, log.New(os.Stdout, "[DUNGEON] ", log.LstdFlags))

	layoutConfig := layout.DefaultConfig()
	layoutConfig.MinRooms = config.MinRooms
	layoutConfig.MaxRooms = config.MaxRooms
	rooms, err := layout.Generate(layoutConfig, rng)
	if err != nil {
		log.Fatalf("layout: %v", err)
	}
	for _, room := range rooms {
		dungeon.AddRoom(room)
	}

	dungeon.Events.Subscribe(labyrinth.ROUTE_FOUND, func(event labyrinth.Event) {
		e := event.(labyrinth.RouteFoundEvent)
		fmt.Printf("  route %d -> %d: %d segments\n", e.From.ID, e.To.ID, len(e.Segments))
	})
	dungeon.Events.Subscribe(labyrinth.ROUTE_EXHAUSTED, func(event labyrinth.Event) {
		e := event.(labyrinth.RouteExhaustedEvent)
		fmt.Printf("  route %d -> %d exhausted after %d iterations\n", e.From.ID, e.To.ID, e.Iterations)
	})
	dungeon.Events.Subscribe(labyrinth.RELAXATION_SETTLED, func(event labyrinth.Event) {
		fmt.Printf("  relaxation settled after %d steps\n", event.(labyrinth.RelaxationSettledEvent).Iterations)
	})

	return dungeon, rng
}

// PrintRooms lists the rooms with their type and connections
func PrintRooms(dungeon *labyrinth.Dungeon) {
	for _, room := range dungeon.Rooms {
		fmt.Printf("  room %2d %-6s center=%v extent=%v doors=%d connections=%d\n",
			room.ID, room.Type, room.Position, room.Extent, len(room.Doors), len(room.Connections))
	}
}

// PrintHallways counts the segments per corridor type
func PrintHallways(segments []*hallway.Segment) {
	counts := make(map[hallway.CorridorType]int)
	length := 0.0
	for _, s := range segments {
		counts[s.Type]++
		length += s.Length()
	}

	for corridorType := hallway.Straight; corridorType <= hallway.VerticalRoomConnection; corridorType++ {
		if counts[corridorType] > 0 {
			fmt.Printf("  %-24s %d\n", corridorType, counts[corridorType])
		}
	}
	fmt.Printf("  total length %.0f\n", length)
}

func main() {
	dungeon, rng := SetupDungeon(42)

	fmt.Println("Layout")
	fmt.Println("======")
	PrintRooms(dungeon)

	dungeon.Connect()
	dungeon.Simplify(rng)

	// Relaxation is resumable: one Step per frame in a host application
	relaxation := dungeon.NewRelaxation()
	for step := 0; !relaxation.Step(); step++ {
		if step%100 == 0 {
			fmt.Printf("  relaxation step %d\n", step)
		}
	}
	for _, pair := range dungeon.Overlaps() {
		fmt.Printf("  rooms %d and %d overlap\n", pair.RoomA.ID, pair.RoomB.ID)
	}
	dungeon.Connect()
	dungeon.Simplify(rng)

	fmt.Println()
	fmt.Println("Routing")
	fmt.Println("=======")
	router := dungeon.NewHallwayRouter()
	steps := 0
	for !router.Step() {
		steps++
	}
	dungeon.Hallways = router.Segments()
	fmt.Printf("  %d legs, %d found, %d exhausted in %d steps\n", router.Legs(), router.Found(), router.Exhausted(), steps)

	dungeon.PostProcess()

	fmt.Println()
	fmt.Println("Dungeon")
	fmt.Println("=======")
	PrintRooms(dungeon)
	fmt.Printf("  start=%d end=%d unreachable=%d\n", roomID(dungeon.Start), roomID(dungeon.End), len(dungeon.Unreachable))
	PrintHallways(dungeon.Hallways)
}

func roomID(room *actor.Room) int {
	if room == nil {
		return -1
	}

	return room.ID
}
