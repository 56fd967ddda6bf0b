// Package labyrinth builds the topology and the hallways of a 3D dungeon:
// which rooms connect to which, and a walkable corridor between every pair of
// connected rooms.
package labyrinth

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/delaunay"
	"github.com/akmonengine/labyrinth/graph"
	"github.com/akmonengine/labyrinth/hallway"
	"github.com/akmonengine/labyrinth/layout"
)

type Dungeon struct {
	Rooms       []*actor.Room
	Connections []*actor.Connection
	Hallways    []*hallway.Segment

	Start *actor.Room
	End   *actor.Room
	// Unreachable lists the rooms the last simplification could not reach from Start
	Unreachable []*actor.Room

	Config Config
	Events Events
	Logger *log.Logger
}

func NewDungeon(config Config, logger *log.Logger) *Dungeon {
	if logger == nil {
		logger = log.Default()
	}

	return &Dungeon{
		Config: config,
		Events: NewEvents(),
		Logger: logger,
	}
}

// AddRoom adds a room to the dungeon
func (d *Dungeon) AddRoom(room *actor.Room) {
	d.Rooms = append(d.Rooms, room)
}

// RemoveRoom removes a room and every connection touching it.
// Doors of the other rooms linked to it become orphan again.
func (d *Dungeon) RemoveRoom(room *actor.Room) {
	k := -1
	for i, r := range d.Rooms {
		if r == room {
			k = i
			break
		}
	}

	if k != -1 {
		d.Rooms = append(d.Rooms[:k], d.Rooms[k+1:]...)
	}

	n := 0
	for _, c := range d.Connections {
		if !c.Contains(room) {
			d.Connections[n] = c
			n++
		}
	}
	d.Connections = d.Connections[:n]
	actor.RebuildConnections(d.Rooms, d.Connections)

	for _, r := range d.Rooms {
		for _, door := range r.Doors {
			if door.Peer() == room {
				door.Link(nil)
			}
		}
	}

	d.Events.forget(room)
}

func (d *Dungeon) workers() int {
	return max(DEFAULT_WORKERS, d.Config.Workers)
}

func (d *Dungeon) logger() *log.Logger {
	if d.Logger == nil {
		d.Logger = log.Default()
	}

	return d.Logger
}

// Connect replaces the connections by the unoccluded edges of the Delaunay
// tetrahedralization of the room centers. Fewer than two rooms give no connection.
func (d *Dungeon) Connect() {
	d.Connections = nil

	tr, err := delaunay.Triangulate(d.Rooms)
	if err != nil {
		if !errors.Is(err, delaunay.ErrNotEnoughRooms) {
			d.logger().Printf("[CONNECT] triangulation failed: %v", err)
		}
		actor.RebuildConnections(d.Rooms, nil)
		return
	}

	occlusion := delaunay.NewOcclusion(d.Rooms)
	d.Connections = occlusion.Filter(tr.Edges(), forEachIndex(d.workers()))
	actor.RebuildConnections(d.Rooms, d.Connections)

	if tr.Skipped > 0 {
		d.logger().Printf("[CONNECT] %d degenerate tetrahedra skipped", tr.Skipped)
	}
	d.logger().Printf("[CONNECT] %d rooms, %d connections", len(d.Rooms), len(d.Connections))
}

// Simplify prunes the connections to the paths from the start room and tags the start and end rooms
func (d *Dungeon) Simplify(rng *rand.Rand) {
	result := graph.Simplify(d.Rooms, d.Connections, rng)

	d.Connections = result.Connections
	d.Start = result.Start
	d.End = result.End
	d.Unreachable = result.Unreachable

	for _, room := range result.Unreachable {
		d.logger().Printf("[SIMPLIFY] room %d unreachable from start", room.ID)
		d.Events.emit(RoomUnreachableEvent{Room: room})
	}
	d.logger().Printf("[SIMPLIFY] %d connections kept", len(d.Connections))
	d.Events.flush()
}

// Relax runs the relaxation until it settles
func (d *Dungeon) Relax() {
	relaxation := d.NewRelaxation()
	for !relaxation.Settled() {
		relaxation.Step()
	}
}

// RouteHallways routes every leg and replaces the hallways by the raw routed segments
func (d *Dungeon) RouteHallways() {
	router := d.NewHallwayRouter()
	for !router.Step() {
	}
	d.Hallways = router.Segments()
}

// PostProcess fixes the hallways crossing rooms, merges collinear segments and synthesizes corners,
// as enabled by the config
func (d *Dungeon) PostProcess() {
	segments := d.Hallways
	if d.Config.PreventCrossing {
		segments = hallway.FixCrossings(segments, d.Rooms, d.Config.RoomConnectors)
	}
	segments = hallway.Merge(segments)
	if d.Config.CreateCorners {
		segments = hallway.Corners(segments)
	}
	d.Hallways = segments

	d.logger().Printf("[POSTPROCESS] %d hallway segments", len(d.Hallways))
}

// Generate runs every phase. When the dungeon has no room yet a layout is generated first.
// A nil rng is seeded from Config.Seed.
func (d *Dungeon) Generate(rng *rand.Rand) error {
	if err := d.Config.Validate(); err != nil {
		return err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(d.Config.Seed, d.Config.Seed^0x9e3779b97f4a7c15))
	}

	if len(d.Rooms) == 0 {
		rooms, err := layout.Generate(d.layoutConfig(), rng)
		if err != nil {
			return fmt.Errorf("labyrinth: layout: %w", err)
		}
		d.Rooms = rooms
	}

	d.Connect()
	d.Simplify(rng)
	if d.Config.Relax {
		d.Relax()
		for _, pair := range d.Overlaps() {
			d.logger().Printf("[RELAX] rooms %d and %d overlap", pair.RoomA.ID, pair.RoomB.ID)
		}
		d.Connect()
		d.Simplify(rng)
	}

	d.RouteHallways()
	d.PostProcess()

	return nil
}

func (d *Dungeon) layoutConfig() layout.Config {
	config := layout.DefaultConfig()
	config.MinRooms = d.Config.MinRooms
	config.MaxRooms = d.Config.MaxRooms
	config.ExtentMin = d.Config.RoomExtentMin
	config.ExtentMax = d.Config.RoomExtentMax
	config.Spacing = d.Config.RoomSpacing

	return config
}
