package labyrinth

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/hallway"
	"github.com/akmonengine/labyrinth/pathfind"
	"github.com/go-gl/mathgl/mgl64"
)

// leg is one hallway to route, between a door of each room
type leg struct {
	from  *actor.Room
	to    *actor.Room
	doors [2]*actor.Door
}

// HallwayRouter routes the hallways of a dungeon one search step per Step call.
// A leg whose search is exhausted commits nothing and routing moves on to the next one.
type HallwayRouter struct {
	dungeon *Dungeon
	legs    []leg
	current int

	search    *pathfind.Search
	obstacles *pathfind.Obstacles
	stubs     []*hallway.Segment

	segments  []*hallway.Segment
	found     int
	exhausted int
}

func (d *Dungeon) NewHallwayRouter() *HallwayRouter {
	r := &HallwayRouter{dungeon: d}

	switch d.Config.RouteMode {
	case RouteOrphanDoors:
		r.legs = orphanDoorLegs(d.Rooms)
	default:
		for _, c := range d.Connections {
			r.legs = append(r.legs, leg{from: c.A, to: c.B})
		}
	}

	return r
}

// orphanDoorLegs pairs the orphan doors of the rooms in order
func orphanDoorLegs(rooms []*actor.Room) []leg {
	var doors []*actor.Door
	for _, room := range rooms {
		doors = append(doors, room.OrphanDoors()...)
	}

	var legs []leg
	for i := 0; i+1 < len(doors); i += 2 {
		legs = append(legs, leg{
			from:  doors[i].Owner(),
			to:    doors[i+1].Owner(),
			doors: [2]*actor.Door{doors[i], doors[i+1]},
		})
	}

	return legs
}

// Step advances the active search by one evaluation and reports whether every leg is done
func (r *HallwayRouter) Step() bool {
	if r.current >= len(r.legs) {
		return true
	}

	l := &r.legs[r.current]
	if r.search == nil {
		r.begin(l)
	}
	if !r.search.Evaluate() {
		return false
	}

	r.finish(l)
	r.current++
	r.search = nil

	return r.current >= len(r.legs)
}

func (r *HallwayRouter) begin(l *leg) {
	config := r.dungeon.Config

	if l.doors[0] == nil || l.doors[1] == nil {
		l.doors[0] = selectDoor(l.from, l.to)
		l.doors[1] = selectDoor(l.to, l.from)
	}
	l.doors[0].Link(l.to)
	l.doors[1].Link(l.from)

	start := l.doors[0].WorldPosition()
	end := l.doors[1].WorldPosition()
	r.stubs = nil
	if config.RoomConnectors {
		half := config.HallwayWidth * 0.5
		start = l.doors[0].ExitPoint(half)
		end = l.doors[1].ExitPoint(half)
		r.stubs = []*hallway.Segment{
			r.connector(l.doors[0]),
			r.connector(l.doors[1]),
		}
	}

	if r.obstacles == nil {
		r.obstacles = pathfind.NewObstacles(r.obstacleBoxes(l))
	} else {
		r.obstacles.Reset(r.obstacleBoxes(l))
	}
	var strategy pathfind.Strategy
	switch config.Strategy {
	case StrategyPerimeter:
		strategy = pathfind.NewPerimeterStrategy(r.obstacles)
	default:
		strategy = pathfind.NewHallwayStrategy(r.obstacles)
	}

	r.search = pathfind.NewSearch(r.searchConfig(), strategy)
	r.search.Initialize(start, end)
}

func (r *HallwayRouter) finish(l *leg) {
	d := r.dungeon
	path, err := r.search.Result()
	if err != nil {
		l.doors[0].Link(nil)
		l.doors[1].Link(nil)
		r.exhausted++

		d.logger().Printf("[ROUTE] room %d to room %d: %v after %d iterations", l.from.ID, l.to.ID, err, r.search.Iterations())
		d.Events.emit(RouteExhaustedEvent{From: l.from, To: l.to, Iterations: r.search.Iterations()})
		d.Events.flush()
		return
	}

	segments := append(r.stubs, hallway.FromPath(path, d.Config.HallwayWidth, d.Config.HallwayHeight)...)
	r.segments = append(r.segments, segments...)
	r.found++

	d.Events.emit(RouteFoundEvent{From: l.from, To: l.to, Segments: segments})
	d.Events.flush()
}

// selectDoor returns the orphan door of room closest to other when it faces it,
// otherwise a new door on the horizontal wall facing other
func selectDoor(room, other *actor.Room) *actor.Door {
	if door := room.ClosestOrphanDoor(other.Position); door != nil {
		if door.Facing().Dot(other.Position.Sub(door.WorldPosition())) > 0 {
			return door
		}
	}

	direction := other.Position.Sub(room.Position)
	direction[2] = 0
	if direction.Len() < actor.Epsilon {
		direction = mgl64.Vec3{1, 0, 0}
	}

	return room.AddDoorFacing(direction, other.Position)
}

// connector is the room connection running from the door to the start of the routed hallway
func (r *HallwayRouter) connector(door *actor.Door) *hallway.Segment {
	config := r.dungeon.Config
	facing := door.Facing()

	corridorType := hallway.RoomConnection
	if math.Abs(facing.Z()) > 1-actor.Epsilon {
		corridorType = hallway.VerticalRoomConnection
	}

	return hallway.NewSegment(door.WorldPosition(), door.ExitPoint(config.HallwayWidth*0.5), corridorType, config.HallwayWidth, config.HallwayHeight)
}

// obstacleBoxes inflates every room by the obstacle margin, except the two
// rooms of the leg whose doors lie on their walls
func (r *HallwayRouter) obstacleBoxes(l *leg) []actor.AABB {
	margin := r.dungeon.Config.ObstacleMargin
	boxes := make([]actor.AABB, len(r.dungeon.Rooms))
	for i, room := range r.dungeon.Rooms {
		boxes[i] = room.AABB()
		if room != l.from && room != l.to {
			boxes[i] = boxes[i].Expand(margin)
		}
	}

	return boxes
}

func (r *HallwayRouter) searchConfig() pathfind.Config {
	config := r.dungeon.Config
	searchConfig := pathfind.DefaultConfig()
	searchConfig.StepLength = config.StepLength
	searchConfig.Width = config.HallwayWidth
	searchConfig.Height = config.HallwayHeight
	searchConfig.MaxSlope = config.MaxSlope
	searchConfig.MaxIterations = config.MaxSearchIterations

	return searchConfig
}

// Segments returns the segments of the legs routed so far
func (r *HallwayRouter) Segments() []*hallway.Segment {
	return r.segments
}

func (r *HallwayRouter) Found() int {
	return r.found
}

func (r *HallwayRouter) Exhausted() int {
	return r.exhausted
}

func (r *HallwayRouter) Legs() int {
	return len(r.legs)
}
