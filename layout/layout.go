// Package layout places rooms and their doors for a dungeon. Each new room is
// set in front of an open door of the rooms already placed, facing it across a gap.
package layout

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("layout: invalid config")

// walls are the horizontal directions doors may face
var walls = [4]mgl64.Vec3{
	{1, 0, 0},
	{-1, 0, 0},
	{0, 1, 0},
	{0, -1, 0},
}

type Config struct {
	MinRooms  int
	MaxRooms  int
	ExtentMin mgl64.Vec3
	ExtentMax mgl64.Vec3
	// MinDoors and MaxDoors bound the doors of a room, each on a distinct wall
	MinDoors int
	MaxDoors int
	// DoorWidth and DoorHeight keep the doors away from the wall edges and the floor
	DoorWidth  float64
	DoorHeight float64
	// Spacing is the gap between a door and the door of the room placed in front of it
	Spacing float64
	// LevelOffset bounds the random height difference between a room and the room it is attached to
	LevelOffset float64
	// MaxAttempts bounds the placement attempts of the whole layout
	MaxAttempts int
}

func DefaultConfig() Config {
	return Config{
		MinRooms:    8,
		MaxRooms:    16,
		ExtentMin:   mgl64.Vec3{200, 200, 150},
		ExtentMax:   mgl64.Vec3{600, 600, 300},
		MinDoors:    1,
		MaxDoors:    4,
		DoorWidth:   200,
		DoorHeight:  200,
		Spacing:     800,
		LevelOffset: 200,
		MaxAttempts: 1000,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MinRooms < 0 || c.MaxRooms < c.MinRooms:
		return fmt.Errorf("%w: room count range [%d, %d]", ErrInvalidConfig, c.MinRooms, c.MaxRooms)
	case !extentRangeValid(c.ExtentMin, c.ExtentMax):
		return fmt.Errorf("%w: extent range [%v, %v]", ErrInvalidConfig, c.ExtentMin, c.ExtentMax)
	case c.MinDoors < 1 || c.MaxDoors > len(walls) || c.MaxDoors < c.MinDoors:
		return fmt.Errorf("%w: door count range [%d, %d]", ErrInvalidConfig, c.MinDoors, c.MaxDoors)
	case c.DoorWidth < 0 || c.DoorHeight < 0 || c.Spacing < 0 || c.LevelOffset < 0:
		return fmt.Errorf("%w: negative dimension", ErrInvalidConfig)
	case c.MaxAttempts <= 0:
		return fmt.Errorf("%w: max attempts %d", ErrInvalidConfig, c.MaxAttempts)
	}

	return nil
}

func extentRangeValid(lo, hi mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if lo[i] <= 0 || hi[i] < lo[i] {
			return false
		}
	}

	return true
}

// Generate places between MinRooms and MaxRooms rooms. The same rng state gives the same layout.
// Fewer rooms are returned when MaxAttempts placements fail.
func Generate(config Config, rng *rand.Rand) ([]*actor.Room, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	count := config.MinRooms + rng.IntN(config.MaxRooms-config.MinRooms+1)
	if count == 0 {
		return nil, nil
	}

	g := generator{config: config, rng: rng}
	first := actor.NewRoom(0, mgl64.Vec3{}, g.extent())
	g.addDoors(first, -1)
	g.place(first)

	for attempts := 0; len(g.rooms) < count && len(g.open) > 0 && attempts < config.MaxAttempts; attempts++ {
		g.attach()
	}

	return g.rooms, nil
}

type generator struct {
	config Config
	rng    *rand.Rand
	rooms  []*actor.Room
	// open holds the doors no room has been attached to yet
	open []*actor.Door
}

func (g *generator) place(room *actor.Room) {
	g.rooms = append(g.rooms, room)
	g.open = append(g.open, room.Doors...)
}

// attach tries to place a new room in front of a random open door
func (g *generator) attach() {
	index := g.rng.IntN(len(g.open))
	door := g.open[index]
	facing := door.Facing()

	room := actor.NewRoom(len(g.rooms), mgl64.Vec3{}, g.extent())
	entrance := g.addDoor(room, facing.Mul(-1))
	wall := wallIndex(facing.Mul(-1))
	g.addDoors(room, wall)

	offset := mgl64.Vec3{0, 0, (g.rng.Float64()*2 - 1) * g.config.LevelOffset}
	room.Position = door.WorldPosition().Add(facing.Mul(g.config.Spacing)).Sub(entrance.Transform.Position).Add(offset)
	room.PreviousPosition = room.Position

	box := room.AABB().Expand(g.config.Spacing * 0.5)
	for _, other := range g.rooms {
		if box.OverlapsStrict(other.AABB()) {
			return
		}
	}

	g.open = append(g.open[:index], g.open[index+1:]...)
	g.place(room)
	g.open = removeDoor(g.open, entrance)
}

func (g *generator) extent() mgl64.Vec3 {
	var extent mgl64.Vec3
	for i := 0; i < 3; i++ {
		extent[i] = g.config.ExtentMin[i] + g.rng.Float64()*(g.config.ExtentMax[i]-g.config.ExtentMin[i])
	}

	return extent
}

// addDoors adds doors on distinct walls up to a random count, skipping the wall already used
func (g *generator) addDoors(room *actor.Room, used int) {
	count := g.config.MinDoors + g.rng.IntN(g.config.MaxDoors-g.config.MinDoors+1)
	for _, wall := range g.rng.Perm(len(walls)) {
		if len(room.Doors) >= count {
			return
		}
		if wall == used {
			continue
		}
		g.addDoor(room, walls[wall])
	}
}

// addDoor adds a door on the wall facing direction, slid randomly along it, at floor level
func (g *generator) addDoor(room *actor.Room, facing mgl64.Vec3) *actor.Door {
	axis, side := 0, 1
	if math.Abs(facing.Y()) > math.Abs(facing.X()) {
		axis, side = 1, 0
	}

	var local mgl64.Vec3
	local[axis] = facing[axis] * room.Extent[axis]

	slide := math.Max(0, room.Extent[side]-g.config.DoorWidth*0.5)
	local[side] = (g.rng.Float64()*2 - 1) * slide
	local[2] = math.Min(room.Extent[2], -room.Extent[2]+g.config.DoorHeight*0.5)

	return room.AddDoor(actor.NewTransformFacing(local, facing))
}

func wallIndex(facing mgl64.Vec3) int {
	for i, wall := range walls {
		if wall.Dot(facing) > 1-actor.Epsilon {
			return i
		}
	}

	return -1
}

func removeDoor(doors []*actor.Door, door *actor.Door) []*actor.Door {
	for i, d := range doors {
		if d == door {
			return append(doors[:i], doors[i+1:]...)
		}
	}

	return doors
}
