package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RoomType represents the role of a room in the dungeon
type RoomType int

const (
	// RoomTypeMid rooms are ordinary rooms, free to move during relaxation
	RoomTypeMid RoomType = iota

	// RoomTypeStart is the entrance of the dungeon, pinned during relaxation
	RoomTypeStart

	// RoomTypeEnd is the room farthest from the entrance (boss room), pinned during relaxation
	RoomTypeEnd

	// RoomTypeDummy vertices only exist while triangulating
	RoomTypeDummy

	// RoomTypeHallway rooms stand for corridor junctions: connected and routed
	// like any room, never tagged start or end
	RoomTypeHallway
)

func (t RoomType) String() string {
	switch t {
	case RoomTypeStart:
		return "start"
	case RoomTypeEnd:
		return "end"
	case RoomTypeDummy:
		return "dummy"
	case RoomTypeHallway:
		return "hallway"
	default:
		return "mid"
	}
}

// Room represents a box-shaped dungeon space with door sockets
type Room struct {
	ID       int
	Position mgl64.Vec3 // center
	Extent   mgl64.Vec3 // half-extents
	Type     RoomType

	Doors       []*Door
	Connections []*Connection

	// Relaxation state
	PreviousPosition mgl64.Vec3
	Velocity         mgl64.Vec3
	accumulatedForce mgl64.Vec3

	IsSleeping bool
	SleepTimer float64
}

// NewRoom creates a mid room centered on position
func NewRoom(id int, position mgl64.Vec3, extent mgl64.Vec3) *Room {
	return &Room{
		ID:               id,
		Position:         position,
		Extent:           extent,
		Type:             RoomTypeMid,
		PreviousPosition: position,
	}
}

func (r *Room) AABB() AABB {
	return NewAABB(r.Position, r.Extent)
}

// IsPinned reports rooms that relaxation never moves
func (r *Room) IsPinned() bool {
	return r.Type == RoomTypeStart || r.Type == RoomTypeEnd || r.Type == RoomTypeDummy
}

// BoundingSphere returns the sphere circumscribing the box, grown by margin
func (r *Room) BoundingSphere(margin float64) Sphere {
	s := Sphere{Radius: r.Extent.Len() + margin}
	s.ComputeAABB(Transform{Position: r.Position, Rotation: mgl64.QuatIdent()})

	return s
}

// AddDoor creates an orphan door on the room at the given local transform
func (r *Room) AddDoor(transform Transform) *Door {
	door := &Door{Transform: transform}
	door.Rooms[0] = r
	r.Doors = append(r.Doors, door)

	return door
}

// AddDoorFacing creates an orphan door on the wall of the room that faces
// direction, at the point of that wall closest to the world point target.
func (r *Room) AddDoorFacing(direction mgl64.Vec3, target mgl64.Vec3) *Door {
	axis := dominantAxis(direction)
	sign := 1.0
	if direction[axis] < 0 {
		sign = -1.0
	}

	local := target.Sub(r.Position)
	for i := 0; i < 3; i++ {
		if i == axis {
			local[i] = sign * r.Extent[i]
			continue
		}
		local[i] = math.Max(-r.Extent[i], math.Min(r.Extent[i], local[i]))
	}
	facing := mgl64.Vec3{}
	facing[axis] = sign

	return r.AddDoor(NewTransformFacing(local, facing))
}

// OrphanDoors returns the doors not yet linked to a peer room
func (r *Room) OrphanDoors() []*Door {
	var doors []*Door
	for _, door := range r.Doors {
		if door.IsOrphan() {
			doors = append(doors, door)
		}
	}

	return doors
}

// ClosestOrphanDoor returns the orphan door closest to the world point target, or nil
func (r *Room) ClosestOrphanDoor(target mgl64.Vec3) *Door {
	var best *Door
	bestDist := math.Inf(1)
	for _, door := range r.OrphanDoors() {
		d := door.WorldPosition().Sub(target).LenSqr()
		if d < bestDist {
			best = door
			bestDist = d
		}
	}

	return best
}

func (r *Room) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if r.Velocity.Len() < velocityThreshold {
		r.SleepTimer += dt
		if r.SleepTimer >= timeThreshold {
			r.Sleep()
		}
	} else {
		r.Awake()
	}
}

func (r *Room) Sleep() {
	r.IsSleeping = true
	r.SleepTimer = 0.0

	r.ClearForces()
	r.Velocity = mgl64.Vec3{}
}

func (r *Room) Awake() {
	r.IsSleeping = false
	r.SleepTimer = 0.0
}

// Integrate advances the room by one semi-implicit Euler step with unit mass,
// then scales the velocity by damping. A sleeping room wakes up only when the
// accumulated force would change its velocity by more than wakeVelocity.
func (r *Room) Integrate(dt float64, damping float64, wakeVelocity float64) {
	r.PreviousPosition = r.Position
	if r.IsPinned() {
		r.ClearForces()
		r.Velocity = mgl64.Vec3{}
		return
	}

	if r.IsSleeping {
		if r.accumulatedForce.Mul(dt).Len() <= wakeVelocity {
			r.ClearForces()
			return
		}
		r.Awake()
	}

	r.Velocity = r.Velocity.Add(r.accumulatedForce.Mul(dt))
	r.Position = r.Position.Add(r.Velocity.Mul(dt))
	r.Velocity = r.Velocity.Mul(damping)

	r.ClearForces()
}

func (r *Room) AddForce(force mgl64.Vec3) {
	if r.IsPinned() {
		return
	}

	r.accumulatedForce = r.accumulatedForce.Add(force)
}

func (r *Room) ClearForces() {
	r.accumulatedForce = mgl64.Vec3{0, 0, 0}
}

// Door represents a directional socket on the wall of a room.
// Rooms[0] is the owner, Rooms[1] the connected peer once routed.
type Door struct {
	Transform Transform // local to the owner
	Rooms     [2]*Room
}

func (d *Door) Owner() *Room {
	return d.Rooms[0]
}

func (d *Door) Peer() *Room {
	return d.Rooms[1]
}

func (d *Door) IsOrphan() bool {
	return d.Rooms[1] == nil
}

// Link connects the door to the peer room
func (d *Door) Link(peer *Room) {
	d.Rooms[1] = peer
}

// WorldPosition follows the owner room, doors do not rotate with it
func (d *Door) WorldPosition() mgl64.Vec3 {
	if d.Rooms[0] == nil {
		return d.Transform.Position
	}

	return d.Rooms[0].Position.Add(d.Transform.Position)
}

// Facing returns the unit direction pointing out of the owner room
func (d *Door) Facing() mgl64.Vec3 {
	return d.Transform.Forward()
}

// ExitPoint returns the point at distance in front of the door
func (d *Door) ExitPoint(distance float64) mgl64.Vec3 {
	return d.WorldPosition().Add(d.Facing().Mul(distance))
}

func dominantAxis(v mgl64.Vec3) int {
	axis := 0
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > math.Abs(v[axis]) {
			axis = i
		}
	}

	return axis
}
