package labyrinth

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/constraint"
)

const (
	// StaticStepsToSettle is the number of consecutive static steps ending a relaxation
	StaticStepsToSettle = 10

	positionEpsilon = 1e-3
	velocityEpsilon = 1e-2
	wakeVelocity    = 1e-2
	sleepTime       = 0.1
)

// Relaxation pushes the unpinned rooms apart and pulls connected rooms
// together, one integration step per Step call
type Relaxation struct {
	dungeon     *Dungeon
	constraints map[*actor.Room][]constraint.Constraint

	iterations  int
	staticSteps int
	settled     bool
}

// NewRelaxation binds a spring on every connection and a repulsion on every pair of unpinned rooms.
// Both use bounding spheres grown by one hallway width.
func (d *Dungeon) NewRelaxation() *Relaxation {
	margin := d.Config.HallwayWidth

	var constraints []constraint.Constraint
	for _, c := range d.Connections {
		constraints = append(constraints, constraint.NewSpringConstraint(c, d.Config.SpringStiffness, margin))
	}
	constraints = append(constraints, constraint.NewRepulsions(d.Rooms, d.Config.Gravity, margin)...)

	return &Relaxation{
		dungeon:     d,
		constraints: constraint.ByRoom(constraints),
	}
}

// Step advances the simulation by one time step and reports whether it has settled
func (r *Relaxation) Step() bool {
	if r.settled {
		return true
	}

	d := r.dungeon
	dt := d.Config.TimeStep

	r.accumulate()

	static := true
	for _, room := range d.Rooms {
		room.Integrate(dt, d.Config.Damping, wakeVelocity)
		constraint.ClampSmallVelocities(room)
		if !d.Config.Bounds.IsEmpty() {
			room.Position = d.Config.Bounds.ClampCenter(room.Position, room.Extent)
		}
		room.TrySleep(dt, sleepTime, velocityEpsilon)

		if room.Position.Sub(room.PreviousPosition).Len() > positionEpsilon || room.Velocity.Len() > velocityEpsilon {
			static = false
		}
	}
	d.Events.processSleepEvents(d.Rooms)

	r.iterations++
	if static {
		r.staticSteps++
	} else {
		r.staticSteps = 0
	}

	if r.staticSteps >= StaticStepsToSettle || (d.Config.MaxRelaxIterations > 0 && r.iterations >= d.Config.MaxRelaxIterations) {
		r.settled = true
		d.Events.emit(RelaxationSettledEvent{Iterations: r.iterations})
		d.logger().Printf("[RELAX] settled after %d steps", r.iterations)
	}
	d.Events.flush()

	return r.settled
}

// accumulate adds to each room the forces of its constraints.
// Each room only writes its own force, positions are read-only here.
func (r *Relaxation) accumulate() {
	task(r.dungeon.workers(), r.dungeon.Rooms, func(room *actor.Room) {
		room.AddForce(constraint.Accumulate(room, r.constraints[room]))
	})
}

func (r *Relaxation) Iterations() int {
	return r.iterations
}

func (r *Relaxation) Settled() bool {
	return r.settled
}
