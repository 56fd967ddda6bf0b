package labyrinth

import (
	"errors"
	"fmt"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidConfig = errors.New("labyrinth: invalid config")

// RouteMode selects which endpoints the hallways are routed between
type RouteMode uint8

const (
	// RouteConnections routes one hallway per kept connection, between doors facing each other
	RouteConnections RouteMode = iota
	// RouteOrphanDoors pairs the orphan doors of all rooms in order and routes between each pair
	RouteOrphanDoors
)

// Strategy selects how the pathfinder avoids obstacles
type Strategy uint8

const (
	// StrategySweep rejects every step whose swept corridor box overlaps an obstacle
	StrategySweep Strategy = iota
	// StrategyPerimeter follows the sides of the nearest obstacle
	StrategyPerimeter
)

type Config struct {
	// Layout
	MinRooms      int
	MaxRooms      int
	RoomExtentMin mgl64.Vec3
	RoomExtentMax mgl64.Vec3
	// RoomSpacing is the gap left between two neighbouring rooms of the layout
	RoomSpacing float64
	Seed        uint64

	// Hallways
	MaxSlope      float64 // degrees
	HallwayWidth  float64
	HallwayHeight float64
	// StepLength is the corridor module length
	StepLength          float64
	PreventCrossing     bool
	CreateCorners       bool
	RoomConnectors      bool
	RouteMode           RouteMode
	Strategy            Strategy
	ObstacleMargin      float64
	MaxSearchIterations int

	// Relaxation
	Relax              bool
	Gravity            float64
	SpringStiffness    float64
	Damping            float64
	TimeStep           float64
	MaxRelaxIterations int
	// Bounds clamps the room centers during relaxation, ignored when empty
	Bounds actor.AABB

	Workers int
}

func DefaultConfig() Config {
	return Config{
		MinRooms:      8,
		MaxRooms:      16,
		RoomExtentMin: mgl64.Vec3{200, 200, 150},
		RoomExtentMax: mgl64.Vec3{600, 600, 300},
		RoomSpacing:   800,
		Seed:          1,

		MaxSlope:            45,
		HallwayWidth:        200,
		HallwayHeight:       200,
		StepLength:          100,
		PreventCrossing:     true,
		CreateCorners:       true,
		RoomConnectors:      true,
		RouteMode:           RouteConnections,
		Strategy:            StrategySweep,
		ObstacleMargin:      0,
		MaxSearchIterations: 20000,

		Relax:              false,
		Gravity:            1e-9,
		SpringStiffness:    1,
		Damping:            0.9,
		TimeStep:           1.0 / 30.0,
		MaxRelaxIterations: 2000,

		Workers: DEFAULT_WORKERS,
	}
}

// Validate returns an error wrapping ErrInvalidConfig for the first inconsistent field
func (c Config) Validate() error {
	switch {
	case c.MinRooms < 0 || c.MaxRooms < c.MinRooms:
		return fmt.Errorf("%w: room count range [%d, %d]", ErrInvalidConfig, c.MinRooms, c.MaxRooms)
	case !extentRangeValid(c.RoomExtentMin, c.RoomExtentMax):
		return fmt.Errorf("%w: room extent range [%v, %v]", ErrInvalidConfig, c.RoomExtentMin, c.RoomExtentMax)
	case c.RoomSpacing < 0:
		return fmt.Errorf("%w: room spacing %v", ErrInvalidConfig, c.RoomSpacing)
	case c.MaxSlope < 0 || c.MaxSlope >= 90:
		return fmt.Errorf("%w: max slope %v not in [0, 90)", ErrInvalidConfig, c.MaxSlope)
	case c.HallwayWidth <= 0 || c.HallwayHeight <= 0:
		return fmt.Errorf("%w: hallway section %vx%v", ErrInvalidConfig, c.HallwayWidth, c.HallwayHeight)
	case c.StepLength <= 0:
		return fmt.Errorf("%w: step length %v", ErrInvalidConfig, c.StepLength)
	case c.RouteMode > RouteOrphanDoors:
		return fmt.Errorf("%w: route mode %d", ErrInvalidConfig, c.RouteMode)
	case c.Strategy > StrategyPerimeter:
		return fmt.Errorf("%w: strategy %d", ErrInvalidConfig, c.Strategy)
	case c.ObstacleMargin < 0:
		return fmt.Errorf("%w: obstacle margin %v", ErrInvalidConfig, c.ObstacleMargin)
	case c.MaxSearchIterations < 0 || c.MaxRelaxIterations < 0:
		return fmt.Errorf("%w: negative iteration limit", ErrInvalidConfig)
	case c.Damping < 0 || c.Damping > 1:
		return fmt.Errorf("%w: damping %v not in [0, 1]", ErrInvalidConfig, c.Damping)
	case c.TimeStep <= 0:
		return fmt.Errorf("%w: time step %v", ErrInvalidConfig, c.TimeStep)
	case c.Gravity < 0 || c.SpringStiffness < 0:
		return fmt.Errorf("%w: negative force constant", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
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
