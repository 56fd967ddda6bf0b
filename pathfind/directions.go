package pathfind

import (
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	up       = mgl64.Vec3{0, 0, 1}
	axisDirs = [4]mgl64.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}
)

// Directions returns the four horizontal axis directions followed by the
// diagonals allowed for a route heading along expected: each axis direction
// tilted up and down by the slope of expected, clamped to maxSlope degrees.
func Directions(expected mgl64.Vec3, maxSlope float64) []mgl64.Vec3 {
	directions := make([]mgl64.Vec3, 0, 12)
	directions = append(directions, axisDirs[:]...)

	if expected.Len() < actor.Epsilon {
		return directions
	}
	expected = expected.Normalize()

	angle := math.Pi / 2
	if horizontal := (mgl64.Vec3{expected.X(), expected.Y(), 0}); horizontal.Len() >= actor.Epsilon {
		angle = math.Acos(mgl64.Clamp(expected.Dot(horizontal.Normalize()), -1, 1))
	}
	angle = math.Min(angle, mgl64.DegToRad(maxSlope))
	if angle < actor.Epsilon {
		return directions
	}

	for _, axis := range axisDirs {
		perpendicular := up.Cross(axis)
		for _, sign := range [2]float64{1, -1} {
			tilted := mgl64.QuatRotate(sign*angle, perpendicular).Rotate(axis)
			if !containsDirection(directions, tilted) {
				directions = append(directions, tilted)
			}
		}
	}

	return directions
}

func containsDirection(directions []mgl64.Vec3, d mgl64.Vec3) bool {
	for _, other := range directions {
		if other.ApproxEqualThreshold(d, 1e-9) {
			return true
		}
	}

	return false
}

func isReversal(a, b mgl64.Vec3) bool {
	if a.Len() < actor.Epsilon || b.Len() < actor.Epsilon {
		return false
	}

	return a.Normalize().Add(b.Normalize()).Len() < 1e-9
}
