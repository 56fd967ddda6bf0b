package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 3D space
// The local +X axis is the facing direction
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransformFacing creates a transform at position whose +X axis points along facing
func NewTransformFacing(position mgl64.Vec3, facing mgl64.Vec3) Transform {
	if facing.Len() < Epsilon {
		return Transform{Position: position, Rotation: mgl64.QuatIdent()}
	}

	return Transform{
		Position: position,
		Rotation: mgl64.QuatBetweenVectors(mgl64.Vec3{1, 0, 0}, facing.Normalize()),
	}
}

// Forward returns the unit facing direction
func (t Transform) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
}

// Apply maps a local point to world space
func (t Transform) Apply(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}
