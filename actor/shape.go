package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box represents an oriented box
// The box is defined by its half-extents (half-length, half-width, half-height)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	minCorner := transform.Apply(corners[0])
	maxCorner := minCorner

	for i := 1; i < 8; i++ {
		worldCorner := transform.Apply(corners[i])

		minCorner[0] = math.Min(minCorner[0], worldCorner[0])
		minCorner[1] = math.Min(minCorner[1], worldCorner[1])
		minCorner[2] = math.Min(minCorner[2], worldCorner[2])

		maxCorner[0] = math.Max(maxCorner[0], worldCorner[0])
		maxCorner[1] = math.Max(maxCorner[1], worldCorner[1])
		maxCorner[2] = math.Max(maxCorner[2], worldCorner[2])
	}

	b.aabb = AABB{Min: minCorner, Max: maxCorner}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// NewSegmentBox builds the oriented box swept by a corridor of the given
// cross-section running from start to end, with its transform.
// The local X axis runs along the segment, Z stays as close to world up as possible.
func NewSegmentBox(start, end mgl64.Vec3, width, height float64) (Box, Transform) {
	dir := end.Sub(start)
	length := dir.Len()
	center := start.Add(end).Mul(0.5)

	transform := NewTransform()
	transform.Position = center
	if length > Epsilon {
		forward := dir.Mul(1.0 / length)
		side := mgl64.Vec3{0, 0, 1}.Cross(forward)
		if side.Len() < Epsilon {
			// vertical segment: any horizontal side works
			side = mgl64.Vec3{0, 1, 0}
		}
		side = side.Normalize()
		up := forward.Cross(side)
		transform.Rotation = mgl64.Mat4ToQuat(mgl64.Mat4{
			forward[0], forward[1], forward[2], 0,
			side[0], side[1], side[2], 0,
			up[0], up[1], up[2], 0,
			0, 0, 0, 1,
		})
	}

	box := Box{HalfExtents: mgl64.Vec3{length * 0.5, width * 0.5, height * 0.5}}
	box.ComputeAABB(transform)

	return box, transform
}

// Sphere represents a sphere
type Sphere struct {
	Radius float64
	aabb   AABB
}

func (s *Sphere) ComputeAABB(transform Transform) {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}
	s.aabb = AABB{
		Min: transform.Position.Sub(r),
		Max: transform.Position.Add(r),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// Volume = 4/3 * π * r³
func (s *Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * s.Radius * s.Radius * s.Radius
}
