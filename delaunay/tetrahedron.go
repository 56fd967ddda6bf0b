package delaunay

import (
	"errors"
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateTolerance is the smallest accepted ratio between the orientation
// determinant of a tetrahedron and the product of the edge lengths around its
// first vertex. Flatter tetrahedra are rejected.
const DegenerateTolerance = 1e-12

var ErrDegenerateTetrahedron = errors.New("delaunay: degenerate tetrahedron")

// Vertex is a triangulation site: a room and the point standing for it
type Vertex struct {
	Index int
	Room  *actor.Room
	Site  mgl64.Vec3
}

func (v Vertex) IsDummy() bool {
	return v.Room.Type == actor.RoomTypeDummy
}

// Tetrahedron is four vertices with their circumsphere
type Tetrahedron struct {
	Vertices  [4]Vertex
	Center    mgl64.Vec3
	RadiusSqr float64
}

// NewTetrahedron computes the circumsphere of a, b, c, d from the 4x4
// determinant formulas. Coordinates are taken relative to a.
func NewTetrahedron(a, b, c, d Vertex) (*Tetrahedron, error) {
	p1 := b.Site.Sub(a.Site)
	p2 := c.Site.Sub(a.Site)
	p3 := d.Site.Sub(a.Site)

	// the first row is the origin itself
	row := func(x, y, z, w float64) mgl64.Vec4 { return mgl64.Vec4{x, y, z, w} }
	sq1, sq2, sq3 := p1.LenSqr(), p2.LenSqr(), p3.LenSqr()

	det := mgl64.Mat4FromRows(
		row(0, 0, 0, 1),
		row(p1.X(), p1.Y(), p1.Z(), 1),
		row(p2.X(), p2.Y(), p2.Z(), 1),
		row(p3.X(), p3.Y(), p3.Z(), 1),
	).Det()

	scale := math.Sqrt(sq1) * math.Sqrt(sq2) * math.Sqrt(sq3)
	if scale == 0 || math.Abs(det) <= DegenerateTolerance*scale {
		return nil, ErrDegenerateTetrahedron
	}

	dx := mgl64.Mat4FromRows(
		row(0, 0, 0, 1),
		row(sq1, p1.Y(), p1.Z(), 1),
		row(sq2, p2.Y(), p2.Z(), 1),
		row(sq3, p3.Y(), p3.Z(), 1),
	).Det()
	dy := -mgl64.Mat4FromRows(
		row(0, 0, 0, 1),
		row(sq1, p1.X(), p1.Z(), 1),
		row(sq2, p2.X(), p2.Z(), 1),
		row(sq3, p3.X(), p3.Z(), 1),
	).Det()
	dz := mgl64.Mat4FromRows(
		row(0, 0, 0, 1),
		row(sq1, p1.X(), p1.Y(), 1),
		row(sq2, p2.X(), p2.Y(), 1),
		row(sq3, p3.X(), p3.Y(), 1),
	).Det()

	center := mgl64.Vec3{dx, dy, dz}.Mul(1.0 / (2 * det))
	if math.IsNaN(center.LenSqr()) || math.IsInf(center.LenSqr(), 0) {
		return nil, ErrDegenerateTetrahedron
	}

	return &Tetrahedron{
		Vertices:  [4]Vertex{a, b, c, d},
		Center:    center.Add(a.Site),
		RadiusSqr: center.LenSqr(),
	}, nil
}

// CircumsphereContains reports whether point lies inside or on the circumsphere
func (t *Tetrahedron) CircumsphereContains(point mgl64.Vec3) bool {
	return point.Sub(t.Center).LenSqr() <= t.RadiusSqr
}

// Faces returns the four triangular faces, each opposite one vertex
func (t *Tetrahedron) Faces() [4]Face {
	v := t.Vertices
	return [4]Face{
		newFace(v[1], v[2], v[3]),
		newFace(v[0], v[2], v[3]),
		newFace(v[0], v[1], v[3]),
		newFace(v[0], v[1], v[2]),
	}
}

// Edges returns the six edges
func (t *Tetrahedron) Edges() [6][2]Vertex {
	v := t.Vertices
	return [6][2]Vertex{
		{v[0], v[1]}, {v[0], v[2]}, {v[0], v[3]},
		{v[1], v[2]}, {v[1], v[3]}, {v[2], v[3]},
	}
}

// Face is a triangle of the triangulation
type Face struct {
	Vertices [3]Vertex
}

// FaceKey identifies a face independently of its vertex order
type FaceKey [3]int

func newFace(a, b, c Vertex) Face {
	return Face{Vertices: [3]Vertex{a, b, c}}
}

// Key returns the sorted vertex indices
func (f Face) Key() FaceKey {
	k := FaceKey{f.Vertices[0].Index, f.Vertices[1].Index, f.Vertices[2].Index}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}

	return k
}
