// Package delaunay builds the candidate connectivity graph of a dungeon from
// a 3D Delaunay triangulation of the room centers (incremental Bowyer-Watson).
package delaunay

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zyedidia/generic/mapset"
)

const (
	// PerturbationScale is the magnitude of the deterministic jitter applied to
	// every site, relative to the span of the layout. It keeps exactly coplanar
	// or colinear layouts away from degenerate tetrahedra.
	PerturbationScale = 1e-6

	// superScale sizes the super tetrahedron relative to the enclosing cube
	superScale = 5.0
)

var ErrNotEnoughRooms = errors.New("delaunay: at least two rooms are required")

// Triangulation is the result of Triangulate
type Triangulation struct {
	Vertices   []Vertex
	Tetrahedra []*Tetrahedron
	// Skipped counts the degenerate tetrahedra dropped during insertion
	Skipped int
}

// Triangulate inserts every room center into a super tetrahedron made of four
// dummy rooms, keeping the tetrahedra whose circumsphere contains no other site.
// The dummy tetrahedra are kept in the result.
func Triangulate(rooms []*actor.Room) (*Triangulation, error) {
	if len(rooms) < 2 {
		return nil, ErrNotEnoughRooms
	}

	box := bounds(rooms)
	size := box.Max.Sub(box.Min)
	span := math.Max(size.X(), math.Max(size.Y(), size.Z()))
	if span <= 0 {
		span = 1
	}

	vertices := make([]Vertex, 0, len(rooms)+4)
	for i, room := range rooms {
		vertices = append(vertices, Vertex{
			Index: i,
			Room:  room,
			Site:  room.Position.Add(perturbation(i).Mul(span * PerturbationScale)),
		})
	}

	super, err := superTetrahedron(box.Center(), span, len(rooms))
	if err != nil {
		return nil, fmt.Errorf("super tetrahedron: %w", err)
	}
	for _, v := range super.Vertices {
		vertices = append(vertices, v)
	}

	result := &Triangulation{
		Vertices:   vertices,
		Tetrahedra: []*Tetrahedron{super},
	}
	for _, v := range vertices[:len(rooms)] {
		result.insert(v)
	}

	return result, nil
}

// insert adds one site: the tetrahedra whose circumsphere contains it are
// removed and the boundary faces of the cavity are connected to the site.
func (tr *Triangulation) insert(v Vertex) {
	faceCount := make(map[FaceKey]int)
	faces := make(map[FaceKey]Face)
	var order []FaceKey

	kept := tr.Tetrahedra[:0]
	for _, tetra := range tr.Tetrahedra {
		if !tetra.CircumsphereContains(v.Site) {
			kept = append(kept, tetra)
			continue
		}

		for _, face := range tetra.Faces() {
			key := face.Key()
			if _, ok := faces[key]; !ok {
				faces[key] = face
				order = append(order, key)
			}
			faceCount[key]++
		}
	}

	for _, key := range order {
		if faceCount[key] != 1 {
			continue
		}

		f := faces[key].Vertices
		tetra, err := NewTetrahedron(f[0], f[1], f[2], v)
		if err != nil {
			tr.Skipped++
			continue
		}
		kept = append(kept, tetra)
	}

	tr.Tetrahedra = kept
}

// Edges enumerates the unique edges between two rooms, skipping dummy vertices
func (tr *Triangulation) Edges() []*actor.Connection {
	seen := mapset.New[[2]int]()
	var edges []*actor.Connection

	for _, tetra := range tr.Tetrahedra {
		for _, edge := range tetra.Edges() {
			a, b := edge[0], edge[1]
			if a.IsDummy() || b.IsDummy() {
				continue
			}
			key := [2]int{a.Index, b.Index}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if seen.Has(key) {
				continue
			}
			seen.Put(key)
			edges = append(edges, actor.NewConnection(a.Room, b.Room))
		}
	}

	return edges
}

// bounds returns the box enclosing the room centers
func bounds(rooms []*actor.Room) actor.AABB {
	box := actor.NewAABB(rooms[0].Position, mgl64.Vec3{})
	for _, room := range rooms[1:] {
		box = box.Union(actor.NewAABB(room.Position, mgl64.Vec3{}))
	}

	return box
}

// superTetrahedron encloses the cube centered on the layout whose half-size is
// the half span extended by twice the span. The regular tetrahedron inscribed
// in a cube of half-size k has an insphere of radius k/√3.
func superTetrahedron(center mgl64.Vec3, span float64, firstIndex int) (*Tetrahedron, error) {
	k := superScale * (span*0.5 + 2*span)

	corners := [4]mgl64.Vec3{{1, 1, 1}, {1, -1, -1}, {-1, 1, -1}, {-1, -1, 1}}
	var v [4]Vertex
	for i, corner := range corners {
		site := center.Add(corner.Mul(k))
		room := actor.NewRoom(-1-i, site, mgl64.Vec3{})
		room.Type = actor.RoomTypeDummy
		v[i] = Vertex{Index: firstIndex + i, Room: room, Site: site}
	}

	return NewTetrahedron(v[0], v[1], v[2], v[3])
}

// perturbation returns a deterministic offset in [-0.5, 0.5)³ for a site index
func perturbation(i int) mgl64.Vec3 {
	n := float64(i + 1)
	frac := func(x float64) float64 { return x - math.Floor(x) - 0.5 }

	return mgl64.Vec3{
		frac(n * 0.6180339887498949),
		frac(n * 0.41421356237309503),
		frac(n * 0.7320508075688772),
	}
}
