// Package spatial provides a uniform hashed grid over axis-aligned boxes, used
// as a broad phase for obstacle and occlusion queries.
package spatial

import (
	"math"
	"sort"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zyedidia/generic/mapset"
)

// maxCellsPerBox caps how many cells a single box may be registered in.
// Bigger boxes go to the overflow list and are tested against every query.
const maxCellsPerBox = 4096

// CellKey - cell coordinates in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - indices of the boxes touching a cell
type Cell struct {
	indices []int
}

// Grid - uniform grid with hashing
type Grid struct {
	cellSize float64
	cells    []Cell
	cellMask int

	boxes    map[int]actor.AABB
	overflow []int
}

// NewGrid creates an empty grid
func NewGrid(cellSize float64, numCells int) *Grid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	if cellSize <= 0 {
		cellSize = 1
	}

	return &Grid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
		boxes:    make(map[int]actor.AABB),
	}
}

// Build creates a grid sized after boxes and inserts every box under its slice index
func Build(boxes []actor.AABB) *Grid {
	cellSize := 0.0
	for _, box := range boxes {
		extent := box.Extent()
		cellSize += 2 * math.Max(extent.X(), math.Max(extent.Y(), extent.Z()))
	}
	if len(boxes) > 0 {
		cellSize /= float64(len(boxes))
	}

	grid := NewGrid(cellSize, len(boxes)*8)
	for i, box := range boxes {
		grid.Insert(i, box)
	}

	return grid
}

// nextPowerOfTwo - rounds up to the next power of two
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - registers a box in every cell it occupies
func (g *Grid) Insert(index int, box actor.AABB) {
	g.boxes[index] = box

	minCell := g.worldToCell(box.Min)
	maxCell := g.worldToCell(box.Max)
	if cellCount(minCell, maxCell) > maxCellsPerBox {
		g.overflow = append(g.overflow, index)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := g.hashCell(CellKey{x, y, z})
				g.cells[cellIdx].indices = append(g.cells[cellIdx].indices, index)
			}
		}
	}
}

func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].indices = g.cells[i].indices[:0]
	}
	g.overflow = g.overflow[:0]
	g.boxes = make(map[int]actor.AABB)
}

// Query returns the sorted indices of the registered boxes overlapping box
// (touching counts as overlapping)
func (g *Grid) Query(box actor.AABB) []int {
	seen := mapset.New[int]()
	var found []int

	test := func(index int) {
		if seen.Has(index) {
			return
		}
		seen.Put(index)
		if g.boxes[index].Overlaps(box) {
			found = append(found, index)
		}
	}

	for _, index := range g.overflow {
		test(index)
	}

	minCell := g.worldToCell(box.Min)
	maxCell := g.worldToCell(box.Max)
	if cellCount(minCell, maxCell) > maxCellsPerBox {
		for index := range g.boxes {
			test(index)
		}
	} else {
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					for _, index := range g.cells[g.hashCell(CellKey{x, y, z})].indices {
						test(index)
					}
				}
			}
		}
	}

	sort.Ints(found)
	return found
}

// QuerySegment returns the sorted indices of the boxes overlapping the bounds of the segment
func (g *Grid) QuerySegment(start, end mgl64.Vec3) []int {
	return g.Query(actor.AABB{
		Min: mgl64.Vec3{math.Min(start.X(), end.X()), math.Min(start.Y(), end.Y()), math.Min(start.Z(), end.Z())},
		Max: mgl64.Vec3{math.Max(start.X(), end.X()), math.Max(start.Y(), end.Y()), math.Max(start.Z(), end.Z())},
	})
}

// worldToCell - converts a world position to cell coordinates
func (g *Grid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / g.cellSize)),
		Y: int(math.Floor(pos.Y() / g.cellSize)),
		Z: int(math.Floor(pos.Z() / g.cellSize)),
	}
}

// hashCell - hashes a cell to an index in the array
func (g *Grid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & g.cellMask
}

func cellCount(lo, hi CellKey) int {
	dx := hi.X - lo.X + 1
	dy := hi.Y - lo.Y + 1
	dz := hi.Z - lo.Z + 1
	if dx > maxCellsPerBox || dy > maxCellsPerBox || dz > maxCellsPerBox {
		return maxCellsPerBox + 1
	}

	return dx * dy * dz
}
