package spatial

import (
	"reflect"
	"testing"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestWorldToCell(t *testing.T) {
	grid := NewGrid(1.0, 16)

	tests := []struct {
		name     string
		position mgl64.Vec3
		expected CellKey
	}{
		{"origin", mgl64.Vec3{0, 0, 0}, CellKey{0, 0, 0}},
		{"positive", mgl64.Vec3{1.5, 2.3, 3.7}, CellKey{1, 2, 3}},
		{"negative", mgl64.Vec3{-1.5, -2.3, -3.7}, CellKey{-2, -3, -4}},
		{"large", mgl64.Vec3{100.7, -200.3, 50.1}, CellKey{100, -201, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := grid.worldToCell(tt.position)
			if result != tt.expected {
				t.Errorf("worldToCell(%v) = %v, want %v", tt.position, result, tt.expected)
			}
		})
	}
}

func TestHashCellInRange(t *testing.T) {
	grid := NewGrid(1.0, 16)

	for _, key := range []CellKey{{0, 0, 0}, {1, 2, 3}, {-1, -2, -3}, {100, 200, 300}, {-7000, 5, 12}} {
		result := grid.hashCell(key)
		if result < 0 || result >= len(grid.cells) {
			t.Errorf("hashCell(%v) = %d, out of range [0, %d)", key, result, len(grid.cells))
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		in, out int
	}{
		{0, 1}, {1, 1}, {3, 4}, {16, 16}, {17, 32},
	}

	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.out {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.out)
		}
	}
}

func TestGridQuery(t *testing.T) {
	boxes := []actor.AABB{
		actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{200, 200, 200}),
		actor.NewAABB(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{200, 200, 200}),
		actor.NewAABB(mgl64.Vec3{2000, 0, 0}, mgl64.Vec3{200, 200, 200}),
		actor.NewAABB(mgl64.Vec3{0, 3000, 0}, mgl64.Vec3{50, 50, 50}),
	}
	grid := Build(boxes)

	tests := []struct {
		name     string
		query    actor.AABB
		expected []int
	}{
		{"nothing around", actor.NewAABB(mgl64.Vec3{500, 1500, 0}, mgl64.Vec3{10, 10, 10}), nil},
		{"single box", actor.NewAABB(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{10, 10, 10}), []int{1}},
		{"spanning two boxes", actor.NewAABB(mgl64.Vec3{500, 0, 0}, mgl64.Vec3{400, 10, 10}), []int{0, 1}},
		{"touching face", actor.NewAABB(mgl64.Vec3{250, 0, 0}, mgl64.Vec3{50, 10, 10}), []int{0}},
		{"everything", actor.NewAABB(mgl64.Vec3{1000, 1500, 0}, mgl64.Vec3{1500, 1600, 300}), []int{0, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grid.Query(tt.query)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Query = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGridQuerySegment(t *testing.T) {
	boxes := []actor.AABB{
		actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
		actor.NewAABB(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 1, 1}),
		actor.NewAABB(mgl64.Vec3{5, 10, 0}, mgl64.Vec3{1, 1, 1}),
	}
	grid := Build(boxes)

	got := grid.QuerySegment(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{-10, 0, 0})
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("QuerySegment = %v, want [0 1]", got)
	}
}

func TestGridLargeBoxOverflow(t *testing.T) {
	grid := NewGrid(1.0, 16)
	grid.Insert(0, actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{100, 100, 100}))
	grid.Insert(1, actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0.4, 0.4, 0.4}))

	if len(grid.overflow) != 1 || grid.overflow[0] != 0 {
		t.Fatalf("overflow = %v, want [0]", grid.overflow)
	}

	got := grid.Query(actor.NewAABB(mgl64.Vec3{90, 90, 90}, mgl64.Vec3{1, 1, 1}))
	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Query = %v, want [0]", got)
	}
	got = grid.Query(actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{500, 500, 500}))
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Query = %v, want [0 1]", got)
	}
}

func TestGridClear(t *testing.T) {
	grid := Build([]actor.AABB{actor.NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})})
	if got := grid.Query(actor.NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})); len(got) != 1 {
		t.Fatalf("Query before Clear = %v, want [0]", got)
	}

	grid.Clear()
	if len(grid.boxes) != 0 || len(grid.overflow) != 0 {
		t.Errorf("boxes = %d, overflow = %d after Clear, want 0", len(grid.boxes), len(grid.overflow))
	}
	if got := grid.Query(actor.NewAABB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1})); len(got) != 0 {
		t.Errorf("Query after Clear = %v, want empty", got)
	}
	for _, cell := range grid.cells {
		if len(cell.indices) > 0 {
			t.Fatal("cells should be empty after Clear")
		}
	}
}
