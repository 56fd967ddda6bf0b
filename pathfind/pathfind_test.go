package pathfind

import (
	"errors"
	"math"
	"testing"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func routeLength(route []mgl64.Vec3) float64 {
	length := 0.0
	for i := 1; i < len(route); i++ {
		length += route[i].Sub(route[i-1]).Len()
	}

	return length
}

func testConfig() Config {
	config := DefaultConfig()
	config.StepLength = 100
	config.Width = 200
	config.Height = 200
	config.MaxSlope = 45

	return config
}

// =============================================================================
// Directions Tests
// =============================================================================

func TestDirections(t *testing.T) {
	tests := []struct {
		name     string
		expected mgl64.Vec3
		maxSlope float64
		count    int
		slope    float64 // expected tilt of the diagonals, degrees
	}{
		{"horizontal route", mgl64.Vec3{600, 0, 0}, 45, 4, 0},
		{"zero route", mgl64.Vec3{}, 45, 4, 0},
		{"gentle climb", mgl64.Vec3{400, 0, 400 * math.Tan(mgl64.DegToRad(20))}, 45, 12, 20},
		{"steep climb clamped", mgl64.Vec3{100, 0, 1000}, 30, 12, 30},
		{"vertical route clamped", mgl64.Vec3{0, 0, -500}, 45, 12, 45},
		{"flat slope limit", mgl64.Vec3{100, 0, 100}, 0, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directions := Directions(tt.expected, tt.maxSlope)
			if len(directions) != tt.count {
				t.Fatalf("len(directions) = %d, want %d", len(directions), tt.count)
			}

			for i, d := range directions {
				if math.Abs(d.Len()-1) > 1e-9 {
					t.Errorf("direction %v is not unit", d)
				}
				if i < 4 {
					if d.Z() != 0 {
						t.Errorf("axis direction %v should be horizontal", d)
					}
					continue
				}
				tilt := mgl64.RadToDeg(math.Asin(math.Abs(d.Z())))
				if math.Abs(tilt-tt.slope) > 1e-6 {
					t.Errorf("diagonal %v tilt = %v°, want %v°", d, tilt, tt.slope)
				}
			}
		})
	}
}

func TestIsReversal(t *testing.T) {
	if !isReversal(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{-1, 0, 0}) {
		t.Error("opposite directions should be a reversal")
	}
	if isReversal(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}) {
		t.Error("perpendicular directions are not a reversal")
	}
	if isReversal(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}) {
		t.Error("the root has no direction to reverse")
	}
}

// =============================================================================
// Search Tests
// =============================================================================

func TestSearchStraightCorridorBetweenRooms(t *testing.T) {
	obstacles := NewObstacles([]actor.AABB{
		actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{200, 200, 200}),
		actor.NewAABB(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{200, 200, 200}),
	})

	search := NewSearch(testConfig(), NewHallwayStrategy(obstacles))
	search.Initialize(mgl64.Vec3{200, 0, 0}, mgl64.Vec3{800, 0, 0})

	route, err := search.Run()
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(route) != 2 {
		t.Fatalf("route = %v, want a single segment", route)
	}
	if !route[0].ApproxEqualThreshold(mgl64.Vec3{200, 0, 0}, 1e-9) || !route[1].ApproxEqualThreshold(mgl64.Vec3{800, 0, 0}, 1e-9) {
		t.Errorf("route = %v, want (200,0,0) → (800,0,0)", route)
	}
}

func TestSearchPathLengthCloseToStraightLine(t *testing.T) {
	tests := []struct {
		name  string
		start mgl64.Vec3
		end   mgl64.Vec3
	}{
		{"along X", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{450, 0, 0}},
		{"along -Y", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, -320, 0}},
		{"slightly off axis", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{400, 60, 0}},
		{"climbing", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{500, 0, 125}},
		{"descending", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 300, -100}},
	}

	for _, tt := range tests {
		for _, strategy := range []Strategy{NewHallwayStrategy(NewObstacles(nil)), NewPerimeterStrategy(NewObstacles(nil))} {
			t.Run(tt.name, func(t *testing.T) {
				config := testConfig()
				search := NewSearch(config, strategy)
				search.Initialize(tt.start, tt.end)

				route, err := search.Run()
				if err != nil {
					t.Fatalf("Run returned %v", err)
				}
				if !route[0].ApproxEqual(tt.start) || !route[len(route)-1].ApproxEqualThreshold(tt.end, 1e-9) {
					t.Fatalf("route %v does not join %v to %v", route, tt.start, tt.end)
				}

				straight := tt.end.Sub(tt.start).Len()
				if got := routeLength(route); got > straight+config.StepLength {
					t.Errorf("route length = %v, straight line = %v, step = %v", got, straight, config.StepLength)
				}
			})
		}
	}
}

func wallObstacles() *Obstacles {
	return NewObstacles([]actor.AABB{
		actor.NewAABB(mgl64.Vec3{500, 0, 0}, mgl64.Vec3{50, 400, 400}),
	})
}

func checkNoBacktrack(t *testing.T, route []mgl64.Vec3) {
	t.Helper()
	for i := 2; i < len(route); i++ {
		previous := route[i-1].Sub(route[i-2])
		next := route[i].Sub(route[i-1])
		if isReversal(previous, next) {
			t.Errorf("route reverses at waypoint %d: %v", i-1, route)
		}
	}
}

func TestSearchAroundWall(t *testing.T) {
	config := testConfig()
	config.Width = 100
	config.Height = 100
	obstacles := wallObstacles()

	search := NewSearch(config, NewHallwayStrategy(obstacles))
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1000, 0, 0})

	route, err := search.Run()
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if !route[len(route)-1].ApproxEqualThreshold(mgl64.Vec3{1000, 0, 0}, 1e-9) {
		t.Errorf("route ends at %v", route[len(route)-1])
	}

	checkNoBacktrack(t, route)
	for i := 1; i < len(route); i++ {
		if !obstacles.SweepClear(route[i-1], route[i], config.Width, config.Height) {
			t.Errorf("segment %v → %v runs through the wall", route[i-1], route[i])
		}
	}
}

func TestPerimeterSearchAroundWall(t *testing.T) {
	config := testConfig()
	config.Width = 100
	config.Height = 100
	obstacles := wallObstacles()

	search := NewSearch(config, NewPerimeterStrategy(obstacles))
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1000, 0, 0})

	route, err := search.Run()
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}

	checkNoBacktrack(t, route)
	for i := 1; i < len(route); i++ {
		if obstacles.Crosses(route[i-1], route[i]) {
			t.Errorf("segment %v → %v crosses the wall", route[i-1], route[i])
		}
	}
}

func TestPerimeterExpandLeavesObstacle(t *testing.T) {
	config := testConfig()
	obstacles := NewObstacles([]actor.AABB{actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{500, 500, 500})})
	strategy := NewPerimeterStrategy(obstacles)

	search := NewSearch(config, strategy)
	search.Initialize(mgl64.Vec3{300, 0, 0}, mgl64.Vec3{2000, 0, 0})

	candidates := strategy.Expand(search, 0)
	if len(candidates) == 0 {
		t.Fatal("a location inside an obstacle should still offer moves")
	}
	for _, c := range candidates {
		if c.X() < 300 {
			t.Errorf("candidate %v moves deeper into the obstacle", c)
		}
	}
}

func TestSearchExhaustedWhenBoxedIn(t *testing.T) {
	obstacles := NewObstacles([]actor.AABB{
		{Min: mgl64.Vec3{60, -300, -300}, Max: mgl64.Vec3{300, 300, 300}},
		{Min: mgl64.Vec3{-300, -300, -300}, Max: mgl64.Vec3{-60, 300, 300}},
		{Min: mgl64.Vec3{-300, 60, -300}, Max: mgl64.Vec3{300, 300, 300}},
		{Min: mgl64.Vec3{-300, -300, -300}, Max: mgl64.Vec3{300, -60, 300}},
	})

	search := NewSearch(testConfig(), NewHallwayStrategy(obstacles))
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2000, 0, 0})

	route, err := search.Run()
	if !errors.Is(err, ErrRouteExhausted) {
		t.Fatalf("err = %v, want ErrRouteExhausted", err)
	}
	if route != nil {
		t.Errorf("route = %v, want nil", route)
	}
}

func TestSearchExhaustedAfterMaxIterations(t *testing.T) {
	config := testConfig()
	config.MaxIterations = 50
	// the end sits inside an obstacle, no leg can ever reach it
	obstacles := NewObstacles([]actor.AABB{actor.NewAABB(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{300, 300, 300})})

	search := NewSearch(config, NewHallwayStrategy(obstacles))
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1000, 0, 0})

	if _, err := search.Run(); !errors.Is(err, ErrRouteExhausted) {
		t.Fatalf("err = %v, want ErrRouteExhausted", err)
	}
	if search.Iterations() != config.MaxIterations {
		t.Errorf("Iterations = %d, want %d", search.Iterations(), config.MaxIterations)
	}
}

func TestSearchResumable(t *testing.T) {
	search := NewSearch(testConfig(), NewHallwayStrategy(NewObstacles(nil)))

	if _, err := search.Result(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Result before Initialize = %v, want ErrNotInitialized", err)
	}
	if _, err := search.Run(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Run before Initialize = %v, want ErrNotInitialized", err)
	}

	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1000, 0, 0})
	if search.Evaluate() {
		t.Fatal("the first evaluation only expands the start")
	}
	if search.Done() {
		t.Fatal("search should still be running")
	}
	for !search.Evaluate() {
	}
	if !search.Done() {
		t.Fatal("search should be done")
	}
	if !search.Evaluate() {
		t.Error("Evaluate after the end should keep reporting done")
	}

	route, err := search.Result()
	if err != nil {
		t.Fatalf("Result returned %v", err)
	}
	if len(route) != 2 {
		t.Errorf("route = %v, want a single segment", route)
	}

	// reinitialising starts over
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 500, 0})
	if search.Done() || search.Iterations() != 0 {
		t.Error("Initialize should reset the search")
	}
	route, err = search.Run()
	if err != nil || !route[len(route)-1].ApproxEqualThreshold(mgl64.Vec3{0, 500, 0}, 1e-9) {
		t.Errorf("second route = %v, %v", route, err)
	}
}

func TestSearchRouteReplay(t *testing.T) {
	search := NewSearch(testConfig(), NewHallwayStrategy(NewObstacles(nil)))
	search.Initialize(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0})

	route, err := search.Run()
	if err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if len(route) != 1 {
		t.Errorf("route = %v, want the start only", route)
	}
	if got := search.Route(-1); len(got) != 0 {
		t.Errorf("Route(-1) = %v, want empty", got)
	}
	if got := search.Route(0); len(got) != 1 || !got[0].ApproxEqual(mgl64.Vec3{}) {
		t.Errorf("Route(0) = %v", got)
	}
}

// =============================================================================
// Obstacles Tests
// =============================================================================

func TestObstaclesSweepClear(t *testing.T) {
	obstacles := NewObstacles([]actor.AABB{actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{200, 200, 200})})

	tests := []struct {
		name  string
		from  mgl64.Vec3
		to    mgl64.Vec3
		clear bool
	}{
		{"leaving through the door wall", mgl64.Vec3{200, 0, 0}, mgl64.Vec3{300, 0, 0}, true},
		{"entering the room", mgl64.Vec3{200, 0, 0}, mgl64.Vec3{100, 0, 0}, false},
		{"sliding along the wall", mgl64.Vec3{200, 0, 0}, mgl64.Vec3{200, 100, 0}, false},
		{"far away", mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{1000, 100, 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := obstacles.SweepClear(tt.from, tt.to, 200, 200); got != tt.clear {
				t.Errorf("SweepClear = %v, want %v", got, tt.clear)
			}
		})
	}
}

func TestObstaclesCrossesAndNearest(t *testing.T) {
	near := actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{100, 100, 100})
	far := actor.NewAABB(mgl64.Vec3{5000, 0, 0}, mgl64.Vec3{100, 100, 100})
	obstacles := NewObstacles([]actor.AABB{far, near})

	if !obstacles.Crosses(mgl64.Vec3{-500, 0, 0}, mgl64.Vec3{500, 0, 0}) {
		t.Error("segment through the box should cross it")
	}
	if obstacles.Crosses(mgl64.Vec3{-500, 100, 0}, mgl64.Vec3{500, 100, 0}) {
		t.Error("segment along a face should not cross")
	}

	got, ok := obstacles.Nearest(mgl64.Vec3{300, 0, 0})
	if !ok || got != near {
		t.Errorf("Nearest = %v, want the near box", got)
	}
	if _, ok := NewObstacles(nil).Nearest(mgl64.Vec3{}); ok {
		t.Error("Nearest on an empty set should report false")
	}
}

func TestObstaclesReset(t *testing.T) {
	obstacles := NewObstacles([]actor.AABB{actor.NewAABB(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{200, 200, 200})})
	if obstacles.SweepClear(mgl64.Vec3{-300, 0, 0}, mgl64.Vec3{300, 0, 0}, 100, 100) {
		t.Fatal("sweep through the first box should be blocked")
	}

	obstacles.Reset([]actor.AABB{actor.NewAABB(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{200, 200, 200})})

	if !obstacles.SweepClear(mgl64.Vec3{-300, 0, 0}, mgl64.Vec3{300, 0, 0}, 100, 100) {
		t.Error("the first box should be gone after Reset")
	}
	if obstacles.SweepClear(mgl64.Vec3{700, 0, 0}, mgl64.Vec3{1300, 0, 0}, 100, 100) {
		t.Error("sweep through the new box should be blocked")
	}
}
