package layout

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"inverted room count", func(c *Config) { c.MinRooms, c.MaxRooms = 5, 2 }, false},
		{"inverted extent", func(c *Config) { c.ExtentMin, c.ExtentMax = c.ExtentMax, c.ExtentMin }, false},
		{"flat extent", func(c *Config) { c.ExtentMin[2] = 0 }, false},
		{"too many doors", func(c *Config) { c.MaxDoors = 5 }, false},
		{"no door", func(c *Config) { c.MinDoors = 0 }, false},
		{"negative spacing", func(c *Config) { c.Spacing = -1 }, false},
		{"no attempt", func(c *Config) { c.MaxAttempts = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			err := config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.MaxRooms = -1

	rooms, err := Generate(config, rand.New(rand.NewPCG(1, 2)))
	if !errors.Is(err, ErrInvalidConfig) || rooms != nil {
		t.Errorf("Generate() = %d rooms, %v, want ErrInvalidConfig", len(rooms), err)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	config := DefaultConfig()

	for _, seed := range []uint64{1, 7, 42} {
		first, err := Generate(config, rand.New(rand.NewPCG(seed, seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		second, _ := Generate(config, rand.New(rand.NewPCG(seed, seed)))

		if len(first) != len(second) {
			t.Fatalf("seed %d: %d rooms then %d", seed, len(first), len(second))
		}
		for i := range first {
			if first[i].Position != second[i].Position || first[i].Extent != second[i].Extent {
				t.Errorf("seed %d room %d differs: %v/%v vs %v/%v", seed, i,
					first[i].Position, first[i].Extent, second[i].Position, second[i].Extent)
			}
			if len(first[i].Doors) != len(second[i].Doors) {
				t.Errorf("seed %d room %d door count differs", seed, i)
			}
		}
	}
}

func TestGenerateLayout(t *testing.T) {
	config := DefaultConfig()
	rooms, err := Generate(config, rand.New(rand.NewPCG(3, 5)))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(rooms) < 1 || len(rooms) > config.MaxRooms {
		t.Fatalf("len(rooms) = %d, want in [1, %d]", len(rooms), config.MaxRooms)
	}

	t.Run("rooms do not overlap", func(t *testing.T) {
		for i, a := range rooms {
			for _, b := range rooms[i+1:] {
				if a.AABB().OverlapsStrict(b.AABB()) {
					t.Errorf("rooms %d and %d overlap", a.ID, b.ID)
				}
			}
		}
	})

	t.Run("extents within range", func(t *testing.T) {
		for _, room := range rooms {
			for i := 0; i < 3; i++ {
				if room.Extent[i] < config.ExtentMin[i] || room.Extent[i] > config.ExtentMax[i] {
					t.Errorf("room %d extent %v out of range", room.ID, room.Extent)
				}
			}
		}
	})

	t.Run("doors on distinct horizontal walls", func(t *testing.T) {
		for _, room := range rooms {
			if len(room.Doors) < config.MinDoors || len(room.Doors) > config.MaxDoors {
				t.Errorf("room %d has %d doors", room.ID, len(room.Doors))
			}
			seen := make(map[int]bool)
			for _, door := range room.Doors {
				facing := door.Facing()
				if math.Abs(facing.Z()) > 1e-9 {
					t.Errorf("room %d door facing %v is not horizontal", room.ID, facing)
				}
				wall := wallIndex(facing)
				if wall < 0 || seen[wall] {
					t.Errorf("room %d has two doors on wall %d", room.ID, wall)
				}
				seen[wall] = true

				if !room.AABB().ContainsPoint(door.WorldPosition()) || room.AABB().ContainsPointStrict(door.WorldPosition()) {
					t.Errorf("room %d door %v is not on a wall", room.ID, door.WorldPosition())
				}
				if !door.IsOrphan() || door.Owner() != room {
					t.Errorf("room %d door should be an orphan owned by the room", room.ID)
				}
			}
		}
	})

	t.Run("every attached room faces a door across the gap", func(t *testing.T) {
		for _, room := range rooms[1:] {
			if !facesEarlierDoor(rooms, room, config) {
				t.Errorf("room %d has no door facing an earlier room", room.ID)
			}
		}
	})
}

func facesEarlierDoor(rooms []*actor.Room, room *actor.Room, config Config) bool {
	for _, door := range room.Doors {
		for _, other := range rooms[:room.ID] {
			for _, peer := range other.Doors {
				if door.Facing().Dot(peer.Facing()) > -1+1e-9 {
					continue
				}
				gap := door.WorldPosition().Sub(peer.WorldPosition())
				horizontal := mgl64.Vec3{gap.X(), gap.Y(), 0}
				if math.Abs(horizontal.Len()-config.Spacing) < 1e-6 && math.Abs(gap.Z()) <= config.LevelOffset+1e-6 {
					return true
				}
			}
		}
	}

	return false
}
