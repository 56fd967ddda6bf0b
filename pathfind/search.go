// Package pathfind searches continuous 3D space for a walkable hallway route
// between two points, stepping one corridor module at a time.
package pathfind

import (
	"errors"
	"math"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

var (
	ErrRouteExhausted = errors.New("pathfind: route exhausted")
	ErrNotInitialized = errors.New("pathfind: search not initialized")
)

// Config holds the corridor dimensions and search limits of a route
type Config struct {
	// StepLength is the corridor module length, the distance of one expansion
	StepLength float64
	Width      float64
	Height     float64
	// MaxSlope in degrees bounds how steep a diagonal step may climb or descend
	MaxSlope float64
	// MaxIterations bounds the expansions of one route, 0 means unbounded
	MaxIterations int
	// LocationTolerance is the size of the lattice used to recognise visited locations
	LocationTolerance float64
}

func DefaultConfig() Config {
	return Config{
		StepLength:        100,
		Width:             200,
		Height:            200,
		MaxSlope:          45,
		MaxIterations:     20000,
		LocationTolerance: 1,
	}
}

// Node is one location of the search. The route leading to it is replayed by walking Parent indices.
type Node struct {
	Location mgl64.Vec3
	// Direction of the step that led here, zero for the root
	Direction mgl64.Vec3
	Parent    int
	G         float64
	H         float64
	F         float64
}

// Strategy supplies the variant-specific behaviour of a search
type Strategy interface {
	// Prepare is called once by Initialize
	Prepare(s *Search)
	// Expand returns the candidate locations reachable in one step from the node
	Expand(s *Search, index int) []mgl64.Vec3
	// Reached reports whether the route may end at the node. The returned
	// waypoints replace the location of the node at the end of the route.
	Reached(s *Search, index int) ([]mgl64.Vec3, bool)
	// Metrics returns the step cost and the heuristic of moving from one location to another
	Metrics(s *Search, from, to mgl64.Vec3) (g float64, h float64)
}

type locationKey [3]int64

type searchState int

const (
	stateIdle searchState = iota
	stateSearching
	stateFound
	stateExhausted
)

// Search is a resumable A* over continuous space.
// Each Evaluate call expands one node.
type Search struct {
	config   Config
	strategy Strategy

	start mgl64.Vec3
	end   mgl64.Vec3

	nodes  []Node
	open   *heap.Heap[int]
	openF  map[locationKey]float64
	closed mapset.Set[locationKey]

	iterations int
	state      searchState
	route      []mgl64.Vec3
}

func NewSearch(config Config, strategy Strategy) *Search {
	if config.LocationTolerance <= 0 {
		config.LocationTolerance = actor.Epsilon
	}

	return &Search{config: config, strategy: strategy}
}

// Initialize resets the search for a route from start to end
func (s *Search) Initialize(start, end mgl64.Vec3) {
	s.start = start
	s.end = end
	s.nodes = s.nodes[:0]
	s.open = heap.New(func(a, b int) bool {
		na, nb := &s.nodes[a], &s.nodes[b]
		if na.F != nb.F {
			return na.F < nb.F
		}
		if na.H != nb.H {
			return na.H < nb.H
		}
		return a < b
	})
	s.openF = make(map[locationKey]float64)
	s.closed = mapset.New[locationKey]()
	s.iterations = 0
	s.route = nil
	s.state = stateSearching

	s.strategy.Prepare(s)

	_, h := s.strategy.Metrics(s, start, start)
	s.nodes = append(s.nodes, Node{Location: start, Parent: -1, H: h, F: h})
	s.openF[s.key(start)] = h
	s.open.Push(0)
}

// Evaluate expands one node and reports whether the search is over
func (s *Search) Evaluate() bool {
	if s.state != stateSearching {
		return true
	}

	if s.open.Size() == 0 || (s.config.MaxIterations > 0 && s.iterations >= s.config.MaxIterations) {
		s.state = stateExhausted
		return true
	}

	index, _ := s.open.Pop()
	current := s.nodes[index]
	key := s.key(current.Location)
	if s.closed.Has(key) {
		return false
	}
	s.closed.Put(key)
	s.iterations++

	if tail, ok := s.strategy.Reached(s, index); ok {
		s.route = append(s.Route(current.Parent), tail...)
		s.state = stateFound
		return true
	}

	for _, location := range s.strategy.Expand(s, index) {
		nextKey := s.key(location)
		if s.closed.Has(nextKey) {
			continue
		}

		g, h := s.strategy.Metrics(s, current.Location, location)
		g += current.G
		f := g + h
		if best, ok := s.openF[nextKey]; ok && best <= f {
			continue
		}
		s.openF[nextKey] = f

		s.nodes = append(s.nodes, Node{
			Location:  location,
			Direction: location.Sub(current.Location).Normalize(),
			Parent:    index,
			G:         g,
			H:         h,
			F:         f,
		})
		s.open.Push(len(s.nodes) - 1)
	}

	return false
}

// Result returns the waypoints of the route once Evaluate reported the end of the search
func (s *Search) Result() ([]mgl64.Vec3, error) {
	switch s.state {
	case stateIdle:
		return nil, ErrNotInitialized
	case stateFound:
		return s.route, nil
	case stateExhausted:
		return nil, ErrRouteExhausted
	}

	return nil, nil
}

// Run evaluates until the search is over
func (s *Search) Run() ([]mgl64.Vec3, error) {
	if s.state == stateIdle {
		return nil, ErrNotInitialized
	}
	for !s.Evaluate() {
	}

	return s.Result()
}

// Done reports whether the search is over
func (s *Search) Done() bool {
	return s.state == stateFound || s.state == stateExhausted
}

func (s *Search) Config() Config {
	return s.config
}

func (s *Search) Start() mgl64.Vec3 {
	return s.start
}

func (s *Search) End() mgl64.Vec3 {
	return s.end
}

func (s *Search) Node(index int) Node {
	return s.nodes[index]
}

// Iterations returns the number of nodes expanded so far
func (s *Search) Iterations() int {
	return s.iterations
}

// Route replays the locations from the root to the node, both included.
// A negative index yields an empty route.
func (s *Search) Route(index int) []mgl64.Vec3 {
	var reversed []mgl64.Vec3
	for i := index; i >= 0; i = s.nodes[i].Parent {
		reversed = append(reversed, s.nodes[i].Location)
	}

	route := make([]mgl64.Vec3, len(reversed))
	for i, location := range reversed {
		route[len(reversed)-1-i] = location
	}

	return route
}

func (s *Search) key(location mgl64.Vec3) locationKey {
	tolerance := s.config.LocationTolerance
	return locationKey{
		int64(math.Round(location.X() / tolerance)),
		int64(math.Round(location.Y() / tolerance)),
		int64(math.Round(location.Z() / tolerance)),
	}
}
