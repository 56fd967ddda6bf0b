// Package graph reduces the candidate connectivity graph of a dungeon to the
// connections needed to reach every room from the entrance.
package graph

import (
	"slices"

	"github.com/akmonengine/labyrinth/actor"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

// Adjacency lists the connections touching each room
type Adjacency map[*actor.Room][]*actor.Connection

func NewAdjacency(connections []*actor.Connection) Adjacency {
	adjacency := make(Adjacency)
	for _, c := range connections {
		adjacency[c.A] = append(adjacency[c.A], c)
		adjacency[c.B] = append(adjacency[c.B], c)
	}

	return adjacency
}

type node struct {
	room *actor.Room
	path []*actor.Connection
	g    float64
	h    float64
	f    float64
}

// FindPath runs a best-first search from one room to another.
// G sums the squared lengths of the connections walked, H is the squared
// distance to the target. It returns the connections of the path in order.
func FindPath(from, to *actor.Room, adjacency Adjacency) ([]*actor.Connection, bool) {
	if from == to {
		return nil, true
	}

	open := heap.New(func(a, b *node) bool {
		return a.f < b.f
	})
	bestF := make(map[*actor.Room]float64)
	closed := mapset.New[*actor.Room]()

	h := from.Position.Sub(to.Position).LenSqr()
	open.Push(&node{room: from, h: h, f: h})
	bestF[from] = h

	for open.Size() > 0 {
		current, _ := open.Pop()
		if closed.Has(current.room) {
			continue
		}
		if current.room == to {
			return current.path, true
		}
		closed.Put(current.room)

		for _, c := range adjacency[current.room] {
			next := c.Other(current.room)
			if next == nil || closed.Has(next) {
				continue
			}

			g := current.g + c.LengthSqr()
			h := next.Position.Sub(to.Position).LenSqr()
			f := g + h
			if best, ok := bestF[next]; ok && best <= f {
				continue
			}
			bestF[next] = f

			path := slices.Clone(current.path)
			open.Push(&node{room: next, path: append(path, c), g: g, h: h, f: f})
		}
	}

	return nil, false
}

// Reachable returns the rooms reachable from start through connections
func Reachable(start *actor.Room, connections []*actor.Connection) mapset.Set[*actor.Room] {
	adjacency := NewAdjacency(connections)
	visited := mapset.New[*actor.Room]()
	queue := []*actor.Room{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited.Has(current) {
			continue
		}
		visited.Put(current)

		for _, c := range adjacency[current] {
			if next := c.Other(current); !visited.Has(next) {
				queue = append(queue, next)
			}
		}
	}

	return visited
}
