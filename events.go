package labyrinth

import (
	"github.com/akmonengine/labyrinth/actor"
	"github.com/akmonengine/labyrinth/hallway"
)

const (
	ROUTE_FOUND EventType = iota
	ROUTE_EXHAUSTED
	ROOM_UNREACHABLE
	ON_SLEEP
	ON_WAKE
	RELAXATION_SETTLED
)

type EventType uint8

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Routing events
type RouteFoundEvent struct {
	From     *actor.Room
	To       *actor.Room
	Segments []*hallway.Segment
}

func (e RouteFoundEvent) Type() EventType { return ROUTE_FOUND }

type RouteExhaustedEvent struct {
	From       *actor.Room
	To         *actor.Room
	Iterations int
}

func (e RouteExhaustedEvent) Type() EventType { return ROUTE_EXHAUSTED }

type RoomUnreachableEvent struct {
	Room *actor.Room
}

func (e RoomUnreachableEvent) Type() EventType { return ROOM_UNREACHABLE }

// Sleep/Wake events
type SleepEvent struct {
	Room *actor.Room
}

func (e SleepEvent) Type() EventType { return ON_SLEEP }

type WakeEvent struct {
	Room *actor.Room
}

func (e WakeEvent) Type() EventType { return ON_WAKE }

type RelaxationSettledEvent struct {
	Iterations int
}

func (e RelaxationSettledEvent) Type() EventType { return RELAXATION_SETTLED }

// EventListener - callback for events
type EventListener func(event Event)

// Events manager
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	sleepStates map[*actor.Room]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		sleepStates: make(map[*actor.Room]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	if e.listeners == nil {
		e.listeners = make(map[EventType][]EventListener)
	}
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// processSleepEvents compares the sleep state of each room with the one seen at the previous call
func (e *Events) processSleepEvents(rooms []*actor.Room) {
	if e.sleepStates == nil {
		e.sleepStates = make(map[*actor.Room]bool)
	}

	for _, room := range rooms {
		trackedState, exists := e.sleepStates[room]
		if !exists {
			e.sleepStates[room] = room.IsSleeping
			continue
		}

		if !trackedState && room.IsSleeping {
			e.buffer = append(e.buffer, SleepEvent{Room: room})
			e.sleepStates[room] = true
		} else if trackedState && !room.IsSleeping {
			e.buffer = append(e.buffer, WakeEvent{Room: room})
			e.sleepStates[room] = false
		}
	}
}

func (e *Events) forget(room *actor.Room) {
	delete(e.sleepStates, room)
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	for _, event := range e.buffer {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
	e.buffer = e.buffer[:0]
}
