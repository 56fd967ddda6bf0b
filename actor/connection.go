package actor

// Connection is an unordered pair of rooms that should be linked by a hallway
type Connection struct {
	A *Room
	B *Room
}

// ConnectionKey identifies a connection independently of its orientation
type ConnectionKey struct {
	Low  int
	High int
}

func NewConnection(a, b *Room) *Connection {
	return &Connection{A: a, B: b}
}

// Key returns the comparable key of the pair, lower room ID first
func (c *Connection) Key() ConnectionKey {
	if c.A.ID <= c.B.ID {
		return ConnectionKey{Low: c.A.ID, High: c.B.ID}
	}

	return ConnectionKey{Low: c.B.ID, High: c.A.ID}
}

// Equals is pair-set equality
func (c *Connection) Equals(other *Connection) bool {
	return (c.A == other.A && c.B == other.B) || (c.A == other.B && c.B == other.A)
}

func (c *Connection) Contains(room *Room) bool {
	return c.A == room || c.B == room
}

// Other returns the room at the opposite end, or nil if room is not part of the pair
func (c *Connection) Other(room *Room) *Room {
	switch room {
	case c.A:
		return c.B
	case c.B:
		return c.A
	}

	return nil
}

func (c *Connection) Length() float64 {
	return c.A.Position.Sub(c.B.Position).Len()
}

func (c *Connection) LengthSqr() float64 {
	return c.A.Position.Sub(c.B.Position).LenSqr()
}

// Link appends the connection to the back-references of both rooms
func (c *Connection) Link() {
	c.A.Connections = append(c.A.Connections, c)
	c.B.Connections = append(c.B.Connections, c)
}

// RebuildConnections resets the back-references of rooms from connections
func RebuildConnections(rooms []*Room, connections []*Connection) {
	for _, room := range rooms {
		room.Connections = nil
	}
	for _, c := range connections {
		c.Link()
	}
}
