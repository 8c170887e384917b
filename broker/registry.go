package broker

import (
	"sync"
	"time"
)

type set map[string]struct{}

// Connection is a single live client session. Metadata is whatever the
// transport captured at connect time (device kind, display id, ...) and
// is never mutated afterwards.
type Connection struct {
	ID          string
	Metadata    map[string]any
	ConnectedAt time.Time
}

// Registry tracks live connections and room membership under one lock,
// so a membership change is atomic with respect to an emit snapshot.
// Rooms are created lazily on first join and garbage-collected once
// empty; an absent room and an empty room behave identically.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]Connection
	roomMembers map[string]set
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]Connection),
		roomMembers: make(map[string]set),
	}
}

// Connect registers a connection. It always succeeds; an already-known
// id is silently overwritten (reusing an id on reconnect is the
// transport's choice, not ours to reject).
func (r *Registry) Connect(id string, metadata map[string]any, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connections[id] = Connection{ID: id, Metadata: metadata, ConnectedAt: now}
	return true
}

// Disconnect removes the connection and strips it from every room it
// belongs to, in one critical section. Idempotent: transports may
// signal the same loss more than once.
func (r *Registry) Disconnect(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.connections, id)
	for room, members := range r.roomMembers {
		delete(members, id)
		if len(members) == 0 {
			delete(r.roomMembers, room)
		}
	}
	return true
}

// JoinRoom adds the connection to the room, creating the room if
// needed. Membership is a set, so joining twice is a no-op.
//
// Deliberate laxity: an id that was never registered is accepted here.
// Ownership checks belong to the handlers, and delivery resolves
// against the connection table anyway, so a stale member is simply
// skipped at emit time.
func (r *Registry) JoinRoom(connectionID, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.roomMembers[room]; !ok {
		r.roomMembers[room] = make(set)
	}
	r.roomMembers[room][connectionID] = struct{}{}
	return true
}

// LeaveRoom removes the membership if present; no-op otherwise.
func (r *Registry) LeaveRoom(connectionID, room string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.roomMembers[room]; ok {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(r.roomMembers, room)
		}
	}
	return true
}

// LiveMembers returns the room's currently registered members, a
// snapshot taken under one read lock. Members that joined without ever
// connecting (or that disconnected since) are excluded.
func (r *Registry) LiveMembers(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.roomMembers[room]
	if !ok {
		return nil
	}
	live := make([]string, 0, len(members))
	for id := range members {
		if _, exists := r.connections[id]; exists {
			live = append(live, id)
		}
	}
	return live
}

// ConnectionIDs snapshots every registered connection id.
func (r *Registry) ConnectionIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.connections))
	for id := range r.connections {
		ids = append(ids, id)
	}
	return ids
}

// Get returns the connection record for id, if registered.
func (r *Registry) Get(id string) (Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.connections[id]
	return conn, ok
}

func (r *Registry) ConnectionCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roomMembers)
}

// RoomExists reports whether the room currently has any members.
func (r *Registry) RoomExists(room string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.roomMembers[room]
	return ok
}

// RoomSizes returns the member count of every room, for statistics.
func (r *Registry) RoomSizes() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sizes := make(map[string]int, len(r.roomMembers))
	for room, members := range r.roomMembers {
		sizes[room] = len(members)
	}
	return sizes
}

// RoomsOf lists the rooms the connection currently belongs to.
func (r *Registry) RoomsOf(connectionID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var rooms []string
	for room, members := range r.roomMembers {
		if _, ok := members[connectionID]; ok {
			rooms = append(rooms, room)
		}
	}
	return rooms
}
