// Package broker is the real-time notification core: it tracks live
// connections, groups them into named rooms (table:<id>, session:<id>,
// kitchen:<restaurantId>, staff:<restaurantId>) and fans domain events
// out to exactly the right group. The concrete socket protocol lives
// behind contract.Transport; the broker only resolves who gets what.
package broker

import (
	"log/slog"
	"time"

	"gastrogo/contract"
	"gastrogo/domain/event"
)

// Broker ties the registry, router and action log together. There is
// exactly one instance per process, built at startup and passed by
// handle to the handlers and the transport; nothing here is package
// state.
type Broker struct {
	registry *Registry
	router   *Router
	actions  *ActionLog
	log      *slog.Logger
}

func New(transport contract.Transport, log *slog.Logger) *Broker {
	if log == nil {
		log = slog.Default()
	}
	registry := NewRegistry()
	actions := NewActionLog()
	return &Broker{
		registry: registry,
		router:   NewRouter(registry, transport, actions, log),
		actions:  actions,
		log:      log,
	}
}

// Connect registers a new live connection with its immutable metadata.
func (b *Broker) Connect(id string, metadata map[string]any) bool {
	now := time.Now()
	ok := b.registry.Connect(id, metadata, now)
	b.actions.Record(ActionConnect, id, nil, now)
	b.log.Info("connection registered", "connection_id", id)
	return ok
}

// Disconnect drops the connection and its room memberships. Safe to
// call repeatedly for the same id.
func (b *Broker) Disconnect(id string) bool {
	ok := b.registry.Disconnect(id)
	b.actions.Record(ActionDisconnect, id, nil, time.Now())
	b.log.Info("connection removed", "connection_id", id)
	return ok
}

func (b *Broker) JoinRoom(connectionID, room string) bool {
	ok := b.registry.JoinRoom(connectionID, room)
	b.actions.Record(ActionJoin, connectionID, map[string]any{"room": room}, time.Now())
	return ok
}

func (b *Broker) LeaveRoom(connectionID, room string) bool {
	ok := b.registry.LeaveRoom(connectionID, room)
	b.actions.Record(ActionLeave, connectionID, map[string]any{"room": room}, time.Now())
	return ok
}

func (b *Broker) EmitToRoom(room string, name event.Name, payload any) RoomDelivery {
	return b.router.EmitToRoom(room, name, payload)
}

func (b *Broker) EmitToClient(connectionID string, name event.Name, payload any) ClientDelivery {
	return b.router.EmitToClient(connectionID, name, payload)
}

func (b *Broker) Broadcast(name event.Name, payload any) BroadcastDelivery {
	return b.router.Broadcast(name, payload)
}

// Registry exposes read access for statistics and tests.
func (b *Broker) Registry() *Registry {
	return b.registry
}
