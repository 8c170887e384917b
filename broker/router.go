package broker

import (
	"fmt"
	"log/slog"
	"time"

	"gastrogo/contract"
	"gastrogo/domain/event"
)

// RoomDelivery reports a room fan-out. Delivered is zero for an absent
// or empty room; that is a normal outcome, not an error.
type RoomDelivery struct {
	Delivered int
	Room      string
	Event     event.Name
}

type ClientDelivery struct {
	Delivered    bool
	ConnectionID string
	Event        event.Name
}

type BroadcastDelivery struct {
	Delivered int
	Event     event.Name
}

// Router resolves recipients against the registry and hands each one to
// the transport. It never mutates connection or room state.
type Router struct {
	registry  *Registry
	transport contract.Transport
	actions   *ActionLog
	log       *slog.Logger
}

func NewRouter(registry *Registry, transport contract.Transport, actions *ActionLog, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{registry: registry, transport: transport, actions: actions, log: log}
}

// EmitToRoom fans the event out to the room's live members. The member
// set is a snapshot taken at call time: connections joining during the
// fan-out do not receive this emit, and a concurrent leave cannot make
// a member count twice.
func (r *Router) EmitToRoom(room string, name event.Name, payload any) RoomDelivery {
	members := r.registry.LiveMembers(room)
	for _, id := range members {
		r.transport.Deliver(id, name, payload)
	}

	r.actions.Record(ActionEmit, room, map[string]any{
		"event":      string(name),
		"payload":    fmt.Sprintf("%T", payload),
		"recipients": len(members),
	}, time.Now())
	r.log.Debug("room emit", "room", room, "event", string(name), "delivered", len(members))

	return RoomDelivery{Delivered: len(members), Room: room, Event: name}
}

// EmitToClient delivers to exactly one connection. An unknown id is a
// soft failure reported in the result, never an error.
func (r *Router) EmitToClient(connectionID string, name event.Name, payload any) ClientDelivery {
	_, ok := r.registry.Get(connectionID)
	if ok {
		r.transport.Deliver(connectionID, name, payload)
	}

	r.actions.Record(ActionEmit, connectionID, map[string]any{
		"event":     string(name),
		"delivered": ok,
	}, time.Now())

	return ClientDelivery{Delivered: ok, ConnectionID: connectionID, Event: name}
}

// Broadcast delivers to every registered connection.
func (r *Router) Broadcast(name event.Name, payload any) BroadcastDelivery {
	ids := r.registry.ConnectionIDs()
	for _, id := range ids {
		r.transport.Deliver(id, name, payload)
	}

	r.actions.Record(ActionBroadcast, "", map[string]any{
		"event":      string(name),
		"recipients": len(ids),
	}, time.Now())
	r.log.Debug("broadcast", "event", string(name), "delivered", len(ids))

	return BroadcastDelivery{Delivered: len(ids), Event: name}
}
