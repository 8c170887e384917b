package broker

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gastrogo/domain/event"
)

type delivery struct {
	connectionID string
	name         event.Name
	payload      any
}

// recordingTransport stands in for the socket layer and remembers every
// delivery the router resolved.
type recordingTransport struct {
	mu        sync.Mutex
	delivered []delivery
}

func (t *recordingTransport) Deliver(connectionID string, name event.Name, payload any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delivered = append(t.delivered, delivery{connectionID: connectionID, name: name, payload: payload})
}

func (t *recordingTransport) byEvent(name event.Name) []delivery {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []delivery
	for _, d := range t.delivered {
		if d.name == name {
			out = append(out, d)
		}
	}
	return out
}

func (t *recordingTransport) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delivered = nil
}

func newTestBroker(t *testing.T) (*Broker, *recordingTransport) {
	t.Helper()
	transport := &recordingTransport{}
	return New(transport, nil), transport
}

func TestEmitToRoom_DeliversToEveryLiveMember(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)

	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	for _, id := range ids {
		core.Connect(id, nil)
		core.JoinRoom(id, "table:5")
	}

	result := core.EmitToRoom("table:5", event.OrderUpdated, nil)

	req.Equal(3, result.Delivered)
	req.Len(transport.delivered, 3)

	seen := make([]string, 0, 3)
	for _, d := range transport.delivered {
		seen = append(seen, d.connectionID)
		req.Equal(event.OrderUpdated, d.name)
	}
	req.ElementsMatch(ids, seen)
}

func TestEmitToRoom_AbsentOrEmptyRoomIsZeroNotError(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)

	// Absent room.
	req.Zero(core.EmitToRoom("table:none", event.OrderUpdated, nil).Delivered)

	// Room whose only member disconnected.
	id := uuid.NewString()
	core.Connect(id, nil)
	core.JoinRoom(id, "table:9")
	core.Disconnect(id)
	req.Zero(core.EmitToRoom("table:9", event.OrderUpdated, nil).Delivered)

	req.Empty(transport.delivered)
}

func TestEmitToRoom_SkipsUnregisteredMembers(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)

	live := uuid.NewString()
	core.Connect(live, nil)
	core.JoinRoom(live, "table:5")
	core.JoinRoom(uuid.NewString(), "table:5") // never connected

	result := core.EmitToRoom("table:5", event.OrderUpdated, nil)

	req.Equal(1, result.Delivered)
	req.Len(transport.delivered, 1)
	req.Equal(live, transport.delivered[0].connectionID)
}

func TestEmitToClient_SoftFailureForUnknownID(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)

	result := core.EmitToClient(uuid.NewString(), event.Notification, nil)

	req.False(result.Delivered)
	req.Empty(transport.delivered)
}

func TestEmitToClient_DeliversToRegisteredConnection(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)
	id := uuid.NewString()
	core.Connect(id, nil)

	result := core.EmitToClient(id, event.Notification, "hello")

	req.True(result.Delivered)
	req.Len(transport.delivered, 1)
	req.Equal(id, transport.delivered[0].connectionID)
}

func TestBroadcast_ReachesEveryConnection(t *testing.T) {
	req := require.New(t)
	core, transport := newTestBroker(t)

	for i := 0; i < 4; i++ {
		core.Connect(uuid.NewString(), nil)
	}

	result := core.Broadcast(event.Notification, "closing soon")

	req.Equal(4, result.Delivered)
	req.Len(transport.delivered, 4)
}

func TestRouter_EmitsAreReadOnlyOnMembership(t *testing.T) {
	req := require.New(t)
	core, _ := newTestBroker(t)
	id := uuid.NewString()
	core.Connect(id, nil)
	core.JoinRoom(id, "table:5")

	core.EmitToRoom("table:5", event.OrderUpdated, nil)
	core.Broadcast(event.Notification, nil)
	core.EmitToClient(id, event.Notification, nil)

	req.Equal([]string{id}, core.Registry().LiveMembers("table:5"))
	req.Equal(1, core.Registry().ConnectionCount())
}
