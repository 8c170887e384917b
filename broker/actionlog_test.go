package broker

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestActionLog_CapsAtCapacity(t *testing.T) {
	req := require.New(t)
	log := NewActionLog()

	// When 120 actions are recorded
	for i := 0; i < 120; i++ {
		log.Record(ActionEmit, fmt.Sprintf("room-%d", i), nil, time.Now())
	}

	// Then exactly the most recent 100 remain, oldest dropped first.
	req.Equal(100, log.Len())
	recent := log.Recent(100)
	req.Equal("room-20", recent[0].Subject)
	req.Equal("room-119", recent[99].Subject)
}

func TestActionLog_RecentReturnsOldestFirst(t *testing.T) {
	req := require.New(t)
	log := NewActionLog()

	for i := 0; i < 15; i++ {
		log.Record(ActionJoin, fmt.Sprintf("conn-%d", i), nil, time.Now())
	}

	recent := log.Recent(10)
	req.Len(recent, 10)
	req.Equal("conn-5", recent[0].Subject)
	req.Equal("conn-14", recent[9].Subject)
}

func TestActionLog_RecentOnShortLog(t *testing.T) {
	req := require.New(t)
	log := NewActionLog()
	log.Record(ActionConnect, "conn-1", nil, time.Now())

	recent := log.Recent(10)
	req.Len(recent, 1)
	req.Equal(ActionConnect, recent[0].Action)
}

func TestBroker_EveryActionIsRecorded(t *testing.T) {
	req := require.New(t)
	core, _ := newTestBroker(t)

	core.Connect("c1", nil)
	core.JoinRoom("c1", "table:5")
	core.EmitToRoom("table:5", "server:order_updated", nil)
	core.LeaveRoom("c1", "table:5")
	core.Disconnect("c1")

	recent := core.GetStats().RecentActions
	actions := make([]Action, len(recent))
	for i, e := range recent {
		actions[i] = e.Action
	}
	req.Equal([]Action{ActionConnect, ActionJoin, ActionEmit, ActionLeave, ActionDisconnect}, actions)
}
