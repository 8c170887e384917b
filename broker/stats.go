package broker

import (
	"sort"

	"github.com/samber/lo"
)

type RoomStat struct {
	Room    string `json:"room"`
	Members int    `json:"members"`
}

// Stats is the operational snapshot served to the statistics endpoint.
type Stats struct {
	Connections   int        `json:"connections"`
	Rooms         int        `json:"rooms"`
	RoomDetails   []RoomStat `json:"room_details"`
	RecentActions []LogEntry `json:"recent_actions"`
}

const recentActionCount = 10

// GetStats reports live connection and room counts, per-room member
// counts and the last few recorded actions. Cost is bounded by the
// number of rooms plus the action-log capacity, never by history.
func (b *Broker) GetStats() Stats {
	sizes := b.registry.RoomSizes()
	details := lo.MapToSlice(sizes, func(room string, members int) RoomStat {
		return RoomStat{Room: room, Members: members}
	})
	sort.Slice(details, func(i, j int) bool { return details[i].Room < details[j].Room })

	return Stats{
		Connections:   b.registry.ConnectionCount(),
		Rooms:         len(sizes),
		RoomDetails:   details,
		RecentActions: b.actions.Recent(recentActionCount),
	}
}
