package broker

import (
	"sync"
	"time"
)

type Action string

const (
	ActionConnect    Action = "connect"
	ActionDisconnect Action = "disconnect"
	ActionJoin       Action = "join"
	ActionLeave      Action = "leave"
	ActionEmit       Action = "emit"
	ActionBroadcast  Action = "broadcast"
)

// LogEntry is one recorded broker action. Subject is the connection or
// room the action applied to; Detail holds things like the event name
// and recipient count.
type LogEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Action    Action         `json:"action"`
	Subject   string         `json:"subject"`
	Detail    map[string]any `json:"detail,omitempty"`
}

const actionLogCapacity = 100

// ActionLog is a bounded, append-only record of recent broker activity.
// Once full, the oldest entry is evicted. It lives in memory only.
type ActionLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewActionLog() *ActionLog {
	return &ActionLog{entries: make([]LogEntry, 0, actionLogCapacity)}
}

func (l *ActionLog) Record(action Action, subject string, detail map[string]any, now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == actionLogCapacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:actionLogCapacity-1]
	}
	l.entries = append(l.entries, LogEntry{
		Timestamp: now,
		Action:    action,
		Subject:   subject,
		Detail:    detail,
	})
}

// Recent returns up to n of the most recent entries, oldest first.
func (l *ActionLog) Recent(n int) []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]LogEntry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

func (l *ActionLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
