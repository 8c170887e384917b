package workers

import (
	"context"
	"log/slog"
	"time"

	"gastrogo/board"
	"gastrogo/broker"
)

// StatsSource is the slice of the broker the reporter reads.
type StatsSource interface {
	GetStats() broker.Stats
}

// BoardSource is the slice of the kitchen board the reporter reads.
type BoardSource interface {
	Summary(now time.Time) board.Summary
}

// StatsReporter periodically snapshots broker and board statistics and
// writes them to the log. Reads only; it never touches membership.
type StatsReporter struct {
	log      *slog.Logger
	stats    StatsSource
	kitchen  BoardSource
	interval time.Duration
}

func NewStatsReporter(log *slog.Logger, stats StatsSource, kitchen BoardSource, interval time.Duration) *StatsReporter {
	if log == nil {
		log = slog.Default()
	}
	return &StatsReporter{log: log, stats: stats, kitchen: kitchen, interval: interval}
}

func (w *StatsReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.report()
			return ctx.Err()
		case <-ticker.C:
			w.report()
		}
	}
}

func (w *StatsReporter) report() {
	stats := w.stats.GetStats()
	summary := w.kitchen.Summary(time.Now())

	w.log.Info("broker stats",
		"connections", stats.Connections,
		"rooms", stats.Rooms,
		"active_orders", summary.Total,
		"ready", summary.Ready,
		"urgent", summary.Urgent,
	)
}
