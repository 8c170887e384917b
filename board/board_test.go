package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gastrogo/domain"
)

func orderCreatedAgo(id string, age time.Duration, now time.Time) domain.Order {
	return domain.Order{
		ID:           id,
		RestaurantID: "R",
		TableID:      "5",
		Status:       domain.StatusCreated,
		CreatedAt:    now.Add(-age),
	}
}

func TestBoard_AddAndGet(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("o1", 0, now)))

	got, ok := b.Get("o1")
	req.True(ok)
	req.Equal("o1", got.ID)

	_, ok = b.Get("o2")
	req.False(ok)
}

func TestBoard_AddRejectsDuplicates(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("o1", 0, now)))
	req.ErrorIs(b.Add(orderCreatedAgo("o1", 0, now)), ErrDuplicateOrder)
}

func TestBoard_TransitionGatesThroughStateMachine(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()
	req.NoError(b.Add(orderCreatedAgo("o1", 0, now)))

	// created -> preparing skips confirmation and must fail
	_, err := b.Transition("o1", domain.StatusPreparing, now)
	var terr *domain.TransitionError
	req.ErrorAs(err, &terr)

	updated, err := b.Transition("o1", domain.StatusConfirmed, now)
	req.NoError(err)
	req.Equal(domain.StatusConfirmed, updated.Status)

	_, err = b.Transition("missing", domain.StatusConfirmed, now)
	req.ErrorIs(err, ErrOrderNotFound)
}

func TestBoard_ActiveExcludesFinishedOrders(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("open", 5*time.Minute, now)))

	done := orderCreatedAgo("done", 30*time.Minute, now)
	done.Status = domain.StatusDelivered
	req.NoError(b.Add(done))

	gone := orderCreatedAgo("gone", 30*time.Minute, now)
	gone.Status = domain.StatusCancelled
	req.NoError(b.Add(gone))

	active := b.Active(now)
	req.Len(active, 1)
	req.Equal("open", active[0].ID)

	// Finished orders stay on the board as history.
	_, ok := b.Get("done")
	req.True(ok)
}

func TestBoard_ActiveAnnotatesWaitAndUrgency(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("o1", 16*time.Minute, now)))

	active := b.Active(now)
	req.Len(active, 1)
	req.Equal(16, active[0].WaitMinutes)
	req.Equal(domain.UrgencyCritical, active[0].Urgency)
}

func TestBoard_ActiveSortsUrgencyFirstThenOldest(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	// A normal order created earlier than a critical one.
	req.NoError(b.Add(orderCreatedAgo("normal-old", 5*time.Minute, now)))
	req.NoError(b.Add(orderCreatedAgo("critical-late", 16*time.Minute, now)))
	req.NoError(b.Add(orderCreatedAgo("critical-early", 20*time.Minute, now)))
	req.NoError(b.Add(orderCreatedAgo("urgent", 12*time.Minute, now)))

	active := b.Active(now)

	ids := make([]string, len(active))
	for i, o := range active {
		ids[i] = o.ID
	}
	// Critical beats normal even when the normal order is older; ties
	// inside an urgency bucket go to the oldest.
	req.Equal([]string{"critical-early", "critical-late", "urgent", "normal-old"}, ids)
}

func TestBoard_Grouped(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("o1", time.Minute, now)))
	confirmed := orderCreatedAgo("o2", 2*time.Minute, now)
	confirmed.Status = domain.StatusConfirmed
	req.NoError(b.Add(confirmed))
	ready := orderCreatedAgo("o3", 8*time.Minute, now)
	ready.Status = domain.StatusReady
	req.NoError(b.Add(ready))

	grouped := b.Grouped(now)

	req.Len(grouped[domain.StatusCreated], 1)
	req.Len(grouped[domain.StatusConfirmed], 1)
	req.Len(grouped[domain.StatusReady], 1)
	req.Empty(grouped[domain.StatusPreparing])
}

func TestBoard_Summary(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()

	req.NoError(b.Add(orderCreatedAgo("fresh", time.Minute, now)))
	req.NoError(b.Add(orderCreatedAgo("late", 12*time.Minute, now)))
	req.NoError(b.Add(orderCreatedAgo("very-late", 20*time.Minute, now)))
	ready := orderCreatedAgo("ready", 3*time.Minute, now)
	ready.Status = domain.StatusReady
	req.NoError(b.Add(ready))
	paid := orderCreatedAgo("paid", time.Hour, now)
	paid.Status = domain.StatusPaid
	req.NoError(b.Add(paid))

	summary := b.Summary(now)

	req.Equal(4, summary.Total)
	req.Equal(3, summary.Created)
	req.Equal(1, summary.Ready)
	req.Equal(2, summary.Urgent)
	req.Zero(summary.Preparing)
}

func TestBoard_BumpAdvancesOrder(t *testing.T) {
	req := require.New(t)
	b := New(nil)
	now := time.Now()
	req.NoError(b.Add(orderCreatedAgo("o1", 0, now)))

	updated, err := b.Bump("o1", now)
	req.NoError(err)
	req.Equal(domain.StatusConfirmed, updated.Status)

	_, err = b.Bump("missing", now)
	req.ErrorIs(err, ErrOrderNotFound)
}
