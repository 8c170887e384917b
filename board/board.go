// Package board keeps the in-memory working set of orders the kitchen
// display works from. Orders enter in created status and are only ever
// moved through the state machine; terminal orders stay on the board as
// history but drop out of the active views. Nothing here survives a
// restart.
package board

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"gastrogo/domain"
)

var ErrOrderNotFound = errors.New("order not found")
var ErrDuplicateOrder = errors.New("order already on the board")

// AnnotatedOrder is an order copy enriched with the derived kitchen
// metrics at a given instant.
type AnnotatedOrder struct {
	domain.Order
	WaitMinutes int            `json:"wait_time_minutes"`
	Urgency     domain.Urgency `json:"urgency"`
}

// Summary counts the active orders per status. Urgent counts every
// order whose urgency is above normal.
type Summary struct {
	Total     int `json:"total"`
	Created   int `json:"created"`
	Confirmed int `json:"confirmed"`
	Preparing int `json:"preparing"`
	Ready     int `json:"ready"`
	Urgent    int `json:"urgent"`
}

type Board struct {
	mu     sync.RWMutex
	log    *slog.Logger
	orders map[string]*domain.Order
}

func New(log *slog.Logger) *Board {
	if log == nil {
		log = slog.Default()
	}
	return &Board{log: log, orders: make(map[string]*domain.Order)}
}

// Add places a new order on the board. The ordering subsystem hands
// orders over in created status with routing keys populated.
func (b *Board) Add(order domain.Order) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.orders[order.ID]; ok {
		return ErrDuplicateOrder
	}
	b.orders[order.ID] = &order
	b.log.Info("order placed on board", "order_id", order.ID, "table_id", order.TableID)
	return nil
}

// Get returns a copy of the order, if present.
func (b *Board) Get(id string) (domain.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order, ok := b.orders[id]
	if !ok {
		return domain.Order{}, false
	}
	return *order, true
}

// Transition moves the order to target through the state machine and
// returns the updated copy. The board lock makes the check-and-stamp
// atomic with respect to concurrent kitchen actions on the same order.
func (b *Board) Transition(id string, target domain.Status, now time.Time) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.orders[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if err := order.ApplyTransition(target, now); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

// Bump advances the order one step along the happy path.
func (b *Board) Bump(id string, now time.Time) (domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.orders[id]
	if !ok {
		return domain.Order{}, ErrOrderNotFound
	}
	if _, err := order.Bump(now); err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

// Active returns annotated copies of every non-terminal order, most
// urgent first, oldest first within the same urgency.
func (b *Board) Active(now time.Time) []AnnotatedOrder {
	active := b.annotateActive(now)

	sort.Slice(active, func(i, j int) bool {
		ri, rj := active[i].Urgency.DisplayRank(), active[j].Urgency.DisplayRank()
		if ri != rj {
			return ri < rj
		}
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})
	return active
}

// Grouped buckets the active orders by status for the KDS columns.
func (b *Board) Grouped(now time.Time) map[domain.Status][]AnnotatedOrder {
	return lo.GroupBy(b.Active(now), func(o AnnotatedOrder) domain.Status {
		return o.Status
	})
}

// Summary counts the active orders per status plus those running late.
func (b *Board) Summary(now time.Time) Summary {
	active := b.annotateActive(now)

	return Summary{
		Total:     len(active),
		Created:   lo.CountBy(active, byStatus(domain.StatusCreated)),
		Confirmed: lo.CountBy(active, byStatus(domain.StatusConfirmed)),
		Preparing: lo.CountBy(active, byStatus(domain.StatusPreparing)),
		Ready:     lo.CountBy(active, byStatus(domain.StatusReady)),
		Urgent: lo.CountBy(active, func(o AnnotatedOrder) bool {
			return o.Urgency != domain.UrgencyNormal
		}),
	}
}

func byStatus(s domain.Status) func(AnnotatedOrder) bool {
	return func(o AnnotatedOrder) bool { return o.Status == s }
}

func (b *Board) annotateActive(now time.Time) []AnnotatedOrder {
	b.mu.RLock()
	defer b.mu.RUnlock()

	active := make([]AnnotatedOrder, 0, len(b.orders))
	for _, order := range b.orders {
		if domain.IsTerminal(order.Status) || order.Status == domain.StatusDelivered {
			continue
		}
		wait := domain.WaitMinutes(*order, now)
		active = append(active, AnnotatedOrder{
			Order:       *order,
			WaitMinutes: wait,
			Urgency:     domain.ClassifyUrgency(wait),
		})
	}
	return active
}
