package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// transitions is the full set of legal forward moves. Statuses absent
// from a status's list are unreachable from it; paid and cancelled are
// terminal.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {StatusPaid},
	StatusPaid:      {},
	StatusCancelled: {},
}

// bumpFlow is the happy path a kitchen display walks an order through,
// one step at a time. It never offers cancellation.
var bumpFlow = map[Status]Status{
	StatusCreated:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusDelivered,
}

// AllowedTransitions returns the statuses reachable from s.
func AllowedTransitions(s Status) []Status {
	allowed := transitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

// IsTerminal reports whether s has no further legal transitions.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

type OrderItem struct {
	DishID    string
	Name      string
	Quantity  int
	Modifiers []string
	Notes     string
}

// Order is owned by the ordering subsystem and handed to the broker in
// created status. Only ApplyTransition and Bump may change Status and
// the per-status timestamps.
type Order struct {
	ID           string
	RestaurantID string
	TableID      string
	SessionID    string
	Status       Status
	Items        []OrderItem
	CreatedAt    time.Time
	StatusAt     map[Status]time.Time
}

// TransitionError reports an attempted move that is not in the allowed
// set for the order's current status. The caller surfaces it to the
// client; it is never coerced into a legal move.
type TransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *TransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot change order from %q to %q (allowed: %s)",
		e.From, e.To, strings.Join(allowed, ", "))
}

// TerminalStateError reports a bump on an order that has nowhere left
// to go. Distinct from TransitionError so callers can answer "already
// final" instead of "bad target".
type TerminalStateError struct {
	Status Status
}

func (e *TerminalStateError) Error() string {
	return fmt.Sprintf("order already in final state %q", e.Status)
}

// ApplyTransition moves the order to target if the move is legal,
// stamping the moment the transition was accepted.
func (o *Order) ApplyTransition(target Status, now time.Time) error {
	allowed := transitions[o.Status]
	for _, s := range allowed {
		if s == target {
			o.Status = target
			if o.StatusAt == nil {
				o.StatusAt = make(map[Status]time.Time)
			}
			o.StatusAt[target] = now
			return nil
		}
	}
	return &TransitionError{From: o.Status, To: target, Allowed: AllowedTransitions(o.Status)}
}

// Bump advances the order exactly one step along the happy path.
func (o *Order) Bump(now time.Time) (Status, error) {
	next, ok := bumpFlow[o.Status]
	if !ok {
		return "", &TerminalStateError{Status: o.Status}
	}
	if err := o.ApplyTransition(next, now); err != nil {
		return "", err
	}
	return next, nil
}
