package contract

import (
	"context"
	"reflect"

	"gastrogo/domain/event"
)

// Transport is the delivery layer sitting outside the notification core.
// The router resolves recipients and hands each one to Deliver; pushing
// bytes onto a live connection (and detecting its loss) is entirely the
// transport's problem. Deliver must not block the caller.
type Transport interface {
	Deliver(connectionID string, name event.Name, payload any)
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker
// lifecycle events, avoiding the need for manual naming in the Worker
// interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}
