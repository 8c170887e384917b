// Package event defines the closed set of events exchanged between the
// notification core and connected devices. Inbound kinds name the domain
// actions a device may send; server events are what the broker fans out.
// Each server event carries exactly one payload type, so the transport
// never inspects loosely-typed maps.
package event

import (
	"time"

	"gastrogo/domain"
)

// Inbound is a domain action arriving from a device. The transport
// decodes the matching payload struct and calls the handler for the
// kind; there is no string-keyed dispatch table at runtime.
type Inbound string

const (
	InboundJoinTable    Inbound = "client:join_table"
	InboundNewOrder     Inbound = "client:new_order"
	InboundCallWaiter   Inbound = "client:call_waiter"
	InboundRequestBill  Inbound = "client:request_bill"
	InboundJoinKitchen  Inbound = "kitchen:join"
	InboundUpdateStatus Inbound = "kitchen:update_status"
	InboundBumpOrder    Inbound = "kitchen:bump_order"
)

// Name identifies a server event pushed to a room or connection.
type Name string

const (
	OrderCreated   Name = "server:order_created"
	OrderUpdated   Name = "server:order_updated"
	OrderReady     Name = "server:order_ready"
	WaiterNotified Name = "server:waiter_notified"
	BillRequested  Name = "server:bill_requested"
	Notification   Name = "server:notification"
)

// OrderCreatedPayload carries the full order to the kitchen display.
type OrderCreatedPayload struct {
	Order domain.Order `json:"order"`
}

// StatusUpdatePayload announces a status change to a table or kitchen.
// Also used for the created-status echo to the table at order time.
type StatusUpdatePayload struct {
	OrderID string        `json:"order_id"`
	Status  domain.Status `json:"status"`
}

type OrderReadyPayload struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
}

type WaiterCallPayload struct {
	TableID     string    `json:"table_id"`
	TableNumber string    `json:"table_number"`
	Kind        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
}

type BillRequestPayload struct {
	TableID     string    `json:"table_id"`
	TableNumber string    `json:"table_number"`
	Timestamp   time.Time `json:"timestamp"`
}
