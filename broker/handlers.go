package broker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"gastrogo/board"
	"gastrogo/domain"
	"gastrogo/domain/event"
)

var validate = validator.New()

// Handler payloads. Each inbound event kind decodes into exactly one of
// these; a payload missing a required routing key is rejected before
// any membership or routing side effect happens.

type JoinTablePayload struct {
	TableID   string `json:"table_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

type NewOrderPayload struct {
	RestaurantID string       `json:"restaurant_id" validate:"required"`
	Order        domain.Order `json:"order"`
}

type UpdateStatusPayload struct {
	OrderID      string        `json:"order_id" validate:"required"`
	Status       domain.Status `json:"status" validate:"required"`
	TableID      string        `json:"table_id" validate:"required"`
	RestaurantID string        `json:"restaurant_id" validate:"required"`
}

type BumpOrderPayload struct {
	OrderID      string `json:"order_id" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

type CallWaiterPayload struct {
	TableID      string `json:"table_id" validate:"required"`
	TableNumber  string `json:"table_number" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

type RequestBillPayload struct {
	TableID      string `json:"table_id" validate:"required"`
	TableNumber  string `json:"table_number" validate:"required"`
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

type JoinKitchenPayload struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
}

// Handler results, returned synchronously so the transport can
// acknowledge the initiating connection.

type JoinTableResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type NewOrderResult struct {
	Success         bool `json:"success"`
	KitchenNotified bool `json:"kitchen_notified"`
}

type UpdateStatusResult struct {
	Success       bool `json:"success"`
	TableNotified bool `json:"table_notified"`
}

type BumpOrderResult struct {
	Success       bool          `json:"success"`
	TableNotified bool          `json:"table_notified"`
	Status        domain.Status `json:"status"`
	Message       string        `json:"message"`
}

type CallWaiterResult struct {
	Success       bool   `json:"success"`
	StaffNotified bool   `json:"staff_notified"`
	Message       string `json:"message"`
}

type RequestBillResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type JoinKitchenResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Handlers turns inbound domain actions into room membership changes
// and router calls. A failure inside one invocation never touches other
// connections or rooms; there is no shared error state to poison.
type Handlers struct {
	broker *Broker
	board  *board.Board
	log    *slog.Logger
}

func NewHandlers(b *Broker, kitchen *board.Board, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{broker: b, board: kitchen, log: log}
}

func roomTable(tableID string) string        { return "table:" + tableID }
func roomSession(sessionID string) string    { return "session:" + sessionID }
func roomKitchen(restaurantID string) string { return "kitchen:" + restaurantID }
func roomStaff(restaurantID string) string   { return "staff:" + restaurantID }

// JoinTable subscribes a customer device to its table and session rooms.
func (h *Handlers) JoinTable(connectionID string, p JoinTablePayload) (JoinTableResult, error) {
	if err := validate.Struct(p); err != nil {
		return JoinTableResult{}, fmt.Errorf("join table payload: %w", err)
	}

	h.broker.JoinRoom(connectionID, roomTable(p.TableID))
	h.broker.JoinRoom(connectionID, roomSession(p.SessionID))

	return JoinTableResult{
		Success: true,
		Message: fmt.Sprintf("connected to table %s", p.TableID),
	}, nil
}

// JoinKitchen subscribes a kitchen display to its restaurant room.
func (h *Handlers) JoinKitchen(connectionID string, p JoinKitchenPayload) (JoinKitchenResult, error) {
	if err := validate.Struct(p); err != nil {
		return JoinKitchenResult{}, fmt.Errorf("join kitchen payload: %w", err)
	}

	h.broker.JoinRoom(connectionID, roomKitchen(p.RestaurantID))

	return JoinKitchenResult{
		Success: true,
		Message: fmt.Sprintf("display connected to restaurant %s", p.RestaurantID),
	}, nil
}

// NewOrder places the order on the kitchen board and notifies both the
// kitchen and the originating table. The board accepts only orders in
// created status, so a bad record produces zero emissions.
func (h *Handlers) NewOrder(connectionID string, p NewOrderPayload) (NewOrderResult, error) {
	if err := validate.Struct(p); err != nil {
		return NewOrderResult{}, fmt.Errorf("new order payload: %w", err)
	}
	if p.Order.ID == "" || p.Order.TableID == "" {
		return NewOrderResult{}, fmt.Errorf("new order payload: order id and table id are required")
	}
	if p.Order.Status == "" {
		p.Order.Status = domain.StatusCreated
	}
	if p.Order.Status != domain.StatusCreated {
		return NewOrderResult{}, fmt.Errorf("new order must arrive in %q status, got %q",
			domain.StatusCreated, p.Order.Status)
	}

	if err := h.board.Add(p.Order); err != nil {
		return NewOrderResult{}, err
	}

	kitchen := h.broker.EmitToRoom(roomKitchen(p.RestaurantID), event.OrderCreated,
		event.OrderCreatedPayload{Order: p.Order})
	h.broker.EmitToRoom(roomTable(p.Order.TableID), event.OrderCreated,
		event.StatusUpdatePayload{OrderID: p.Order.ID, Status: domain.StatusCreated})

	return NewOrderResult{
		Success:         true,
		KitchenNotified: kitchen.Delivered > 0,
	}, nil
}

// UpdateStatus moves an order through the state machine and, only if
// the move is legal, notifies the table and the kitchen. A ready order
// additionally gets its own celebration event to the table.
func (h *Handlers) UpdateStatus(connectionID string, p UpdateStatusPayload) (UpdateStatusResult, error) {
	if err := validate.Struct(p); err != nil {
		return UpdateStatusResult{}, fmt.Errorf("update status payload: %w", err)
	}

	if _, err := h.board.Transition(p.OrderID, p.Status, time.Now()); err != nil {
		return UpdateStatusResult{}, err
	}

	return h.notifyStatusChange(p.TableID, p.RestaurantID, p.OrderID, p.Status), nil
}

// BumpOrder advances an order exactly one step along the happy path.
// Terminal orders report "already final" and emit nothing.
func (h *Handlers) BumpOrder(connectionID string, p BumpOrderPayload) (BumpOrderResult, error) {
	if err := validate.Struct(p); err != nil {
		return BumpOrderResult{}, fmt.Errorf("bump order payload: %w", err)
	}

	order, err := h.board.Bump(p.OrderID, time.Now())
	if err != nil {
		return BumpOrderResult{}, err
	}

	notified := h.notifyStatusChange(order.TableID, p.RestaurantID, order.ID, order.Status)

	return BumpOrderResult{
		Success:       true,
		TableNotified: notified.TableNotified,
		Status:        order.Status,
		Message:       fmt.Sprintf("order bumped to %q", order.Status),
	}, nil
}

func (h *Handlers) notifyStatusChange(tableID, restaurantID, orderID string, status domain.Status) UpdateStatusResult {
	update := event.StatusUpdatePayload{OrderID: orderID, Status: status}

	table := h.broker.EmitToRoom(roomTable(tableID), event.OrderUpdated, update)
	h.broker.EmitToRoom(roomKitchen(restaurantID), event.OrderUpdated, update)

	if status == domain.StatusReady {
		h.broker.EmitToRoom(roomTable(tableID), event.OrderReady, event.OrderReadyPayload{
			OrderID: orderID,
			Message: "your order is ready",
		})
	}

	return UpdateStatusResult{
		Success:       true,
		TableNotified: table.Delivered > 0,
	}
}

// CallWaiter pings every staff tablet of the restaurant.
func (h *Handlers) CallWaiter(connectionID string, p CallWaiterPayload) (CallWaiterResult, error) {
	if err := validate.Struct(p); err != nil {
		return CallWaiterResult{}, fmt.Errorf("call waiter payload: %w", err)
	}

	staff := h.broker.EmitToRoom(roomStaff(p.RestaurantID), event.WaiterNotified,
		event.WaiterCallPayload{
			TableID:     p.TableID,
			TableNumber: p.TableNumber,
			Kind:        "call_waiter",
			Timestamp:   time.Now(),
		})

	return CallWaiterResult{
		Success:       true,
		StaffNotified: staff.Delivered > 0,
		Message:       "waiter notified",
	}, nil
}

// RequestBill asks the staff room for the bill.
func (h *Handlers) RequestBill(connectionID string, p RequestBillPayload) (RequestBillResult, error) {
	if err := validate.Struct(p); err != nil {
		return RequestBillResult{}, fmt.Errorf("request bill payload: %w", err)
	}

	h.broker.EmitToRoom(roomStaff(p.RestaurantID), event.BillRequested,
		event.BillRequestPayload{
			TableID:     p.TableID,
			TableNumber: p.TableNumber,
			Timestamp:   time.Now(),
		})

	return RequestBillResult{Success: true, Message: "bill requested"}, nil
}
