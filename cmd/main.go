package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"gastrogo/board"
	"gastrogo/broker"
	"gastrogo/domain"
	"gastrogo/domain/event"
	"gastrogo/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes the broker, seeds a scripted service pass through it,
// and keeps the stats reporter running until interrupted. Returning the
// error instead of exiting keeps the defers honest and the wiring
// testable.
func run() error {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := setupLogger(config.LogLevel)

	transport := newLoggingTransport(log)
	core := broker.New(transport, log)
	kitchen := board.New(log)
	handlers := broker.NewHandlers(core, kitchen, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := workers.NewSupervisor(log)
	sup.Add(workers.NewStatsReporter(log, core, kitchen, config.ReportInterval))

	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()

	if err := servicePass(core, handlers, config.RestaurantID); err != nil {
		sup.Stop()
		<-done
		return fmt.Errorf("service pass: %w", err)
	}

	printStats(core.GetStats(), kitchen.Summary(time.Now()))

	<-ctx.Done()
	sup.Stop()
	<-done
	log.Info("program stopped cleanly")
	return nil
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// loggingTransport stands in for the real socket layer: it records each
// resolved delivery in the log instead of pushing bytes to a device.
type loggingTransport struct {
	log *slog.Logger
}

func newLoggingTransport(log *slog.Logger) *loggingTransport {
	return &loggingTransport{log: log}
}

func (t *loggingTransport) Deliver(connectionID string, name event.Name, payload any) {
	t.log.Info("deliver", "connection_id", connectionID, "event", string(name))
}

// servicePass walks one table through a full visit: order placed,
// kitchen advancing it to ready, a waiter call and the bill.
func servicePass(core *broker.Broker, handlers *broker.Handlers, restaurantID string) error {
	phone := uuid.NewString()
	display := uuid.NewString()
	tablet := uuid.NewString()

	core.Connect(phone, map[string]any{"device": "customer-phone", "table": "5"})
	core.Connect(display, map[string]any{"device": "kitchen-display"})
	core.Connect(tablet, map[string]any{"device": "waiter-tablet"})

	// Staff tablets subscribe at the transport level, there is no
	// dedicated handler for them.
	core.JoinRoom(tablet, "staff:"+restaurantID)

	sessionID := uuid.NewString()
	if _, err := handlers.JoinTable(phone, broker.JoinTablePayload{
		TableID:   "5",
		SessionID: sessionID,
	}); err != nil {
		return err
	}
	if _, err := handlers.JoinKitchen(display, broker.JoinKitchenPayload{
		RestaurantID: restaurantID,
	}); err != nil {
		return err
	}

	order := domain.Order{
		ID:           uuid.NewString(),
		RestaurantID: restaurantID,
		TableID:      "5",
		SessionID:    sessionID,
		Status:       domain.StatusCreated,
		CreatedAt:    time.Now(),
		Items: []domain.OrderItem{
			{DishID: "dish-001", Name: "Empanadas criollas", Quantity: 6},
			{DishID: "dish-014", Name: "Bife de chorizo", Quantity: 1, Notes: "medium rare"},
		},
	}
	if _, err := handlers.NewOrder(phone, broker.NewOrderPayload{
		RestaurantID: restaurantID,
		Order:        order,
	}); err != nil {
		return err
	}

	for _, status := range []domain.Status{domain.StatusConfirmed, domain.StatusPreparing, domain.StatusReady} {
		if _, err := handlers.UpdateStatus(display, broker.UpdateStatusPayload{
			OrderID:      order.ID,
			Status:       status,
			TableID:      order.TableID,
			RestaurantID: restaurantID,
		}); err != nil {
			return err
		}
	}

	if _, err := handlers.CallWaiter(phone, broker.CallWaiterPayload{
		TableID:      order.TableID,
		TableNumber:  "5",
		RestaurantID: restaurantID,
	}); err != nil {
		return err
	}
	if _, err := handlers.RequestBill(phone, broker.RequestBillPayload{
		TableID:      order.TableID,
		TableNumber:  "5",
		RestaurantID: restaurantID,
	}); err != nil {
		return err
	}

	// Kitchen bumps the ready order out for delivery.
	if _, err := handlers.BumpOrder(display, broker.BumpOrderPayload{
		OrderID:      order.ID,
		RestaurantID: restaurantID,
	}); err != nil {
		return err
	}

	return nil
}

func printStats(stats broker.Stats, summary board.Summary) {
	header := fmt.Sprintf(" BROKER  connections=%d rooms=%d | BOARD  active=%d ready=%d urgent=%d ",
		stats.Connections, stats.Rooms, summary.Total, summary.Ready, summary.Urgent)
	fmt.Println(color.New(color.BgBlack, color.FgGreen).Render(header))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Room", "Members"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, room := range stats.RoomDetails {
		table.Append([]string{room.Room, fmt.Sprintf("%d", room.Members)})
	}
	table.Render()
}
