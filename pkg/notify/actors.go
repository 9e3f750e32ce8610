package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/storefront/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// Messages
type OrderCreated struct {
	OrderID   string
	Recipient string
	Name      string
	Total     int64
}

type OrderPaid struct {
	OrderID   string
	PaymentID string
	Recipient string
	Name      string
	Total     int64
}

// NotificationActor tells customers about their orders and records each
// notification in the audit log.
type NotificationActor struct {
	audit  AuditWriter
	logger *zap.Logger
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderCreated:
		a.send("order_created", msg.OrderID, msg.Recipient,
			fmt.Sprintf("Hi %s, we received your order %s for %d.", msg.Name, msg.OrderID, msg.Total),
			bson.M{"total_amount": msg.Total})

	case *OrderPaid:
		a.send("order_paid", msg.OrderID, msg.Recipient,
			fmt.Sprintf("Hi %s, payment %s for order %s is confirmed.", msg.Name, msg.PaymentID, msg.OrderID),
			bson.M{"total_amount": msg.Total, "payment_id": msg.PaymentID})

	case *actor.Started:
		a.logger.Info("Notification actor started")

	case *actor.Stopping:
		a.logger.Info("Notification actor stopping")
	}
}

func (a *NotificationActor) send(kind, orderID, recipient, message string, data bson.M) {
	a.logger.Info("Sending notification",
		zap.String("type", kind),
		zap.String("order_id", orderID),
		zap.String("recipient", recipient))

	data["recipient"] = recipient
	data["channel"] = "email"
	data["message"] = message

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.audit.CreateAuditLog(ctx, &models.AuditLog{
		Service:  "storefront",
		Action:   "notify_" + kind,
		EntityID: orderID,
		Data:     data,
	}); err != nil {
		a.logger.Error("Failed to record notification", zap.String("order_id", orderID), zap.Error(err))
	}
}

// Notifier owns the actor system hosting the notification actor. Its
// methods never block on delivery.
type Notifier struct {
	system *actor.ActorSystem
	pid    *actor.PID
	logger *zap.Logger
}

func NewNotifier(audit AuditWriter, logger *zap.Logger) (*Notifier, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{audit: audit, logger: logger.Named("notification-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	return &Notifier{system: system, pid: pid, logger: logger}, nil
}

func (n *Notifier) OrderCreated(order *models.Order) {
	n.system.Root.Send(n.pid, &OrderCreated{
		OrderID:   order.ID,
		Recipient: order.Customer.Email,
		Name:      order.Customer.Name,
		Total:     order.TotalAmount,
	})
}

func (n *Notifier) OrderPaid(order *models.Order) {
	n.system.Root.Send(n.pid, &OrderPaid{
		OrderID:   order.ID,
		PaymentID: order.PaymentID,
		Recipient: order.Customer.Email,
		Name:      order.Customer.Name,
		Total:     order.TotalAmount,
	})
}

// Stop drains queued notifications and stops the actor.
func (n *Notifier) Stop() {
	if err := n.system.Root.PoisonFuture(n.pid).Wait(); err != nil {
		n.logger.Warn("Notification actor did not stop cleanly", zap.Error(err))
	}
}
