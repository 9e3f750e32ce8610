package events

import (
	"time"
)

const (
	TypeOrderCreated = "order.created"
	TypeOrderPaid    = "order.paid"
)

type OrderEvent struct {
	EventID        string    `json:"event_id"`
	Type           string    `json:"type"`
	OrderID        string    `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	Status         string    `json:"status"`
	TotalAmount    int64     `json:"total_amount"`
	ItemCount      int       `json:"item_count"`
	Timestamp      time.Time `json:"timestamp"`
}
