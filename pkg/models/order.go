package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

const PaymentMethodRazorpay = "razorpay"

type Customer struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type ShippingAddress struct {
	Address string `bson:"address" json:"address"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	Pincode string `bson:"pincode" json:"pincode"`
}

// LineItem is a cart line re-derived from the catalog. It is a snapshot and
// does not follow later catalog edits.
type LineItem struct {
	ProductID string `bson:"productId" json:"productId"`
	Name      string `bson:"name" json:"name"`
	Price     int64  `bson:"price" json:"price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	Image     string `bson:"image,omitempty" json:"image,omitempty"`
}

type Order struct {
	ID              string          `bson:"_id" json:"id"`
	Customer        Customer        `bson:"customer" json:"customer"`
	ShippingAddress ShippingAddress `bson:"shippingAddress" json:"shippingAddress"`
	Items           []LineItem      `bson:"items" json:"items"`
	ItemCount       int             `bson:"itemCount" json:"itemCount"`
	Subtotal        int64           `bson:"subtotal" json:"subtotal"`
	Shipping        int64           `bson:"shipping" json:"shipping"`
	GST             int64           `bson:"gst" json:"gst"`
	TotalAmount     int64           `bson:"totalAmount" json:"totalAmount"`
	Notes           string          `bson:"notes,omitempty" json:"notes,omitempty"`
	GatewayOrderID  string          `bson:"razorpayOrderId" json:"gatewayOrderId"`
	PaymentID       string          `bson:"razorpayPaymentId,omitempty" json:"paymentId,omitempty"`
	Signature       string          `bson:"razorpaySignature,omitempty" json:"-"`
	PaymentMethod   string          `bson:"paymentMethod" json:"paymentMethod"`
	Status          OrderStatus     `bson:"status" json:"status"`
	CreatedAt       time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time       `bson:"updatedAt" json:"updatedAt"`
	PaidAt          *time.Time      `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// PaymentConfirmation is what the gateway hands the client after a
// successful payment.
type PaymentConfirmation struct {
	GatewayOrderID string
	PaymentID      string
	Signature      string
	PaidAt         time.Time
}
