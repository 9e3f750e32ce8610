// Package pricing derives authoritative order amounts from a catalog snapshot.
// It performs no I/O.
package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/storefront/pkg/models"
	"github.com/shopspring/decimal"
)

// Quote is the server-side pricing of a cart.
type Quote struct {
	Items     []models.LineItem
	ItemCount int
	Subtotal  int64
	Shipping  int64
	GST       int64
	Total     int64
}

const (
	// MaxLineQuantity bounds a single cart line.
	MaxLineQuantity = 10000

	// MaxAmount is the largest order total whose minor-unit amount fits in
	// an int64.
	MaxAmount = math.MaxInt64 / 100
)

var ErrAmountTooLarge = errors.New("order total exceeds the maximum amount")

type InvalidQuantityError struct {
	ProductID string
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %s", e.Quantity, e.ProductID)
}

type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %s", e.ProductID)
}

type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available", e.Name, e.Available)
}

// PriceOrder prices cart against catalog in cart order. The first missing
// product or stock shortfall fails the whole cart. Stock is compared with the
// total quantity requested for a product across all lines.
func PriceOrder(cart []models.CartLine, catalog map[string]models.Product, settings models.StoreSettings) (*Quote, error) {
	requested := make(map[string]int64, len(cart))
	for _, line := range cart {
		if line.Quantity <= 0 || line.Quantity > MaxLineQuantity {
			return nil, &InvalidQuantityError{ProductID: line.ProductID, Quantity: line.Quantity}
		}
		requested[line.ProductID] += int64(line.Quantity)
	}

	maxAmount := decimal.NewFromInt(MaxAmount)
	subtotal := decimal.Zero
	q := &Quote{Items: make([]models.LineItem, 0, len(cart))}
	for _, line := range cart {
		product, ok := catalog[line.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if product.HasFiniteStock() && *product.Stock < requested[line.ProductID] {
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Available: *product.Stock,
			}
		}

		subtotal = subtotal.Add(decimal.NewFromInt(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
		if subtotal.GreaterThan(maxAmount) {
			return nil, ErrAmountTooLarge
		}
		q.ItemCount += line.Quantity
		q.Items = append(q.Items, models.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
		})
	}

	q.Subtotal = subtotal.IntPart()
	q.Shipping = Shipping(q.Subtotal, settings)
	gst := gstAmount(q.Subtotal, settings.GSTRate)
	total := subtotal.Add(decimal.NewFromInt(q.Shipping)).Add(gst)
	if total.GreaterThan(maxAmount) {
		return nil, ErrAmountTooLarge
	}
	q.GST = gst.IntPart()
	q.Total = total.IntPart()
	return q, nil
}

// Shipping is free at or above the threshold and the flat cost below it.
func Shipping(subtotal int64, settings models.StoreSettings) int64 {
	if subtotal >= settings.FreeShippingThreshold {
		return 0
	}
	return settings.ShippingCost
}

// GST is subtotal*rate/100 rounded half-up to a whole unit.
func GST(subtotal int64, rate float64) int64 {
	return gstAmount(subtotal, rate).IntPart()
}

func gstAmount(subtotal int64, rate float64) decimal.Decimal {
	return decimal.NewFromInt(subtotal).
		Mul(decimal.NewFromFloat(rate)).
		Div(decimal.NewFromInt(100)).
		Round(0)
}
