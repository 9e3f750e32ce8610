package checkout

import (
	"fmt"
	"strings"

	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/pricing"
)

func validateCreateOrder(req *models.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return newError(KindValidation, "Cart is empty")
	}
	for i, line := range req.Items {
		if strings.TrimSpace(line.ProductID) == "" {
			return newError(KindValidation, fmt.Sprintf("Cart item %d is missing productId", i+1))
		}
		if line.Quantity <= 0 {
			return newError(KindValidation, fmt.Sprintf("Invalid quantity for product %s", line.ProductID))
		}
		if line.Quantity > pricing.MaxLineQuantity {
			return newError(KindValidation, fmt.Sprintf("Quantity for product %s exceeds the maximum of %d", line.ProductID, pricing.MaxLineQuantity))
		}
	}

	if missing := missingFields(
		"name", req.Customer.Name,
		"email", req.Customer.Email,
		"phone", req.Customer.Phone,
	); len(missing) > 0 {
		return newError(KindValidation, "Missing customer details: "+strings.Join(missing, ", "))
	}

	if missing := missingFields(
		"address", req.ShippingAddress.Address,
		"city", req.ShippingAddress.City,
		"state", req.ShippingAddress.State,
		"pincode", req.ShippingAddress.Pincode,
	); len(missing) > 0 {
		return newError(KindValidation, "Missing shipping address fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func validateVerifyPayment(req *models.VerifyPaymentRequest) error {
	if missing := missingFields(
		"orderId", req.OrderID,
		"gatewayOrderId", req.GatewayOrderID,
		"paymentId", req.PaymentID,
		"signature", req.Signature,
	); len(missing) > 0 {
		return newError(KindValidation, "Missing payment verification fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// missingFields takes name/value pairs and returns the names whose value is blank.
func missingFields(pairs ...string) []string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	return missing
}

func productIDs(lines []models.CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}
