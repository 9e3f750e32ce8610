package gateway

import (
	"errors"
	"net/http"

	"github.com/example/storefront/pkg/checkout"
	"github.com/example/storefront/pkg/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInternal = "Something went wrong. Please try again."

type errorResponse struct {
	Error string `json:"error"`
}

// createOrder godoc
// @Summary      Create an order
// @Description  Prices the cart from the catalog and opens a gateway payment order.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateOrderRequest  true  "Cart, customer and shipping address"
// @Success      200      {object}  models.CreateOrderResponse
// @Failure      400      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /createOrder [post]
func (g *Gateway) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := g.checkout.CreateOrder(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, "create order", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// verifyPayment godoc
// @Summary      Verify a payment
// @Description  Checks the gateway signature and marks the order paid.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request  body      models.VerifyPaymentRequest  true  "Gateway payment confirmation"
// @Success      200      {object}  models.VerifyPaymentResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /verifyPayment [post]
func (g *Gateway) verifyPayment(c *gin.Context) {
	var req models.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := g.checkout.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		g.writeError(c, "verify payment", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (g *Gateway) writeError(c *gin.Context, op string, err error) {
	var ce *checkout.Error
	if !errors.As(err, &ce) || ce.Kind == checkout.KindInternal {
		g.logger.Error("Request failed",
			zap.String("op", op),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
		return
	}
	c.JSON(statusFor(ce.Kind), errorResponse{Error: ce.Message})
}

func statusFor(kind checkout.Kind) int {
	switch kind {
	case checkout.KindValidation, checkout.KindRejected:
		return http.StatusBadRequest
	case checkout.KindNotFound:
		return http.StatusNotFound
	case checkout.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
