package gateway

import (
	"context"
	"net/http"

	"github.com/example/storefront/pkg/config"
	_ "github.com/example/storefront/pkg/docs"
	"github.com/example/storefront/pkg/models"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Checkout is the order handshake served over HTTP.
type Checkout interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.CreateOrderResponse, error)
	VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifyPaymentResponse, error)
}

type Gateway struct {
	config   *config.Config
	checkout Checkout
	logger   *zap.Logger
	router   *gin.Engine
}

func NewGateway(cfg *config.Config, checkout Checkout, logger *zap.Logger) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware())
	router.Use(loggerMiddleware(logger))
	router.Use(gin.CustomRecovery(recoveryHandler(logger)))

	g := &Gateway{
		config:   cfg,
		checkout: checkout,
		logger:   logger,
		router:   router,
	}
	g.setupRoutes()
	return g
}

func (g *Gateway) setupRoutes() {
	g.router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
	})
	g.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Not found"})
	})

	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := g.router.Group("/")
	api.Use(rateLimitMiddleware(g.config.RateLimit))
	{
		api.POST("/createOrder", g.createOrder)
		api.POST("/verifyPayment", g.verifyPayment)
	}

	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// Handler returns the router for use in an http.Server.
func (g *Gateway) Handler() http.Handler {
	return g.router
}
