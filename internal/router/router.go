package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/config"
	"github.com/harish-v07/CreatorHub/internal/handler"
	"github.com/harish-v07/CreatorHub/internal/middleware"
)

// Handlers the HTTP handlers mounted under /api/v1
type Handlers struct {
	Orders         *handler.OrderHandler
	Payments       *handler.PaymentHandler
	LinkedAccounts *handler.LinkedAccountHandler
}

func Setup(h Handlers, cfg *config.Config) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(corsMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "creatorhub-payments",
		})
	})

	auth := middleware.JwtAuthMiddleware(cfg.Auth.JWTSecret)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/orders", h.Orders.CreateOrder)

		payments := v1.Group("/payments")
		{
			payments.POST("/verify", h.Payments.VerifyPayment)
			payments.POST("/finalize", auth, h.Payments.FinalizePayment)
			payments.POST("/dismiss", auth, h.Payments.DismissPayment)
		}

		creators := v1.Group("/creators", auth)
		{
			creators.POST("/linked-account", h.LinkedAccounts.CreateLinkedAccount)
			creators.GET("/linked-account", h.LinkedAccounts.GetLinkedAccount)
		}
	}

	return r
}

// corsMiddleware answers pre-flight requests for the storefront.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type, x-request-id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
