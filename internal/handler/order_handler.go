package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harish-v07/CreatorHub/internal/gateway"
	"github.com/harish-v07/CreatorHub/internal/logger"
	"github.com/harish-v07/CreatorHub/internal/logic"
	"github.com/harish-v07/CreatorHub/internal/middleware"
)

// OrderCreator is satisfied by *logic.OrderLogic
type OrderCreator interface {
	CreateOrder(ctx context.Context, req logic.CreateOrderRequest) (*gateway.Order, error)
}

type OrderHandler struct {
	orders OrderCreator
}

func NewOrderHandler(orders OrderCreator) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder POST /api/v1/orders. Responds with the gateway's order object
// exactly as received.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("[%s] Failed to parse order request: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidJSON})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req.toLogic())
	if err != nil {
		logger.Error("[%s] Order creation failed: %v", middleware.GetRequestID(c), err)
		writeErrorStatus(c, errorStatus(err), err, "Failed to create order with Razorpay")
		return
	}

	logger.Info("[%s] Order created: %s", middleware.GetRequestID(c), order.ID)
	c.Data(http.StatusOK, "application/json; charset=utf-8", order.Raw)
}
