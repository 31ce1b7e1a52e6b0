package handlers

import (
	"strconv"

	"food-delivery/internal/microservices/order/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService),
	}
}

// Register mounts the order routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/orders", h.OrderHandler.AddOrder)
	r.GET("/orders", h.OrderHandler.ListOrders)
	r.GET("/orders/:order_id/history", h.OrderHandler.History)
	r.POST("/:order_id/status", h.OrderHandler.ChangeStatus)
}

// atoiDefault parses s, falling back to d when s is empty or not a number.
func atoiDefault(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}
