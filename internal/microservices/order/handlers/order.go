package handlers

import (
	"net/http"
	"strconv"

	"food-delivery/internal/common/response"
	"food-delivery/internal/microservices/order/domain/dto"
	"food-delivery/internal/microservices/order/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

func (oh *OrderHandler) AddOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, err := oh.service.CreateOrder(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, order)
}

func (oh *OrderHandler) ChangeStatus(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid order id")
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid or missing parameters")
		return
	}

	st, err := oh.service.ChangeStatus(c.Request.Context(), orderID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, st)
}

func (oh *OrderHandler) ListOrders(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid or missing parameters: id")
		return
	}

	rows, err := oh.service.ListByRole(c.Request.Context(), c.Query("type"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(rows) == 0 {
		response.Fail(c, http.StatusNotFound, "No orders found")
		return
	}
	response.OK(c, rows)
}

func (oh *OrderHandler) History(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid order id")
		return
	}
	limit := atoiDefault(c.Query("limit"), 0)
	offset := atoiDefault(c.Query("offset"), 0)

	entries, err := oh.service.History(c.Request.Context(), orderID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"order_id": orderID, "events": entries})
}
