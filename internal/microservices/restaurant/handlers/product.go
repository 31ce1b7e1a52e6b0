package handlers

import (
	"net/http"
	"strconv"

	"food-delivery/internal/common/response"
	"food-delivery/internal/microservices/restaurant/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	service service.ProductServiceInterface
}

func NewProductHandler(s service.ProductServiceInterface) *ProductHandler {
	return &ProductHandler{service: s}
}

// List handles GET /products?restaurant=N.
func (h *ProductHandler) List(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("restaurant"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid or missing parameters: restaurant")
		return
	}
	products, err := h.service.ListProducts(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, products)
}
