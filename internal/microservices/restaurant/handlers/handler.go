package handlers

import (
	"net/http"
	"strconv"

	"food-delivery/internal/common/response"
	"food-delivery/internal/microservices/restaurant/service"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	RestaurantHandler *RestaurantHandler
	ProductHandler    *ProductHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		RestaurantHandler: NewRestaurantHandler(s.RestaurantService),
		ProductHandler:    NewProductHandler(s.ProductService),
	}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/restaurants", h.RestaurantHandler.List)
	r.GET("/restaurants/:id", h.RestaurantHandler.Get)
	r.POST("/restaurants", h.RestaurantHandler.Create)
	r.PUT("/restaurants/:id", h.RestaurantHandler.Update)
	r.DELETE("/restaurants/:id", h.RestaurantHandler.Delete)
	r.GET("/products", h.ProductHandler.List)
}

// pathID writes a 400 and returns false when the :id segment is not a number.
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid restaurant id")
		return 0, false
	}
	return id, true
}
