package handlers

import (
	"net/http"

	"food-delivery/internal/common/response"
	"food-delivery/internal/microservices/restaurant/domain/dto"
	"food-delivery/internal/microservices/restaurant/service"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	service service.RestaurantServiceInterface
}

func NewRestaurantHandler(s service.RestaurantServiceInterface) *RestaurantHandler {
	return &RestaurantHandler{service: s}
}

func (h *RestaurantHandler) List(c *gin.Context) {
	f, err := dto.ParseListFilter(c.Query("rating"), c.Query("price_range"))
	if err != nil {
		response.Error(c, err)
		return
	}
	list, err := h.service.ListRestaurants(c.Request.Context(), f)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}

func (h *RestaurantHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.service.GetRestaurant(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *RestaurantHandler) Create(c *gin.Context) {
	var req dto.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	r, err := h.service.CreateRestaurant(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, r)
}

func (h *RestaurantHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	r, err := h.service.UpdateRestaurant(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, r)
}

func (h *RestaurantHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	snap, err := h.service.DeleteRestaurant(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, snap)
}
