package dto

import "food-delivery/internal/microservices/order/domain/dao"

type CreateOrderRequest struct {
	RestaurantID int               `json:"restaurant_id" validate:"gt=0"`
	CustomerID   int               `json:"customer_id" validate:"gt=0"`
	CourierID    *int              `json:"courier_id"`
	Products     []ProductQuantity `json:"products" validate:"required,min=1,dive"`
}

type ProductQuantity struct {
	ID       int `json:"id" validate:"gt=0"`
	Quantity int `json:"quantity" validate:"gt=0"`
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// ToNewOrder assumes the request has been validated.
func (r CreateOrderRequest) ToNewOrder() dao.NewOrder {
	items := make([]dao.LineItem, 0, len(r.Products))
	for _, p := range r.Products {
		items = append(items, dao.LineItem{ProductID: p.ID, Quantity: p.Quantity})
	}
	o := dao.NewOrder{
		RestaurantID: r.RestaurantID,
		CustomerID:   r.CustomerID,
		Items:        items,
	}
	if r.CourierID != nil {
		o.CourierID = *r.CourierID
	}
	return o
}
