package domain

import "time"

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderItemMsg struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// OrderEvent is the body published to the orders exchange. The routing key
// equals Type.
type OrderEvent struct {
	Type           string         `json:"type"`
	OrderID        int            `json:"order_id"`
	RestaurantID   int            `json:"restaurant_id,omitempty"`
	CustomerID     int            `json:"customer_id,omitempty"`
	CourierID      *int           `json:"courier_id,omitempty"`
	Status         string         `json:"status"`
	PreviousStatus string         `json:"previous_status,omitempty"`
	Items          []OrderItemMsg `json:"items,omitempty"`
	OccurredAt     time.Time      `json:"occurred_at"`
}
