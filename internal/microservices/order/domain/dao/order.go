package dao

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the joined read model of one order with its line items.
type Order struct {
	ID               int         `json:"id"`
	RestaurantID     int         `json:"restaurant_id"`
	RestaurantName   string      `json:"restaurant_name"`
	CustomerID       int         `json:"customer_id"`
	CustomerName     string      `json:"customer_name"`
	CourierID        *int        `json:"courier_id"`
	CourierName      string      `json:"courier_name"`
	StatusID         int         `json:"status_id"`
	Status           string      `json:"status"`
	RestaurantRating *int        `json:"restaurant_rating"`
	CreatedAt        time.Time   `json:"created_at"`
	Items            []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Cost        decimal.Decimal `json:"cost"`
}

type LineItem struct {
	ProductID int
	Quantity  int
}

// NewOrder is what gets written by a create.
type NewOrder struct {
	RestaurantID int
	CustomerID   int
	CourierID    int
	Items        []LineItem
}

type Status struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type StatusChange struct {
	Status   Status
	Previous string
}

// RoleOrderRow is one (order, line item) pair as seen by a customer,
// courier or restaurant.
type RoleOrderRow struct {
	ID                int             `json:"id"`
	CustomerID        int             `json:"customer_id"`
	CustomerEmail     string          `json:"customer_email"`
	CustomerAddress   string          `json:"customer_address"`
	RestaurantID      int             `json:"restaurant_id"`
	RestaurantName    string          `json:"restaurant_name"`
	RestaurantAddress string          `json:"restaurant_address"`
	CourierID         *int            `json:"courier_id"`
	CourierName       string          `json:"courier_name"`
	Status            string          `json:"status"`
	ProductID         int             `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductQuantity   int             `json:"product_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	TotalCost         decimal.Decimal `json:"total_cost"`
}

type StatusLogEntry struct {
	Status    string    `json:"status"`
	ChangedBy string    `json:"changed_by"`
	ChangedAt time.Time `json:"changed_at"`
}
