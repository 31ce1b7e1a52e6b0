package dao

import "github.com/shopspring/decimal"

// Restaurant is the public projection with its displayed rating.
type Restaurant struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceRange int    `json:"price_range"`
	Rating     int    `json:"rating"`
}

// RatedRestaurant carries the raw rating aggregates read from orders.
type RatedRestaurant struct {
	ID          int
	Name        string
	PriceRange  int
	RatingSum   int64
	RatingCount int64
}

type Address struct {
	ID            int    `json:"id"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
}

type RestaurantDetails struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	PriceRange int      `json:"price_range"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email"`
	UserID     int      `json:"user_id"`
	AddressID  *int     `json:"address_id"`
	Address    *Address `json:"address,omitempty"`
}

type NewRestaurant struct {
	Name       string
	PriceRange int
	Phone      string
	Email      string
	UserID     int
	Address    Address
}

type RestaurantUpdate struct {
	Name       string
	PriceRange int
	Phone      string
}

// Snapshot is what a delete returns.
type Snapshot struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	PriceRange int    `json:"price_range"`
}

type DeleteReport struct {
	Orders     int64
	LineItems  int64
	Products   int64
	AddressID  *int
	AddressErr error
}

type Product struct {
	ID   int             `json:"id"`
	Name string          `json:"name"`
	Cost decimal.Decimal `json:"cost"`
}
