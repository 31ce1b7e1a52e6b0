package dto

import (
	"strconv"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/microservices/restaurant/domain/dao"
)

type CreateRestaurantRequest struct {
	Name          string `json:"name" validate:"required"`
	PriceRange    int    `json:"price_range" validate:"min=1,max=3"`
	Phone         string `json:"phone" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required"`
	UserID        int    `json:"user_id" validate:"gt=0"`
}

func (r CreateRestaurantRequest) ToNewRestaurant() dao.NewRestaurant {
	return dao.NewRestaurant{
		Name:       r.Name,
		PriceRange: r.PriceRange,
		Phone:      r.Phone,
		Email:      r.Email,
		UserID:     r.UserID,
		Address: dao.Address{
			StreetAddress: r.StreetAddress,
			City:          r.City,
			PostalCode:    r.PostalCode,
		},
	}
}

type UpdateRestaurantRequest struct {
	Name       string `json:"name" validate:"required"`
	PriceRange int    `json:"price_range" validate:"min=1,max=3"`
	Phone      string `json:"phone" validate:"required"`
}

func (r UpdateRestaurantRequest) ToUpdate() dao.RestaurantUpdate {
	return dao.RestaurantUpdate{Name: r.Name, PriceRange: r.PriceRange, Phone: r.Phone}
}

// ListFilter holds the optional list filters. Nil means no filter.
type ListFilter struct {
	Rating     *int `json:"rating" validate:"omitempty,min=1,max=5"`
	PriceRange *int `json:"price_range" validate:"omitempty,min=1,max=3"`
}

// ParseListFilter reads the raw query values. Ranges are checked by the
// service.
func ParseListFilter(rating, priceRange string) (ListFilter, error) {
	var f ListFilter
	var err error
	if f.Rating, err = optionalInt("rating", rating); err != nil {
		return ListFilter{}, err
	}
	if f.PriceRange, err = optionalInt("price_range", priceRange); err != nil {
		return ListFilter{}, err
	}
	return f, nil
}

func optionalInt(name, s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, apperr.Invalidf("Invalid or missing parameters: %s must be an integer", name)
	}
	return &n, nil
}
