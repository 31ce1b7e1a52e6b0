package service

import (
	"context"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/microservices/restaurant/domain/dao"
	"food-delivery/internal/microservices/restaurant/repository"
)

type ProductServiceInterface interface {
	ListProducts(ctx context.Context, restaurantID int) ([]dao.Product, error)
}

type ProductService struct {
	repo repository.ProductRepositoryInterface
}

func NewProductService(repo repository.ProductRepositoryInterface) ProductServiceInterface {
	return &ProductService{repo: repo}
}

func (s *ProductService) ListProducts(ctx context.Context, restaurantID int) ([]dao.Product, error) {
	if restaurantID <= 0 {
		return nil, apperr.Invalid("Invalid or missing parameters: restaurant must be greater than 0")
	}
	products, err := s.repo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperr.Wrap(err, "list products")
	}
	if len(products) == 0 {
		return nil, apperr.NotFoundf("Products from the restaurant %d not found", restaurantID)
	}
	return products, nil
}
