package service

import (
	"food-delivery/internal/common/logger"
	"food-delivery/internal/microservices/restaurant/repository"
)

type Service struct {
	RestaurantService RestaurantServiceInterface
	ProductService    ProductServiceInterface
}

func New(repo *repository.Repository, lg *logger.Logger) *Service {
	return &Service{
		RestaurantService: NewRestaurantService(repo.RestaurantRepo, lg),
		ProductService:    NewProductService(repo.ProductRepo),
	}
}
