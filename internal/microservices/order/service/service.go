package service

import (
	"food-delivery/internal/common/logger"
	"food-delivery/internal/microservices/order/events"
	"food-delivery/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo *repository.Repository, pub events.Publisher, opts Options, lg *logger.Logger) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo, pub, opts, lg),
	}
}
