package restaurant

import (
	"food-delivery/internal/common/logger"
	"food-delivery/internal/microservices/restaurant/handlers"
	"food-delivery/internal/microservices/restaurant/repository"
	"food-delivery/internal/microservices/restaurant/service"
)

// Build wires the restaurant directory and the product catalog.
func Build(db repository.DB, lg *logger.Logger) *handlers.Handler {
	repo := repository.New(db)
	svc := service.New(repo, lg)
	return handlers.New(svc)
}
