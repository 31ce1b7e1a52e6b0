package order

import (
	"food-delivery/internal/common/logger"
	"food-delivery/internal/microservices/order/events"
	"food-delivery/internal/microservices/order/handlers"
	"food-delivery/internal/microservices/order/repository"
	"food-delivery/internal/microservices/order/service"
)

// Build wires repository, service and handlers of the order ledger.
func Build(db repository.DB, pub events.Publisher, opts service.Options, lg *logger.Logger) *handlers.Handler {
	repo := repository.New(db)
	svc := service.New(repo, pub, opts, lg)
	return handlers.New(svc)
}
