package api

import (
	"context"
	"fmt"

	"food-delivery/internal/common/httpx"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/config"
	"food-delivery/internal/connections/rabbitmq"
	"food-delivery/internal/domain/status"
	"food-delivery/internal/microservices/order"
	"food-delivery/internal/microservices/order/events"
	orderservice "food-delivery/internal/microservices/order/service"
	"food-delivery/internal/microservices/restaurant"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run serves the HTTP API until ctx is cancelled. rmq may be nil, in which
// case order events are not published.
func Run(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, rmq *rabbitmq.Client, lg *logger.Logger) error {
	flow, err := status.Parse(cfg.Orders.StatusFlow)
	if err != nil {
		return err
	}

	var pub events.Publisher = events.Nop{}
	if rmq != nil {
		if err := rmq.DeclareTopology(); err != nil {
			return fmt.Errorf("failed to declare rabbitmq topology: %w", err)
		}
		pub = events.NewAMQPPublisher(rmq, "order-service")
	}

	gin.SetMode(gin.ReleaseMode)
	router := NewRouter(
		RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins, DB: pool, Logger: lg},
		restaurant.Build(pool, lg),
		order.Build(pool, pub, orderservice.Options{
			RequireHistory: cfg.Orders.RequireHistory,
			Flow:           flow,
		}, lg),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	lg.Info("http_listening", map[string]any{
		"addr":            addr,
		"status_flow":     flow.Name(),
		"require_history": cfg.Orders.RequireHistory,
		"events":          rmq != nil,
	})
	return httpx.New(addr, router).Run(ctx)
}
