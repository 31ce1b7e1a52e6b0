package notificator

import (
	"context"
	"fmt"

	"food-delivery/internal/common/logger"
	"food-delivery/internal/connections/rabbitmq"
	"food-delivery/internal/microservices/notificator/service"
)

// Run declares the topology and consumes order events until ctx is done.
func Run(ctx context.Context, rmqClient *rabbitmq.Client, lg *logger.Logger, prefetch int) error {
	if err := rmqClient.DeclareTopology(); err != nil {
		return fmt.Errorf("failed to declare rabbitmq topology: %w", err)
	}
	svc := service.New(rmqClient, lg, prefetch)
	lg.Info("notification_subscriber_started", map[string]any{"queue": rabbitmq.NotificationQueue})
	return svc.NotificatorService.Notify(ctx)
}
