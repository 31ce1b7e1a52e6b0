package service

import "food-delivery/internal/common/logger"

type Service struct {
	NotificatorService *NotificatorService
}

func New(c Consumer, lg *logger.Logger, prefetch int) *Service {
	return &Service{NotificatorService: NewNotificatorService(c, lg, prefetch)}
}
