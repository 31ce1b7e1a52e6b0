package service

import (
	"context"
	"errors"
	"time"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/common/validation"
	"food-delivery/internal/domain"
	"food-delivery/internal/domain/status"
	"food-delivery/internal/microservices/order/domain/dao"
	"food-delivery/internal/microservices/order/domain/dto"
	"food-delivery/internal/microservices/order/events"
	"food-delivery/internal/microservices/order/repository"

	"github.com/go-playground/validator/v10"
)

const (
	publishTimeout      = 5 * time.Second
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dao.Order, error)
	ChangeStatus(ctx context.Context, orderID int, req dto.ChangeStatusRequest) (dao.Status, error)
	ListByRole(ctx context.Context, role string, id int) ([]dao.RoleOrderRow, error)
	History(ctx context.Context, orderID, limit, offset int) ([]dao.StatusLogEntry, error)
}

type Options struct {
	RequireHistory bool
	Flow           status.Flow
}

type OrderService struct {
	repo      repository.OrderRepositoryInterface
	publisher events.Publisher
	opts      Options
	validate  *validator.Validate
	log       *logger.Logger
}

func NewOrderService(repo repository.OrderRepositoryInterface, pub events.Publisher, opts Options, lg *logger.Logger) OrderServiceInterface {
	if opts.Flow == nil {
		opts.Flow = status.Open()
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &OrderService{repo: repo, publisher: pub, opts: opts, validate: validation.New(), log: lg}
}

func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (dao.Order, error) {
	if req.CourierID == nil {
		return dao.Order{}, apperr.Invalid("Courier id is missing")
	}
	if *req.CourierID <= 0 {
		return dao.Order{}, apperr.Invalid("Courier id must be greater than 0")
	}
	if err := validation.Struct(s.validate, req); err != nil {
		return dao.Order{}, err
	}

	order, err := s.repo.CreateOrder(ctx, req.ToNewOrder(), s.opts.RequireHistory)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNoRatingHistory):
		return dao.Order{}, apperr.Invalidf("Restaurant with id %d has no order history", req.RestaurantID)
	case errors.Is(err, repository.ErrNoCustomerHistory):
		return dao.Order{}, apperr.Invalidf("Customer with id %d has no order history", req.CustomerID)
	case errors.Is(err, repository.ErrInvalidReference):
		return dao.Order{}, apperr.Invalid("Order references a restaurant, customer, courier or product that does not exist")
	default:
		return dao.Order{}, apperr.Wrap(err, "create order")
	}

	items := make([]domain.OrderItemMsg, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, domain.OrderItemMsg{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	s.publish(ctx, domain.OrderEvent{
		Type:         domain.EventOrderCreated,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerID:   order.CustomerID,
		CourierID:    order.CourierID,
		Status:       order.Status,
		Items:        items,
	})
	logger.From(ctx, s.log).Info("order_created", map[string]any{
		"order_id":      order.ID,
		"restaurant_id": order.RestaurantID,
		"items":         len(order.Items),
	})
	return order, nil
}

func (s *OrderService) ChangeStatus(ctx context.Context, orderID int, req dto.ChangeStatusRequest) (dao.Status, error) {
	if req.Status == "" {
		return dao.Status{}, apperr.Invalid("Invalid or missing parameters")
	}

	change, err := s.repo.ChangeStatus(ctx, orderID, req.Status, s.opts.Flow)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUnknownStatus):
		return dao.Status{}, apperr.Invalid("Invalid or missing parameters")
	case errors.Is(err, repository.ErrNotFound):
		return dao.Status{}, apperr.NotFoundf("Order with id %d not found", orderID)
	case errors.Is(err, repository.ErrTransitionNotAllowed):
		return dao.Status{}, apperr.Invalid(err.Error())
	default:
		return dao.Status{}, apperr.Wrap(err, "change order status")
	}

	s.publish(ctx, domain.OrderEvent{
		Type:           domain.EventOrderStatusChanged,
		OrderID:        orderID,
		Status:         change.Status.Name,
		PreviousStatus: change.Previous,
	})
	logger.From(ctx, s.log).Info("order_status_changed", map[string]any{
		"order_id": orderID,
		"from":     change.Previous,
		"to":       change.Status.Name,
	})
	return change.Status, nil
}

func (s *OrderService) ListByRole(ctx context.Context, role string, id int) ([]dao.RoleOrderRow, error) {
	r, ok := repository.ParseRole(role)
	if !ok {
		return nil, apperr.Invalidf("Invalid type %q, expected customer, courier or restaurant", role)
	}
	if id <= 0 {
		return nil, apperr.Invalid("Invalid or missing parameters: id must be greater than 0")
	}
	rows, err := s.repo.ListByRole(ctx, r, id)
	if err != nil {
		return nil, apperr.Wrap(err, "list orders by role")
	}
	return rows, nil
}

func (s *OrderService) History(ctx context.Context, orderID, limit, offset int) ([]dao.StatusLogEntry, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	entries, err := s.repo.History(ctx, orderID, limit, offset)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFoundf("Order with id %d not found", orderID)
	}
	if err != nil {
		return nil, apperr.Wrap(err, "order history")
	}
	return entries, nil
}

// publish runs after commit. A failure is logged and the caller still
// gets its result.
func (s *OrderService) publish(ctx context.Context, ev domain.OrderEvent) {
	ev.OccurredAt = time.Now().UTC()
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(pctx, ev); err != nil {
		logger.From(ctx, s.log).Warn("order_event_publish_failed", err, map[string]any{
			"order_id": ev.OrderID,
			"type":     ev.Type,
		})
	}
}
