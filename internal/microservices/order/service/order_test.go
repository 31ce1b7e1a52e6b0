package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/domain"
	"food-delivery/internal/domain/status"
	"food-delivery/internal/microservices/order/domain/dao"
	"food-delivery/internal/microservices/order/domain/dto"
	"food-delivery/internal/microservices/order/repository"
)

type fakeRepo struct {
	createCalls      int
	ratedRestaurants map[int]bool
	statuses         map[string]int
	orders           map[int]string
	rows             []dao.RoleOrderRow
	history          []dao.StatusLogEntry
	createErr        error
	lastRole         repository.Role
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		ratedRestaurants: map[int]bool{1: true},
		statuses:         map[string]int{status.Pending: 1, status.InProgress: 2, status.Delivered: 3, status.Cancelled: 4},
		orders:           map[int]string{10: status.Pending},
	}
}

func (f *fakeRepo) CreateOrder(_ context.Context, o dao.NewOrder, requireHistory bool) (dao.Order, error) {
	f.createCalls++
	if f.createErr != nil {
		return dao.Order{}, f.createErr
	}
	if requireHistory && !f.ratedRestaurants[o.RestaurantID] {
		return dao.Order{}, repository.ErrNoRatingHistory
	}
	courier := o.CourierID
	out := dao.Order{
		ID: 99, RestaurantID: o.RestaurantID, CustomerID: o.CustomerID, CourierID: &courier,
		StatusID: status.DefaultID, Status: status.Pending,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dao.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out, nil
}

func (f *fakeRepo) ChangeStatus(_ context.Context, orderID int, name string, flow status.Flow) (dao.StatusChange, error) {
	id, ok := f.statuses[name]
	if !ok {
		return dao.StatusChange{}, repository.ErrUnknownStatus
	}
	prev, ok := f.orders[orderID]
	if !ok {
		return dao.StatusChange{}, repository.ErrNotFound
	}
	if !flow.Allowed(prev, name) {
		return dao.StatusChange{}, fmt.Errorf("%w: %s -> %s", repository.ErrTransitionNotAllowed, prev, name)
	}
	f.orders[orderID] = name
	return dao.StatusChange{Status: dao.Status{ID: id, Name: name}, Previous: prev}, nil
}

func (f *fakeRepo) ListByRole(_ context.Context, role repository.Role, _ int) ([]dao.RoleOrderRow, error) {
	f.lastRole = role
	return f.rows, nil
}

func (f *fakeRepo) History(_ context.Context, orderID, limit, offset int) ([]dao.StatusLogEntry, error) {
	if _, ok := f.orders[orderID]; !ok {
		return nil, repository.ErrNotFound
	}
	if limit > maxHistoryLimit || offset < 0 {
		return nil, errors.New("limits not normalised")
	}
	return f.history, nil
}

type fakePublisher struct {
	events []domain.OrderEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, ev domain.OrderEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func newService(repo *fakeRepo, pub *fakePublisher, opts Options) OrderServiceInterface {
	return NewOrderService(repo, pub, opts, logger.NewWithLevel("test", "error", io.Discard))
}

func intPtr(v int) *int { return &v }

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		RestaurantID: 1,
		CustomerID:   2,
		CourierID:    intPtr(3),
		Products:     []dto.ProductQuantity{{ID: 4, Quantity: 2}, {ID: 5, Quantity: 1}},
	}
}

func TestCreateOrderReturnsRequestedItems(t *testing.T) {
	repo, pub := newFakeRepo(), &fakePublisher{}
	svc := newService(repo, pub, Options{RequireHistory: true})

	req := validRequest()
	got, err := svc.CreateOrder(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != status.Pending || got.StatusID != status.DefaultID {
		t.Fatalf("status = %d %q", got.StatusID, got.Status)
	}
	if len(got.Items) != len(req.Products) {
		t.Fatalf("items = %d, want %d", len(got.Items), len(req.Products))
	}
	for i, p := range req.Products {
		if got.Items[i].ProductID != p.ID || got.Items[i].Quantity != p.Quantity {
			t.Fatalf("item %d = %+v, want %+v", i, got.Items[i], p)
		}
	}
	if len(pub.events) != 1 || pub.events[0].Type != domain.EventOrderCreated || len(pub.events[0].Items) != 2 {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestCreateOrderRejectsInvalidInputWithoutTouchingRepo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.CreateOrderRequest)
	}{
		{"empty items", func(r *dto.CreateOrderRequest) { r.Products = []dto.ProductQuantity{} }},
		{"nil items", func(r *dto.CreateOrderRequest) { r.Products = nil }},
		{"missing courier", func(r *dto.CreateOrderRequest) { r.CourierID = nil }},
		{"zero courier", func(r *dto.CreateOrderRequest) { r.CourierID = intPtr(0) }},
		{"zero restaurant", func(r *dto.CreateOrderRequest) { r.RestaurantID = 0 }},
		{"negative customer", func(r *dto.CreateOrderRequest) { r.CustomerID = -1 }},
		{"zero quantity", func(r *dto.CreateOrderRequest) { r.Products[0].Quantity = 0 }},
		{"zero product", func(r *dto.CreateOrderRequest) { r.Products[1].ID = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, pub := newFakeRepo(), &fakePublisher{}
			svc := newService(repo, pub, Options{RequireHistory: true})
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.CreateOrder(context.Background(), req)
			if apperr.KindOf(err) != apperr.InvalidInput {
				t.Fatalf("kind = %v (%v)", apperr.KindOf(err), err)
			}
			if repo.createCalls != 0 || len(pub.events) != 0 {
				t.Fatalf("side effects on invalid input: calls=%d events=%d", repo.createCalls, len(pub.events))
			}
		})
	}
}

func TestCreateOrderMissingCourierMessage(t *testing.T) {
	svc := newService(newFakeRepo(), &fakePublisher{}, Options{})
	req := validRequest()
	req.CourierID = nil
	_, err := svc.CreateOrder(context.Background(), req)
	if apperr.Message(err) != "Courier id is missing" {
		t.Fatalf("message = %q", apperr.Message(err))
	}
}

func TestCreateOrderHistoryPolicy(t *testing.T) {
	req := validRequest()
	req.RestaurantID = 7

	strict := newService(newFakeRepo(), &fakePublisher{}, Options{RequireHistory: true})
	if _, err := strict.CreateOrder(context.Background(), req); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("strict policy: kind = %v", apperr.KindOf(err))
	}

	bootstrap := newService(newFakeRepo(), &fakePublisher{}, Options{RequireHistory: false})
	if _, err := bootstrap.CreateOrder(context.Background(), req); err != nil {
		t.Fatalf("bootstrap policy: %v", err)
	}
}

func TestCreateOrderErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want apperr.Kind
	}{
		{repository.ErrNoCustomerHistory, apperr.InvalidInput},
		{fmt.Errorf("%w: fk", repository.ErrInvalidReference), apperr.InvalidInput},
		{errors.New("connection reset"), apperr.Internal},
	}
	for _, tt := range tests {
		repo := newFakeRepo()
		repo.createErr = tt.err
		pub := &fakePublisher{}
		_, err := newService(repo, pub, Options{}).CreateOrder(context.Background(), validRequest())
		if apperr.KindOf(err) != tt.want {
			t.Errorf("%v: kind = %v, want %v", tt.err, apperr.KindOf(err), tt.want)
		}
		if len(pub.events) != 0 {
			t.Errorf("%v: event published for failed create", tt.err)
		}
	}
}

func TestCreateOrderPublishFailureDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	if _, err := newService(newFakeRepo(), pub, Options{}).CreateOrder(context.Background(), validRequest()); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestChangeStatus(t *testing.T) {
	repo, pub := newFakeRepo(), &fakePublisher{}
	svc := newService(repo, pub, Options{})

	got, err := svc.ChangeStatus(context.Background(), 10, dto.ChangeStatusRequest{Status: status.Delivered})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != 3 || got.Name != status.Delivered {
		t.Fatalf("status = %+v", got)
	}
	if len(pub.events) != 1 || pub.events[0].PreviousStatus != status.Pending {
		t.Fatalf("events = %+v", pub.events)
	}

	// open flow allows moving back
	if _, err := svc.ChangeStatus(context.Background(), 10, dto.ChangeStatusRequest{Status: status.Pending}); err != nil {
		t.Fatal(err)
	}
}

func TestChangeStatusUnknownNameIsInvalidRegardlessOfOrder(t *testing.T) {
	svc := newService(newFakeRepo(), &fakePublisher{}, Options{})
	for _, id := range []int{10, 12345} {
		_, err := svc.ChangeStatus(context.Background(), id, dto.ChangeStatusRequest{Status: "Teleported"})
		if apperr.KindOf(err) != apperr.InvalidInput {
			t.Fatalf("order %d: kind = %v", id, apperr.KindOf(err))
		}
	}
	_, err := svc.ChangeStatus(context.Background(), 10, dto.ChangeStatusRequest{Status: "pending"})
	if apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatal("status names are case-sensitive")
	}
}

func TestChangeStatusUnknownOrder(t *testing.T) {
	svc := newService(newFakeRepo(), &fakePublisher{}, Options{})
	_, err := svc.ChangeStatus(context.Background(), 404, dto.ChangeStatusRequest{Status: status.Delivered})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("kind = %v", apperr.KindOf(err))
	}
	if apperr.Message(err) != "Order with id 404 not found" {
		t.Fatalf("message = %q", apperr.Message(err))
	}
}

func TestChangeStatusForwardFlow(t *testing.T) {
	svc := newService(newFakeRepo(), &fakePublisher{}, Options{Flow: status.Forward()})
	_, err := svc.ChangeStatus(context.Background(), 10, dto.ChangeStatusRequest{Status: status.Delivered})
	if apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("Pending -> Delivered must be rejected, got %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), 10, dto.ChangeStatusRequest{Status: status.InProgress}); err != nil {
		t.Fatal(err)
	}
}

func TestListByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakePublisher{}, Options{})

	if _, err := svc.ListByRole(context.Background(), "admin", 1); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("unknown role: kind = %v", apperr.KindOf(err))
	}
	if _, err := svc.ListByRole(context.Background(), "courier", 0); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("zero id: kind = %v", apperr.KindOf(err))
	}

	rows, err := svc.ListByRole(context.Background(), "Restaurant", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 0 || repo.lastRole != repository.RoleRestaurant {
		t.Fatalf("rows = %v role = %q", rows, repo.lastRole)
	}
}

func TestHistory(t *testing.T) {
	repo := newFakeRepo()
	repo.history = []dao.StatusLogEntry{{Status: status.Pending, ChangedBy: "order-service"}}
	svc := newService(repo, &fakePublisher{}, Options{})

	got, err := svc.History(context.Background(), 10, 1000, -5)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := svc.History(context.Background(), 11, 0, 0); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("kind = %v", apperr.KindOf(err))
	}
}
