package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/microservices/restaurant/domain/dao"
	"food-delivery/internal/microservices/restaurant/domain/dto"
	"food-delivery/internal/microservices/restaurant/repository"

	"github.com/shopspring/decimal"
)

type memRestaurant struct {
	name       string
	priceRange int
	addressID  int
	ratings    []int
	products   int
}

// memRepo keeps restaurants in memory and mimics the cascade of Delete.
type memRepo struct {
	restaurants map[int]*memRestaurant
	users       map[int]bool
	nextID      int
	addressErr  error
}

func newMemRepo() *memRepo {
	return &memRepo{
		restaurants: map[int]*memRestaurant{
			1:  {name: "Pasta Place", priceRange: 2, ratings: []int{3, 4, 4}},
			2:  {name: "Burger Barn", priceRange: 1, ratings: []int{5, 5}},
			3:  {name: "New Sushi", priceRange: 3},
			30: {name: "Doomed Diner", priceRange: 1, addressID: 300, ratings: []int{2, 3}, products: 5},
		},
		users:  map[int]bool{9: true},
		nextID: 100,
	}
}

func (m *memRepo) rated(id int) dao.RatedRestaurant {
	r := m.restaurants[id]
	var sum int64
	for _, v := range r.ratings {
		sum += int64(v)
	}
	return dao.RatedRestaurant{ID: id, Name: r.name, PriceRange: r.priceRange, RatingSum: sum, RatingCount: int64(len(r.ratings))}
}

func (m *memRepo) ListWithRatings(_ context.Context, priceRange *int) ([]dao.RatedRestaurant, error) {
	var out []dao.RatedRestaurant
	for _, id := range []int{1, 2, 3, 30} {
		r, ok := m.restaurants[id]
		if !ok || (priceRange != nil && r.priceRange != *priceRange) {
			continue
		}
		out = append(out, m.rated(id))
	}
	return out, nil
}

func (m *memRepo) GetWithRatings(_ context.Context, id int) (dao.RatedRestaurant, error) {
	if _, ok := m.restaurants[id]; !ok {
		return dao.RatedRestaurant{}, repository.ErrNotFound
	}
	return m.rated(id), nil
}

func (m *memRepo) Create(_ context.Context, n dao.NewRestaurant) (dao.RestaurantDetails, error) {
	if !m.users[n.UserID] {
		return dao.RestaurantDetails{}, repository.ErrUserNotFound
	}
	m.nextID++
	m.restaurants[m.nextID] = &memRestaurant{name: n.Name, priceRange: n.PriceRange}
	addr := n.Address
	addr.ID = m.nextID
	return dao.RestaurantDetails{ID: m.nextID, Name: n.Name, PriceRange: n.PriceRange, UserID: n.UserID, AddressID: &addr.ID, Address: &addr}, nil
}

func (m *memRepo) Update(_ context.Context, id int, u dao.RestaurantUpdate) (dao.RestaurantDetails, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return dao.RestaurantDetails{}, repository.ErrNotFound
	}
	r.name, r.priceRange = u.Name, u.PriceRange
	return dao.RestaurantDetails{ID: id, Name: u.Name, PriceRange: u.PriceRange, Phone: u.Phone}, nil
}

func (m *memRepo) Delete(_ context.Context, id int) (dao.Snapshot, dao.DeleteReport, error) {
	r, ok := m.restaurants[id]
	if !ok {
		return dao.Snapshot{}, dao.DeleteReport{}, repository.ErrNotFound
	}
	delete(m.restaurants, id)
	addr := r.addressID
	return dao.Snapshot{ID: id, Name: r.name, PriceRange: r.priceRange},
		dao.DeleteReport{Orders: int64(len(r.ratings)), Products: int64(r.products), AddressID: &addr, AddressErr: m.addressErr},
		nil
}

func newRestaurantService(m *memRepo) RestaurantServiceInterface {
	return NewRestaurantService(m, logger.NewWithLevel("test", "error", io.Discard))
}

func intPtr(v int) *int { return &v }

func TestGetRestaurantRating(t *testing.T) {
	svc := newRestaurantService(newMemRepo())

	got, err := svc.GetRestaurant(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Rating != 4 || got.Name != "Pasta Place" || got.PriceRange != 2 {
		t.Fatalf("got %+v", got)
	}

	unrated, err := svc.GetRestaurant(context.Background(), 3)
	if err != nil || unrated.Rating != 0 {
		t.Fatalf("unrated = %+v, %v", unrated, err)
	}

	_, err = svc.GetRestaurant(context.Background(), 77)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("kind = %v", apperr.KindOf(err))
	}
}

func TestListRestaurantsFiltersOnDisplayedRating(t *testing.T) {
	svc := newRestaurantService(newMemRepo())

	all, err := svc.ListRestaurants(context.Background(), dto.ListFilter{})
	if err != nil || len(all) != 4 {
		t.Fatalf("all = %v, %v", all, err)
	}

	// Pasta Place averages 3.67, which is displayed as 4
	four, err := svc.ListRestaurants(context.Background(), dto.ListFilter{Rating: intPtr(4)})
	if err != nil {
		t.Fatal(err)
	}
	if len(four) != 1 || four[0].ID != 1 {
		t.Fatalf("rating=4: %+v", four)
	}

	cheapFives, err := svc.ListRestaurants(context.Background(), dto.ListFilter{Rating: intPtr(5), PriceRange: intPtr(1)})
	if err != nil {
		t.Fatal(err)
	}
	if len(cheapFives) != 1 || cheapFives[0].ID != 2 {
		t.Fatalf("rating=5 price=1: %+v", cheapFives)
	}
}

func TestListRestaurantsRejectsOutOfRangeFilters(t *testing.T) {
	svc := newRestaurantService(newMemRepo())
	for _, f := range []dto.ListFilter{
		{Rating: intPtr(6)},
		{Rating: intPtr(0)},
		{PriceRange: intPtr(4)},
		{PriceRange: intPtr(0)},
	} {
		if _, err := svc.ListRestaurants(context.Background(), f); apperr.KindOf(err) != apperr.InvalidInput {
			t.Fatalf("filter %+v: kind = %v", f, apperr.KindOf(err))
		}
	}
}

func TestCreateRestaurant(t *testing.T) {
	svc := newRestaurantService(newMemRepo())
	req := dto.CreateRestaurantRequest{
		Name: "Taco Town", PriceRange: 1, Phone: "+1-555-0100", Email: "taco@example.com",
		StreetAddress: "1 Main St", City: "Springfield", PostalCode: "12345", UserID: 9,
	}
	got, err := svc.CreateRestaurant(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID == 0 || got.Address == nil || got.Address.City != "Springfield" {
		t.Fatalf("got %+v", got)
	}

	req.UserID = 10
	if _, err := svc.CreateRestaurant(context.Background(), req); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("unknown user: kind = %v", apperr.KindOf(err))
	}

	req.UserID, req.PriceRange = 9, 4
	if _, err := svc.CreateRestaurant(context.Background(), req); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("price range 4: kind = %v", apperr.KindOf(err))
	}
}

func TestUpdateRestaurant(t *testing.T) {
	svc := newRestaurantService(newMemRepo())
	req := dto.UpdateRestaurantRequest{Name: "Pasta Palace", PriceRange: 3, Phone: "555"}

	got, err := svc.UpdateRestaurant(context.Background(), 1, req)
	if err != nil || got.Name != "Pasta Palace" {
		t.Fatalf("got %+v, %v", got, err)
	}
	if _, err := svc.UpdateRestaurant(context.Background(), 999, req); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("missing: kind = %v", apperr.KindOf(err))
	}
	req.Name = ""
	if _, err := svc.UpdateRestaurant(context.Background(), 1, req); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("empty name: kind = %v", apperr.KindOf(err))
	}
}

func TestDeleteRestaurantTwice(t *testing.T) {
	m := newMemRepo()
	svc := newRestaurantService(m)

	snap, err := svc.DeleteRestaurant(context.Background(), 30)
	if err != nil {
		t.Fatal(err)
	}
	if snap.ID != 30 || snap.Name != "Doomed Diner" || snap.PriceRange != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}

	_, err = svc.DeleteRestaurant(context.Background(), 30)
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("second delete: kind = %v", apperr.KindOf(err))
	}
	if apperr.Message(err) != "Restaurant with id 30 not found" {
		t.Fatalf("message = %q", apperr.Message(err))
	}
}

func TestDeleteRestaurantToleratesAddressFailure(t *testing.T) {
	m := newMemRepo()
	m.addressErr = errors.New("address still referenced")
	if _, err := newRestaurantService(m).DeleteRestaurant(context.Background(), 30); err != nil {
		t.Fatalf("address failure must not fail the delete: %v", err)
	}
}

type memProducts map[int][]dao.Product

func (m memProducts) ListByRestaurant(_ context.Context, id int) ([]dao.Product, error) {
	return m[id], nil
}

func TestListProducts(t *testing.T) {
	svc := NewProductService(memProducts{
		1: {{ID: 1, Name: "Margherita", Cost: decimal.RequireFromString("9.50")}},
	})

	got, err := svc.ListProducts(context.Background(), 1)
	if err != nil || len(got) != 1 || !got[0].Cost.Equal(decimal.RequireFromString("9.5")) {
		t.Fatalf("got %+v, %v", got, err)
	}

	_, err = svc.ListProducts(context.Background(), 2)
	if apperr.KindOf(err) != apperr.NotFound || apperr.Message(err) != "Products from the restaurant 2 not found" {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.ListProducts(context.Background(), 0); apperr.KindOf(err) != apperr.InvalidInput {
		t.Fatalf("kind = %v", apperr.KindOf(err))
	}
}
