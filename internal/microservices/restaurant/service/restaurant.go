package service

import (
	"context"
	"errors"

	"food-delivery/internal/common/apperr"
	"food-delivery/internal/common/logger"
	"food-delivery/internal/common/validation"
	"food-delivery/internal/domain/rating"
	"food-delivery/internal/microservices/restaurant/domain/dao"
	"food-delivery/internal/microservices/restaurant/domain/dto"
	"food-delivery/internal/microservices/restaurant/repository"

	"github.com/go-playground/validator/v10"
)

type RestaurantServiceInterface interface {
	ListRestaurants(ctx context.Context, f dto.ListFilter) ([]dao.Restaurant, error)
	GetRestaurant(ctx context.Context, id int) (dao.Restaurant, error)
	CreateRestaurant(ctx context.Context, req dto.CreateRestaurantRequest) (dao.RestaurantDetails, error)
	UpdateRestaurant(ctx context.Context, id int, req dto.UpdateRestaurantRequest) (dao.RestaurantDetails, error)
	DeleteRestaurant(ctx context.Context, id int) (dao.Snapshot, error)
}

type RestaurantService struct {
	repo     repository.RestaurantRepositoryInterface
	validate *validator.Validate
	log      *logger.Logger
}

func NewRestaurantService(repo repository.RestaurantRepositoryInterface, lg *logger.Logger) RestaurantServiceInterface {
	return &RestaurantService{repo: repo, validate: validation.New(), log: lg}
}

func project(r dao.RatedRestaurant) dao.Restaurant {
	return dao.Restaurant{
		ID:         r.ID,
		Name:       r.Name,
		PriceRange: r.PriceRange,
		Rating:     rating.Displayed(r.RatingSum, r.RatingCount),
	}
}

// ListRestaurants filters by price range in storage and by the displayed
// rating after it is computed.
func (s *RestaurantService) ListRestaurants(ctx context.Context, f dto.ListFilter) ([]dao.Restaurant, error) {
	if err := validation.Struct(s.validate, f); err != nil {
		return nil, err
	}
	rated, err := s.repo.ListWithRatings(ctx, f.PriceRange)
	if err != nil {
		return nil, apperr.Wrap(err, "list restaurants")
	}

	out := make([]dao.Restaurant, 0, len(rated))
	for _, r := range rated {
		p := project(r)
		if f.Rating != nil && p.Rating != *f.Rating {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *RestaurantService) GetRestaurant(ctx context.Context, id int) (dao.Restaurant, error) {
	r, err := s.repo.GetWithRatings(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return dao.Restaurant{}, apperr.NotFoundf("Restaurant with id %d not found", id)
	}
	if err != nil {
		return dao.Restaurant{}, apperr.Wrap(err, "get restaurant")
	}
	return project(r), nil
}

func (s *RestaurantService) CreateRestaurant(ctx context.Context, req dto.CreateRestaurantRequest) (dao.RestaurantDetails, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return dao.RestaurantDetails{}, err
	}
	out, err := s.repo.Create(ctx, req.ToNewRestaurant())
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUserNotFound):
		return dao.RestaurantDetails{}, apperr.Invalidf("User with id %d not found", req.UserID)
	case errors.Is(err, repository.ErrInvalidReference):
		return dao.RestaurantDetails{}, apperr.Invalid("Invalid or missing parameters")
	default:
		return dao.RestaurantDetails{}, apperr.Wrap(err, "create restaurant")
	}

	logger.From(ctx, s.log).Info("restaurant_created", map[string]any{
		"restaurant_id": out.ID,
		"user_id":       out.UserID,
	})
	return out, nil
}

func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id int, req dto.UpdateRestaurantRequest) (dao.RestaurantDetails, error) {
	if err := validation.Struct(s.validate, req); err != nil {
		return dao.RestaurantDetails{}, err
	}
	out, err := s.repo.Update(ctx, id, req.ToUpdate())
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, repository.ErrNotFound):
		return dao.RestaurantDetails{}, apperr.NotFoundf("Restaurant with id %d not found", id)
	case errors.Is(err, repository.ErrInvalidReference):
		return dao.RestaurantDetails{}, apperr.Invalid("Invalid or missing parameters")
	default:
		return dao.RestaurantDetails{}, apperr.Wrap(err, "update restaurant")
	}
}

func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id int) (dao.Snapshot, error) {
	snap, report, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return dao.Snapshot{}, apperr.NotFoundf("Restaurant with id %d not found", id)
	}
	if err != nil {
		return dao.Snapshot{}, apperr.Wrap(err, "delete restaurant")
	}

	lg := logger.From(ctx, s.log)
	if report.AddressErr != nil {
		lg.Warn("restaurant_address_delete_failed", report.AddressErr, map[string]any{
			"restaurant_id": id,
			"address_id":    *report.AddressID,
		})
	}
	lg.Info("restaurant_deleted", map[string]any{
		"restaurant_id": id,
		"orders":        report.Orders,
		"line_items":    report.LineItems,
		"products":      report.Products,
	})
	return snap, nil
}
