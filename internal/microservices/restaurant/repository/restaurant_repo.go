package repository

import (
	"context"
	"errors"
	"fmt"

	"food-delivery/internal/connections/database"
	"food-delivery/internal/microservices/restaurant/domain/dao"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound         = errors.New("restaurant not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidReference = errors.New("restaurant references a missing row")
)

type RestaurantRepositoryInterface interface {
	ListWithRatings(ctx context.Context, priceRange *int) ([]dao.RatedRestaurant, error)
	GetWithRatings(ctx context.Context, id int) (dao.RatedRestaurant, error)
	Create(ctx context.Context, r dao.NewRestaurant) (dao.RestaurantDetails, error)
	Update(ctx context.Context, id int, u dao.RestaurantUpdate) (dao.RestaurantDetails, error)
	Delete(ctx context.Context, id int) (dao.Snapshot, dao.DeleteReport, error)
}

type DB interface {
	database.Querier
	database.Beginner
}

type RestaurantRepository struct {
	db DB
}

func NewRestaurantRepository(db DB) RestaurantRepositoryInterface {
	return &RestaurantRepository{db: db}
}

const ratedSelect = `
	SELECT r.id, r.name, r.price_range,
	       COALESCE(SUM(o.restaurant_rating), 0), COUNT(o.restaurant_rating)
	FROM restaurants r
	LEFT JOIN orders o ON o.restaurant_id = r.id
`

func (rr *RestaurantRepository) ListWithRatings(ctx context.Context, priceRange *int) ([]dao.RatedRestaurant, error) {
	rows, err := rr.db.Query(ctx, ratedSelect+`
		WHERE ($1::int IS NULL OR r.price_range = $1)
		GROUP BY r.id
		ORDER BY r.id
	`, priceRange)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	out := []dao.RatedRestaurant{}
	for rows.Next() {
		var r dao.RatedRestaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.PriceRange, &r.RatingSum, &r.RatingCount); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (rr *RestaurantRepository) GetWithRatings(ctx context.Context, id int) (dao.RatedRestaurant, error) {
	var r dao.RatedRestaurant
	err := rr.db.QueryRow(ctx, ratedSelect+`
		WHERE r.id = $1
		GROUP BY r.id
	`, id).Scan(&r.ID, &r.Name, &r.PriceRange, &r.RatingSum, &r.RatingCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return dao.RatedRestaurant{}, ErrNotFound
	}
	if err != nil {
		return dao.RatedRestaurant{}, fmt.Errorf("failed to get restaurant %d: %w", id, err)
	}
	return r, nil
}

func (rr *RestaurantRepository) Create(ctx context.Context, n dao.NewRestaurant) (dao.RestaurantDetails, error) {
	var out dao.RestaurantDetails
	err := database.WithTx(ctx, rr.db, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, n.UserID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check user %d: %w", n.UserID, err)
		}
		if !exists {
			return ErrUserNotFound
		}

		addr := n.Address
		err := tx.QueryRow(ctx, `
			INSERT INTO addresses (street_address, city, postal_code)
			VALUES ($1, $2, $3)
			RETURNING id
		`, addr.StreetAddress, addr.City, addr.PostalCode).Scan(&addr.ID)
		if err != nil {
			return fmt.Errorf("failed to insert address: %w", err)
		}

		out = dao.RestaurantDetails{
			Name: n.Name, PriceRange: n.PriceRange, Phone: n.Phone, Email: n.Email,
			UserID: n.UserID, AddressID: &addr.ID, Address: &addr,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO restaurants (name, price_range, phone, email, address_id, user_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, n.Name, n.PriceRange, n.Phone, n.Email, addr.ID, n.UserID).Scan(&out.ID)
		if err != nil {
			return classify(fmt.Errorf("failed to insert restaurant: %w", err))
		}
		return nil
	})
	if err != nil {
		return dao.RestaurantDetails{}, err
	}
	return out, nil
}

func (rr *RestaurantRepository) Update(ctx context.Context, id int, u dao.RestaurantUpdate) (dao.RestaurantDetails, error) {
	var out dao.RestaurantDetails
	err := rr.db.QueryRow(ctx, `
		UPDATE restaurants SET name = $1, price_range = $2, phone = $3
		WHERE id = $4
		RETURNING id, name, price_range, phone, email, user_id, address_id
	`, u.Name, u.PriceRange, u.Phone, id).Scan(
		&out.ID, &out.Name, &out.PriceRange, &out.Phone, &out.Email, &out.UserID, &out.AddressID,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dao.RestaurantDetails{}, ErrNotFound
	}
	if err != nil {
		return dao.RestaurantDetails{}, classify(fmt.Errorf("failed to update restaurant %d: %w", id, err))
	}
	return out, nil
}

// Delete removes a restaurant with its orders, line items and products in
// one transaction. The address is removed under a savepoint: if that fails
// the rest still commits and the failure is returned in the report.
func (rr *RestaurantRepository) Delete(ctx context.Context, id int) (dao.Snapshot, dao.DeleteReport, error) {
	var (
		snap   dao.Snapshot
		report dao.DeleteReport
	)
	err := database.WithTx(ctx, rr.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, name, price_range, address_id FROM restaurants WHERE id = $1 FOR UPDATE
		`, id).Scan(&snap.ID, &snap.Name, &snap.PriceRange, &report.AddressID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read restaurant %d: %w", id, err)
		}

		tag, err := tx.Exec(ctx, `
			DELETE FROM product_orders
			WHERE order_id IN (SELECT id FROM orders WHERE restaurant_id = $1)
			   OR product_id IN (SELECT id FROM products WHERE restaurant_id = $1)
		`, id)
		if err != nil {
			return fmt.Errorf("failed to delete line items: %w", err)
		}
		report.LineItems = tag.RowsAffected()

		if tag, err = tx.Exec(ctx, `DELETE FROM orders WHERE restaurant_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete orders: %w", err)
		}
		report.Orders = tag.RowsAffected()

		if tag, err = tx.Exec(ctx, `DELETE FROM products WHERE restaurant_id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete products: %w", err)
		}
		report.Products = tag.RowsAffected()

		if _, err = tx.Exec(ctx, `DELETE FROM restaurants WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete restaurant: %w", err)
		}

		if report.AddressID != nil {
			report.AddressErr = deleteAddress(ctx, tx, *report.AddressID)
		}
		return nil
	})
	if err != nil {
		return dao.Snapshot{}, dao.DeleteReport{}, err
	}
	return snap, report, nil
}

func deleteAddress(ctx context.Context, tx pgx.Tx, addressID int) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint: %w", err)
	}
	if _, err := sp.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, addressID); err != nil {
		_ = sp.Rollback(ctx)
		return fmt.Errorf("failed to delete address %d: %w", addressID, err)
	}
	return sp.Commit(ctx)
}

func classify(err error) error {
	if database.IsForeignKeyViolation(err) || database.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}
