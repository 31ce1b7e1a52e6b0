package repository

import (
	"context"
	"fmt"

	"food-delivery/internal/microservices/restaurant/domain/dao"
)

type ProductRepositoryInterface interface {
	ListByRestaurant(ctx context.Context, restaurantID int) ([]dao.Product, error)
}

type ProductRepository struct {
	db DB
}

func NewProductRepository(db DB) ProductRepositoryInterface {
	return &ProductRepository{db: db}
}

func (pr *ProductRepository) ListByRestaurant(ctx context.Context, restaurantID int) ([]dao.Product, error) {
	rows, err := pr.db.Query(ctx, `
		SELECT id, name, cost FROM products WHERE restaurant_id = $1 ORDER BY id
	`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products of restaurant %d: %w", restaurantID, err)
	}
	defer rows.Close()

	out := []dao.Product{}
	for rows.Next() {
		var p dao.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
