package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"food-delivery/internal/connections/database"
	"food-delivery/internal/domain/rating"
	"food-delivery/internal/domain/status"
	"food-delivery/internal/microservices/order/domain/dao"

	"github.com/jackc/pgx/v5"
)

var (
	ErrNotFound             = errors.New("order not found")
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrTransitionNotAllowed = errors.New("order status transition not allowed")
	ErrNoRatingHistory      = errors.New("restaurant has no rated orders")
	ErrNoCustomerHistory    = errors.New("customer has no orders")
	ErrInvalidReference     = errors.New("order references a missing row")
)

// Role selects which party's orders ListByRole returns.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleCourier    Role = "courier"
	RoleRestaurant Role = "restaurant"
)

var roleColumns = map[Role]string{
	RoleCustomer:   "o.customer_id",
	RoleCourier:    "o.courier_id",
	RoleRestaurant: "o.restaurant_id",
}

// ParseRole is case-insensitive.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	_, ok := roleColumns[r]
	return r, ok
}

type OrderRepositoryInterface interface {
	CreateOrder(ctx context.Context, o dao.NewOrder, requireHistory bool) (dao.Order, error)
	ChangeStatus(ctx context.Context, orderID int, name string, flow status.Flow) (dao.StatusChange, error)
	ListByRole(ctx context.Context, role Role, id int) ([]dao.RoleOrderRow, error)
	History(ctx context.Context, orderID, limit, offset int) ([]dao.StatusLogEntry, error)
}

type DB interface {
	database.Querier
	database.Beginner
}

type OrderRepository struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

const changedBy = "order-service"

func (or *OrderRepository) CreateOrder(ctx context.Context, o dao.NewOrder, requireHistory bool) (dao.Order, error) {
	var created dao.Order
	err := database.WithTx(ctx, or.db, func(tx pgx.Tx) error {
		// 1. Rating snapshot from the restaurant's previous rated orders.
		// Unrated (NULL) orders are not counted, so a restaurant that only
		// has unrated orders has no rating history.
		var sum, count int64
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(SUM(restaurant_rating), 0), COUNT(restaurant_rating)
			FROM orders WHERE restaurant_id = $1
		`, o.RestaurantID).Scan(&sum, &count)
		if err != nil {
			return fmt.Errorf("failed to read restaurant ratings: %w", err)
		}
		var snapshot *int
		if avg, ok := rating.Snapshot(sum, count); ok {
			snapshot = &avg
		} else if requireHistory {
			return ErrNoRatingHistory
		}

		// 2. Customer through an earlier order
		customerID := o.CustomerID
		err = tx.QueryRow(ctx, `
			SELECT customer_id FROM orders WHERE customer_id = $1 ORDER BY id LIMIT 1
		`, o.CustomerID).Scan(&customerID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if requireHistory {
				return ErrNoCustomerHistory
			}
		case err != nil:
			return fmt.Errorf("failed to resolve customer: %w", err)
		}

		// 3. Order row
		var orderID int
		err = tx.QueryRow(ctx, `
			INSERT INTO orders (restaurant_id, customer_id, courier_id, restaurant_rating, status_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, o.RestaurantID, customerID, o.CourierID, snapshot, status.DefaultID).Scan(&orderID)
		if err != nil {
			return classify(fmt.Errorf("failed to insert order: %w", err))
		}

		// 4. Line items
		for _, item := range o.Items {
			_, err = tx.Exec(ctx, `
				INSERT INTO product_orders (order_id, product_id, product_quantity)
				VALUES ($1, $2, $3)
			`, orderID, item.ProductID, item.Quantity)
			if err != nil {
				return classify(fmt.Errorf("failed to insert line item for product %d: %w", item.ProductID, err))
			}
		}

		// 5. Status log
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_log (order_id, status, changed_by)
			SELECT $1, name, $2 FROM order_statuses WHERE id = $3
		`, orderID, changedBy, status.DefaultID)
		if err != nil {
			return fmt.Errorf("failed to insert order status log: %w", err)
		}

		created, err = getOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return dao.Order{}, err
	}
	return created, nil
}

func getOrder(ctx context.Context, q database.Querier, id int) (dao.Order, error) {
	var o dao.Order
	err := q.QueryRow(ctx, `
		SELECT o.id, o.restaurant_id, r.name, o.customer_id, cu.name,
		       o.courier_id, COALESCE(ku.name, ''), o.status_id, s.name,
		       o.restaurant_rating, o.created_at
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		JOIN customers c ON c.id = o.customer_id
		JOIN users cu ON cu.id = c.user_id
		LEFT JOIN courier k ON k.id = o.courier_id
		LEFT JOIN users ku ON ku.id = k.user_id
		JOIN order_statuses s ON s.id = o.status_id
		WHERE o.id = $1
	`, id).Scan(
		&o.ID, &o.RestaurantID, &o.RestaurantName, &o.CustomerID, &o.CustomerName,
		&o.CourierID, &o.CourierName, &o.StatusID, &o.Status,
		&o.RestaurantRating, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return dao.Order{}, ErrNotFound
	}
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	rows, err := q.Query(ctx, `
		SELECT p.id, p.name, po.product_quantity, p.cost, po.product_quantity * p.cost
		FROM product_orders po
		JOIN products p ON p.id = po.product_id
		WHERE po.order_id = $1
		ORDER BY po.id
	`, id)
	if err != nil {
		return dao.Order{}, fmt.Errorf("failed to get items of order %d: %w", id, err)
	}
	defer rows.Close()

	o.Items = []dao.OrderItem{}
	for rows.Next() {
		var it dao.OrderItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.UnitCost, &it.Cost); err != nil {
			return dao.Order{}, fmt.Errorf("failed to scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	return o, rows.Err()
}

// ChangeStatus resolves the status name first, then locks the order row so
// the transition check and the update see the same current status.
func (or *OrderRepository) ChangeStatus(ctx context.Context, orderID int, name string, flow status.Flow) (dao.StatusChange, error) {
	var change dao.StatusChange
	err := database.WithTx(ctx, or.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT id, name FROM order_statuses WHERE name = $1`, name).
			Scan(&change.Status.ID, &change.Status.Name)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUnknownStatus
		}
		if err != nil {
			return fmt.Errorf("failed to find status %q: %w", name, err)
		}

		err = tx.QueryRow(ctx, `
			SELECT s.name FROM orders o
			JOIN order_statuses s ON s.id = o.status_id
			WHERE o.id = $1
			FOR UPDATE OF o
		`, orderID).Scan(&change.Previous)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock order %d: %w", orderID, err)
		}

		if !flow.Allowed(change.Previous, change.Status.Name) {
			return fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, change.Previous, change.Status.Name)
		}

		if _, err = tx.Exec(ctx, `UPDATE orders SET status_id = $1 WHERE id = $2`, change.Status.ID, orderID); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO order_status_log (order_id, status, changed_by)
			VALUES ($1, $2, $3)
		`, orderID, change.Status.Name, changedBy)
		if err != nil {
			return fmt.Errorf("failed to insert order status log: %w", err)
		}
		return nil
	})
	if err != nil {
		return dao.StatusChange{}, err
	}
	return change, nil
}

func (or *OrderRepository) ListByRole(ctx context.Context, role Role, id int) ([]dao.RoleOrderRow, error) {
	col, ok := roleColumns[role]
	if !ok {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	rows, err := or.db.Query(ctx, `
		SELECT o.id, o.customer_id, cu.email,
		       CONCAT_WS(', ', ca.street_address, ca.city, ca.postal_code),
		       o.restaurant_id, r.name,
		       CONCAT_WS(', ', ra.street_address, ra.city, ra.postal_code),
		       o.courier_id, COALESCE(ku.name, ''), s.name,
		       p.id, p.name, po.product_quantity, p.cost, po.product_quantity * p.cost
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		JOIN users cu ON cu.id = c.user_id
		LEFT JOIN addresses ca ON ca.id = c.address_id
		JOIN restaurants r ON r.id = o.restaurant_id
		LEFT JOIN addresses ra ON ra.id = r.address_id
		LEFT JOIN courier k ON k.id = o.courier_id
		LEFT JOIN users ku ON ku.id = k.user_id
		JOIN order_statuses s ON s.id = o.status_id
		JOIN product_orders po ON po.order_id = o.id
		JOIN products p ON p.id = po.product_id
		WHERE `+col+` = $1
		ORDER BY o.id, po.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by %s: %w", role, err)
	}
	defer rows.Close()

	out := []dao.RoleOrderRow{}
	for rows.Next() {
		var r dao.RoleOrderRow
		if err := rows.Scan(
			&r.ID, &r.CustomerID, &r.CustomerEmail, &r.CustomerAddress,
			&r.RestaurantID, &r.RestaurantName, &r.RestaurantAddress,
			&r.CourierID, &r.CourierName, &r.Status,
			&r.ProductID, &r.ProductName, &r.ProductQuantity, &r.UnitCost, &r.TotalCost,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (or *OrderRepository) History(ctx context.Context, orderID, limit, offset int) ([]dao.StatusLogEntry, error) {
	var exists bool
	if err := or.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check order %d: %w", orderID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := or.db.Query(ctx, `
		SELECT status, changed_by, changed_at
		FROM order_status_log WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, orderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get history of order %d: %w", orderID, err)
	}
	defer rows.Close()

	out := []dao.StatusLogEntry{}
	for rows.Next() {
		var e dao.StatusLogEntry
		if err := rows.Scan(&e.Status, &e.ChangedBy, &e.ChangedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func classify(err error) error {
	if database.IsForeignKeyViolation(err) || database.IsCheckViolation(err) {
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	return err
}
