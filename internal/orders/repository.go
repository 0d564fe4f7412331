package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Repository persists mirrored orders. Every method is scoped to one seller.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	FindByNumber(ctx context.Context, userID, orderNumber string) (*Order, error)
	// Upsert inserts or updates by (user, order number) and reports whether
	// a new row was created.
	Upsert(ctx context.Context, order Order) (bool, error)
	UpdateStatus(ctx context.Context, userID, orderNumber, status string, at time.Time) error
	Delete(ctx context.Context, userID, orderNumber string) error
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

const selectOrderColumns = `id::text, order_number, customer_name, customer_email, total_price::text,
	status, lines, order_date, updated_at`

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectOrderColumns+`
		FROM orders WHERE user_id = $1 ORDER BY order_date DESC, order_number`, userID)
	if err != nil {
		return nil, fmt.Errorf("orders: list: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		o.UserID = userID
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *repository) FindByNumber(ctx context.Context, userID, orderNumber string) (*Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectOrderColumns+`
		FROM orders WHERE user_id = $1 AND order_number = $2`, userID, orderNumber)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
		}
		return nil, err
	}
	o.UserID = userID
	return &o, nil
}

func (r *repository) Upsert(ctx context.Context, o Order) (bool, error) {
	lines, err := json.Marshal(o.Lines)
	if err != nil {
		return false, fmt.Errorf("orders: encode lines: %w", err)
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	var inserted bool
	err = r.db.QueryRow(ctx, `
		INSERT INTO orders (id, user_id, order_number, customer_name, customer_email,
		                    total_price, status, lines, order_date, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9, $10)
		ON CONFLICT (user_id, order_number) DO UPDATE SET
			customer_name  = EXCLUDED.customer_name,
			customer_email = EXCLUDED.customer_email,
			total_price    = EXCLUDED.total_price,
			status         = EXCLUDED.status,
			lines          = EXCLUDED.lines,
			order_date     = EXCLUDED.order_date,
			updated_at     = EXCLUDED.updated_at
		RETURNING (xmax = 0)`,
		o.ID, o.UserID, o.OrderNumber, o.CustomerName, o.CustomerEmail,
		o.TotalPrice.String(), o.Status, lines, o.OrderDate, o.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("orders: upsert %s: %w", o.OrderNumber, err)
	}
	return inserted, nil
}

func (r *repository) UpdateStatus(ctx context.Context, userID, orderNumber, status string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $3, updated_at = $4
		WHERE user_id = $1 AND order_number = $2`, userID, orderNumber, status, at)
	if err != nil {
		return fmt.Errorf("orders: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, orderNumber string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE user_id = $1 AND order_number = $2`, userID, orderNumber)
	if err != nil {
		return fmt.Errorf("orders: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
	}
	return nil
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o     Order
		total string
		lines []byte
	)
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerEmail, &total,
		&o.Status, &lines, &o.OrderDate, &o.UpdatedAt); err != nil {
		return Order{}, err
	}
	amount, err := decimal.NewFromString(total)
	if err != nil {
		return Order{}, fmt.Errorf("orders: parse total %q: %w", total, err)
	}
	o.TotalPrice = amount
	if len(lines) > 0 {
		if err := json.Unmarshal(lines, &o.Lines); err != nil {
			return Order{}, fmt.Errorf("orders: decode lines: %w", err)
		}
	}
	return o, nil
}

var _ Repository = (*repository)(nil)
