package products

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Repository persists products and product settings for one seller at a time.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Product, error)
	FindByBarcode(ctx context.Context, userID, barcode string) (*Product, error)
	// Upsert inserts or updates by (user, external id) and reports whether a
	// new row was created.
	Upsert(ctx context.Context, p Product) (bool, error)
	ListSettings(ctx context.Context, userID string) ([]Setting, error)
	FindSetting(ctx context.Context, userID, barcode string) (*Setting, error)
	UpsertSetting(ctx context.Context, s Setting) error
	// WithTx runs fn against a repository bound to one transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

type repository struct {
	pool *pgxpool.Pool
	db   db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool, db: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&repository{db: tx})
	})
}

const selectProductColumns = `id::text, external_id, title, barcode, stock_code, category, quantity,
	list_price::text, sale_price::text, vat_rate::float8, desi::float8, images,
	on_sale, approved, archived, updated_at`

func (r *repository) ListByUser(ctx context.Context, userID string) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectProductColumns+`
		FROM products WHERE user_id = $1 ORDER BY title, external_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("products: list: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		p.UserID = userID
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) FindByBarcode(ctx context.Context, userID, barcode string) (*Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectProductColumns+`
		FROM products WHERE user_id = $1 AND barcode = $2
		ORDER BY updated_at DESC LIMIT 1`, userID, barcode)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", barcode, shared.ErrNotFound)
		}
		return nil, err
	}
	p.UserID = userID
	return &p, nil
}

func (r *repository) Upsert(ctx context.Context, p Product) (bool, error) {
	images, err := json.Marshal(p.Images)
	if err != nil {
		return false, fmt.Errorf("products: encode images: %w", err)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	var inserted bool
	err = r.db.QueryRow(ctx, `
		INSERT INTO products (id, user_id, external_id, title, barcode, stock_code, category,
		                      quantity, list_price, sale_price, vat_rate, desi, images,
		                      on_sale, approved, archived, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10::numeric, $11, $12, $13,
		        $14, $15, $16, $17)
		ON CONFLICT (user_id, external_id) DO UPDATE SET
			title      = EXCLUDED.title,
			barcode    = EXCLUDED.barcode,
			stock_code = EXCLUDED.stock_code,
			category   = EXCLUDED.category,
			quantity   = EXCLUDED.quantity,
			list_price = EXCLUDED.list_price,
			sale_price = EXCLUDED.sale_price,
			vat_rate   = EXCLUDED.vat_rate,
			desi       = EXCLUDED.desi,
			images     = EXCLUDED.images,
			on_sale    = EXCLUDED.on_sale,
			approved   = EXCLUDED.approved,
			archived   = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`,
		p.ID, p.UserID, p.ExternalID, p.Title, p.Barcode, p.StockCode, p.Category,
		p.Quantity, p.ListPrice.String(), p.SalePrice.String(), p.VATRate, p.Desi, images,
		p.OnSale, p.Approved, p.Archived, p.UpdatedAt,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("products: upsert %s: %w", p.ExternalID, err)
	}
	return inserted, nil
}

const selectSettingColumns = `id::text, barcode, product_id, title, stock_code, category,
	cost::text, desi::float8, min_price::text, max_price::text, target_profit::text,
	created_at, updated_at`

func (r *repository) ListSettings(ctx context.Context, userID string) ([]Setting, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectSettingColumns+`
		FROM product_settings WHERE user_id = $1 ORDER BY barcode`, userID)
	if err != nil {
		return nil, fmt.Errorf("products: list settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		s, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		s.UserID = userID
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) FindSetting(ctx context.Context, userID, barcode string) (*Setting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+selectSettingColumns+`
		FROM product_settings WHERE user_id = $1 AND barcode = $2`, userID, barcode)
	s, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("setting %s: %w", barcode, shared.ErrNotFound)
		}
		return nil, err
	}
	s.UserID = userID
	return &s, nil
}

func (r *repository) UpsertSetting(ctx context.Context, s Setting) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO product_settings (id, user_id, barcode, product_id, title, stock_code, category,
		                              cost, desi, min_price, max_price, target_profit,
		                              created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10::numeric, $11::numeric,
		        $12::numeric, $13, $14)
		ON CONFLICT (user_id, barcode) DO UPDATE SET
			product_id    = EXCLUDED.product_id,
			title         = EXCLUDED.title,
			stock_code    = EXCLUDED.stock_code,
			category      = EXCLUDED.category,
			cost          = EXCLUDED.cost,
			desi          = EXCLUDED.desi,
			min_price     = EXCLUDED.min_price,
			max_price     = EXCLUDED.max_price,
			target_profit = EXCLUDED.target_profit,
			updated_at    = EXCLUDED.updated_at`,
		s.ID, s.UserID, s.Barcode, s.ProductID, s.Title, s.StockCode, s.Category,
		s.Cost.String(), s.Desi, s.MinPrice.String(), s.MaxPrice.String(), s.TargetProfit.String(),
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("products: upsert setting %s: %w", s.Barcode, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p               Product
		listPrice, sale string
		images          []byte
	)
	if err := row.Scan(&p.ID, &p.ExternalID, &p.Title, &p.Barcode, &p.StockCode, &p.Category,
		&p.Quantity, &listPrice, &sale, &p.VATRate, &p.Desi, &images,
		&p.OnSale, &p.Approved, &p.Archived, &p.UpdatedAt); err != nil {
		return Product{}, err
	}
	var err error
	if p.ListPrice, err = parseAmount(listPrice); err != nil {
		return Product{}, err
	}
	if p.SalePrice, err = parseAmount(sale); err != nil {
		return Product{}, err
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return Product{}, fmt.Errorf("products: decode images: %w", err)
		}
	}
	return p, nil
}

func scanSetting(row pgx.Row) (Setting, error) {
	var (
		s                       Setting
		cost, minP, maxP, target string
	)
	if err := row.Scan(&s.ID, &s.Barcode, &s.ProductID, &s.Title, &s.StockCode, &s.Category,
		&cost, &s.Desi, &minP, &maxP, &target, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return Setting{}, err
	}
	var err error
	for _, f := range []struct {
		raw string
		dst *decimal.Decimal
	}{{cost, &s.Cost}, {minP, &s.MinPrice}, {maxP, &s.MaxPrice}, {target, &s.TargetProfit}} {
		if *f.dst, err = parseAmount(f.raw); err != nil {
			return Setting{}, err
		}
	}
	return s, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("products: parse amount %s: %w", strconv.Quote(raw), err)
	}
	return d, nil
}

var _ Repository = (*repository)(nil)
