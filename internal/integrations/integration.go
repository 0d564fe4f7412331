// Package integrations stores each seller's marketplace API credentials.
package integrations

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Integration is the marketplace account bound to a seller.
type Integration struct {
	UserID    string    `json:"-"`
	SellerID  string    `json:"sellerId"`
	APIKey    string    `json:"apiKey"`
	APISecret string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials converts the integration into client credentials.
func (i Integration) Credentials() marketplace.Credentials {
	return marketplace.Credentials{SellerID: i.SellerID, APIKey: i.APIKey, APISecret: i.APISecret}
}

// Repository persists one integration per seller.
type Repository interface {
	Get(ctx context.Context, userID string) (*Integration, error)
	Upsert(ctx context.Context, in Integration) error
	// ListUserIDs returns every seller with an integration.
	ListUserIDs(ctx context.Context) ([]string, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

func (r *repository) Get(ctx context.Context, userID string) (*Integration, error) {
	var in Integration
	err := r.db.QueryRow(ctx, `SELECT seller_id, api_key, api_secret, created_at, updated_at
		FROM api_integrations WHERE user_id = $1`, userID).
		Scan(&in.SellerID, &in.APIKey, &in.APISecret, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("integration: %w", shared.ErrNotFound)
		}
		return nil, fmt.Errorf("integrations: get: %w", err)
	}
	in.UserID = userID
	return &in, nil
}

func (r *repository) Upsert(ctx context.Context, in Integration) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO api_integrations (user_id, seller_id, api_key, api_secret, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			seller_id  = EXCLUDED.seller_id,
			api_key    = EXCLUDED.api_key,
			api_secret = EXCLUDED.api_secret,
			updated_at = EXCLUDED.updated_at`,
		in.UserID, in.SellerID, in.APIKey, in.APISecret, in.UpdatedAt)
	if err != nil {
		return fmt.Errorf("integrations: upsert: %w", err)
	}
	return nil
}

func (r *repository) ListUserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id::text FROM api_integrations ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("integrations: list users: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MemoryRepository keeps integrations in process memory.
type MemoryRepository struct {
	mu   sync.RWMutex
	rows map[string]Integration
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]Integration)}
}

func (m *MemoryRepository) Get(ctx context.Context, userID string) (*Integration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	in, ok := m.rows[userID]
	if !ok {
		return nil, fmt.Errorf("integration: %w", shared.ErrNotFound)
	}
	return &in, nil
}

func (m *MemoryRepository) Upsert(ctx context.Context, in Integration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.rows[in.UserID]; ok {
		in.CreatedAt = existing.CreatedAt
	}
	m.rows[in.UserID] = in
	return nil
}

func (m *MemoryRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.rows))
	for id := range m.rows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

var (
	_ Repository = (*repository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)

// Service manages seller integrations.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListUserIDs returns every seller with an integration.
func (s *Service) ListUserIDs(ctx context.Context) ([]string, error) {
	return s.repo.ListUserIDs(ctx)
}

// Get returns the seller's integration.
func (s *Service) Get(ctx context.Context, userID string) (*Integration, error) {
	return s.repo.Get(ctx, userID)
}

// SaveInput carries the credentials submitted from the settings page.
type SaveInput struct {
	SellerID  string `json:"sellerId" validate:"required,max=64"`
	APIKey    string `json:"apiKey" validate:"required,max=256"`
	APISecret string `json:"apiSecret" validate:"required,max=256"`
}

// Save upserts the seller's integration.
func (s *Service) Save(ctx context.Context, userID string, in SaveInput) (*Integration, error) {
	row := Integration{
		UserID:    userID,
		SellerID:  strings.TrimSpace(in.SellerID),
		APIKey:    strings.TrimSpace(in.APIKey),
		APISecret: strings.TrimSpace(in.APISecret),
	}
	if row.SellerID == "" || row.APIKey == "" || row.APISecret == "" {
		return nil, fmt.Errorf("%w: sellerId, apiKey and apiSecret are required", shared.ErrValidation)
	}
	now := s.now().UTC()
	row.CreatedAt, row.UpdatedAt = now, now
	if err := s.repo.Upsert(ctx, row); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID)
}

// Credentials resolves the marketplace credentials of a seller. A missing or
// partial integration yields marketplace.ErrNotConfigured.
func (s *Service) Credentials(ctx context.Context, userID string) (marketplace.Credentials, error) {
	in, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return marketplace.Credentials{}, marketplace.ErrNotConfigured
		}
		return marketplace.Credentials{}, err
	}
	creds := in.Credentials()
	if !creds.Valid() {
		return marketplace.Credentials{}, marketplace.ErrNotConfigured
	}
	return creds, nil
}
