package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sellerdesk/sellerdesk/internal/platform/db"
	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, `SELECT id::text, email, password_hash, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a user. A taken email yields shared.ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, user User) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO users (id, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4)`, user.ID, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, shared.ErrDuplicate)
		}
		return fmt.Errorf("auth: create user: %w", err)
	}
	return nil
}

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]User
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]User)}
}

// FindByEmail fetches a user by email.
func (m *MemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

// Create inserts a user. A taken email yields shared.ErrDuplicate.
func (m *MemoryRepository) Create(_ context.Context, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return fmt.Errorf("email %s: %w", user.Email, shared.ErrDuplicate)
	}
	m.byEmail[key] = user
	return nil
}

var (
	_ Repository = (*PGRepository)(nil)
	_ Repository = (*MemoryRepository)(nil)
)
