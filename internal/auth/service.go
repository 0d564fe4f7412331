package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *Tokens
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *Tokens) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

// Register creates a seller account and signs it in.
func (s *Service) Register(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return Session{}, fmt.Errorf("email %s: %w", email, shared.ErrDuplicate)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return Session{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("auth: hash password: %w", err)
	}
	user := User{ID: uuid.NewString(), Email: email, PasswordHash: string(hash), CreatedAt: s.now().UTC()}
	if err := s.repo.Create(ctx, user); err != nil {
		return Session{}, err
	}
	return s.session(user.ID)
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	return s.session(user.ID)
}

func (s *Service) session(userID string) (Session, error) {
	token, expires, err := s.tokens.Issue(userID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, UserID: userID}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
