package orders

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// MemoryRepository keeps orders in process memory. It backs STORAGE=memory
// and tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]map[string]Order
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{orders: make(map[string]map[string]Order)}
}

func (m *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Order, 0, len(m.orders[userID]))
	for _, o := range m.orders[userID] {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.After(out[j].OrderDate)
		}
		return out[i].OrderNumber < out[j].OrderNumber
	})
	return out, nil
}

func (m *MemoryRepository) FindByNumber(ctx context.Context, userID, orderNumber string) (*Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.orders[userID][orderNumber]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
	}
	return &o, nil
}

func (m *MemoryRepository) Upsert(ctx context.Context, o Order) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byNumber, ok := m.orders[o.UserID]
	if !ok {
		byNumber = make(map[string]Order)
		m.orders[o.UserID] = byNumber
	}
	existing, found := byNumber[o.OrderNumber]
	if found {
		o.ID = existing.ID
	} else if o.ID == "" {
		o.ID = uuid.NewString()
	}
	byNumber[o.OrderNumber] = o
	return !found, nil
}

func (m *MemoryRepository) UpdateStatus(ctx context.Context, userID, orderNumber, status string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[userID][orderNumber]
	if !ok {
		return fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
	}
	o.Status = status
	o.UpdatedAt = at
	m.orders[userID][orderNumber] = o
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, userID, orderNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[userID][orderNumber]; !ok {
		return fmt.Errorf("order %s: %w", orderNumber, shared.ErrNotFound)
	}
	delete(m.orders[userID], orderNumber)
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
