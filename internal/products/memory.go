package products

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

type memoryState struct {
	products map[string]map[string]Product
	settings map[string]map[string]Setting
}

func (s memoryState) clone() memoryState {
	out := memoryState{
		products: make(map[string]map[string]Product, len(s.products)),
		settings: make(map[string]map[string]Setting, len(s.settings)),
	}
	for user, byID := range s.products {
		cp := make(map[string]Product, len(byID))
		for k, v := range byID {
			cp[k] = v
		}
		out.products[user] = cp
	}
	for user, byBarcode := range s.settings {
		cp := make(map[string]Setting, len(byBarcode))
		for k, v := range byBarcode {
			cp[k] = v
		}
		out.settings[user] = cp
	}
	return out
}

// MemoryRepository keeps products and settings in process memory. It backs
// STORAGE=memory and tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	state memoryState
}

// NewMemoryRepository constructs an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{state: memoryState{
		products: make(map[string]map[string]Product),
		settings: make(map[string]map[string]Setting),
	}}
}

// WithTx runs fn against a copy of the store and commits the copy only when
// fn succeeds. Other writers wait until the transaction ends.
func (m *MemoryRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	scratch := &MemoryRepository{state: m.state.clone()}
	if err := fn(scratch); err != nil {
		return err
	}
	m.state = scratch.state
	return nil
}

func (m *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Product, 0, len(m.state.products[userID]))
	for _, p := range m.state.products[userID] {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (m *MemoryRepository) FindByBarcode(ctx context.Context, userID, barcode string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *Product
	for _, p := range m.state.products[userID] {
		if p.Barcode != barcode {
			continue
		}
		if found == nil || p.UpdatedAt.After(found.UpdatedAt) {
			cp := p
			found = &cp
		}
	}
	if found == nil {
		return nil, fmt.Errorf("product %s: %w", barcode, shared.ErrNotFound)
	}
	return found, nil
}

func (m *MemoryRepository) Upsert(ctx context.Context, p Product) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byID, ok := m.state.products[p.UserID]
	if !ok {
		byID = make(map[string]Product)
		m.state.products[p.UserID] = byID
	}
	existing, found := byID[p.ExternalID]
	if found {
		p.ID = existing.ID
	} else if p.ID == "" {
		p.ID = uuid.NewString()
	}
	byID[p.ExternalID] = p
	return !found, nil
}

func (m *MemoryRepository) ListSettings(ctx context.Context, userID string) ([]Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Setting, 0, len(m.state.settings[userID]))
	for _, s := range m.state.settings[userID] {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Barcode < out[j].Barcode })
	return out, nil
}

func (m *MemoryRepository) FindSetting(ctx context.Context, userID, barcode string) (*Setting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.state.settings[userID][barcode]
	if !ok {
		return nil, fmt.Errorf("setting %s: %w", barcode, shared.ErrNotFound)
	}
	return &s, nil
}

func (m *MemoryRepository) UpsertSetting(ctx context.Context, s Setting) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byBarcode, ok := m.state.settings[s.UserID]
	if !ok {
		byBarcode = make(map[string]Setting)
		m.state.settings[s.UserID] = byBarcode
	}
	if existing, found := byBarcode[s.Barcode]; found {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else if s.ID == "" {
		s.ID = uuid.NewString()
	}
	byBarcode[s.Barcode] = s
	return nil
}

var _ Repository = (*MemoryRepository)(nil)
