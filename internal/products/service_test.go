package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

func newTestService(t *testing.T) (*Service, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC) }
	_, err := repo.Upsert(context.Background(), Product{
		UserID:     "u1",
		ExternalID: "ext-1",
		Title:      "Bluetooth Kulaklık",
		Barcode:    "BC-1",
		StockCode:  "SK-1",
		Category:   "Elektronik Aksesuar",
		Quantity:   12,
		Desi:       2,
	})
	require.NoError(t, err)
	return svc, repo
}

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func TestSaveSettingCreatesAndEnriches(t *testing.T) {
	svc, _ := newTestService(t)

	s, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", Cost: dec("65")})
	require.NoError(t, err)
	assert.Equal(t, "ext-1", s.ProductID)
	assert.Equal(t, "Bluetooth Kulaklık", s.Title)
	assert.Equal(t, "SK-1", s.StockCode)
	assert.Equal(t, "Elektronik Aksesuar", s.Category)
	assert.Equal(t, 2.0, s.Desi)
	assert.True(t, s.Cost.Equal(decimal.NewFromInt(65)))

	desi := 3.5
	s2, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", Desi: &desi})
	require.NoError(t, err)
	assert.Equal(t, s.ID, s2.ID)
	assert.Equal(t, 3.5, s2.Desi)
	assert.True(t, s2.Cost.Equal(decimal.NewFromInt(65)), "cost untouched by partial update")
}

func TestSaveSettingWithoutProduct(t *testing.T) {
	svc, _ := newTestService(t)
	s, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "UNKNOWN", Cost: dec("10")})
	require.NoError(t, err)
	assert.Empty(t, s.ProductID)
	assert.Empty(t, s.Category)
}

func TestSaveSettingRejectsNegativeValues(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", Cost: dec("-1")})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "  "})
	assert.True(t, errors.Is(err, shared.ErrValidation))

	_, err = svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", MinPrice: dec("50"), MaxPrice: dec("40")})
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestUpdateCostsCountsCreatedAndUpdated(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", Cost: dec("50")})
	require.NoError(t, err)

	res, err := svc.UpdateCosts(context.Background(), "u1", []CostUpdate{
		{Barcode: "BC-1", Cost: dec("60")},
		{Barcode: "BC-2", Cost: dec("15")},
	})
	require.NoError(t, err)
	assert.Equal(t, CostUpdateResult{Created: 1, Updated: 1}, res)

	settings, err := repo.ListSettings(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, settings, 2)
	assert.True(t, settings[0].Cost.Equal(decimal.NewFromInt(60)))
}

func TestUpdateCostsIsAllOrNothing(t *testing.T) {
	svc, repo := newTestService(t)

	_, err := svc.UpdateCosts(context.Background(), "u1", []CostUpdate{
		{Barcode: "BC-1", Cost: dec("60")},
		{Barcode: "BC-2", Cost: dec("-5")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	settings, err := repo.ListSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, settings)

	_, err = svc.UpdateCosts(context.Background(), "u1", nil)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

type failingRepo struct {
	*MemoryRepository
	failOn string
}

func (f failingRepo) WithTx(ctx context.Context, fn func(Repository) error) error {
	return f.MemoryRepository.WithTx(ctx, func(tx Repository) error {
		return fn(failingRepo{MemoryRepository: tx.(*MemoryRepository), failOn: f.failOn})
	})
}

func (f failingRepo) UpsertSetting(ctx context.Context, s Setting) error {
	if s.Barcode == f.failOn {
		return errors.New("disk full")
	}
	return f.MemoryRepository.UpsertSetting(ctx, s)
}

func TestUpdateCostsRequiresCost(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := svc.SaveSetting(context.Background(), "u1", SettingInput{Barcode: "BC-1", Cost: dec("65")})
	require.NoError(t, err)

	desi := 3.0
	_, err = svc.UpdateCosts(context.Background(), "u1", []CostUpdate{{Barcode: "BC-1", Desi: &desi}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))

	settings, err := repo.ListSettings(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.True(t, settings[0].Cost.Equal(decimal.NewFromInt(65)))
}

func TestUpdateCostsRollsBackOnStorageFailure(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(failingRepo{MemoryRepository: repo, failOn: "BC-3"})

	_, err := svc.UpdateCosts(context.Background(), "u1", []CostUpdate{
		{Barcode: "BC-1", Cost: dec("1")},
		{Barcode: "BC-3", Cost: dec("3")},
	})
	require.Error(t, err)

	settings, err := repo.ListSettings(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, settings)
}

func TestListPaginates(t *testing.T) {
	svc, repo := newTestService(t)
	_, err := repo.Upsert(context.Background(), Product{UserID: "u1", ExternalID: "ext-2", Title: "Ayakkabı"})
	require.NoError(t, err)

	res, err := svc.List(context.Background(), "u1", 1, 1)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "Ayakkabı", res.Products[0].Title)
	assert.Equal(t, 2, res.Pagination.TotalPages)
}
