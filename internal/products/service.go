package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// ListResult is one page of products.
type ListResult struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// Service wraps product and cost-setting business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns one page of the seller's mirrored products.
func (s *Service) List(ctx context.Context, userID string, page, perPage int) (ListResult, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}
	p := shared.NewPagination(page, perPage, len(all))
	start, end := p.Bounds()
	return ListResult{Products: all[start:end], Pagination: p}, nil
}

// Settings returns every cost setting of the seller.
func (s *Service) Settings(ctx context.Context, userID string) ([]Setting, error) {
	return s.repo.ListSettings(ctx, userID)
}

// SaveSetting applies a partial update to the setting of one barcode,
// creating it on first use.
func (s *Service) SaveSetting(ctx context.Context, userID string, in SettingInput) (Setting, error) {
	if err := validateInput(in); err != nil {
		return Setting{}, err
	}
	return s.apply(ctx, s.repo, userID, in)
}

// UpdateCosts applies a batch of cost rows atomically. Any invalid row or
// storage failure aborts the whole batch.
func (s *Service) UpdateCosts(ctx context.Context, userID string, rows []CostUpdate) (CostUpdateResult, error) {
	if len(rows) == 0 {
		return CostUpdateResult{}, fmt.Errorf("%w: no cost rows", shared.ErrValidation)
	}
	inputs := make([]SettingInput, len(rows))
	for i, row := range rows {
		if row.Cost == nil {
			return CostUpdateResult{}, fmt.Errorf("row %d: %w: cost required", i+1, shared.ErrValidation)
		}
		cost := *row.Cost
		in := SettingInput{Barcode: row.Barcode, Cost: &cost, Desi: row.Desi}
		if err := validateInput(in); err != nil {
			return CostUpdateResult{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		inputs[i] = in
	}

	var res CostUpdateResult
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		res = CostUpdateResult{}
		for _, in := range inputs {
			_, err := tx.FindSetting(ctx, userID, strings.TrimSpace(in.Barcode))
			switch {
			case err == nil:
				res.Updated++
			case errors.Is(err, shared.ErrNotFound):
				res.Created++
			default:
				return err
			}
			if _, err := s.apply(ctx, tx, userID, in); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CostUpdateResult{}, err
	}
	return res, nil
}

func (s *Service) apply(ctx context.Context, repo Repository, userID string, in SettingInput) (Setting, error) {
	barcode := strings.TrimSpace(in.Barcode)
	now := s.now().UTC()

	current, err := repo.FindSetting(ctx, userID, barcode)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrNotFound):
		current = &Setting{UserID: userID, Barcode: barcode, CreatedAt: now}
		product, perr := repo.FindByBarcode(ctx, userID, barcode)
		if perr != nil && !errors.Is(perr, shared.ErrNotFound) {
			return Setting{}, perr
		}
		if in.Desi != nil {
			current.Desi = *in.Desi
		}
		current.enrich(product)
	default:
		return Setting{}, err
	}

	if in.Cost != nil {
		current.Cost = *in.Cost
	}
	if in.Desi != nil {
		current.Desi = *in.Desi
	}
	if in.MinPrice != nil {
		current.MinPrice = *in.MinPrice
	}
	if in.MaxPrice != nil {
		current.MaxPrice = *in.MaxPrice
	}
	if in.TargetProfit != nil {
		current.TargetProfit = *in.TargetProfit
	}
	current.UserID = userID
	current.UpdatedAt = now

	if err := repo.UpsertSetting(ctx, *current); err != nil {
		return Setting{}, err
	}
	return *current, nil
}

func validateInput(in SettingInput) error {
	if strings.TrimSpace(in.Barcode) == "" {
		return fmt.Errorf("%w: barcode required", shared.ErrValidation)
	}
	for name, v := range map[string]*decimal.Decimal{
		"cost": in.Cost, "minPrice": in.MinPrice, "maxPrice": in.MaxPrice,
	} {
		if v != nil && v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", shared.ErrValidation, name)
		}
	}
	if in.Desi != nil && *in.Desi < 0 {
		return fmt.Errorf("%w: desi must not be negative", shared.ErrValidation)
	}
	if in.MinPrice != nil && in.MaxPrice != nil && in.MaxPrice.IsPositive() && in.MinPrice.GreaterThan(*in.MaxPrice) {
		return fmt.Errorf("%w: minPrice exceeds maxPrice", shared.ErrValidation)
	}
	return nil
}
