package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sellerdesk/sellerdesk/internal/shared"
)

// ListResult is one page of orders.
type ListResult struct {
	Orders     []OrderView       `json:"orders"`
	Pagination shared.Pagination `json:"pagination"`
}

// OrderView decorates an order with its normalized bucket.
type OrderView struct {
	Order
	Bucket Status `json:"bucket"`
}

// Service wraps order business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the seller's orders, newest first, optionally restricted to
// one status bucket.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (ListResult, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return ListResult{}, err
	}
	views := make([]OrderView, 0, len(all))
	for _, o := range all {
		bucket := o.Bucket()
		if filter.Status != "" && bucket != filter.Status {
			continue
		}
		views = append(views, OrderView{Order: o, Bucket: bucket})
	}
	page := shared.NewPagination(filter.Page, filter.PerPage, len(views))
	start, end := page.Bounds()
	return ListResult{Orders: views[start:end], Pagination: page}, nil
}

// UpdateStatus records a new raw status for an order.
func (s *Service) UpdateStatus(ctx context.Context, userID, orderNumber, status string) (*Order, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, fmt.Errorf("%w: status required", shared.ErrValidation)
	}
	if err := s.repo.UpdateStatus(ctx, userID, orderNumber, status, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.FindByNumber(ctx, userID, orderNumber)
}

// Delete removes an order on explicit seller request.
func (s *Service) Delete(ctx context.Context, userID, orderNumber string) error {
	return s.repo.Delete(ctx, userID, orderNumber)
}
