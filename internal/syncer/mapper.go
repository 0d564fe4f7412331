package syncer

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/sellerdesk/internal/marketplace"
	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/products"
)

var (
	errMissingOrderNumber = errors.New("order without order number")
	errMissingProductID   = errors.New("product without id or barcode")
)

// MapOrder converts a remote order into the local model. The package status
// wins over the order status because it tracks the shipment.
func MapOrder(userID string, in marketplace.Order, syncedAt time.Time) (orders.Order, error) {
	number := strings.TrimSpace(in.OrderNumber)
	if number == "" {
		return orders.Order{}, errMissingOrderNumber
	}
	status := strings.TrimSpace(in.ShipmentPackageStatus)
	if status == "" {
		status = strings.TrimSpace(in.Status)
	}
	lines := make([]orders.LineItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, orders.LineItem{
			SKU:         l.MerchantSKU,
			Barcode:     l.Barcode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       decimal.NewFromFloat(l.Price).Round(2),
		})
	}
	updated := fromMillis(in.LastModifiedDate)
	if updated.IsZero() {
		updated = syncedAt.UTC()
	}
	orderDate := fromMillis(in.OrderDate)
	if orderDate.IsZero() {
		orderDate = updated
	}
	return orders.Order{
		UserID:        userID,
		OrderNumber:   number,
		CustomerName:  strings.TrimSpace(in.CustomerFirstName + " " + in.CustomerLastName),
		CustomerEmail: in.CustomerEmail,
		TotalPrice:    decimal.NewFromFloat(in.TotalPrice).Round(2),
		Status:        status,
		Lines:         lines,
		OrderDate:     orderDate,
		UpdatedAt:     updated,
	}, nil
}

// MapProduct converts a remote listing into the local model. Listings without
// an id are keyed by barcode.
func MapProduct(userID string, in marketplace.Product, syncedAt time.Time) (products.Product, error) {
	external := strings.TrimSpace(in.ID)
	if external == "" {
		external = strings.TrimSpace(in.Barcode)
	}
	if external == "" {
		return products.Product{}, errMissingProductID
	}
	images := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if img.URL != "" {
			images = append(images, img.URL)
		}
	}
	updated := fromMillis(in.LastUpdateDate)
	if updated.IsZero() {
		updated = syncedAt.UTC()
	}
	return products.Product{
		UserID:     userID,
		ExternalID: external,
		Title:      in.Title,
		Barcode:    in.Barcode,
		StockCode:  in.StockCode,
		Category:   in.CategoryName,
		Quantity:   in.Quantity,
		ListPrice:  decimal.NewFromFloat(in.ListPrice).Round(2),
		SalePrice:  decimal.NewFromFloat(in.SalePrice).Round(2),
		VATRate:    in.VATRate,
		Desi:       in.DimensionalWeight,
		Images:     images,
		OnSale:     in.OnSale,
		Approved:   in.Approved,
		Archived:   in.Archived,
		UpdatedAt:  updated,
	}, nil
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
