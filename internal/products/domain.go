// Package products mirrors marketplace listings and keeps the seller's
// per-barcode cost settings.
package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a marketplace listing mirrored for one seller.
type Product struct {
	ID         string          `json:"id"`
	UserID     string          `json:"-"`
	ExternalID string          `json:"externalId"`
	Title      string          `json:"title"`
	Barcode    string          `json:"barcode"`
	StockCode  string          `json:"stockCode"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	ListPrice  decimal.Decimal `json:"listPrice"`
	SalePrice  decimal.Decimal `json:"salePrice"`
	VATRate    float64         `json:"vatRate"`
	Desi       float64         `json:"desi"`
	Images     []string        `json:"images"`
	OnSale     bool            `json:"onSale"`
	Approved   bool            `json:"approved"`
	Archived   bool            `json:"archived"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Setting holds the seller-entered economics of one barcode.
type Setting struct {
	ID           string          `json:"id"`
	UserID       string          `json:"-"`
	Barcode      string          `json:"barcode"`
	ProductID    string          `json:"productId"`
	Title        string          `json:"title"`
	StockCode    string          `json:"stockCode"`
	Category     string          `json:"category"`
	Cost         decimal.Decimal `json:"cost"`
	Desi         float64         `json:"desi"`
	MinPrice     decimal.Decimal `json:"minPrice"`
	MaxPrice     decimal.Decimal `json:"maxPrice"`
	TargetProfit decimal.Decimal `json:"targetProfit"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// enrich copies catalogue attributes from the mirrored product.
func (s *Setting) enrich(p *Product) {
	if p == nil {
		return
	}
	s.ProductID = p.ExternalID
	s.Title = p.Title
	s.StockCode = p.StockCode
	s.Category = p.Category
	if s.Desi <= 0 {
		s.Desi = p.Desi
	}
}

// SettingInput is a partial update of a Setting. Nil fields are left as is.
type SettingInput struct {
	Barcode      string           `json:"barcode" validate:"required,max=64"`
	Cost         *decimal.Decimal `json:"cost"`
	Desi         *float64         `json:"desi" validate:"omitempty,gte=0"`
	MinPrice     *decimal.Decimal `json:"minPrice"`
	MaxPrice     *decimal.Decimal `json:"maxPrice"`
	TargetProfit *decimal.Decimal `json:"targetProfit"`
}

// CostUpdate is one row of a bulk cost update.
type CostUpdate struct {
	Barcode string           `json:"barcode" validate:"required,max=64"`
	Cost    *decimal.Decimal `json:"cost" validate:"required"`
	Desi    *float64         `json:"desi" validate:"omitempty,gte=0"`
}

// CostUpdateResult summarises a bulk cost update.
type CostUpdateResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
