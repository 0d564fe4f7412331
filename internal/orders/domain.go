package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product line of a marketplace order.
type LineItem struct {
	SKU         string          `json:"sku"`
	Barcode     string          `json:"barcode"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Key identifies the product a line refers to, preferring the barcode.
func (l LineItem) Key() string {
	if l.Barcode != "" {
		return l.Barcode
	}
	return l.SKU
}

// Order is a marketplace order mirrored for one seller.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"-"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	Lines         []LineItem      `json:"lines"`
	OrderDate     time.Time       `json:"orderDate"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Bucket returns the normalized status of the order.
func (o Order) Bucket() Status {
	return NormalizeStatus(o.Status)
}

// ListFilter narrows order listings.
type ListFilter struct {
	Status  Status
	Page    int
	PerPage int
}
