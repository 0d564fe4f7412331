// Package marketplace is the outbound client of the marketplace seller API.
package marketplace

import "strings"

// Credentials authenticate one seller against the marketplace.
type Credentials struct {
	SellerID  string
	APIKey    string
	APISecret string
}

// Valid reports whether every credential field is present.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.SellerID) != "" &&
		strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.APISecret) != ""
}

// Page is one page of a paginated marketplace listing.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Page          int `json:"page"`
	Size          int `json:"size"`
}

// PageQuery selects a page of a listing.
type PageQuery struct {
	Page             int
	Size             int
	Status           string
	OrderByField     string
	OrderByDirection string
}

// Order is a shipment package as returned by the orders endpoint.
type Order struct {
	ID                    int64       `json:"id"`
	OrderNumber           string      `json:"orderNumber"`
	CustomerFirstName     string      `json:"customerFirstName"`
	CustomerLastName      string      `json:"customerLastName"`
	CustomerEmail         string      `json:"customerEmail"`
	TotalPrice            float64     `json:"totalPrice"`
	Status                string      `json:"status"`
	ShipmentPackageStatus string      `json:"shipmentPackageStatus"`
	OrderDate             int64       `json:"orderDate"`
	LastModifiedDate      int64       `json:"lastModifiedDate"`
	Lines                 []OrderLine `json:"lines"`
}

// OrderLine is one product line of a remote order.
type OrderLine struct {
	Barcode     string  `json:"barcode"`
	MerchantSKU string  `json:"merchantSku"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Image is a product image reference.
type Image struct {
	URL string `json:"url"`
}

// Product is a listing as returned by the products endpoint.
type Product struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Barcode           string  `json:"barcode"`
	StockCode         string  `json:"stockCode"`
	CategoryName      string  `json:"categoryName"`
	Quantity          int     `json:"quantity"`
	ListPrice         float64 `json:"listPrice"`
	SalePrice         float64 `json:"salePrice"`
	VATRate           float64 `json:"vatRate"`
	DimensionalWeight float64 `json:"dimensionalWeight"`
	Images            []Image `json:"images"`
	OnSale            bool    `json:"onSale"`
	Approved          bool    `json:"approved"`
	Archived          bool    `json:"archived"`
	LastUpdateDate    int64   `json:"lastUpdateDate"`
}
