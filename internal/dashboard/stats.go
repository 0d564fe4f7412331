// Package dashboard aggregates a seller's orders and products into the
// figures shown on the back-office home page.
package dashboard

import "time"

// Source tells where the aggregated data came from.
type Source string

const (
	SourceLive  Source = "live"
	SourceLocal Source = "local"
)

// OrderCounts counts orders per normalized status.
type OrderCounts struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Preparing int `json:"preparing"`
	Shipped   int `json:"shipped"`
	Delivered int `json:"delivered"`
	Cancelled int `json:"cancelled"`
	Unknown   int `json:"unknown"`
}

// ProductCounts buckets listings by stock level.
type ProductCounts struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

// Revenue holds period revenue and profit figures.
type Revenue struct {
	Today                float64 `json:"today"`
	ThisWeek             float64 `json:"thisWeek"`
	ThisMonth            float64 `json:"thisMonth"`
	LastMonth            float64 `json:"lastMonth"`
	Total                float64 `json:"total"`
	AverageOrder         float64 `json:"averageOrder"`
	MonthlyGrowth        float64 `json:"monthlyGrowth"`
	TotalProfit          float64 `json:"totalProfit"`
	DeliveredOrdersCount int     `json:"deliveredOrdersCount"`
}

// TopProduct is one entry of the best sellers list.
type TopProduct struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	UnitsSold int     `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// Stats is the dashboard aggregate of one seller.
type Stats struct {
	Orders      OrderCounts   `json:"orders"`
	Products    ProductCounts `json:"products"`
	Revenue     Revenue       `json:"revenue"`
	TopProducts []TopProduct  `json:"topProducts"`
	Source      Source        `json:"source"`
	GeneratedAt time.Time     `json:"generatedAt"`
}
