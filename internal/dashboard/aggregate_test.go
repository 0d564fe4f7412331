package dashboard

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/pricing"
	"github.com/sellerdesk/sellerdesk/internal/products"
)

func istanbul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	return loc
}

func testAggregator(t *testing.T) *Aggregator {
	calc := pricing.NewCalculator(pricing.Config{VATRate: 0.18, PlatformFee: 6.99, CommissionDefaultRate: 0.15})
	return NewAggregator(calc, istanbul(t), 5)
}

func line(barcode string, qty int, price int64) orders.LineItem {
	return orders.LineItem{Barcode: barcode, Quantity: qty, Price: decimal.NewFromInt(price)}
}

func order(number, status string, total int64, at time.Time, lines ...orders.LineItem) orders.Order {
	return orders.Order{OrderNumber: number, Status: status, TotalPrice: decimal.NewFromInt(total), OrderDate: at, Lines: lines}
}

func sampleDataset(t *testing.T) Dataset {
	loc := istanbul(t)
	at := func(month time.Month, day, hour int) time.Time {
		return time.Date(2026, month, day, hour, 0, 0, 0, loc)
	}
	return Dataset{
		Orders: []orders.Order{
			order("A", "Delivered", 100, at(3, 18, 9), line("B1", 1, 100)),
			order("B", "Created", 50, at(3, 16, 10), line("B2", 3, 10)),
			order("C", "Cancelled", 500, at(3, 18, 8), line("B3", 10, 50)),
			order("D", "Shipped", 200, at(2, 10, 12), line("B1", 2, 100)),
			order("E", "Mystery", 10, at(3, 2, 12), line("B4", 1, 10)),
		},
		Products: []products.Product{
			{Barcode: "B1", Title: "Kulaklık", Quantity: 0, Category: "Unmatched", Desi: 4},
			{Barcode: "B2", Quantity: -1},
			{Barcode: "B3", Quantity: 3},
			{Barcode: "B4", Quantity: 5},
			{Barcode: "B5", Quantity: 6},
		},
		Settings: []products.Setting{
			{Barcode: "B1", Cost: decimal.NewFromInt(65), Desi: 1},
		},
	}
}

func TestAggregateCounts(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	stats := testAggregator(t).Aggregate(sampleDataset(t), now, SourceLocal)

	assert.Equal(t, OrderCounts{Total: 5, New: 1, Shipped: 1, Delivered: 1, Cancelled: 1, Unknown: 1}, stats.Orders)
	assert.Equal(t, ProductCounts{Total: 5, Active: 1, LowStock: 2, OutOfStock: 2}, stats.Products)
	assert.Equal(t, SourceLocal, stats.Source)
	assert.Equal(t, now.UTC(), stats.GeneratedAt)
}

func TestAggregateRevenueAndProfit(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	rev := testAggregator(t).Aggregate(sampleDataset(t), now, SourceLocal).Revenue

	assert.Equal(t, 100.0, rev.Today)
	assert.Equal(t, 150.0, rev.ThisWeek)
	assert.Equal(t, 160.0, rev.ThisMonth)
	assert.Equal(t, 200.0, rev.LastMonth)
	assert.Equal(t, 360.0, rev.Total)
	assert.Equal(t, 90.0, rev.AverageOrder)
	assert.Equal(t, -20.0, rev.MonthlyGrowth)
	assert.Equal(t, -27.11, rev.TotalProfit)
	assert.Equal(t, 1, rev.DeliveredOrdersCount)
}

func TestAggregateTopProducts(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	top := testAggregator(t).Aggregate(sampleDataset(t), now, SourceLocal).TopProducts

	require.Len(t, top, 3)
	assert.Equal(t, TopProduct{Key: "B1", Name: "Kulaklık", UnitsSold: 3, Revenue: 300}, top[0])
	assert.Equal(t, "B2", top[1].Key)
	assert.Equal(t, "B4", top[2].Key)
}

func TestAggregateEmpty(t *testing.T) {
	stats := testAggregator(t).Aggregate(Dataset{}, time.Now(), SourceLive)
	assert.Zero(t, stats.Revenue)
	assert.NotNil(t, stats.TopProducts)
	assert.Empty(t, stats.TopProducts)
}

func TestAggregateDesiFallsBackToProduct(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	data := Dataset{
		Orders:   []orders.Order{order("A", "Delivered", 100, now, line("B1", 1, 100))},
		Products: []products.Product{{Barcode: "B1", Category: "Unmatched", Desi: 1}},
		Settings: []products.Setting{{Barcode: "B1", Cost: decimal.NewFromInt(65)}},
	}
	assert.Equal(t, -27.11, testAggregator(t).Aggregate(data, now, SourceLocal).Revenue.TotalProfit)
}

func TestAggregateSkipsProfitForZeroTotalOrders(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	data := Dataset{
		Orders: []orders.Order{
			order("A", "Delivered", 100, now, line("B1", 1, 100)),
			order("Z", "Delivered", 0, now, line("B1", 1, 0)),
		},
		Products: []products.Product{{Barcode: "B1", Category: "Unmatched", Desi: 1}},
		Settings: []products.Setting{{Barcode: "B1", Cost: decimal.NewFromInt(65)}},
	}
	rev := testAggregator(t).Aggregate(data, now, SourceLocal).Revenue

	assert.Equal(t, 2, rev.DeliveredOrdersCount)
	assert.Equal(t, 100.0, rev.Total)
	assert.Equal(t, -27.11, rev.TotalProfit, "zero-total order adds no profit or loss")

	only := Dataset{Orders: data.Orders[1:], Products: data.Products, Settings: data.Settings}
	assert.Zero(t, testAggregator(t).Aggregate(only, now, SourceLocal).Revenue.TotalProfit)
}

func TestPeriodsUseLocalCalendar(t *testing.T) {
	loc := istanbul(t)
	// 22:30 UTC on the 17th is already the 18th in Istanbul.
	now := time.Date(2026, 3, 17, 22, 30, 0, 0, time.UTC)
	p := PeriodsAt(now, loc)
	assert.Equal(t, time.Date(2026, 3, 18, 0, 0, 0, 0, loc), p.TodayStart)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), p.WeekStart)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, loc), p.MonthStart)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, loc), p.LastMonthStart)

	sunday := PeriodsAt(time.Date(2026, 3, 22, 23, 0, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, loc), sunday.WeekStart)

	january := PeriodsAt(time.Date(2026, 1, 5, 10, 0, 0, 0, loc), loc)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, loc), january.LastMonthStart)
}

func TestMonthlyGrowthWithoutLastMonth(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, istanbul(t))
	data := Dataset{Orders: []orders.Order{order("A", "Created", 80, now)}}
	rev := testAggregator(t).Aggregate(data, now, SourceLocal).Revenue
	assert.Zero(t, rev.MonthlyGrowth)
	assert.Equal(t, 80.0, rev.ThisMonth)
}
