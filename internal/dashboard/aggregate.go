package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/sellerdesk/internal/orders"
	"github.com/sellerdesk/sellerdesk/internal/pricing"
	"github.com/sellerdesk/sellerdesk/internal/products"
)

const topProductsLimit = 5

// Dataset is the raw material of one aggregation.
type Dataset struct {
	Orders   []orders.Order
	Products []products.Product
	Settings []products.Setting
}

// Periods are the reporting windows, each a half-open [start, end) range.
type Periods struct {
	TodayStart     time.Time
	TomorrowStart  time.Time
	WeekStart      time.Time
	NextWeekStart  time.Time
	MonthStart     time.Time
	NextMonthStart time.Time
	LastMonthStart time.Time
}

// PeriodsAt computes the windows around now in loc. Weeks start on Monday.
func PeriodsAt(now time.Time, loc *time.Location) Periods {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	offset := (int(today.Weekday()) + 6) % 7
	week := today.AddDate(0, 0, -offset)
	month := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
	return Periods{
		TodayStart:     today,
		TomorrowStart:  today.AddDate(0, 0, 1),
		WeekStart:      week,
		NextWeekStart:  week.AddDate(0, 0, 7),
		MonthStart:     month,
		NextMonthStart: month.AddDate(0, 1, 0),
		LastMonthStart: month.AddDate(0, -1, 0),
	}
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// Aggregator turns a Dataset into Stats.
type Aggregator struct {
	calc              *pricing.Calculator
	loc               *time.Location
	lowStockThreshold int
}

// NewAggregator constructs an Aggregator.
func NewAggregator(calc *pricing.Calculator, loc *time.Location, lowStockThreshold int) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{calc: calc, loc: loc, lowStockThreshold: lowStockThreshold}
}

// Aggregate computes the dashboard figures as of now.
func (a *Aggregator) Aggregate(data Dataset, now time.Time, source Source) Stats {
	stats := Stats{
		Products:    a.productCounts(data.Products),
		TopProducts: []TopProduct{},
		Source:      source,
		GeneratedAt: now.UTC(),
	}

	productsByBarcode := make(map[string]products.Product, len(data.Products))
	for _, p := range data.Products {
		if p.Barcode != "" {
			productsByBarcode[p.Barcode] = p
		}
	}
	settingsByBarcode := make(map[string]products.Setting, len(data.Settings))
	for _, s := range data.Settings {
		settingsByBarcode[s.Barcode] = s
	}

	periods := PeriodsAt(now, a.loc)
	var (
		today, week, month, lastMonth, total, profit decimal.Decimal
		revenueOrders                                int
	)
	sellers := map[string]*topEntry{}

	for _, o := range data.Orders {
		bucket := o.Bucket()
		stats.Orders.Total++
		switch bucket {
		case orders.StatusNew:
			stats.Orders.New++
		case orders.StatusPreparing:
			stats.Orders.Preparing++
		case orders.StatusShipped:
			stats.Orders.Shipped++
		case orders.StatusDelivered:
			stats.Orders.Delivered++
		case orders.StatusCancelled:
			stats.Orders.Cancelled++
		default:
			stats.Orders.Unknown++
		}
		if bucket == orders.StatusCancelled {
			continue
		}

		amount := o.TotalPrice
		revenueOrders++
		total = total.Add(amount)
		if within(o.OrderDate, periods.TodayStart, periods.TomorrowStart) {
			today = today.Add(amount)
		}
		if within(o.OrderDate, periods.WeekStart, periods.NextWeekStart) {
			week = week.Add(amount)
		}
		if within(o.OrderDate, periods.MonthStart, periods.NextMonthStart) {
			month = month.Add(amount)
		}
		if within(o.OrderDate, periods.LastMonthStart, periods.MonthStart) {
			lastMonth = lastMonth.Add(amount)
		}

		for _, line := range o.Lines {
			key := line.Key()
			if key == "" {
				continue
			}
			entry, ok := sellers[key]
			if !ok {
				entry = &topEntry{TopProduct: TopProduct{Key: key, Name: line.ProductName}}
				if entry.Name == "" {
					entry.Name = productsByBarcode[key].Title
				}
				sellers[key] = entry
			}
			qty := quantity(line)
			entry.UnitsSold += qty
			entry.revenue = entry.revenue.Add(line.Price.Mul(decimal.NewFromInt(int64(qty))))
		}

		if bucket == orders.StatusDelivered {
			stats.Revenue.DeliveredOrdersCount++
			if res, ok := a.calc.Profit(a.profitInput(o, productsByBarcode, settingsByBarcode)); ok {
				profit = profit.Add(decimal.NewFromFloat(res.Profit))
			}
		}
	}

	stats.Revenue.Today = money(today)
	stats.Revenue.ThisWeek = money(week)
	stats.Revenue.ThisMonth = money(month)
	stats.Revenue.LastMonth = money(lastMonth)
	stats.Revenue.Total = money(total)
	stats.Revenue.TotalProfit = money(profit)
	if revenueOrders > 0 {
		stats.Revenue.AverageOrder = money(total.Div(decimal.NewFromInt(int64(revenueOrders))))
	}
	if lastMonth.IsPositive() {
		growth := month.Sub(lastMonth).Div(lastMonth).Mul(decimal.NewFromInt(100))
		stats.Revenue.MonthlyGrowth = money(growth)
	}
	stats.TopProducts = topProducts(sellers)
	return stats
}

// profitInput folds an order into one profit calculation: the order total is
// the sale price, cost and desi are summed over lines, and the category is
// that of the first line's product.
func (a *Aggregator) profitInput(o orders.Order, productsByBarcode map[string]products.Product, settingsByBarcode map[string]products.Setting) pricing.Input {
	in := pricing.Input{SalePrice: o.TotalPrice.InexactFloat64()}
	cost := decimal.Zero
	desi := decimal.Zero
	for i, line := range o.Lines {
		qty := decimal.NewFromInt(int64(quantity(line)))
		setting, hasSetting := settingsByBarcode[line.Barcode]
		product, hasProduct := productsByBarcode[line.Barcode]

		unitDesi := 0.0
		if hasSetting {
			cost = cost.Add(setting.Cost.Mul(qty))
			unitDesi = setting.Desi
		}
		if unitDesi <= 0 && hasProduct {
			unitDesi = product.Desi
		}
		desi = desi.Add(decimal.NewFromFloat(unitDesi).Mul(qty))

		if i == 0 {
			switch {
			case hasProduct && product.Category != "":
				in.Category = product.Category
			case hasSetting:
				in.Category = setting.Category
			}
		}
	}
	in.Cost = cost.InexactFloat64()
	in.Desi = desi.InexactFloat64()
	return in
}

func (a *Aggregator) productCounts(list []products.Product) ProductCounts {
	var c ProductCounts
	for _, p := range list {
		c.Total++
		switch {
		case p.Quantity <= 0:
			c.OutOfStock++
		case p.Quantity <= a.lowStockThreshold:
			c.LowStock++
		default:
			c.Active++
		}
	}
	return c
}

type topEntry struct {
	TopProduct
	revenue decimal.Decimal
}

func topProducts(entries map[string]*topEntry) []TopProduct {
	list := make([]*topEntry, 0, len(entries))
	for _, e := range entries {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].UnitsSold != list[j].UnitsSold {
			return list[i].UnitsSold > list[j].UnitsSold
		}
		if c := list[i].revenue.Cmp(list[j].revenue); c != 0 {
			return c > 0
		}
		return list[i].Key < list[j].Key
	})
	if len(list) > topProductsLimit {
		list = list[:topProductsLimit]
	}
	out := make([]TopProduct, len(list))
	for i, e := range list {
		out[i] = e.TopProduct
		out[i].Revenue = money(e.revenue)
	}
	return out
}

func quantity(l orders.LineItem) int {
	if l.Quantity < 1 {
		return 1
	}
	return l.Quantity
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
