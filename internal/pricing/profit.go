package pricing

import "github.com/shopspring/decimal"

// Config carries the tunable fee parameters.
type Config struct {
	VATRate               float64
	PlatformFee           float64
	CommissionDefaultRate float64
	CommissionRules       []CommissionRule
}

// Input describes one sale to evaluate.
type Input struct {
	SalePrice float64
	Cost      float64
	Desi      float64
	Category  string
}

// Result is the profit breakdown of a single sale. Amounts are rounded to
// two places, the margin to four.
type Result struct {
	Profit           float64 `json:"profit"`
	ProfitMargin     float64 `json:"profitMargin"`
	CommissionAmount float64 `json:"commissionAmount"`
	ShippingCost     float64 `json:"shippingCost"`
	NetVAT           float64 `json:"netVat"`
}

// Calculator applies the marketplace fee model to sales.
type Calculator struct {
	vatRate     decimal.Decimal
	platformFee decimal.Decimal
	commission  *CommissionResolver
}

// NewCalculator constructs a Calculator from configuration.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{
		vatRate:     decimal.NewFromFloat(cfg.VATRate),
		platformFee: decimal.NewFromFloat(cfg.PlatformFee),
		commission:  NewCommissionResolver(cfg.CommissionRules, cfg.CommissionDefaultRate),
	}
}

// Commission exposes the resolver used by the calculator.
func (c *Calculator) Commission() *CommissionResolver {
	return c.commission
}

// vatPortion extracts the VAT contained in a VAT-inclusive amount.
func (c *Calculator) vatPortion(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.vatRate).Div(decimal.NewFromInt(1).Add(c.vatRate))
}

// Profit computes the net profit of a sale. It reports false when the sale
// price is not positive; such sales carry no profit and are left out of totals.
func (c *Calculator) Profit(in Input) (Result, bool) {
	if in.SalePrice <= 0 {
		return Result{}, false
	}
	cost := in.Cost
	if cost < 0 {
		cost = 0
	}

	sale := decimal.NewFromFloat(in.SalePrice)
	costD := decimal.NewFromFloat(cost)
	shipping := decimal.NewFromFloat(ShippingCost(in.Desi))
	commission := sale.Mul(decimal.NewFromFloat(c.commission.Rate(in.Category)))

	netVAT := c.vatPortion(sale).
		Sub(c.vatPortion(costD)).
		Sub(c.vatPortion(commission)).
		Sub(c.vatPortion(shipping)).
		Sub(c.vatPortion(c.platformFee))

	profit := sale.Sub(costD).Sub(commission).Sub(shipping).Sub(c.platformFee).Sub(netVAT)
	margin := profit.Div(sale)

	return Result{
		Profit:           profit.Round(2).InexactFloat64(),
		ProfitMargin:     margin.Round(4).InexactFloat64(),
		CommissionAmount: commission.Round(2).InexactFloat64(),
		ShippingCost:     shipping.Round(2).InexactFloat64(),
		NetVAT:           netVAT.Round(2).InexactFloat64(),
	}, true
}
