// Package pricing holds the marketplace fee tables and the per-order profit formula.
package pricing

import "math"

// PerExtraDesi is charged for every desi above the last tier.
const PerExtraDesi = 6.75

// shippingTiers[i] is the cargo fee for desi i+1.
var shippingTiers = [30]float64{
	45.00, 48.50, 52.00, 55.90, 59.90, 64.50, 69.00, 73.50, 78.00, 82.90,
	88.00, 93.00, 98.00, 103.00, 108.50, 114.00, 119.50, 125.00, 130.50, 136.00,
	142.00, 148.00, 154.00, 160.00, 166.00, 172.50, 179.00, 185.50, 192.00, 198.50,
}

// ShippingCost returns the cargo fee for a volumetric weight. Non-positive desi
// is billed at the first tier and fractional desi rounds up.
func ShippingCost(desi float64) float64 {
	if desi <= 0 || math.IsNaN(desi) {
		return shippingTiers[0]
	}
	tier := int(math.Ceil(desi))
	if tier <= len(shippingTiers) {
		return shippingTiers[tier-1]
	}
	extra := float64(tier - len(shippingTiers))
	return math.Round((shippingTiers[len(shippingTiers)-1]+extra*PerExtraDesi)*100) / 100
}
