package pricing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CommissionRule maps a category keyword to a commission rate.
type CommissionRule struct {
	Keyword string
	Rate    float64
}

// CommissionResolver resolves commission rates by category name.
type CommissionResolver struct {
	rules       []CommissionRule
	defaultRate float64
}

// NewCommissionResolver builds a resolver. Rules are matched in order.
func NewCommissionResolver(rules []CommissionRule, defaultRate float64) *CommissionResolver {
	r := &CommissionResolver{defaultRate: defaultRate}
	for _, rule := range rules {
		kw := strings.TrimSpace(rule.Keyword)
		if kw == "" {
			continue
		}
		r.rules = append(r.rules, CommissionRule{Keyword: Fold(kw), Rate: rule.Rate})
	}
	return r
}

// DefaultRate returns the fallback rate.
func (r *CommissionResolver) DefaultRate() float64 {
	return r.defaultRate
}

// Rate returns the first rule whose keyword is contained in category.
func (r *CommissionResolver) Rate(category string) float64 {
	category = strings.TrimSpace(category)
	if category == "" {
		return r.defaultRate
	}
	folded := Fold(category)
	for _, rule := range r.rules {
		if strings.Contains(folded, rule.Keyword) {
			return rule.Rate
		}
	}
	return r.defaultRate
}

// Fold lower-cases s with Turkish casing rules and then collapses dotless "ı"
// into "i", so "İPTAL", "iptal" and "DELIVERED" all compare against ASCII
// keywords. A Caser is stateful, so one is built per call.
func Fold(s string) string {
	return strings.ReplaceAll(cases.Lower(language.Turkish).String(s), "ı", "i")
}
