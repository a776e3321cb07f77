// Package commission computes tiered sales commissions. Everything here is a
// pure function of its arguments: no I/O, no logging, no shared state.
package commission

import (
	"sort"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
)

// FallbackPolicy decides what happens when a total matches no rule.
type FallbackPolicy int

const (
	// FallbackLowestRule applies the rule with the smallest minimum.
	FallbackLowestRule FallbackPolicy = iota
	// FallbackZero pays no commission.
	FallbackZero
)

func (p FallbackPolicy) String() string {
	switch p {
	case FallbackLowestRule:
		return "lowest_rule"
	case FallbackZero:
		return "zero"
	default:
		return "unknown"
	}
}

// ParseFallbackPolicy maps a config value to a policy, defaulting to FallbackLowestRule.
func ParseFallbackPolicy(s string) FallbackPolicy {
	if s == FallbackZero.String() {
		return FallbackZero
	}
	return FallbackLowestRule
}

var hundred = decimal.NewFromInt(100)

type options struct {
	fallback FallbackPolicy
}

// Option configures Calculate.
type Option func(*options)

// WithFallback sets the no-match policy.
func WithFallback(p FallbackPolicy) Option {
	return func(o *options) { o.fallback = p }
}

// Calculate returns one result per salesperson with at least one sale in
// period, ordered by total sales descending and then by salesperson id.
//
// Rules are sorted by minimum internally; none of the input slices are
// modified. Sales whose salesperson is not in salespeople are reported under
// a stub carrying only the id, so reported totals always add up to the
// in-period sales total.
func Calculate(salespeople []domain.Salesperson, sales []domain.Sale, rules []domain.RateRule, period domain.Period, opts ...Option) ([]domain.CommissionResult, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	o := options{fallback: FallbackLowestRule}
	for _, opt := range opts {
		opt(&o)
	}

	sorted := SortRules(rules)

	byID := make(map[string]domain.Salesperson, len(salespeople))
	for _, sp := range salespeople {
		byID[sp.ID] = sp
	}

	grouped := make(map[string][]domain.Sale)
	var order []string
	for _, s := range sales {
		if !period.Contains(s.Date) {
			continue
		}
		if _, seen := grouped[s.SalespersonID]; !seen {
			order = append(order, s.SalespersonID)
		}
		grouped[s.SalespersonID] = append(grouped[s.SalespersonID], s)
	}

	results := make([]domain.CommissionResult, 0, len(order))
	for _, id := range order {
		own := grouped[id]

		total := decimal.Zero
		for _, s := range own {
			total = total.Add(s.Amount)
		}

		sp, ok := byID[id]
		if !ok {
			sp = domain.Salesperson{ID: id}
		}

		res := domain.CommissionResult{
			Salesperson: sp,
			TotalSales:  total,
			Commission:  decimal.Zero,
			SaleCount:   len(own),
			Sales:       own,
		}

		rule, err := MatchRule(sorted, total)
		if err != nil {
			res.FallbackApplied = true
			if o.fallback == FallbackLowestRule && len(sorted) > 0 {
				lowest := sorted[0]
				rule = &lowest
			}
		}
		if rule != nil {
			res.MatchedRule = rule
			res.Commission = Amount(total, rule.Percentage)
		}

		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if c := results[i].TotalSales.Cmp(results[j].TotalSales); c != 0 {
			return c > 0
		}
		return results[i].Salesperson.ID < results[j].Salesperson.ID
	})

	return results, nil
}

// MatchRule scans rules, which must already be sorted by minimum, and
// returns the first one containing total. A coverage gap yields
// domain.ErrNoMatchingRule.
func MatchRule(sorted []domain.RateRule, total decimal.Decimal) (*domain.RateRule, error) {
	for i := range sorted {
		if sorted[i].Contains(total) {
			r := sorted[i]
			return &r, nil
		}
	}
	return nil, domain.ErrNoMatchingRule
}

// Amount is total * percentage / 100 rounded to cents.
func Amount(total, percentage decimal.Decimal) decimal.Decimal {
	return total.Mul(percentage).Div(hundred).Round(2)
}

// SortRules returns a copy of rules ordered by minimum ascending.
func SortRules(rules []domain.RateRule) []domain.RateRule {
	out := make([]domain.RateRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minimum.LessThan(out[j].Minimum)
	})
	return out
}
