package commission

import (
	"fmt"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
)

// Summarize totals a result list. The average is zero for an empty list.
func Summarize(results []domain.CommissionResult) domain.CommissionSummary {
	sum := domain.CommissionSummary{
		TotalSales:        decimal.Zero,
		TotalCommission:   decimal.Zero,
		AverageCommission: decimal.Zero,
	}
	for _, r := range results {
		sum.SalespersonCount++
		sum.SaleCount += r.SaleCount
		sum.TotalSales = sum.TotalSales.Add(r.TotalSales)
		sum.TotalCommission = sum.TotalCommission.Add(r.Commission)
	}
	if sum.SalespersonCount > 0 {
		sum.AverageCommission = sum.TotalCommission.
			Div(decimal.NewFromInt(int64(sum.SalespersonCount))).
			Round(2)
	}
	return sum
}

// CoverageIssue describes a gap or an overlap between two adjacent tiers.
type CoverageIssue struct {
	Kind  string `json:"kind"`
	After string `json:"after_rule"`
	Rule  string `json:"rule"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// CheckCoverage lists gaps and overlaps in a rule set. Amounts are treated
// as whole currency units when deciding contiguity, so 0-10000 followed by
// 10001-25000 is contiguous. Calculate never calls it.
func CheckCoverage(rules []domain.RateRule) []CoverageIssue {
	sorted := SortRules(rules)
	var issues []CoverageIssue

	if len(sorted) > 0 && sorted[0].Minimum.GreaterThan(decimal.Zero) {
		issues = append(issues, CoverageIssue{
			Kind: "gap",
			Rule: sorted[0].ID,
			From: "0",
			To:   sorted[0].Minimum.String(),
		})
	}

	one := decimal.NewFromInt(1)
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		switch {
		case cur.Minimum.LessThanOrEqual(prev.Maximum):
			issues = append(issues, CoverageIssue{
				Kind:  "overlap",
				After: prev.ID,
				Rule:  cur.ID,
				From:  cur.Minimum.String(),
				To:    decimal.Min(prev.Maximum, cur.Maximum).String(),
			})
		case cur.Minimum.GreaterThan(prev.Maximum.Add(one)):
			issues = append(issues, CoverageIssue{
				Kind:  "gap",
				After: prev.ID,
				Rule:  cur.ID,
				From:  prev.Maximum.String(),
				To:    cur.Minimum.String(),
			})
		}
	}
	return issues
}

func (c CoverageIssue) String() string {
	return fmt.Sprintf("%s between %q and %q: %s..%s", c.Kind, c.After, c.Rule, c.From, c.To)
}
