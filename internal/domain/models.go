package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ==================== REFERENCE DATA ====================

// Salesperson represents the salespeople table / vendedores collection
type Salesperson struct {
	ID       string    `json:"id" db:"id" validate:"required"`
	Name     string    `json:"name" db:"name" validate:"required"`
	Email    string    `json:"email" db:"email" validate:"required,email"`
	Phone    string    `json:"phone" db:"phone"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Sale represents a single recorded transaction
type Sale struct {
	ID            string          `json:"id" db:"id" validate:"required"`
	SalespersonID string          `json:"salesperson_id" db:"salesperson_id" validate:"required"`
	Amount        decimal.Decimal `json:"amount" db:"amount" validate:"gte=0"`
	Date          time.Time       `json:"date" db:"sold_at" validate:"required"`
	Client        string          `json:"client" db:"client"`
	Product       string          `json:"product" db:"product"`
}

// RateRule is one commission tier. Minimum and Maximum are both inclusive.
type RateRule struct {
	ID          string          `json:"id" db:"id" validate:"required"`
	Minimum     decimal.Decimal `json:"minimum" db:"min_amount" validate:"gte=0"`
	Maximum     decimal.Decimal `json:"maximum" db:"max_amount" validate:"gte=0"`
	Percentage  decimal.Decimal `json:"percentage" db:"percentage" validate:"gte=0,lte=100"`
	Description string          `json:"description" db:"description"`
}

// Contains reports whether total lies in [Minimum, Maximum].
func (r RateRule) Contains(total decimal.Decimal) bool {
	return total.GreaterThanOrEqual(r.Minimum) && total.LessThanOrEqual(r.Maximum)
}

// ==================== DERIVED ====================

// CommissionResult is the per-salesperson outcome of one calculation run.
// It is never persisted except as an archive copy.
type CommissionResult struct {
	Salesperson     Salesperson     `json:"salesperson"`
	TotalSales      decimal.Decimal `json:"total_sales"`
	Commission      decimal.Decimal `json:"commission"`
	SaleCount       int             `json:"sale_count"`
	MatchedRule     *RateRule       `json:"matched_rule"`
	FallbackApplied bool            `json:"fallback_applied"`
	Sales           []Sale          `json:"sales"`
}

// CommissionSummary aggregates a result list for reporting
type CommissionSummary struct {
	SalespersonCount  int             `json:"salesperson_count"`
	SaleCount         int             `json:"sale_count"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalCommission   decimal.Decimal `json:"total_commission"`
	AverageCommission decimal.Decimal `json:"average_commission"`
}

// CommissionReport is what the service hands to the presentation layer
type CommissionReport struct {
	RunID        string             `json:"run_id"`
	Period       Period             `json:"period"`
	Source       string             `json:"source"`
	CalculatedAt time.Time          `json:"calculated_at"`
	Results      []CommissionResult `json:"results"`
	Summary      CommissionSummary  `json:"summary"`
}

// Inputs is everything one calculation reads, taken from a single source.
type Inputs struct {
	Source      string
	Salespeople []Salesperson
	Sales       []Sale
	Rules       []RateRule
}
