package handler

import (
	"time"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
)

// CalculateRequest is the body of POST /api/commissions
type CalculateRequest struct {
	StartDate string `json:"start_date" query:"start_date"`
	EndDate   string `json:"end_date" query:"end_date"`
}

// CreateSalespersonRequest is the body of POST /api/salespeople
type CreateSalespersonRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JoinedAt string `json:"joined_at"`
}

// CreateSaleRequest is the body of POST /api/sales. Amount accepts a JSON
// number or a decimal string.
type CreateSaleRequest struct {
	ID            string          `json:"id"`
	SalespersonID string          `json:"salesperson_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Client        string          `json:"client"`
	Product       string          `json:"product"`
}

// CreateRuleRequest is the body of POST /api/rules. Bounds and percentage
// accept JSON numbers or decimal strings.
type CreateRuleRequest struct {
	ID          string          `json:"id"`
	Minimum     decimal.Decimal `json:"minimum"`
	Maximum     decimal.Decimal `json:"maximum"`
	Percentage  decimal.Decimal `json:"percentage"`
	Description string          `json:"description"`
}

func (r CreateRuleRequest) toDomain() domain.RateRule {
	return domain.RateRule{
		ID:          r.ID,
		Minimum:     r.Minimum,
		Maximum:     r.Maximum,
		Percentage:  r.Percentage,
		Description: r.Description,
	}
}

func (r CreateSalespersonRequest) toDomain(loc *time.Location) (domain.Salesperson, error) {
	sp := domain.Salesperson{
		ID:    r.ID,
		Name:  r.Name,
		Email: r.Email,
		Phone: r.Phone,
	}
	if r.JoinedAt != "" {
		t, err := parseDate(r.JoinedAt, loc)
		if err != nil {
			return sp, err
		}
		sp.JoinedAt = t
	}
	return sp, nil
}

func (r CreateSaleRequest) toDomain(loc *time.Location) (domain.Sale, error) {
	sale := domain.Sale{
		ID:            r.ID,
		SalespersonID: r.SalespersonID,
		Amount:        r.Amount,
		Client:        r.Client,
		Product:       r.Product,
	}
	if r.Date != "" {
		t, err := parseDate(r.Date, loc)
		if err != nil {
			return sale, err
		}
		sale.Date = t
	}
	return sale, nil
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(domain.DateLayout, s, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, domain.ErrInvalidRecord
	}
	return t, nil
}
