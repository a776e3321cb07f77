package repository

import (
	"context"
	"time"

	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
)

// StaticProvider serves a fixed in-memory data set. It is read-only.
type StaticProvider struct {
	salespeople []domain.Salesperson
	sales       []domain.Sale
	rules       []domain.RateRule
}

// NewStaticProvider returns the built-in sample data set. When rules is
// non-empty it replaces the built-in tiers.
func NewStaticProvider(rules []domain.RateRule) *StaticProvider {
	p := &StaticProvider{
		salespeople: staticSalespeople(),
		sales:       staticSales(),
		rules:       staticRules(),
	}
	if len(rules) > 0 {
		p.rules = commission.SortRules(rules)
	}
	return p
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) ListSalespeople(context.Context) ([]domain.Salesperson, error) {
	return append([]domain.Salesperson(nil), p.salespeople...), nil
}

func (p *StaticProvider) ListSales(_ context.Context, period domain.Period) ([]domain.Sale, error) {
	var result []domain.Sale
	for _, s := range p.sales {
		if period.Contains(s.Date) {
			result = append(result, s)
		}
	}
	return result, nil
}

func (p *StaticProvider) ListRules(context.Context) ([]domain.RateRule, error) {
	return append([]domain.RateRule(nil), p.rules...), nil
}

func (p *StaticProvider) CreateSalesperson(context.Context, *domain.Salesperson) error {
	return domain.ErrReadOnlyProvider
}

func (p *StaticProvider) CreateSale(context.Context, *domain.Sale) error {
	return domain.ErrReadOnlyProvider
}

func (p *StaticProvider) CreateRule(context.Context, *domain.RateRule) error {
	return domain.ErrReadOnlyProvider
}

func (p *StaticProvider) Clear(context.Context) error {
	return domain.ErrReadOnlyProvider
}

func staticDate(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func staticSalespeople() []domain.Salesperson {
	return []domain.Salesperson{
		{ID: "507f1f77bcf86cd799439011", Name: "Juan Pérez", Email: "juan.perez@empresa.com", Phone: "+1234567890", JoinedAt: staticDate("2023-01-15")},
		{ID: "507f1f77bcf86cd799439012", Name: "María García", Email: "maria.garcia@empresa.com", Phone: "+1234567891", JoinedAt: staticDate("2023-03-20")},
		{ID: "507f1f77bcf86cd799439013", Name: "Carlos López", Email: "carlos.lopez@empresa.com", Phone: "+1234567892", JoinedAt: staticDate("2023-02-10")},
		{ID: "507f1f77bcf86cd799439014", Name: "Ana Martínez", Email: "ana.martinez@empresa.com", Phone: "+1234567893", JoinedAt: staticDate("2023-04-05")},
	}
}

func staticSales() []domain.Sale {
	sale := func(id, seller string, amount int64, date, client, product string) domain.Sale {
		return domain.Sale{
			ID:            id,
			SalespersonID: seller,
			Amount:        decimal.NewFromInt(amount),
			Date:          staticDate(date),
			Client:        client,
			Product:       product,
		}
	}
	return []domain.Sale{
		sale("507f1f77bcf86cd799439031", "507f1f77bcf86cd799439011", 15000, "2024-01-15", "Empresa ABC S.A.", "Laptop Dell XPS 13"),
		sale("507f1f77bcf86cd799439032", "507f1f77bcf86cd799439012", 8500, "2024-01-20", "Corporación XYZ", "iPhone 15 Pro"),
		sale("507f1f77bcf86cd799439033", "507f1f77bcf86cd799439011", 32000, "2024-02-10", "Startup Innovadora", "MacBook Air M2"),
		sale("507f1f77bcf86cd799439034", "507f1f77bcf86cd799439013", 12000, "2024-02-15", "Comercial Los Andes", "Samsung Galaxy S24"),
		sale("507f1f77bcf86cd799439035", "507f1f77bcf86cd799439014", 65000, "2024-03-01", "Tecnología Avanzada", "Surface Pro 9"),
		sale("507f1f77bcf86cd799439036", "507f1f77bcf86cd799439012", 4500, "2024-03-10", "Soluciones Digitales", "AirPods Pro"),
	}
}

func staticRules() []domain.RateRule {
	rule := func(id string, lo, hi, pct int64, desc string) domain.RateRule {
		return domain.RateRule{
			ID:          id,
			Minimum:     decimal.NewFromInt(lo),
			Maximum:     decimal.NewFromInt(hi),
			Percentage:  decimal.NewFromInt(pct),
			Description: desc,
		}
	}
	return []domain.RateRule{
		rule("507f1f77bcf86cd799439021", 0, 10000, 3, "Comisión básica para ventas hasta $10,000"),
		rule("507f1f77bcf86cd799439022", 10001, 25000, 5, "Comisión intermedia para ventas de $10,001 a $25,000"),
		rule("507f1f77bcf86cd799439023", 25001, 50000, 7, "Comisión alta para ventas de $25,001 a $50,000"),
		rule("507f1f77bcf86cd799439024", 50001, 999999999, 10, "Comisión premium para ventas superiores a $50,000"),
	}
}
