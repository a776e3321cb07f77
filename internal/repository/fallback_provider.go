package repository

import (
	"context"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/locvowork/sales_commission/internal/metrics"
)

// FallbackProvider serves reads from fallback whenever primary fails. Writes
// always go to primary. LoadInputs switches all three inputs at once so a
// calculation never mixes primary and fallback records.
type FallbackProvider struct {
	primary  domain.Store
	fallback domain.DataProvider
	metrics  *metrics.CommissionMetrics
}

func NewFallbackProvider(primary domain.Store, fallback domain.DataProvider, m *metrics.CommissionMetrics) *FallbackProvider {
	return &FallbackProvider{primary: primary, fallback: fallback, metrics: m}
}

func (p *FallbackProvider) Name() string { return p.primary.Name() }

func (p *FallbackProvider) degrade(ctx context.Context, input string, err error) {
	logger.WarnLog(ctx, "%s provider failed to list %s, serving %s data: %v", p.primary.Name(), input, p.fallback.Name(), err)
	p.metrics.IncProviderFallback(p.primary.Name(), input)
}

// LoadInputs reads every input from primary. If any read fails the whole set
// comes from fallback, and Inputs.Source names the fallback.
func (p *FallbackProvider) LoadInputs(ctx context.Context, period domain.Period) (domain.Inputs, error) {
	in, err := FetchInputs(ctx, p.primary, period)
	if err == nil {
		return in, nil
	}
	p.degrade(ctx, "inputs", err)
	return FetchInputs(ctx, p.fallback, period)
}

func (p *FallbackProvider) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	people, err := p.primary.ListSalespeople(ctx)
	if err == nil {
		return people, nil
	}
	p.degrade(ctx, "salespeople", err)
	return p.fallback.ListSalespeople(ctx)
}

func (p *FallbackProvider) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	sales, err := p.primary.ListSales(ctx, period)
	if err == nil {
		return sales, nil
	}
	p.degrade(ctx, "sales", err)
	return p.fallback.ListSales(ctx, period)
}

func (p *FallbackProvider) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	rules, err := p.primary.ListRules(ctx)
	if err == nil {
		return rules, nil
	}
	p.degrade(ctx, "rules", err)
	return p.fallback.ListRules(ctx)
}

func (p *FallbackProvider) CreateSalesperson(ctx context.Context, s *domain.Salesperson) error {
	return p.primary.CreateSalesperson(ctx, s)
}

func (p *FallbackProvider) CreateSale(ctx context.Context, s *domain.Sale) error {
	return p.primary.CreateSale(ctx, s)
}

func (p *FallbackProvider) CreateRule(ctx context.Context, r *domain.RateRule) error {
	return p.primary.CreateRule(ctx, r)
}

func (p *FallbackProvider) Clear(ctx context.Context) error {
	return p.primary.Clear(ctx)
}
