package repository

import (
	"context"
	"time"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/metrics"
	"github.com/patrickmn/go-cache"
)

const (
	cacheKeySalespeople = "salespeople"
	cacheKeyRules       = "rules"
	cacheKeySalesPrefix = "sales:"
)

// CachedProvider memoizes reads of another store for ttl. Any successful
// write through it flushes the cache.
type CachedProvider struct {
	inner   domain.Store
	cache   *cache.Cache
	metrics *metrics.CommissionMetrics
}

func NewCachedProvider(inner domain.Store, ttl time.Duration, m *metrics.CommissionMetrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   cache.New(ttl, 2*ttl),
		metrics: m,
	}
}

func (p *CachedProvider) Name() string { return p.inner.Name() }

func (p *CachedProvider) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	if v, ok := p.cache.Get(cacheKeySalespeople); ok {
		p.metrics.IncCacheLookup(cacheKeySalespeople, true)
		return v.([]domain.Salesperson), nil
	}
	p.metrics.IncCacheLookup(cacheKeySalespeople, false)

	people, err := p.inner.ListSalespeople(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(cacheKeySalespeople, people)
	return people, nil
}

func (p *CachedProvider) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	key := cacheKeySalesPrefix + period.Start.Format(time.RFC3339) + "/" + period.EndOfDay().Format(time.RFC3339Nano)
	if v, ok := p.cache.Get(key); ok {
		p.metrics.IncCacheLookup("sales", true)
		return v.([]domain.Sale), nil
	}
	p.metrics.IncCacheLookup("sales", false)

	sales, err := p.inner.ListSales(ctx, period)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, sales)
	return sales, nil
}

func (p *CachedProvider) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	if v, ok := p.cache.Get(cacheKeyRules); ok {
		p.metrics.IncCacheLookup(cacheKeyRules, true)
		return v.([]domain.RateRule), nil
	}
	p.metrics.IncCacheLookup(cacheKeyRules, false)

	rules, err := p.inner.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(cacheKeyRules, rules)
	return rules, nil
}

func (p *CachedProvider) CreateSalesperson(ctx context.Context, s *domain.Salesperson) error {
	return p.flushOnSuccess(p.inner.CreateSalesperson(ctx, s))
}

func (p *CachedProvider) CreateSale(ctx context.Context, s *domain.Sale) error {
	return p.flushOnSuccess(p.inner.CreateSale(ctx, s))
}

func (p *CachedProvider) CreateRule(ctx context.Context, r *domain.RateRule) error {
	return p.flushOnSuccess(p.inner.CreateRule(ctx, r))
}

func (p *CachedProvider) Clear(ctx context.Context) error {
	return p.flushOnSuccess(p.inner.Clear(ctx))
}

func (p *CachedProvider) flushOnSuccess(err error) error {
	if err == nil {
		p.cache.Flush()
	}
	return err
}
