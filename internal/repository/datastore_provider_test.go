package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	people     []domain.Salesperson
	sales      []domain.Sale
	rules      []domain.RateRule
	from, to   time.Time
	deleted    []string
	batchCalls int
	err        error
}

func (g *fakeGateway) GetSalespeople(context.Context) ([]domain.Salesperson, error) {
	return g.people, g.err
}

func (g *fakeGateway) GetSalesBetween(_ context.Context, from, to time.Time) ([]domain.Sale, error) {
	g.from, g.to = from, to
	return g.sales, g.err
}

func (g *fakeGateway) GetRules(context.Context) ([]domain.RateRule, error) {
	return g.rules, g.err
}

func (g *fakeGateway) SaveSalesperson(_ context.Context, s *domain.Salesperson) error {
	g.people = append(g.people, *s)
	return g.err
}

func (g *fakeGateway) SaveSale(_ context.Context, s *domain.Sale) error {
	g.sales = append(g.sales, *s)
	return g.err
}

func (g *fakeGateway) BatchSaveSales(_ context.Context, sales []domain.Sale) error {
	g.batchCalls++
	g.sales = append(g.sales, sales...)
	return g.err
}

func (g *fakeGateway) SaveRule(_ context.Context, r *domain.RateRule) error {
	g.rules = append(g.rules, *r)
	return g.err
}

func (g *fakeGateway) DeleteKind(_ context.Context, kind string) error {
	g.deleted = append(g.deleted, kind)
	return g.err
}

func TestDatastoreProvider_ListSalesUsesPeriodBounds(t *testing.T) {
	gw := &fakeGateway{}
	p := NewDatastoreProvider(gw)
	period, err := domain.ParsePeriod("2024-02-01", "2024-02-29", nil)
	require.NoError(t, err)

	_, err = p.ListSales(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, period.Start, gw.from)
	assert.Equal(t, period.EndOfDay(), gw.to)
}

func TestDatastoreProvider_ListRulesSorted(t *testing.T) {
	gw := &fakeGateway{rules: []domain.RateRule{
		{ID: "b", Minimum: decimal.NewFromInt(10001), Maximum: decimal.NewFromInt(25000), Percentage: decimal.NewFromInt(5)},
		{ID: "a", Minimum: decimal.Zero, Maximum: decimal.NewFromInt(10000), Percentage: decimal.NewFromInt(3)},
	}}
	rules, err := NewDatastoreProvider(gw).ListRules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", rules[0].ID)
	assert.Equal(t, "b", gw.rules[0].ID, "gateway slice must not be reordered")
}

func TestDatastoreProvider_Errors(t *testing.T) {
	gw := &fakeGateway{err: errors.New("unavailable")}
	p := NewDatastoreProvider(gw)

	_, err := p.ListSalespeople(context.Background())
	assert.ErrorContains(t, err, "datastore: list salespeople")

	gw.err = nil
	gw.people = []domain.Salesperson{{ID: "v1", Name: "Juan"}}
	_, err = p.ListSalespeople(context.Background())
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
}

func TestDatastoreProvider_Writes(t *testing.T) {
	gw := &fakeGateway{}
	p := NewDatastoreProvider(gw)
	ctx := context.Background()

	sales := []domain.Sale{
		{ID: "s1", SalespersonID: "v1", Amount: decimal.NewFromInt(10), Date: time.Now()},
		{ID: "s2", SalespersonID: "v1", Amount: decimal.NewFromInt(20), Date: time.Now()},
	}
	require.NoError(t, p.CreateSales(ctx, sales))
	assert.Equal(t, 1, gw.batchCalls)

	err := p.CreateRule(ctx, &domain.RateRule{ID: "r", Minimum: decimal.NewFromInt(5), Maximum: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
	assert.Empty(t, gw.rules)

	require.NoError(t, p.Clear(ctx))
	assert.Equal(t, []string{database.KindSale, database.KindRule, database.KindSalesperson}, gw.deleted)
}
