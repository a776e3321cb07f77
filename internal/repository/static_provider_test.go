package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(nil)
	ctx := context.Background()

	people, err := p.ListSalespeople(ctx)
	require.NoError(t, err)
	assert.Len(t, people, 4)
	assert.NoError(t, domain.ValidateSalespeople(people))

	rules, err := p.ListRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 4)
	assert.NoError(t, domain.ValidateRules(rules))

	t.Run("sales filtered by period", func(t *testing.T) {
		q1, err := domain.ParsePeriod("2024-01-01", "2024-03-31", nil)
		require.NoError(t, err)
		all, err := p.ListSales(ctx, q1)
		require.NoError(t, err)
		assert.Len(t, all, 6)

		jan, err := domain.ParsePeriod("2024-01-01", "2024-01-31", nil)
		require.NoError(t, err)
		sales, err := p.ListSales(ctx, jan)
		require.NoError(t, err)
		require.Len(t, sales, 2)
		assert.Equal(t, "15000", sales[0].Amount.String())
		assert.Equal(t, "8500", sales[1].Amount.String())
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		period, err := domain.ParsePeriod("2024-03-10", "2024-03-10", nil)
		require.NoError(t, err)
		sales, err := p.ListSales(ctx, period)
		require.NoError(t, err)
		require.Len(t, sales, 1)
		assert.Equal(t, "4500", sales[0].Amount.String())
	})

	t.Run("read only", func(t *testing.T) {
		assert.True(t, errors.Is(p.CreateSale(ctx, &domain.Sale{}), domain.ErrReadOnlyProvider))
		assert.True(t, errors.Is(p.CreateSalesperson(ctx, &domain.Salesperson{}), domain.ErrReadOnlyProvider))
		assert.True(t, errors.Is(p.Clear(ctx), domain.ErrReadOnlyProvider))
	})

	t.Run("returned slices are copies", func(t *testing.T) {
		people[0].Name = "changed"
		again, err := p.ListSalespeople(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Juan Pérez", again[0].Name)
	})
}

func TestStaticProvider_CustomRules(t *testing.T) {
	custom := []domain.RateRule{
		{ID: "top", Minimum: decimal.NewFromInt(1000), Maximum: decimal.NewFromInt(999999999), Percentage: decimal.NewFromInt(2)},
		{ID: "base", Minimum: decimal.Zero, Maximum: decimal.NewFromInt(999), Percentage: decimal.NewFromInt(1)},
	}
	rules, err := NewStaticProvider(custom).ListRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "base", rules[0].ID)
}
