package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockProvider(t *testing.T) (*PostgresProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresProvider(db), mock
}

func TestPostgresProvider_ListSales(t *testing.T) {
	p, mock := newMockProvider(t)
	period, err := domain.ParsePeriod("2024-01-01", "2024-01-31", nil)
	require.NoError(t, err)

	soldAt := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, salesperson_id, amount, sold_at, client, product FROM sales WHERE sold_at >= $1 AND sold_at <= $2 ORDER BY sold_at ASC").
		WithArgs(period.Start, period.EndOfDay()).
		WillReturnRows(sqlmock.NewRows(saleColumns).
			AddRow("s1", "v1", "15000.50", soldAt, "Empresa ABC S.A.", "Laptop Dell XPS 13"))

	sales, err := p.ListSales(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, "15000.5", sales[0].Amount.String())
	assert.Equal(t, soldAt, sales[0].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProvider_ListRules(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectQuery("SELECT id, min_amount, max_amount, percentage, description FROM commission_rules ORDER BY min_amount ASC").
		WillReturnRows(sqlmock.NewRows(ruleColumns).
			AddRow("r1", "0", "10000", "3", "basic").
			AddRow("r2", "10001", "25000", "5", "mid"))

	rules, err := p.ListRules(context.Background())
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.True(t, rules[1].Percentage.Equal(decimal.NewFromInt(5)))
}

func TestPostgresProvider_InvalidRecord(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectQuery("SELECT id, name, email, phone, joined_at FROM salespeople ORDER BY name ASC").
		WillReturnRows(sqlmock.NewRows(salespersonColumns).
			AddRow("v1", "", "nobody@empresa.com", "", time.Now()))

	_, err := p.ListSalespeople(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
}

func TestPostgresProvider_QueryError(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectQuery("SELECT id, min_amount, max_amount, percentage, description FROM commission_rules ORDER BY min_amount ASC").
		WillReturnError(errors.New("connection refused"))

	_, err := p.ListRules(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: list rules")
}

func TestPostgresProvider_CreateSale(t *testing.T) {
	p, mock := newMockProvider(t)
	sale := domain.Sale{
		ID:            "s1",
		SalespersonID: "v1",
		Amount:        decimal.NewFromInt(8500),
		Date:          time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectExec("INSERT INTO sales (id, salesperson_id, amount, sold_at, client, product) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING").
		WithArgs("s1", "v1", "8500", sale.Date, "", "").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, p.CreateSale(context.Background(), &sale))
	assert.NoError(t, mock.ExpectationsWereMet())

	sale.Amount = decimal.NewFromInt(-5)
	err := p.CreateSale(context.Background(), &sale)
	assert.True(t, errors.Is(err, domain.ErrInvalidRecord))
}

func TestPostgresProvider_CreateSales(t *testing.T) {
	p, mock := newMockProvider(t)
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		{ID: "s1", SalespersonID: "v1", Amount: decimal.NewFromInt(100), Date: day},
		{ID: "s2", SalespersonID: "v2", Amount: decimal.NewFromInt(200), Date: day},
	}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO sales (id, salesperson_id, amount, sold_at, client, product) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT (id) DO NOTHING")
	prep.ExpectExec().WithArgs("s1", "v1", "100", day, "", "").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("s2", "v2", "200", day, "", "").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, p.CreateSales(context.Background(), sales))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProvider_Clear(t *testing.T) {
	p, mock := newMockProvider(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sales").WillReturnResult(sqlmock.NewResult(0, 6))
	mock.ExpectExec("DELETE FROM commission_rules").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("DELETE FROM salespeople").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	require.NoError(t, p.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
