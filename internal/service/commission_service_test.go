package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/locvowork/sales_commission/internal/metrics"
	"github.com/locvowork/sales_commission/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchiver struct {
	indexed [][]database.CommissionDoc
	found   []database.CommissionDoc
	err     error
}

func (a *fakeArchiver) BulkIndexCommissions(_ context.Context, docs []database.CommissionDoc) error {
	a.indexed = append(a.indexed, docs)
	return a.err
}

func (a *fakeArchiver) ScrollRun(_ context.Context, runID string) ([]database.CommissionDoc, error) {
	if a.err != nil {
		return nil, a.err
	}
	var out []database.CommissionDoc
	for _, docs := range a.indexed {
		for _, d := range docs {
			if d.RunID == runID {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (a *fakeArchiver) SearchBySalesperson(_ context.Context, name string, _ int) ([]database.CommissionDoc, error) {
	return a.found, a.err
}

// brokenStore fails one of the three reads.
type brokenStore struct {
	*repository.StaticProvider
	failSales bool
}

func (s *brokenStore) Name() string { return "postgres" }

func (s *brokenStore) ListSales(ctx context.Context, p domain.Period) ([]domain.Sale, error) {
	if s.failSales {
		return nil, errors.New("connection refused")
	}
	return s.StaticProvider.ListSales(ctx, p)
}

func quarter(t *testing.T) domain.Period {
	t.Helper()
	p, err := domain.ParsePeriod("2024-01-01", "2024-03-31", nil)
	require.NoError(t, err)
	return p
}

func fixedNow() time.Time { return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC) }

func TestCommissionService_Calculate(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{}, "debug")
	registry := prometheus.NewRegistry()
	archive := &fakeArchiver{}
	svc := NewCommissionService(repository.NewStaticProvider(nil), archive, metrics.New(registry), commission.FallbackLowestRule)
	svc.now = fixedNow

	report, err := svc.Calculate(context.Background(), quarter(t))
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	assert.Equal(t, "Ana Martínez", report.Results[0].Salesperson.Name)
	assert.Equal(t, "Juan Pérez", report.Results[1].Salesperson.Name)
	assert.True(t, decimal.NewFromInt(47000).Equal(report.Results[1].TotalSales))
	assert.True(t, decimal.NewFromInt(3290).Equal(report.Results[1].Commission))

	assert.Equal(t, "static", report.Source)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, fixedNow(), report.CalculatedAt)
	assert.True(t, decimal.NewFromInt(137000).Equal(report.Summary.TotalSales))
	assert.True(t, decimal.NewFromInt(11040).Equal(report.Summary.TotalCommission))
	assert.Equal(t, 6, report.Summary.SaleCount)

	require.Len(t, archive.indexed, 1)
	docs := archive.indexed[0]
	require.Len(t, docs, 4)
	assert.Equal(t, report.RunID, docs[1].RunID)
	assert.Equal(t, "47000.00", docs[1].TotalSales)
	assert.Equal(t, "3290.00", docs[1].Commission)
	assert.Equal(t, "507f1f77bcf86cd799439023", docs[1].RuleID)

	count, err := testutil.GatherAndCount(registry, "sales_commission_calculations_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCommissionService_CalculateErrors(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{}, "debug")

	t.Run("inverted period", func(t *testing.T) {
		svc := NewCommissionService(repository.NewStaticProvider(nil), nil, nil, commission.FallbackLowestRule)
		_, err := svc.Calculate(context.Background(), domain.Period{
			Start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		})
		assert.True(t, errors.Is(err, domain.ErrInvalidDateRange))
	})

	t.Run("provider failure", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		store := &brokenStore{StaticProvider: repository.NewStaticProvider(nil), failSales: true}
		svc := NewCommissionService(store, nil, metrics.New(registry), commission.FallbackLowestRule)

		report, err := svc.Calculate(context.Background(), quarter(t))
		assert.Nil(t, report)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("static fallback replaces every input", func(t *testing.T) {
		primary := &brokenStore{StaticProvider: repository.NewStaticProvider(nil), failSales: true}
		store := repository.NewFallbackProvider(primary, repository.NewStaticProvider(nil), nil)
		svc := NewCommissionService(store, nil, nil, commission.FallbackLowestRule)

		report, err := svc.Calculate(context.Background(), quarter(t))
		require.NoError(t, err)
		assert.Equal(t, "static", report.Source)
		require.Len(t, report.Results, 4)
		for _, r := range report.Results {
			assert.NotEmpty(t, r.Salesperson.Name)
		}
	})

	t.Run("archive failure does not fail the run", func(t *testing.T) {
		registry := prometheus.NewRegistry()
		archive := &fakeArchiver{err: errors.New("cluster red")}
		svc := NewCommissionService(repository.NewStaticProvider(nil), archive, metrics.New(registry), commission.FallbackLowestRule)

		report, err := svc.Calculate(context.Background(), quarter(t))
		require.NoError(t, err)
		assert.Len(t, report.Results, 4)

		count, err := testutil.GatherAndCount(registry, "sales_commission_archive_failures_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestCommissionService_FallbackPolicy(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{}, "debug")
	gapped := []domain.RateRule{
		{ID: "low", Minimum: decimal.Zero, Maximum: decimal.NewFromInt(10000), Percentage: decimal.NewFromInt(3)},
		{ID: "high", Minimum: decimal.NewFromInt(20000), Maximum: decimal.NewFromInt(999999999), Percentage: decimal.NewFromInt(5)},
	}

	testCases := map[string]struct {
		policy commission.FallbackPolicy
		want   decimal.Decimal
	}{
		"lowest rule": {policy: commission.FallbackLowestRule, want: decimal.NewFromInt(390)},
		"zero":        {policy: commission.FallbackZero, want: decimal.Zero},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			registry := prometheus.NewRegistry()
			svc := NewCommissionService(repository.NewStaticProvider(gapped), nil, metrics.New(registry), tc.policy)

			report, err := svc.Calculate(context.Background(), quarter(t))
			require.NoError(t, err)

			var maria domain.CommissionResult
			for _, r := range report.Results {
				if r.Salesperson.ID == "507f1f77bcf86cd799439012" {
					maria = r
				}
			}
			assert.True(t, maria.FallbackApplied)
			assert.True(t, tc.want.Equal(maria.Commission), "got %s", maria.Commission)

			count, err := testutil.GatherAndCount(registry, "sales_commission_fallback_rule_applied_total")
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestCommissionService_SearchArchive(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		svc := NewCommissionService(repository.NewStaticProvider(nil), nil, nil, commission.FallbackLowestRule)
		_, err := svc.SearchArchive(context.Background(), "Ana")
		assert.True(t, errors.Is(err, domain.ErrArchiveDisabled))
	})

	t.Run("found", func(t *testing.T) {
		archive := &fakeArchiver{found: []database.CommissionDoc{{RunID: "r1", SalespersonName: "Ana Martínez"}}}
		svc := NewCommissionService(repository.NewStaticProvider(nil), archive, nil, commission.FallbackLowestRule)
		docs, err := svc.SearchArchive(context.Background(), "Ana")
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("search error", func(t *testing.T) {
		archive := &fakeArchiver{err: errors.New("timeout")}
		svc := NewCommissionService(repository.NewStaticProvider(nil), archive, nil, commission.FallbackLowestRule)
		_, err := svc.SearchArchive(context.Background(), "Ana")
		assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})
}

func TestCommissionService_ArchivedRun(t *testing.T) {
	logger.SetOutput(&bytes.Buffer{}, "error")
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		archive := &fakeArchiver{}
		svc := NewCommissionService(repository.NewStaticProvider(nil), archive, nil, commission.FallbackLowestRule)
		report, err := svc.Calculate(ctx, quarter(t))
		require.NoError(t, err)

		docs, err := svc.ArchivedRun(ctx, report.RunID)
		require.NoError(t, err)
		assert.Len(t, docs, len(report.Results))
	})

	t.Run("unknown run", func(t *testing.T) {
		svc := NewCommissionService(repository.NewStaticProvider(nil), &fakeArchiver{}, nil, commission.FallbackLowestRule)
		_, err := svc.ArchivedRun(ctx, "missing")
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	})

	t.Run("disabled", func(t *testing.T) {
		svc := NewCommissionService(repository.NewStaticProvider(nil), nil, nil, commission.FallbackLowestRule)
		_, err := svc.ArchivedRun(ctx, "r1")
		assert.True(t, errors.Is(err, domain.ErrArchiveDisabled))
	})

	t.Run("scroll error", func(t *testing.T) {
		svc := NewCommissionService(repository.NewStaticProvider(nil), &fakeArchiver{err: errors.New("scroll expired")}, nil, commission.FallbackLowestRule)
		_, err := svc.ArchivedRun(ctx, "r1")
		assert.True(t, errors.Is(err, domain.ErrDataUnavailable))
	})
}
