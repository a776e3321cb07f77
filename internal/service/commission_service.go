package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/locvowork/sales_commission/internal/metrics"
	"github.com/locvowork/sales_commission/internal/repository"
)

// Archiver stores and searches past calculation runs.
type Archiver interface {
	BulkIndexCommissions(ctx context.Context, docs []database.CommissionDoc) error
	SearchBySalesperson(ctx context.Context, name string, size int) ([]database.CommissionDoc, error)
	ScrollRun(ctx context.Context, runID string) ([]database.CommissionDoc, error)
}

// CommissionService handles business logic for commission runs
type CommissionService struct {
	store    domain.Store
	archiver Archiver
	metrics  *metrics.CommissionMetrics
	policy   commission.FallbackPolicy
	now      func() time.Time
}

// NewCommissionService creates a new CommissionService instance. archiver and
// m may be nil.
func NewCommissionService(
	store domain.Store,
	archiver Archiver,
	m *metrics.CommissionMetrics,
	policy commission.FallbackPolicy,
) *CommissionService {
	return &CommissionService{
		store:    store,
		archiver: archiver,
		metrics:  m,
		policy:   policy,
		now:      time.Now,
	}
}

// ==================== Calculation ====================

// Calculate loads the three inputs from one source and runs the calculator
// over period. Provider failures are wrapped in domain.ErrDataUnavailable.
func (s *CommissionService) Calculate(ctx context.Context, period domain.Period) (*domain.CommissionReport, error) {
	start := time.Now()
	source := s.store.Name()
	runID := uuid.NewString()
	ctx = logger.WithLogger(ctx, map[string]interface{}{"run_id": runID, "period": period.String()})

	report, err := s.calculate(ctx, runID, period)
	s.metrics.ObserveCalculation(source, statusOf(err), time.Since(start), len(reportResults(report)))
	if err != nil {
		return nil, err
	}

	logger.InfoLog(ctx, "Calculated commissions for %d salespeople from %s", len(report.Results), report.Source)
	s.archive(ctx, report)
	return report, nil
}

func (s *CommissionService) calculate(ctx context.Context, runID string, period domain.Period) (*domain.CommissionReport, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}

	in, err := repository.LoadInputs(ctx, s.store, period)
	if err != nil {
		return nil, err
	}

	results, err := commission.Calculate(in.Salespeople, in.Sales, in.Rules, period, commission.WithFallback(s.policy))
	if err != nil {
		return nil, err
	}

	fallbacks := 0
	for _, r := range results {
		if r.FallbackApplied {
			fallbacks++
		}
	}
	if fallbacks > 0 {
		logger.WarnLog(ctx, "%d totals matched no commission tier, applied %s policy", fallbacks, s.policy)
		s.metrics.AddFallbackRules(s.policy.String(), fallbacks)
	}

	return &domain.CommissionReport{
		RunID:        runID,
		Period:       period,
		Source:       in.Source,
		CalculatedAt: s.now().UTC(),
		Results:      results,
		Summary:      commission.Summarize(results),
	}, nil
}

func reportResults(r *domain.CommissionReport) []domain.CommissionResult {
	if r == nil {
		return nil
	}
	return r.Results
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, domain.ErrDataUnavailable):
		return metrics.StatusUnavailable
	case errors.Is(err, domain.ErrInvalidDateRange):
		return metrics.StatusInvalidInput
	default:
		return metrics.StatusError
	}
}

// ==================== Archive ====================

// archive failures never fail the calculation.
func (s *CommissionService) archive(ctx context.Context, report *domain.CommissionReport) {
	if s.archiver == nil || len(report.Results) == 0 {
		return
	}
	if err := s.archiver.BulkIndexCommissions(ctx, ToCommissionDocs(report)); err != nil {
		logger.ErrorLog(ctx, err, "Failed to archive commission run")
		s.metrics.IncArchiveFailure()
	}
}

// ToCommissionDocs flattens a report into one archive document per result.
func ToCommissionDocs(report *domain.CommissionReport) []database.CommissionDoc {
	docs := make([]database.CommissionDoc, 0, len(report.Results))
	for _, r := range report.Results {
		doc := database.CommissionDoc{
			RunID:           report.RunID,
			SalespersonID:   r.Salesperson.ID,
			SalespersonName: r.Salesperson.Name,
			PeriodStart:     report.Period.Start,
			PeriodEnd:       report.Period.End,
			TotalSales:      r.TotalSales.StringFixed(2),
			Commission:      r.Commission.StringFixed(2),
			SaleCount:       r.SaleCount,
			FallbackApplied: r.FallbackApplied,
			Source:          report.Source,
			CalculatedAt:    report.CalculatedAt,
		}
		if r.MatchedRule != nil {
			doc.RuleID = r.MatchedRule.ID
			doc.Percentage = r.MatchedRule.Percentage.String()
		}
		docs = append(docs, doc)
	}
	return docs
}

// SearchArchive returns archived results whose salesperson name matches name.
func (s *CommissionService) SearchArchive(ctx context.Context, name string) ([]database.CommissionDoc, error) {
	if s.archiver == nil {
		return nil, domain.ErrArchiveDisabled
	}
	docs, err := s.archiver.SearchBySalesperson(ctx, name, 100)
	if err != nil {
		return nil, fmt.Errorf("%w: archive: %w", domain.ErrDataUnavailable, err)
	}
	return docs, nil
}

// ArchivedRun returns every archived result of one calculation run.
// An unknown run id yields domain.ErrNotFound.
func (s *CommissionService) ArchivedRun(ctx context.Context, runID string) ([]database.CommissionDoc, error) {
	if s.archiver == nil {
		return nil, domain.ErrArchiveDisabled
	}
	docs, err := s.archiver.ScrollRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: archive: %w", domain.ErrDataUnavailable, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: commission run %q", domain.ErrNotFound, runID)
	}
	return docs, nil
}
