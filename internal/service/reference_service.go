package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
)

// ReferenceService exposes the reference data behind a commission run.
type ReferenceService struct {
	store domain.Store
	now   func() time.Time
}

func NewReferenceService(store domain.Store) *ReferenceService {
	return &ReferenceService{store: store, now: time.Now}
}

func (s *ReferenceService) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	list, err := s.store.ListSalespeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: salespeople: %w", domain.ErrDataUnavailable, err)
	}
	return list, nil
}

func (s *ReferenceService) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	rules, err := s.store.ListRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: rules: %w", domain.ErrDataUnavailable, err)
	}
	return rules, nil
}

// ListSales returns the sales dated inside period.
func (s *ReferenceService) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	sales, err := s.store.ListSales(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("%w: sales: %w", domain.ErrDataUnavailable, err)
	}
	return sales, nil
}

// RuleCoverage reports gaps and overlaps in the active rule set. An empty
// slice means every non-negative total matches exactly one rule.
func (s *ReferenceService) RuleCoverage(ctx context.Context) ([]commission.CoverageIssue, error) {
	rules, err := s.ListRules(ctx)
	if err != nil {
		return nil, err
	}
	issues := commission.CheckCoverage(rules)
	if issues == nil {
		issues = []commission.CoverageIssue{}
	}
	return issues, nil
}

// CreateSalesperson assigns an id when none is given and stamps JoinedAt.
func (s *ReferenceService) CreateSalesperson(ctx context.Context, sp *domain.Salesperson) error {
	if sp.ID == "" {
		sp.ID = uuid.NewString()
	}
	if sp.JoinedAt.IsZero() {
		sp.JoinedAt = s.now().UTC()
	}
	if err := domain.ValidateSalesperson(*sp); err != nil {
		return err
	}
	if err := s.store.CreateSalesperson(ctx, sp); err != nil {
		return fmt.Errorf("create salesperson: %w", err)
	}
	logger.InfoLog(ctx, "Created salesperson %s", sp.ID)
	return nil
}

// CreateSale records a sale, dated now when no date is given.
func (s *ReferenceService) CreateSale(ctx context.Context, sale *domain.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}
	if sale.Date.IsZero() {
		sale.Date = s.now().UTC()
	}
	if err := domain.ValidateSale(*sale); err != nil {
		return err
	}
	if err := s.store.CreateSale(ctx, sale); err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	logger.InfoLog(ctx, "Created sale %s for salesperson %s", sale.ID, sale.SalespersonID)
	return nil
}

// CreateRule stores a new commission tier. It does not check the tier
// against the existing set, see RuleCoverage.
func (s *ReferenceService) CreateRule(ctx context.Context, rule *domain.RateRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if err := domain.ValidateRule(*rule); err != nil {
		return err
	}
	if err := s.store.CreateRule(ctx, rule); err != nil {
		return fmt.Errorf("create rule: %w", err)
	}
	logger.InfoLog(ctx, "Created commission rule %s (%s..%s at %s%%)", rule.ID, rule.Minimum, rule.Maximum, rule.Percentage)
	return nil
}
