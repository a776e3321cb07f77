package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
)

// DatastoreGateway is the subset of database.DatastoreClient the provider uses.
type DatastoreGateway interface {
	GetSalespeople(ctx context.Context) ([]domain.Salesperson, error)
	GetSalesBetween(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	GetRules(ctx context.Context) ([]domain.RateRule, error)
	SaveSalesperson(ctx context.Context, s *domain.Salesperson) error
	SaveSale(ctx context.Context, s *domain.Sale) error
	BatchSaveSales(ctx context.Context, sales []domain.Sale) error
	SaveRule(ctx context.Context, r *domain.RateRule) error
	DeleteKind(ctx context.Context, kind string) error
}

// DatastoreProvider serves the commission inputs from Cloud Datastore.
type DatastoreProvider struct {
	gw DatastoreGateway
}

func NewDatastoreProvider(gw DatastoreGateway) *DatastoreProvider {
	return &DatastoreProvider{gw: gw}
}

func (p *DatastoreProvider) Name() string { return "datastore" }

func (p *DatastoreProvider) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	people, err := p.gw.GetSalespeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("datastore: list salespeople: %w", err)
	}
	if err := domain.ValidateSalespeople(people); err != nil {
		return nil, err
	}
	return people, nil
}

func (p *DatastoreProvider) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	sales, err := p.gw.GetSalesBetween(ctx, period.Start, period.EndOfDay())
	if err != nil {
		return nil, fmt.Errorf("datastore: list sales: %w", err)
	}
	if err := domain.ValidateSales(sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// ListRules sorts client side since minimums are stored as strings.
func (p *DatastoreProvider) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	rules, err := p.gw.GetRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("datastore: list rules: %w", err)
	}
	if err := domain.ValidateRules(rules); err != nil {
		return nil, err
	}
	return commission.SortRules(rules), nil
}

func (p *DatastoreProvider) CreateSalesperson(ctx context.Context, s *domain.Salesperson) error {
	if err := domain.ValidateSalesperson(*s); err != nil {
		return err
	}
	if err := p.gw.SaveSalesperson(ctx, s); err != nil {
		return fmt.Errorf("datastore: create salesperson: %w", err)
	}
	return nil
}

func (p *DatastoreProvider) CreateSale(ctx context.Context, s *domain.Sale) error {
	if err := domain.ValidateSale(*s); err != nil {
		return err
	}
	if err := p.gw.SaveSale(ctx, s); err != nil {
		return fmt.Errorf("datastore: create sale: %w", err)
	}
	return nil
}

func (p *DatastoreProvider) CreateSales(ctx context.Context, sales []domain.Sale) error {
	if err := domain.ValidateSales(sales); err != nil {
		return err
	}
	if err := p.gw.BatchSaveSales(ctx, sales); err != nil {
		return fmt.Errorf("datastore: create sales: %w", err)
	}
	return nil
}

func (p *DatastoreProvider) CreateRule(ctx context.Context, r *domain.RateRule) error {
	if err := domain.ValidateRule(*r); err != nil {
		return err
	}
	if err := p.gw.SaveRule(ctx, r); err != nil {
		return fmt.Errorf("datastore: create rule: %w", err)
	}
	return nil
}

func (p *DatastoreProvider) Clear(ctx context.Context) error {
	for _, kind := range []string{database.KindSale, database.KindRule, database.KindSalesperson} {
		if err := p.gw.DeleteKind(ctx, kind); err != nil {
			return fmt.Errorf("datastore: clear %s: %w", kind, err)
		}
	}
	return nil
}
