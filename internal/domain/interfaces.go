package domain

import "context"

// DataProvider supplies the three inputs of a commission calculation.
// ListRules returns rules ordered by Minimum ascending.
type DataProvider interface {
	Name() string
	ListSalespeople(ctx context.Context) ([]Salesperson, error)
	ListSales(ctx context.Context, period Period) ([]Sale, error)
	ListRules(ctx context.Context) ([]RateRule, error)
}

// DataWriter is implemented by the database-backed providers
type DataWriter interface {
	CreateSalesperson(ctx context.Context, s *Salesperson) error
	CreateSale(ctx context.Context, s *Sale) error
	CreateRule(ctx context.Context, r *RateRule) error
	Clear(ctx context.Context) error
}

// Store is a provider that can also be written to
type Store interface {
	DataProvider
	DataWriter
}
