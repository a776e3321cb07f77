package repository

import (
	"context"
	"fmt"

	"github.com/locvowork/sales_commission/internal/domain"
	"golang.org/x/sync/errgroup"
)

// InputLoader is implemented by stores that must hand out the three
// calculation inputs as one unit.
type InputLoader interface {
	LoadInputs(ctx context.Context, period domain.Period) (domain.Inputs, error)
}

// LoadInputs reads the inputs of one calculation from p. Stores that
// implement InputLoader decide for themselves, the rest are read with
// FetchInputs.
func LoadInputs(ctx context.Context, p domain.DataProvider, period domain.Period) (domain.Inputs, error) {
	if l, ok := p.(InputLoader); ok {
		return l.LoadInputs(ctx, period)
	}
	return FetchInputs(ctx, p, period)
}

// FetchInputs reads salespeople, sales and rules from p concurrently. Any
// failure is wrapped in domain.ErrDataUnavailable.
func FetchInputs(ctx context.Context, p domain.DataProvider, period domain.Period) (domain.Inputs, error) {
	in := domain.Inputs{Source: p.Name()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if in.Salespeople, err = p.ListSalespeople(gctx); err != nil {
			return fmt.Errorf("%w: salespeople: %w", domain.ErrDataUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if in.Sales, err = p.ListSales(gctx, period); err != nil {
			return fmt.Errorf("%w: sales: %w", domain.ErrDataUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if in.Rules, err = p.ListRules(gctx); err != nil {
			return fmt.Errorf("%w: rules: %w", domain.ErrDataUnavailable, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Inputs{}, err
	}
	return in, nil
}
