package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/repository/builder"
)

const (
	tableSalespeople = "salespeople"
	tableSales       = "sales"
	tableRules       = "commission_rules"
)

var (
	salespersonColumns = []string{"id", "name", "email", "phone", "joined_at"}
	saleColumns        = []string{"id", "salesperson_id", "amount", "sold_at", "client", "product"}
	ruleColumns        = []string{"id", "min_amount", "max_amount", "percentage", "description"}
)

// PostgresProvider reads and writes the commission inputs in PostgreSQL.
type PostgresProvider struct {
	db *sql.DB
}

// NewPostgresProvider creates a new instance of PostgresProvider
func NewPostgresProvider(db *sql.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) Name() string { return "postgres" }

func (p *PostgresProvider) ListSalespeople(ctx context.Context) ([]domain.Salesperson, error) {
	query, args := builder.NewSQLBuilder().
		Select(salespersonColumns...).
		From(tableSalespeople).
		OrderBy("name ASC").
		Build()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list salespeople: %w", err)
	}
	defer rows.Close()

	var result []domain.Salesperson
	for rows.Next() {
		var s domain.Salesperson
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.JoinedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan salesperson: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list salespeople: %w", err)
	}
	if err := domain.ValidateSalespeople(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *PostgresProvider) ListSales(ctx context.Context, period domain.Period) ([]domain.Sale, error) {
	query, args := builder.NewSQLBuilder().
		Select(saleColumns...).
		From(tableSales).
		Where("sold_at >= ?", period.Start).
		Where("sold_at <= ?", period.EndOfDay()).
		OrderBy("sold_at ASC").
		Build()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sales: %w", err)
	}
	defer rows.Close()

	var result []domain.Sale
	for rows.Next() {
		var s domain.Sale
		if err := rows.Scan(&s.ID, &s.SalespersonID, &s.Amount, &s.Date, &s.Client, &s.Product); err != nil {
			return nil, fmt.Errorf("postgres: scan sale: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list sales: %w", err)
	}
	if err := domain.ValidateSales(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *PostgresProvider) ListRules(ctx context.Context) ([]domain.RateRule, error) {
	query, args := builder.NewSQLBuilder().
		Select(ruleColumns...).
		From(tableRules).
		OrderBy("min_amount ASC").
		Build()

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list rules: %w", err)
	}
	defer rows.Close()

	var result []domain.RateRule
	for rows.Next() {
		var r domain.RateRule
		if err := rows.Scan(&r.ID, &r.Minimum, &r.Maximum, &r.Percentage, &r.Description); err != nil {
			return nil, fmt.Errorf("postgres: scan rule: %w", err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list rules: %w", err)
	}
	if err := domain.ValidateRules(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *PostgresProvider) CreateSalesperson(ctx context.Context, s *domain.Salesperson) error {
	if err := domain.ValidateSalesperson(*s); err != nil {
		return err
	}
	query, args := builder.NewSQLBuilder().
		Insert(tableSalespeople, salespersonColumns...).
		Values(s.ID, s.Name, s.Email, s.Phone, s.JoinedAt).
		OnConflict("(id) DO NOTHING").
		Build()

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: create salesperson: %w", err)
	}
	return nil
}

func (p *PostgresProvider) CreateSale(ctx context.Context, s *domain.Sale) error {
	if err := domain.ValidateSale(*s); err != nil {
		return err
	}
	query, args := saleInsert(s).Build()
	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: create sale: %w", err)
	}
	return nil
}

// CreateSales inserts sales in one transaction with a prepared statement.
func (p *PostgresProvider) CreateSales(ctx context.Context, sales []domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	if err := domain.ValidateSales(sales); err != nil {
		return err
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, _ := saleInsert(&sales[0]).Build()
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range sales {
		_, args := saleInsert(&sales[i]).Build()
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("postgres: create sale %q: %w", sales[i].ID, err)
		}
	}

	return tx.Commit()
}

func saleInsert(s *domain.Sale) *builder.SQLBuilder {
	return builder.NewSQLBuilder().
		Insert(tableSales, saleColumns...).
		Values(s.ID, s.SalespersonID, s.Amount, s.Date, s.Client, s.Product).
		OnConflict("(id) DO NOTHING")
}

func (p *PostgresProvider) CreateRule(ctx context.Context, r *domain.RateRule) error {
	if err := domain.ValidateRule(*r); err != nil {
		return err
	}
	query, args := builder.NewSQLBuilder().
		Insert(tableRules, ruleColumns...).
		Values(r.ID, r.Minimum, r.Maximum, r.Percentage, r.Description).
		OnConflict("(id) DO NOTHING").
		Build()

	if _, err := p.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("postgres: create rule: %w", err)
	}
	return nil
}

// Clear deletes sales, rules and salespeople in that order.
func (p *PostgresProvider) Clear(ctx context.Context) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{tableSales, tableRules, tableSalespeople} {
		query, _ := builder.NewSQLBuilder().Delete(table).Build()
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("postgres: clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}
