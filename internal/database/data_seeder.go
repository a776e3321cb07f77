package database

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/shopspring/decimal"
)

// saleBatcher is implemented by stores that can write many sales at once.
type saleBatcher interface {
	CreateSales(ctx context.Context, sales []domain.Sale) error
}

// ruleLister lets the seeder see rules that are already stored.
type ruleLister interface {
	ListRules(ctx context.Context) ([]domain.RateRule, error)
}

type DataSeeder struct {
	store domain.DataWriter
	rng   *rand.Rand
	now   func() time.Time
}

func NewDataSeeder(store domain.DataWriter) *DataSeeder {
	return &DataSeeder{
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

var (
	products = []string{
		"Laptop Dell XPS 13", "iPhone 15 Pro", "Samsung Galaxy S24", "MacBook Air M2", "iPad Pro 12.9",
		"Surface Pro 9", "AirPods Pro", "Sony WH-1000XM5", "Canon EOS R6", "Nintendo Switch OLED",
	}
	clients = []string{
		"Empresa ABC S.A.", "Corporación XYZ", "Startup Innovadora", "Comercial Los Andes", "Tecnología Avanzada",
		"Soluciones Digitales", "Grupo Empresarial", "Compañía Global", "Negocios Modernos", "Industrias del Futuro",
	}
)

// SampleSalespeople returns the four sample salespeople without ids.
func SampleSalespeople() []domain.Salesperson {
	day := func(s string) time.Time {
		t, _ := time.Parse(domain.DateLayout, s)
		return t
	}
	return []domain.Salesperson{
		{Name: "Juan Pérez", Email: "juan.perez@empresa.com", Phone: "+1234567890", JoinedAt: day("2023-01-15")},
		{Name: "María García", Email: "maria.garcia@empresa.com", Phone: "+1234567891", JoinedAt: day("2023-03-20")},
		{Name: "Carlos López", Email: "carlos.lopez@empresa.com", Phone: "+1234567892", JoinedAt: day("2023-02-10")},
		{Name: "Ana Martínez", Email: "ana.martinez@empresa.com", Phone: "+1234567893", JoinedAt: day("2023-04-05")},
	}
}

// DefaultRules returns the four standard commission tiers without ids.
func DefaultRules() []domain.RateRule {
	rule := func(lo, hi, pct int64, desc string) domain.RateRule {
		return domain.RateRule{
			Minimum:     decimal.NewFromInt(lo),
			Maximum:     decimal.NewFromInt(hi),
			Percentage:  decimal.NewFromInt(pct),
			Description: desc,
		}
	}
	return []domain.RateRule{
		rule(0, 10000, 3, "Comisión básica para ventas hasta $10,000"),
		rule(10001, 25000, 5, "Comisión intermedia para ventas de $10,001 a $25,000"),
		rule(25001, 50000, 7, "Comisión alta para ventas de $25,001 a $50,000"),
		rule(50001, 999999999, 10, "Comisión premium para ventas superiores a $50,000"),
	}
}

// GenerateSales builds n random sales spread over the six months before now.
// Amounts are whole units in [1000, 81000).
func GenerateSales(rng *rand.Rand, salespersonIDs []string, n int, now time.Time) []domain.Sale {
	if len(salespersonIDs) == 0 || n <= 0 {
		return nil
	}

	from := now.AddDate(0, -6, 0)
	sales := make([]domain.Sale, 0, n)
	for i := 0; i < n; i++ {
		sales = append(sales, domain.Sale{
			ID:            uuid.NewString(),
			SalespersonID: salespersonIDs[rng.Intn(len(salespersonIDs))],
			Amount:        decimal.NewFromInt(int64(rng.Intn(80000) + 1000)),
			Date:          from.AddDate(0, 0, rng.Intn(180)),
			Client:        clients[rng.Intn(len(clients))],
			Product:       products[rng.Intn(len(products))],
		})
	}
	return sales
}

// SeedData writes the sample salespeople, the default rules and numSales
// random sales.
func (ds *DataSeeder) SeedData(ctx context.Context, numSales int) error {
	start := time.Now()
	logger.InfoLog(ctx, "Seeding data...")

	people := SampleSalespeople()
	ids := make([]string, 0, len(people))
	for i := range people {
		people[i].ID = uuid.NewString()
		if err := ds.store.CreateSalesperson(ctx, &people[i]); err != nil {
			return fmt.Errorf("failed to insert salesperson %s: %w", people[i].Name, err)
		}
		ids = append(ids, people[i].ID)
	}
	logger.InfoLog(ctx, "Created %d salespeople", len(people))

	if err := ds.seedRules(ctx); err != nil {
		return err
	}

	sales := GenerateSales(ds.rng, ids, numSales, ds.now())
	if err := ds.writeSales(ctx, sales); err != nil {
		return fmt.Errorf("failed to insert sales: %w", err)
	}
	logger.InfoLog(ctx, "Created %d sales", len(sales))

	logger.InfoLog(ctx, "Done in %v", time.Since(start))
	return nil
}

// seedRules writes the default tiers unless the store already has rules,
// so seeding twice never leaves overlapping tiers.
func (ds *DataSeeder) seedRules(ctx context.Context) error {
	if l, ok := ds.store.(ruleLister); ok {
		existing, err := l.ListRules(ctx)
		if err != nil {
			return fmt.Errorf("failed to list rules: %w", err)
		}
		if len(existing) > 0 {
			logger.InfoLog(ctx, "Found %d commission rules, skipping default rules", len(existing))
			return nil
		}
	}

	rules := DefaultRules()
	for i := range rules {
		rules[i].ID = uuid.NewString()
		if err := ds.store.CreateRule(ctx, &rules[i]); err != nil {
			return fmt.Errorf("failed to insert rule %d: %w", i, err)
		}
	}
	logger.InfoLog(ctx, "Created %d commission rules", len(rules))
	return nil
}

func (ds *DataSeeder) writeSales(ctx context.Context, sales []domain.Sale) error {
	if b, ok := ds.store.(saleBatcher); ok {
		return b.CreateSales(ctx, sales)
	}
	for i := range sales {
		if err := ds.store.CreateSale(ctx, &sales[i]); err != nil {
			return err
		}
	}
	return nil
}

func (ds *DataSeeder) ClearData(ctx context.Context) error {
	logger.InfoLog(ctx, "Clearing data...")
	if err := ds.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear data: %w", err)
	}
	logger.InfoLog(ctx, "Cleared data")
	return nil
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// GetPresetConfig returns the number of sales for a preset
func GetPresetConfig(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 50
	case PresetMedium:
		return 500
	case PresetLarge:
		return 5000
	default:
		return 50
	}
}
