package builder_test

import (
	"fmt"

	"github.com/locvowork/sales_commission/internal/repository/builder"
)

func Example_salesInPeriod() {
	sql, args := builder.NewSQLBuilder().
		Select("id", "salesperson_id", "amount", "sold_at", "client", "product").
		From("sales").
		Where("sold_at >= ?", "2024-01-01").
		Where("sold_at <= ?", "2024-03-31").
		OrderBy("sold_at ASC").
		Build()
	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: SELECT id, salesperson_id, amount, sold_at, client, product FROM sales WHERE sold_at >= $1 AND sold_at <= $2 ORDER BY sold_at ASC
	// Args: [2024-01-01 2024-03-31]
}

func Example_upsertRule() {
	sql, args := builder.NewSQLBuilder().
		Insert("commission_rules", "id", "min_amount", "max_amount", "percentage").
		Values("r1", "0", "10000", "3").
		OnConflict("(id) DO NOTHING").
		Build()
	fmt.Println("SQL:", sql)
	fmt.Printf("Args: %v\n", args)

	// Output:
	// SQL: INSERT INTO commission_rules (id, min_amount, max_amount, percentage) VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING
	// Args: [r1 0 10000 3]
}
