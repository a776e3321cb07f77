package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/locvowork/sales_commission/internal/bootstrap"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/logger"
)

func main() {
	// Define flags
	action := flag.String("action", "seed", "Action to perform: seed, clear")
	preset := flag.String("preset", "small", "Data preset: small, medium, large")
	sales := flag.Int("sales", 0, "Number of sales (overrides preset)")
	yes := flag.Bool("yes", false, "Skip the confirmation prompt for clear")

	flag.Parse()

	ctx := context.Background()

	fmt.Println("🚀 Sales Commission Data Seeder")
	fmt.Println(strings.Repeat("=", 50))

	// Initialize data source only, the HTTP server is not needed
	fmt.Println("📡 Initializing data source...")
	app := bootstrap.NewApp()
	if err := app.InitializeStore(ctx); err != nil {
		logger.ErrorLog(ctx, err, "Failed to initialize data source")
		log.Fatal(err)
	}
	defer app.Close()

	fmt.Printf("🗄️  Data source: %s\n", app.RawStore.Name())
	seeder := database.NewDataSeeder(app.RawStore)

	// Execute action
	switch *action {
	case "seed":
		performSeed(ctx, seeder, *preset, *sales)

	case "clear":
		performClear(ctx, seeder, *yes)

	default:
		fmt.Printf("❌ Unknown action: %s\n", *action)
		flag.PrintDefaults()
		return
	}

	fmt.Println("\n✅ Done!")
}

func performSeed(ctx context.Context, seeder *database.DataSeeder, preset string, sales int) {
	numSales := sales
	if numSales > 0 {
		fmt.Printf("📊 Using custom configuration: %d sales\n", numSales)
	} else {
		numSales = database.GetPresetConfig(database.SeedPreset(preset))
		fmt.Printf("📊 Using preset: %s (%d sales)\n", preset, numSales)
	}

	if err := seeder.SeedData(ctx, numSales); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}
}

func performClear(ctx context.Context, seeder *database.DataSeeder, yes bool) {
	if !yes {
		fmt.Println("⚠️  This will delete all salespeople, sales and rules!")
		fmt.Print("Continue? (yes/no): ")

		var response string
		fmt.Scanln(&response)
		if response != "yes" {
			fmt.Println("Cancelled.")
			return
		}
	}

	if err := seeder.ClearData(ctx); err != nil {
		log.Fatalf("❌ Clear failed: %v", err)
	}
}
