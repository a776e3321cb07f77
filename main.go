package main

import (
	"context"
	"log"

	"github.com/locvowork/sales_commission/internal/bootstrap"
	"github.com/locvowork/sales_commission/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		logger.ErrorLog(ctx, err, "Failed to initialize application")
		log.Fatal(err)
	}

	if err := app.Run(); err != nil {
		logger.ErrorLog(ctx, err, "Server stopped")
		log.Fatal(err)
	}
}
