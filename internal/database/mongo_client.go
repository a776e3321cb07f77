package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/locvowork/sales_commission/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names kept from the data set the service was first fed with.
const (
	CollectionSalespeople = "vendedores"
	CollectionSales       = "ventas"
	CollectionRules       = "reglas"
)

// MongoConfig holds the MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// NewMongoClient connects to MongoDB, pings it and ensures the indexes used by
// the providers exist.
func NewMongoClient(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger.InfoLog(ctx, "Connecting to MongoDB at: %s", maskMongoURI(cfg.URI))

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	setupIndexes(connectCtx, db)
	return db, nil
}

func setupIndexes(ctx context.Context, db *mongo.Database) {
	indexes := map[string]mongo.IndexModel{
		CollectionSales: {Keys: bson.D{{Key: "fecha", Value: 1}}},
		CollectionRules: {Keys: bson.D{{Key: "rangoMinimo", Value: 1}}},
		CollectionSalespeople: {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	for coll, model := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateOne(ctx, model); err != nil {
			logger.WarnLog(ctx, "Error creating index for %s: %v", coll, err)
		}
	}
}

// maskMongoURI hides the password part of a mongodb:// URI.
func maskMongoURI(uri string) string {
	if idx := strings.Index(uri, "@"); idx > 0 {
		if colonIdx := strings.LastIndex(uri[:idx], ":"); colonIdx > 0 && strings.Contains(uri[:colonIdx], "//") {
			return uri[:colonIdx+1] + "***" + uri[idx:]
		}
	}
	return uri
}
