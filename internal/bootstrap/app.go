package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/sales_commission/internal/commission"
	"github.com/locvowork/sales_commission/internal/config"
	"github.com/locvowork/sales_commission/internal/database"
	"github.com/locvowork/sales_commission/internal/domain"
	"github.com/locvowork/sales_commission/internal/handler"
	"github.com/locvowork/sales_commission/internal/logger"
	"github.com/locvowork/sales_commission/internal/metrics"
	"github.com/locvowork/sales_commission/internal/repository"
	"github.com/locvowork/sales_commission/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	Echo *echo.Echo
	// RawStore is the configured data source without cache or fallback,
	// used by the seeder.
	RawStore domain.Store
	// Store is what the services read from.
	Store    domain.Store
	Registry *prometheus.Registry
	Metrics  *metrics.CommissionMetrics

	closers []func(context.Context) error
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
	}
}

// InitializeStore loads configuration, logging and the data source. It does
// not touch the HTTP server.
func (a *App) InitializeStore(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_LEVEL, cfg.LOG_FILE_PATH)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	a.RawStore = store
	logger.InfoLog(ctx, "Using %s data source", store.Name())

	// the cache sits below the fallback so fixture data is never cached
	if cfg.CACHE_TTL > 0 {
		store = repository.NewCachedProvider(store, cfg.CACHE_TTL, a.Metrics)
	}
	if cfg.FALLBACK_TO_STATIC && a.RawStore.Name() != config.DataSourceStatic {
		rules, err := a.staticRules()
		if err != nil {
			return err
		}
		store = repository.NewFallbackProvider(store, repository.NewStaticProvider(rules), a.Metrics)
	}
	a.Store = store
	return nil
}

func (a *App) openStore(ctx context.Context) (domain.Store, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.DATA_SOURCE {
	case config.DataSourcePostgres:
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		if err := database.EnsureSchema(ctx, db); err != nil {
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
		return repository.NewPostgresProvider(db), nil

	case config.DataSourceMongo:
		db, err := database.NewMongoClient(ctx, database.MongoConfig{
			URI:      cfg.MONGO_URI,
			Database: cfg.MONGO_DB,
			Timeout:  cfg.MONGO_TIMEOUT,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		a.closers = append(a.closers, func(ctx context.Context) error { return db.Client().Disconnect(ctx) })
		return repository.NewMongoProvider(db), nil

	case config.DataSourceDatastore:
		client, err := database.NewDatastoreClient(ctx, cfg.DATASTORE_PROJECT_ID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize datastore: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		return repository.NewDatastoreProvider(client), nil

	case config.DataSourceStatic:
		rules, err := a.staticRules()
		if err != nil {
			return nil, err
		}
		return repository.NewStaticProvider(rules), nil

	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q", cfg.DATA_SOURCE)
	}
}

// staticRules reads RULES_FILE when set. nil selects the built-in tiers.
func (a *App) staticRules() ([]domain.RateRule, error) {
	path := config.DefaultEnvConfig.RULES_FILE
	if path == "" {
		return nil, nil
	}
	rules, err := repository.LoadRulesFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules file: %w", err)
	}
	return rules, nil
}

// Initialize wires the data source, services and HTTP routes.
func (a *App) Initialize(ctx context.Context) error {
	if err := a.InitializeStore(ctx); err != nil {
		return err
	}
	cfg := config.DefaultEnvConfig
	loc := cfg.Location()

	var archiver service.Archiver
	if cfg.ES_ENABLED {
		es, err := database.NewElasticSearchClient(cfg.ES_URL, cfg.ES_INDEX)
		if err != nil {
			return fmt.Errorf("failed to initialize elasticsearch: %w", err)
		}
		archiver = es
		logger.InfoLog(ctx, "Archiving commission runs to %s", es.Index())
	}

	// Initialize dependencies
	policy := commission.ParseFallbackPolicy(cfg.COMMISSION_FALLBACK)
	commissionSvc := service.NewCommissionService(a.Store, archiver, a.Metrics, policy)
	referenceSvc := service.NewReferenceService(a.Store)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(
		handler.NewCommissionHandler(commissionSvc, loc),
		handler.NewReferenceHandler(referenceSvc, loc),
	)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(handler.RequestLogger())
}

func (a *App) RegisterRoutes(ch *handler.CommissionHandler, rh *handler.ReferenceHandler) {
	api := a.Echo.Group("/api")

	commissions := api.Group("/commissions")
	commissions.POST("", ch.CalculateHandler)
	commissions.GET("/export", ch.ExportHandler)
	commissions.GET("/archive", ch.ArchiveHandler)
	commissions.GET("/archive/:run_id", ch.ArchivedRunHandler)

	api.GET("/salespeople", rh.ListSalespeopleHandler)
	api.POST("/salespeople", rh.CreateSalespersonHandler)
	api.GET("/sales", rh.ListSalesHandler)
	api.POST("/sales", rh.CreateSaleHandler)
	api.GET("/rules", rh.ListRulesHandler)
	api.POST("/rules", rh.CreateRuleHandler)
	api.GET("/rules/coverage", rh.RuleCoverageHandler)

	a.Echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))
	a.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "source": a.Store.Name()})
	})
}

// Close releases every client opened by InitializeStore.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.ErrorLog(ctx, err, "Failed to close client")
		}
	}
	a.closers = nil
}

func (a *App) Run() error {
	defer a.Close()
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
