package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

// Data sources accepted in DATA_SOURCE.
const (
	DataSourceStatic    = "static"
	DataSourcePostgres  = "postgres"
	DataSourceMongo     = "mongo"
	DataSourceDatastore = "datastore"
)

type envConfig struct {
	// server config
	APP_PORT  string
	TIMEZONE  string
	LOG_LEVEL string
	// data source selection
	DATA_SOURCE        string
	FALLBACK_TO_STATIC bool
	CACHE_TTL          time.Duration
	RULES_FILE         string
	// commission config
	COMMISSION_FALLBACK string
	// database config
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// mongo config
	MONGO_URI     string
	MONGO_DB      string
	MONGO_TIMEOUT time.Duration
	// datastore config
	DATASTORE_PROJECT_ID string
	// elasticsearch config
	ES_ENABLED bool
	ES_URL     string
	ES_INDEX   string
	// logger config
	LOG_FILE_PATH string
}

// LoadEnvConfig reads .env when present and then the process environment.
func LoadEnvConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:             getEnvString("APP_PORT", "8080"),
		TIMEZONE:             getEnvString("TIMEZONE", "UTC"),
		LOG_LEVEL:            getEnvString("LOG_LEVEL", "info"),
		DATA_SOURCE:          strings.ToLower(getEnvString("DATA_SOURCE", DataSourceStatic)),
		FALLBACK_TO_STATIC:   getEnvBool("FALLBACK_TO_STATIC", false),
		CACHE_TTL:            getEnvDuration("CACHE_TTL", 5*time.Minute),
		RULES_FILE:           getEnvString("RULES_FILE", ""),
		COMMISSION_FALLBACK:  getEnvString("COMMISSION_FALLBACK", "lowest_rule"),
		DB_HOST:              getEnvString("DB_HOST", "localhost"),
		DB_PORT:              getEnvInt("DB_PORT", 5432),
		DB_USER:              getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:          getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:              getEnvString("DB_NAME", "sales_commission"),
		DB_SSL_MODE:          getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME: getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:    getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:    getEnvInt("DB_MAX_OPEN_CONNS", 100),
		MONGO_URI:            getEnvString("MONGO_URI", getEnvString("MONGODB_URI", "mongodb://localhost:27017")),
		MONGO_DB:             getEnvString("MONGO_DB", "sales_commission"),
		MONGO_TIMEOUT:        getEnvDuration("MONGO_TIMEOUT", 10*time.Second),
		DATASTORE_PROJECT_ID: getEnvString("DATASTORE_PROJECT_ID", ""),
		ES_ENABLED:           getEnvBool("ES_ENABLED", false),
		ES_URL:               getEnvString("ES_URL", "http://localhost:9200"),
		ES_INDEX:             getEnvString("ES_INDEX", "commission-results"),
		LOG_FILE_PATH:        getEnvString("LOG_FILE_PATH", ""),
	}
	return nil
}

// Location resolves TIMEZONE, falling back to UTC.
func (c *envConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TIMEZONE)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
