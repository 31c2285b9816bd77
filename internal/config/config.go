// Package config reads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Config struct {
	LogLevel string

	CatalogURL     string
	CatalogTimeout time.Duration
	Currency       string

	StorageKey    string
	StorageDriver string
	StorageFile   string
	RedisAddr     string
	PostgresDSN   string

	OTLPEndpoint string

	StubAddr string
	StubData string
}

func Load() Config {
	return Config{
		LogLevel: getEnv("LOG_LEVEL", "info"),

		CatalogURL:     getEnv("CATALOG_URL", "http://localhost:3333"),
		CatalogTimeout: getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		Currency:       getEnv("CART_CURRENCY", "BRL"),

		StorageKey:    getEnv("CART_STORAGE_KEY", "@RocketShoes:cart"),
		StorageDriver: getEnv("STORAGE_DRIVER", DriverFile),
		StorageFile:   getEnv("STORAGE_FILE", "cart-storage.json"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		PostgresDSN:   getEnv("POSTGRES_DSN", ""),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		StubAddr: getEnv("CATALOG_STUB_ADDR", ":3333"),
		StubData: getEnv("CATALOG_STUB_DATA", "server.json"),
	}
}

func (c Config) Validate() error {
	switch c.StorageDriver {
	case DriverMemory, DriverRedis:
	case DriverFile:
		if c.StorageFile == "" {
			return fmt.Errorf("STORAGE_FILE is empty")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is empty")
		}
	default:
		return fmt.Errorf("storage driver[%s] is not supported", c.StorageDriver)
	}

	if c.CatalogURL == "" {
		return fmt.Errorf("CATALOG_URL is empty")
	}
	if c.StorageKey == "" {
		return fmt.Errorf("CART_STORAGE_KEY is empty")
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvDuration accepts Go duration syntax or a bare number of milliseconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	if d, err := time.ParseDuration(v); err == nil {
		return d
	}

	ms, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return time.Duration(ms) * time.Millisecond
}
