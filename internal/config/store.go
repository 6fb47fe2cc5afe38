package config

import "fmt"

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// StoreConfig selects where raw package records are staged.
type StoreConfig struct {
	// Backend is one of memory, redis, sqlite or postgres.
	Backend string `json:"backend"`
	// DSN is the sqlite file path or the postgres URL.
	DSN       string `json:"dsn"`
	RedisAddr string `json:"redis_addr"`
	RedisDB   int    `json:"redis_db"`
	// RedisKey names the hash holding one field per package.
	RedisKey string `json:"redis_key"`
}

func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	if c.Backend == BackendSQLite && c.DSN == "" {
		c.DSN = "data/app.db"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.RedisKey == "" {
		c.RedisKey = "delivery:package_records"
	}
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendSQLite:
		return nil
	case BackendPostgres:
		if c.DSN == "" {
			return fmt.Errorf("dsn is required for postgres")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
}
