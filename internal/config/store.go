package config

import (
	"os"
	"strings"
)

const (
	storeBackendEnv = "STORE_BACKEND"
	sqlitePathEnv   = "SQLITE_PATH"

	defaultSQLitePath = "dose-reminder.db"
)

type StoreBackend string

const (
	StoreBackendRedis  StoreBackend = "redis"
	StoreBackendSQLite StoreBackend = "sqlite"
	StoreBackendMemory StoreBackend = "memory"

	defaultStoreBackend = StoreBackendRedis
)

type StoreConfig struct {
	Backend    StoreBackend
	SQLitePath string
}

func LoadStoreConfig() (*StoreConfig, error) {
	backend := StoreBackend(strings.ToLower(os.Getenv(storeBackendEnv)))
	switch backend {
	case "":
		backend = defaultStoreBackend
	case StoreBackendRedis, StoreBackendSQLite, StoreBackendMemory:
	default:
		return nil, ErrInvalidStoreBackend
	}

	path := os.Getenv(sqlitePathEnv)
	if path == "" {
		path = defaultSQLitePath
	}

	return &StoreConfig{
		Backend:    backend,
		SQLitePath: path,
	}, nil
}
