package config

import "errors"

var (
	ErrRedisAddrMissing    = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB      = errors.New("REDIS_DB must be a valid integer")
	ErrInvalidRedisURL     = errors.New("REDIS_URL is not a valid redis URL")
	ErrInvalidStoreBackend = errors.New("STORE_BACKEND must be one of redis, sqlite, memory")
	ErrSQLitePathMissing   = errors.New("SQLITE_PATH is required for the sqlite backend")
)
