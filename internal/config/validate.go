package config

func ValidateForRun(cfg *Config) error {
	switch cfg.Store.Backend {
	case StoreBackendRedis:
		return cfg.Redis.Validate()
	case StoreBackendSQLite:
		if cfg.Store.SQLitePath == "" {
			return ErrSQLitePathMissing
		}
	}
	return nil
}
