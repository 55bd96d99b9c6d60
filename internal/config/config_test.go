package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "ENV", "STORE_BACKEND", "SQLITE_PATH", "REDIS_URL", "REDIS_ADDR", "REDIS_DB",
		"SCHEDULER_TICK_INTERVAL", "DEFAULT_GAP_HOURS", "PERMISSION_REQUEST_TIMEOUT",
		"TASK_QUEUE_NAME", "TASK_QUEUE_MAX_RETRIES", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: got %v, want info", cfg.LogLevel)
	}
	if cfg.Store.Backend != StoreBackendRedis {
		t.Errorf("Store.Backend: got %q, want redis", cfg.Store.Backend)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Redis.Addr: got %q", cfg.Redis.Addr)
	}
	if cfg.Scheduler.TickInterval != 60*time.Second {
		t.Errorf("TickInterval: got %v, want 60s", cfg.Scheduler.TickInterval)
	}
	if cfg.Scheduler.DefaultGapHours != 4 {
		t.Errorf("DefaultGapHours: got %v, want 4", cfg.Scheduler.DefaultGapHours)
	}
	if cfg.Scheduler.PermissionRequestTimeout != 30*time.Second {
		t.Errorf("PermissionRequestTimeout: got %v, want 30s", cfg.Scheduler.PermissionRequestTimeout)
	}
	if cfg.TaskQueue.QueueName != "default" || cfg.TaskQueue.MaxRetries != 3 {
		t.Errorf("TaskQueue: got %+v", cfg.TaskQueue)
	}
	if !cfg.CORS.AllowAll() {
		t.Error("expected all origins to be allowed by default")
	}
}

func TestLoadSchedulerConfig(t *testing.T) {
	tests := []struct {
		name         string
		interval     string
		gap          string
		timeout      string
		wantInterval time.Duration
		wantGap      float64
		wantTimeout  time.Duration
	}{
		{
			name:         "custom values",
			interval:     "15s",
			gap:          "6.5",
			timeout:      "1m",
			wantInterval: 15 * time.Second,
			wantGap:      6.5,
			wantTimeout:  time.Minute,
		},
		{
			name:         "invalid values fall back",
			interval:     "soon",
			gap:          "-2",
			timeout:      "0s",
			wantInterval: 60 * time.Second,
			wantGap:      4,
			wantTimeout:  30 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SCHEDULER_TICK_INTERVAL", tt.interval)
			t.Setenv("DEFAULT_GAP_HOURS", tt.gap)
			t.Setenv("PERMISSION_REQUEST_TIMEOUT", tt.timeout)

			cfg := LoadSchedulerConfig()

			if cfg.TickInterval != tt.wantInterval {
				t.Errorf("TickInterval: got %v, want %v", cfg.TickInterval, tt.wantInterval)
			}
			if cfg.DefaultGapHours != tt.wantGap {
				t.Errorf("DefaultGapHours: got %v, want %v", cfg.DefaultGapHours, tt.wantGap)
			}
			if cfg.PermissionRequestTimeout != tt.wantTimeout {
				t.Errorf("PermissionRequestTimeout: got %v, want %v", cfg.PermissionRequestTimeout, tt.wantTimeout)
			}
		})
	}
}

func TestLoadStoreConfig(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		want    StoreBackend
		wantErr error
	}{
		{name: "default", backend: "", want: StoreBackendRedis},
		{name: "sqlite", backend: "sqlite", want: StoreBackendSQLite},
		{name: "case insensitive", backend: "MEMORY", want: StoreBackendMemory},
		{name: "unknown", backend: "postgres", wantErr: ErrInvalidStoreBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STORE_BACKEND", tt.backend)

			cfg, err := LoadStoreConfig()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Backend != tt.want {
				t.Errorf("got %q, want %q", cfg.Backend, tt.want)
			}
		})
	}
}

func TestLoadRedisConfigInvalidDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	if _, err := LoadRedisConfig(); !errors.Is(err, ErrInvalidRedisDB) {
		t.Errorf("expected ErrInvalidRedisDB, got %v", err)
	}
}

func TestRedisConfigOptions(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RedisConfig
		wantAddr string
		wantDB   int
		wantTLS  bool
		wantErr  error
	}{
		{
			name:     "fields",
			cfg:      RedisConfig{Addr: "cache:6379", DB: 1},
			wantAddr: "cache:6379",
			wantDB:   1,
		},
		{
			name:     "fields with tls",
			cfg:      RedisConfig{Addr: "cache:6380", TLS: true},
			wantAddr: "cache:6380",
			wantTLS:  true,
		},
		{
			name:     "url wins over fields",
			cfg:      RedisConfig{URL: "rediss://:secret@managed:6380/2", Addr: "cache:6379"},
			wantAddr: "managed:6380",
			wantDB:   2,
			wantTLS:  true,
		},
		{
			name:    "bad url",
			cfg:     RedisConfig{URL: "http://managed:6380"},
			wantErr: ErrInvalidRedisURL,
		},
		{
			name:    "nothing set",
			cfg:     RedisConfig{},
			wantErr: ErrRedisAddrMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.cfg.Options()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if opts.Addr != tt.wantAddr {
				t.Errorf("Addr: got %q, want %q", opts.Addr, tt.wantAddr)
			}
			if opts.DB != tt.wantDB {
				t.Errorf("DB: got %d, want %d", opts.DB, tt.wantDB)
			}
			if (opts.TLSConfig != nil) != tt.wantTLS {
				t.Errorf("TLS: got %v, want %v", opts.TLSConfig != nil, tt.wantTLS)
			}
		})
	}
}

func TestCORSConfig(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.CORS.AllowAll() {
		t.Error("explicit origins must not allow all")
	}
}

func TestValidateForRun(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name:    "redis without addr",
			cfg:     &Config{Store: &StoreConfig{Backend: StoreBackendRedis}, Redis: &RedisConfig{}},
			wantErr: ErrRedisAddrMissing,
		},
		{
			name:    "sqlite without path",
			cfg:     &Config{Store: &StoreConfig{Backend: StoreBackendSQLite}},
			wantErr: ErrSQLitePathMissing,
		},
		{
			name: "memory",
			cfg:  &Config{Store: &StoreConfig{Backend: StoreBackendMemory}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateForRun(tt.cfg)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
