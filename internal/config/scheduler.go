package config

import (
	"os"
	"strconv"
	"time"
)

const (
	schedulerTickIntervalEnv    = "SCHEDULER_TICK_INTERVAL"
	defaultGapHoursEnv          = "DEFAULT_GAP_HOURS"
	permissionRequestTimeoutEnv = "PERMISSION_REQUEST_TIMEOUT"

	defaultSchedulerTickInterval    = 60 * time.Second
	defaultDefaultGapHours          = 4.0
	defaultPermissionRequestTimeout = 30 * time.Second
)

type SchedulerConfig struct {
	TickInterval             time.Duration
	DefaultGapHours          float64
	PermissionRequestTimeout time.Duration
}

func LoadSchedulerConfig() *SchedulerConfig {
	tickInterval := defaultSchedulerTickInterval
	if v := os.Getenv(schedulerTickIntervalEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			tickInterval = parsed
		}
	}

	gapHours := defaultDefaultGapHours
	if v := os.Getenv(defaultGapHoursEnv); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			gapHours = parsed
		}
	}

	permissionTimeout := defaultPermissionRequestTimeout
	if v := os.Getenv(permissionRequestTimeoutEnv); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			permissionTimeout = parsed
		}
	}

	return &SchedulerConfig{
		TickInterval:             tickInterval,
		DefaultGapHours:          gapHours,
		PermissionRequestTimeout: permissionTimeout,
	}
}
