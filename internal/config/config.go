package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	AuditBackendBadger = "badger"
	AuditBackendFile   = "file"
	AuditBackendMemory = "memory"
)

type Config struct {
	LogLevel       string `validate:"oneof=debug info warn error"`
	LogFormat      string `validate:"oneof=json text"`
	HTTPPort       string `validate:"required,numeric"`
	MetricsPort    string `validate:"required,numeric,nefield=HTTPPort"`
	PingerInterval time.Duration

	AuditBackend  string `validate:"oneof=badger file memory"`
	AuditPath     string `validate:"required_unless=AuditBackend memory"`
	AuditCapacity int    `validate:"min=1"`

	FixturesFile         string
	OperationDelayScale  float64 `validate:"min=0"`
	SimulatedFailureRate float64 `validate:"min=0,max=1"`

	DefaultRole string `validate:"required"`
	DefaultUser string `validate:"required"`

	RestartSchedules string
	ScheduleTZ       string
	ScheduleTick     time.Duration

	TerminationFile string
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:         getEnvOrDefault(envKeyLogLevel, "info"),
		LogFormat:        getEnvOrDefault(envKeyLogFormat, "json"),
		HTTPPort:         getEnvOrDefault(envKeyHTTPPort, "8080"),
		MetricsPort:      getEnvOrDefault(envKeyMetricsPort, "9090"),
		AuditBackend:     getEnvOrDefault(envKeyAuditBackend, AuditBackendBadger),
		AuditPath:        getEnvOrDefault(envKeyAuditPath, "/var/lib/coreportal/audit"),
		FixturesFile:     os.Getenv(envKeyFixturesFile),
		DefaultRole:      getEnvOrDefault(envKeyDefaultRole, "viewer"),
		DefaultUser:      getEnvOrDefault(envKeyDefaultUser, "current-user"),
		RestartSchedules: os.Getenv(envKeyRestartSchedules),
		ScheduleTZ:       getEnvOrDefault(envKeyScheduleTZ, "UTC"),
		TerminationFile:  getEnvOrDefault(envKeyTerminationFile, "/mnt/signal/terminating"),
	}

	var err error

	cfg.PingerInterval, err = getDuration(envKeyPingerInterval, "10s", envMinPingerInterval)
	if err != nil {
		return nil, err
	}

	cfg.ScheduleTick, err = getDuration(envKeyScheduleTick, "30s", envMinScheduleTick)
	if err != nil {
		return nil, err
	}

	cfg.AuditCapacity, err = getInt(envKeyAuditCapacity, 100)
	if err != nil {
		return nil, err
	}

	cfg.OperationDelayScale, err = getFloat(envKeyOperationDelayScale, 1)
	if err != nil {
		return nil, err
	}

	cfg.SimulatedFailureRate, err = getFloat(envKeySimulatedFailureRate, 0)
	if err != nil {
		return nil, err
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}

func getDuration(key, defaultValue string, minimum time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(key, defaultValue)

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	if d < minimum {
		return 0, fmt.Errorf("%s must be at least %s, got %s: %w", key, minimum, d, ErrInvalidConfig)
	}

	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return f, nil
}
