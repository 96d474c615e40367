// Package config loads the client configuration from flags, SCGN_* environment
// variables and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Configuration keys. Each is also a flag name and, upper-cased with the
// SCGN_ prefix, an environment variable.
const (
	KeyConfigFile        = "config"
	KeyAPIBaseURL        = "api_base_url"
	KeyAPITimeout        = "api_timeout"
	KeyStoreDriver       = "store_driver"
	KeyStorePath         = "store_path"
	KeyInactivityTimeout = "inactivity_timeout"
	KeyLogLevel          = "log_level"
	KeyMetricsAddr       = "metrics_addr"
)

// EnvPrefix is the prefix of the environment variables.
const EnvPrefix = "SCGN"

// Storage drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// Значения по умолчанию
const (
	DefaultAPIBaseURL        = "http://localhost:8000/api/"
	DefaultAPITimeout        = 15 * time.Second
	DefaultInactivityTimeout = 15 * time.Minute
	DefaultStoreDriver       = DriverBolt
	DefaultLogLevel          = "warn"
)

var (
	// ErrInvalidConfig wraps every validation failure
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config is the validated client configuration.
type Config struct {
	APIBaseURL        string
	StoreDriver       string
	StorePath         string
	MetricsAddr       string
	APITimeout        time.Duration
	InactivityTimeout time.Duration
	LogLevel          slog.Level
}

// DefaultDir returns ~/.scgn, or the working directory if home is unknown.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".scgn")
}

// RegisterFlags declares the configuration flags on fs and binds them to v.
func RegisterFlags(fs *pflag.FlagSet, v *viper.Viper) {
	fs.String(KeyConfigFile, "", "Path to YAML config file (default ~/.scgn/config.yaml)")
	fs.String(KeyAPIBaseURL, DefaultAPIBaseURL, "Base URL of the SportConnect GN API")
	fs.Duration(KeyAPITimeout, DefaultAPITimeout, "Timeout of a single API request")
	fs.String(KeyStoreDriver, DefaultStoreDriver, "Local storage driver: bolt or sqlite")
	fs.String(KeyStorePath, "", "Path to the local database file (default ~/.scgn/client.db)")
	fs.Duration(KeyInactivityTimeout, DefaultInactivityTimeout, "Idle time after which the session is closed")
	fs.String(KeyLogLevel, DefaultLogLevel, "Log level: debug, info, warn or error")
	fs.String(KeyMetricsAddr, "", "Serve Prometheus metrics on this address in shell mode (e.g. :9464)")

	for _, key := range []string{
		KeyConfigFile, KeyAPIBaseURL, KeyAPITimeout, KeyStoreDriver, KeyStorePath,
		KeyInactivityTimeout, KeyLogLevel, KeyMetricsAddr,
	} {
		_ = v.BindPFlag(key, fs.Lookup(key))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
}

// Load reads the optional config file and returns the validated configuration.
// An explicitly named config file must exist; the default one is optional.
func Load(v *viper.Viper) (Config, error) {
	if err := readConfigFile(v); err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBaseURL:        strings.TrimSpace(v.GetString(KeyAPIBaseURL)),
		APITimeout:        v.GetDuration(KeyAPITimeout),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString(KeyStoreDriver))),
		StorePath:         v.GetString(KeyStorePath),
		InactivityTimeout: v.GetDuration(KeyInactivityTimeout),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DefaultStoreDriver
	}
	if cfg.StorePath == "" {
		cfg.StorePath = filepath.Join(DefaultDir(), "client.db")
	}
	if !v.IsSet(KeyAPITimeout) && cfg.APITimeout == 0 {
		cfg.APITimeout = DefaultAPITimeout
	}
	if !v.IsSet(KeyInactivityTimeout) && cfg.InactivityTimeout == 0 {
		cfg.InactivityTimeout = DefaultInactivityTimeout
	}

	level, err := ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return Config{}, err
	}
	cfg.LogLevel = level

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("%w: %s must be an http(s) URL, got %q", ErrInvalidConfig, KeyAPIBaseURL, c.APIBaseURL)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyAPITimeout)
	}
	if c.InactivityTimeout <= 0 {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, KeyInactivityTimeout)
	}
	switch c.StoreDriver {
	case DriverBolt, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown %s %q (want %s or %s)", ErrInvalidConfig, KeyStoreDriver, c.StoreDriver, DriverBolt, DriverSQLite)
	}
	return nil
}

// ParseLevel parses a slog level name; empty means the default level.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		s = DefaultLogLevel
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, KeyLogLevel, err)
	}
	return level, nil
}

func readConfigFile(v *viper.Viper) error {
	path := v.GetString(KeyConfigFile)
	explicit := path != ""
	if !explicit {
		path = filepath.Join(DefaultDir(), "config.yaml")
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if !explicit && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}
