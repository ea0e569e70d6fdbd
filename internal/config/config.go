// Package config loads the demo server settings from a YAML file and
// LISTVIEWS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-listviews/pkg/store/pgstore"
)

// EnvPrefix prefixes every environment override, e.g. LISTVIEWS_ADDR or
// LISTVIEWS_STORE_POSTGRES_DSN.
const EnvPrefix = "LISTVIEWS"

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// ErrInvalidConfig reports settings the server cannot start with.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Addr          string        `mapstructure:"addr"`
	Prefix        string        `mapstructure:"prefix"`
	ViewsDir      string        `mapstructure:"views_dir"`
	TemplatesDir  string        `mapstructure:"templates_dir"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`

	Log     LogConfig     `mapstructure:"log"`
	Theme   ThemeConfig   `mapstructure:"theme"`
	Store   StoreConfig   `mapstructure:"store"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	OpenAPI OpenAPIConfig `mapstructure:"openapi"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ThemeConfig struct {
	Name    string `mapstructure:"name"`
	Variant string `mapstructure:"variant"`
}

type StoreConfig struct {
	Driver   string          `mapstructure:"driver"`
	Postgres pgstore.Config  `mapstructure:"postgres"`
	Tables   []pgstore.Table `mapstructure:"tables"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// OpenAPIConfig optionally derives one extra list view from a component
// schema.
type OpenAPIConfig struct {
	Path   string `mapstructure:"path"`
	Schema string `mapstructure:"schema"`
	Table  string `mapstructure:"table"`
	View   string `mapstructure:"view"`
}

var defaults = map[string]any{
	"addr":           ":8484",
	"prefix":         "/views",
	"views_dir":      "",
	"templates_dir":  "",
	"shutdown_grace": 5 * time.Second,

	"log.level":  "info",
	"log.format": "text",

	"theme.name":    "default",
	"theme.variant": "light",

	"store.driver":                      DriverMemory,
	"store.postgres.dsn":                "",
	"store.postgres.max_conns":          0,
	"store.postgres.min_conns":          0,
	"store.postgres.max_conn_lifetime":  time.Duration(0),
	"store.postgres.max_conn_idle_time": time.Duration(0),

	"cors.allowed_origins": []string{},

	"metrics.enabled": true,
	"metrics.path":    "/metrics",

	"openapi.path":   "",
	"openapi.schema": "",
	"openapi.table":  "",
	"openapi.view":   "",
}

// Load reads path when it is not empty, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.Store.Postgres.DSN) == "" {
			return fmt.Errorf("%w: postgres store needs store.postgres.dsn", ErrInvalidConfig)
		}
		if len(c.Store.Tables) == 0 {
			return fmt.Errorf("%w: postgres store needs store.tables", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.OpenAPI.Path != "" && c.OpenAPI.Schema == "" {
		return fmt.Errorf("%w: openapi.schema is required with openapi.path", ErrInvalidConfig)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// Logger builds the slog logger described by c.Log.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
