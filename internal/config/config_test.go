package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-listviews/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8484", cfg.Addr)
	assert.Equal(t, "/views", cfg.Prefix)
	assert.Equal(t, config.DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.ShutdownGrace)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "listviews.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
store:
  driver: postgres
  postgres:
    dsn: postgres://localhost/app
    max_conns: 8
  tables:
    - name: products
      pk: id
      columns: [id, name, price]
cors:
  allowed_origins: ["https://example.com"]
`), 0o644))
	t.Setenv("LISTVIEWS_ADDR", ":9100")
	t.Setenv("LISTVIEWS_LOG_LEVEL", "debug")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres://localhost/app", cfg.Store.Postgres.DSN)
	assert.EqualValues(t, 8, cfg.Store.Postgres.MaxConns)
	require.Len(t, cfg.Store.Tables, 1)
	assert.Equal(t, "products", cfg.Store.Tables[0].Name)
	assert.Equal(t, []string{"id", "name", "price"}, cfg.Store.Tables[0].Columns)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		return config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}, Log: config.LogConfig{Format: "text"}}
	}

	cases := map[string]func(*config.Config){
		"unknown driver":  func(c *config.Config) { c.Store.Driver = "sqlite" },
		"postgres no dsn": func(c *config.Config) { c.Store.Driver = config.DriverPostgres },
		"openapi schema":  func(c *config.Config) { c.OpenAPI.Path = "api.yaml" },
		"log format":      func(c *config.Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := base()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
		})
	}
	assert.NoError(t, base().Validate())
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := config.Config{Log: config.LogConfig{Level: "warn", Format: "json"}}.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "view", "products")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"view":"products"`)
}
