package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goliatone/go-storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithLookupEnv(envMap(nil)))
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "storefront", cfg.Storage.Prefix)
	assert.Zero(t, cfg.Storage.TTL)
	assert.Equal(t, "", cfg.Catalog.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, EngineExpr, cfg.Rules.Engine)
	assert.InDelta(t, storefront.DefaultTaxRate, cfg.Checkout.TaxRate, 1e-9)
	assert.Equal(t, []string{"env:STOREFRONT_*", "defaults:builtin"}, cfg.Sources())
}

func TestLoadLayerPrecedence(t *testing.T) {
	path := writeFile(t, "storefront.yaml", `
storage:
  driver: sqlite
  dsn: shop.db
logging:
  level: debug
checkout:
  tax_rate: 0.2
`)
	env := envMap(map[string]string{
		EnvStorageDSN:  "/var/lib/storefront/shop.db",
		EnvRulesEngine: "cel",
	})

	cfg, err := Load(WithFile(path), WithLookupEnv(env), WithTaxRate(0.1))
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/storefront/shop.db", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, EngineCEL, cfg.Rules.Engine)
	assert.InDelta(t, 0.1, cfg.Checkout.TaxRate, 1e-9)

	winner, ok := cfg.Trace("storage.driver").Winner()
	require.True(t, ok)
	assert.Equal(t, "file", winner.Source)
	assert.Equal(t, path, winner.Name)

	winner, ok = cfg.Trace("checkout.tax_rate").Winner()
	require.True(t, ok)
	assert.Equal(t, "override", winner.Source)
}

func TestLoadOptionalFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	_, err := Load(WithFile(missing), WithLookupEnv(envMap(nil)))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg, err := Load(WithOptionalFile(missing), WithLookupEnv(envMap(nil)))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][]Option{
		"unknown driver": {WithStorage("mongo", "mongodb://localhost")},
		"missing dsn":    {WithStorage(DriverSQLite, "")},
		"bad level":      {WithLogLevel("loud")},
		"bad engine":     {WithRulesEngine("lua")},
		"tax above one":  {WithTaxRate(1.5)},
		"bad env bool":   {WithLookupEnv(envMap(map[string]string{EnvCatalogStrict: "maybe"}))},
		"bad env tax":    {WithLookupEnv(envMap(map[string]string{EnvTaxRate: "eight"}))},
		"bad env ttl":    {WithLookupEnv(envMap(map[string]string{EnvStorageTTL: "soon"}))},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			opts = append([]Option{WithLookupEnv(envMap(nil))}, opts...)
			_, err := Load(opts...)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeFile(t, "broken.yaml", "storage: [driver")
	_, err := Load(WithFile(path), WithLookupEnv(envMap(nil)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadReadsProcessEnv(t *testing.T) {
	t.Setenv(EnvStorageDriver, DriverRedis)
	t.Setenv(EnvStorageDSN, "redis://localhost:6379/0")
	t.Setenv(EnvStorageTTL, "90m")
	t.Setenv(EnvCatalogStrict, "true")
	t.Setenv(EnvTenantID, "acme")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 90*time.Minute, cfg.Storage.TTL)
	assert.True(t, cfg.Catalog.Strict)
	assert.Equal(t, "acme", cfg.TenantID)
}

func TestOpenSlot(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)

	cases := map[string]StorageConfig{
		"memory": {Driver: DriverMemory},
		"file":   {Driver: DriverFile, DSN: t.TempDir()},
		"sqlite": {Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "slots.db")},
		"redis":  {Driver: DriverRedis, DSN: "redis://" + server.Addr(), Prefix: "test", TTL: time.Hour},
	}
	for name, storage := range cases {
		t.Run(name, func(t *testing.T) {
			slot, closeSlot, err := OpenSlot(ctx, storage)
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeSlot()) }()

			require.NoError(t, slot.Set(ctx, "storefront/shopper/v1", []byte(`{"ok":true}`)))
			value, ok, err := slot.Get(ctx, "storefront/shopper/v1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"ok":true}`, string(value))
		})
	}

	assert.True(t, server.Exists("test:storefront/shopper/v1"))

	_, closeSlot, err := OpenSlot(ctx, StorageConfig{Driver: "tape"})
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.NoError(t, closeSlot())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LoggingConfig{Level: "warn", Format: "json"})
	logger.Info("hidden")
	logger.Warn("shown", "component", "config")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)

	buf.Reset()
	NewLogger(&buf, LoggingConfig{Level: "nonsense"}).Info("fallback")
	assert.True(t, strings.Contains(buf.String(), "msg=fallback"))
}

func TestLoadCatalog(t *testing.T) {
	sample, err := LoadCatalog(CatalogConfig{})
	require.NoError(t, err)
	assert.Equal(t, 6, sample.Len())

	path := writeFile(t, "phones.json", `[{"id":"9","name":"Pixel 9","brand":"Google","price":799,"rating":4.6,"reviews":10,"inStock":true,"category":"flagship","colors":["Obsidian"],"specs":{"ram":"12GB","storage":"128GB","network":"5G"}}]`)
	custom, err := LoadCatalog(CatalogConfig{Path: path, Strict: true})
	require.NoError(t, err)
	product, ok := custom.Get("9")
	require.True(t, ok)
	assert.Equal(t, "Google", product.Brand)

	_, err = LoadCatalog(CatalogConfig{Path: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestNewEvaluator(t *testing.T) {
	catalog, err := LoadCatalog(CatalogConfig{})
	require.NoError(t, err)

	for _, engine := range []string{EngineExpr, EngineCEL} {
		t.Run(engine, func(t *testing.T) {
			evaluator, err := NewEvaluator(RulesConfig{Engine: engine}, nil, nil)
			require.NoError(t, err)

			engineQuery := storefront.NewEngine(storefront.WithEvaluator(evaluator))
			criteria := storefront.DefaultCriteria()
			criteria.Rule = `brand == "Apple"`
			products := engineQuery.Query(catalog, criteria, storefront.SortPopularDesc, "")
			require.Len(t, products, 1)
			assert.Equal(t, "1", products[0].ID)
		})
	}

	_, err = NewEvaluator(RulesConfig{Engine: "lua"}, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
