package config

import "time"

// Option configures Load.
type Option func(*loadConfig)

type loadConfig struct {
	files     []configFile
	lookupEnv func(string) (string, bool)
	overrides []func(*layer)
}

type configFile struct {
	path     string
	optional bool
}

// WithFile layers a YAML file over the defaults. Later files win.
func WithFile(path string) Option {
	return func(cfg *loadConfig) {
		cfg.files = append(cfg.files, configFile{path: path})
	}
}

// WithOptionalFile is WithFile for a file that may not exist.
func WithOptionalFile(path string) Option {
	return func(cfg *loadConfig) {
		cfg.files = append(cfg.files, configFile{path: path, optional: true})
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(cfg *loadConfig) {
		if lookup != nil {
			cfg.lookupEnv = lookup
		}
	}
}

func override(fn func(*layer)) Option {
	return func(cfg *loadConfig) {
		cfg.overrides = append(cfg.overrides, fn)
	}
}

// WithStorage selects the storage driver and its DSN.
func WithStorage(driver, dsn string) Option {
	return override(func(l *layer) {
		l.Storage.Driver = ptr(driver)
		l.Storage.DSN = ptr(dsn)
	})
}

// WithStoragePrefix sets the redis key prefix.
func WithStoragePrefix(prefix string) Option {
	return override(func(l *layer) { l.Storage.Prefix = ptr(prefix) })
}

// WithStorageTTL expires redis snapshots after ttl. Zero keeps them forever.
func WithStorageTTL(ttl time.Duration) Option {
	return override(func(l *layer) { l.Storage.TTL = ptr(ttl.String()) })
}

func WithCatalogPath(path string) Option {
	return override(func(l *layer) { l.Catalog.Path = ptr(path) })
}

func WithStrictCatalog(strict bool) Option {
	return override(func(l *layer) { l.Catalog.Strict = ptr(strict) })
}

func WithLogLevel(level string) Option {
	return override(func(l *layer) { l.Logging.Level = ptr(level) })
}

func WithLogFormat(format string) Option {
	return override(func(l *layer) { l.Logging.Format = ptr(format) })
}

func WithRulesEngine(engine string) Option {
	return override(func(l *layer) { l.Rules.Engine = ptr(engine) })
}

func WithTaxRate(rate float64) Option {
	return override(func(l *layer) { l.Checkout.TaxRate = ptr(rate) })
}

func WithTenant(tenantID string) Option {
	return override(func(l *layer) { l.TenantID = ptr(tenantID) })
}
