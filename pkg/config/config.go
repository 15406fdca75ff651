// Package config resolves application settings for a storefront process.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// STOREFRONT_* environment variables, then functional options. Each layer only
// overrides what it sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goliatone/go-storefront/layering"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps validation and parse failures.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Rule engines accepted by RulesConfig.Engine.
const (
	EngineExpr = "expr"
	EngineCEL  = "cel"
	EngineJS   = "js"
)

// Config is the resolved configuration.
type Config struct {
	Storage  StorageConfig
	Catalog  CatalogConfig
	Logging  LoggingConfig
	Rules    RulesConfig
	Checkout CheckoutConfig
	TenantID string

	stack *layering.Stack[layer]
}

type StorageConfig struct {
	Driver string        `validate:"oneof=memory file sqlite redis"`
	DSN    string        `validate:"required_unless=Driver memory"`
	Prefix string        `validate:"required"`
	TTL    time.Duration `validate:"gte=0"`
}

// CatalogConfig points at a product file. An empty Path selects the bundled
// sample catalog.
type CatalogConfig struct {
	Path   string
	Strict bool
}

type LoggingConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=text json"`
}

type RulesConfig struct {
	Engine string `validate:"oneof=expr cel js"`
}

type CheckoutConfig struct {
	TaxRate float64 `validate:"gte=0,lte=1"`
}

// Sources lists the layers that produced c, strongest first.
func (c *Config) Sources() []string {
	if c.stack == nil {
		return nil
	}
	return c.stack.Names()
}

// Trace reports which layer set a dotted path such as "storage.driver".
func (c *Config) Trace(path string) layering.Trace {
	if c.stack == nil {
		return layering.Trace{Path: path}
	}
	return c.stack.Trace(path)
}

// layer is the partial form every source decodes into. Nil means unset.
type layer struct {
	Storage struct {
		Driver *string `yaml:"driver"`
		DSN    *string `yaml:"dsn"`
		Prefix *string `yaml:"prefix"`
		TTL    *string `yaml:"ttl"`
	} `yaml:"storage"`
	Catalog struct {
		Path   *string `yaml:"path"`
		Strict *bool   `yaml:"strict"`
	} `yaml:"catalog"`
	Logging struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"logging"`
	Rules struct {
		Engine *string `yaml:"engine"`
	} `yaml:"rules"`
	Checkout struct {
		TaxRate *float64 `yaml:"tax_rate"`
	} `yaml:"checkout"`
	TenantID *string `yaml:"tenant_id"`
}

func ptr[T any](v T) *T { return &v }

func defaultLayer() layer {
	var l layer
	l.Storage.Driver = ptr(DriverMemory)
	l.Storage.DSN = ptr("")
	l.Storage.Prefix = ptr("storefront")
	l.Storage.TTL = ptr("0s")
	l.Catalog.Path = ptr("")
	l.Catalog.Strict = ptr(false)
	l.Logging.Level = ptr("info")
	l.Logging.Format = ptr("text")
	l.Rules.Engine = ptr(EngineExpr)
	l.Checkout.TaxRate = ptr(0.08)
	l.TenantID = ptr("")
	return l
}

// Load resolves the configuration. A missing file named by WithFile is an
// error; use WithOptionalFile for files that may be absent.
func Load(opts ...Option) (*Config, error) {
	cfg := loadConfig{lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	stack := &layering.Stack[layer]{}
	stack.Push(layering.SourceDefaults, "builtin", defaultLayer())

	for _, file := range cfg.files {
		fileLayer, found, err := readFile(file.path)
		if err != nil {
			return nil, err
		}
		if !found {
			if file.optional {
				continue
			}
			return nil, fmt.Errorf("%w: config file %q not found", ErrInvalidConfig, file.path)
		}
		stack.Push(layering.SourceFile, file.path, fileLayer)
	}

	envLayer, err := readEnv(cfg.lookupEnv)
	if err != nil {
		return nil, err
	}
	stack.Push(layering.SourceEnv, EnvPrefix+"*", envLayer)

	if len(cfg.overrides) > 0 {
		var override layer
		for _, apply := range cfg.overrides {
			apply(&override)
		}
		stack.Push(layering.SourceOverride, "options", override)
	}

	resolved, err := resolve(stack.Resolve())
	if err != nil {
		return nil, err
	}
	resolved.stack = stack
	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func readFile(path string) (layer, bool, error) {
	var out layer
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, fmt.Errorf("config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, false, fmt.Errorf("%w: parse %q: %v", ErrInvalidConfig, path, err)
	}
	return out, true, nil
}

func resolve(l layer) (*Config, error) {
	ttl, err := time.ParseDuration(deref(l.Storage.TTL))
	if err != nil {
		return nil, fmt.Errorf("%w: storage.ttl: %v", ErrInvalidConfig, err)
	}
	return &Config{
		Storage: StorageConfig{
			Driver: deref(l.Storage.Driver),
			DSN:    deref(l.Storage.DSN),
			Prefix: deref(l.Storage.Prefix),
			TTL:    ttl,
		},
		Catalog: CatalogConfig{
			Path:   deref(l.Catalog.Path),
			Strict: deref(l.Catalog.Strict),
		},
		Logging: LoggingConfig{
			Level:  deref(l.Logging.Level),
			Format: deref(l.Logging.Format),
		},
		Rules:    RulesConfig{Engine: deref(l.Rules.Engine)},
		Checkout: CheckoutConfig{TaxRate: deref(l.Checkout.TaxRate)},
		TenantID: deref(l.TenantID),
	}, nil
}

func deref[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
