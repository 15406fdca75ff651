package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/catalog"
	"github.com/goliatone/go-storefront/pkg/state"
	"github.com/goliatone/go-storefront/pkg/state/redisstore"
	"github.com/goliatone/go-storefront/pkg/state/sqlitestore"
)

// OpenSlot opens the durable slot selected by cfg. The returned close func is
// never nil.
func OpenSlot(ctx context.Context, cfg StorageConfig) (state.Slot, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Driver {
	case DriverMemory, "":
		return state.NewMemorySlot(), noop, nil
	case DriverFile:
		slot, err := state.NewFileSlot(cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return slot, noop, nil
	case DriverSQLite:
		slot, err := sqlitestore.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return slot, slot.Close, nil
	case DriverRedis:
		opts := []redisstore.Option{redisstore.WithPrefix(cfg.Prefix)}
		if cfg.TTL > 0 {
			opts = append(opts, redisstore.WithTTL(cfg.TTL))
		}
		slot, err := redisstore.Open(ctx, cfg.DSN, opts...)
		if err != nil {
			return nil, noop, err
		}
		return slot, slot.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, cfg.Driver)
	}
}

// NewLogger builds a slog logger writing to w.
func NewLogger(w io.Writer, cfg LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	var out slog.Level
	if err := out.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return out
}

// LoadCatalog reads the configured product file, or the bundled sample when
// no path is set.
func LoadCatalog(cfg CatalogConfig) (*storefront.Catalog, error) {
	if cfg.Path == "" {
		return catalog.Sample()
	}
	var opts []catalog.Option
	if cfg.Strict {
		opts = append(opts, catalog.WithStrict())
	}
	return catalog.LoadFile(cfg.Path, opts...)
}

// NewEvaluator returns the rule evaluator for cfg. The js engine is only
// available in binaries built with the js_eval tag.
func NewEvaluator(cfg RulesConfig, cache storefront.ProgramCache, functions *storefront.FunctionRegistry) (storefront.Evaluator, error) {
	if cache == nil {
		cache = storefront.NewMemoryProgramCache()
	}
	switch cfg.Engine {
	case EngineExpr, "":
		opts := []storefront.ExprEvaluatorOption{storefront.ExprWithProgramCache(cache)}
		if functions != nil {
			opts = append(opts, storefront.ExprWithFunctionRegistry(functions))
		}
		return storefront.NewExprEvaluator(opts...), nil
	case EngineCEL:
		opts := []storefront.CELEvaluatorOption{storefront.CELWithProgramCache(cache)}
		if functions != nil {
			opts = append(opts, storefront.CELWithFunctionRegistry(functions))
		}
		return storefront.NewCELEvaluator(opts...), nil
	case EngineJS:
		opts := []storefront.JSEvaluatorOption{storefront.JSWithProgramCache(cache)}
		if functions != nil {
			opts = append(opts, storefront.JSWithFunctionRegistry(functions))
		}
		evaluator := storefront.NewJSEvaluator(opts...)
		if evaluator == nil {
			return nil, fmt.Errorf("%w: js rules require the js_eval build tag", ErrInvalidConfig)
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("%w: unknown rules engine %q", ErrInvalidConfig, cfg.Engine)
	}
}
