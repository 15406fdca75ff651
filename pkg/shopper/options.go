package shopper

import (
	"log/slog"
	"strings"
	"time"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/pkg/activity"
	"github.com/goliatone/go-storefront/pkg/state"
)

// Option configures a Session.
type Option func(*sessionConfig)

type sessionConfig struct {
	logger   *slog.Logger
	now      func() time.Time
	orderIDs func() string
	ref      state.Ref
	emitter  *activity.Emitter
	tenantID string
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
		orderIDs: storefront.NewOrderID,
		ref:      DefaultRef,
	}
}

// WithLogger routes persistence and activity failures to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *sessionConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithClock overrides the clock used for wishlist and order timestamps.
func WithClock(now func() time.Time) Option {
	return func(cfg *sessionConfig) {
		if now != nil {
			cfg.now = now
		}
	}
}

// WithOrderIDs overrides the checkout order id generator.
func WithOrderIDs(next func() string) Option {
	return func(cfg *sessionConfig) {
		if next != nil {
			cfg.orderIDs = next
		}
	}
}

// WithRef stores the snapshot under ref instead of DefaultRef.
func WithRef(ref state.Ref) Option {
	return func(cfg *sessionConfig) {
		cfg.ref = ref
	}
}

// WithActivity emits shopper events through emitter.
func WithActivity(emitter *activity.Emitter) Option {
	return func(cfg *sessionConfig) {
		cfg.emitter = emitter
	}
}

// WithActivityHooks is a shorthand for an enabled emitter on the default
// channel.
func WithActivityHooks(hooks ...activity.ActivityHook) Option {
	return func(cfg *sessionConfig) {
		cfg.emitter = activity.NewEmitter(activity.Hooks(hooks), activity.Config{Enabled: true})
	}
}

// WithTenant tags emitted events with tenantID.
func WithTenant(tenantID string) Option {
	return func(cfg *sessionConfig) {
		cfg.tenantID = strings.TrimSpace(tenantID)
	}
}
