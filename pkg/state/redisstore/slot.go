// Package redisstore implements state.Slot on Redis string keys.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/goliatone/go-storefront/pkg/state"
)

const defaultPrefix = "storefront"

// Slot stores each key as `<prefix>:<key>`.
type Slot struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ state.Slot = (*Slot)(nil)

// Option configures a Slot.
type Option func(*Slot)

// WithPrefix namespaces every key. Empty keeps the default.
func WithPrefix(prefix string) Option {
	return func(s *Slot) {
		if prefix = strings.TrimSpace(prefix); prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL expires snapshots that are not rewritten within ttl. Zero keeps
// them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Slot) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New wraps an existing client.
func New(client *redis.Client, opts ...Option) *Slot {
	s := &Slot{client: client, prefix: defaultPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Open parses a redis:// URL, connects, and verifies the connection.
func Open(ctx context.Context, redisURL string, opts ...Option) (*Slot, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redisstore: invalid redis URL: %w", err)
	}
	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redisstore: failed to connect to Redis: %w", err)
	}
	return New(client, opts...), nil
}

func (s *Slot) key(key string) string {
	return s.prefix + ":" + key
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redisstore: get %q: %w", key, err)
	}
	return value, true, nil
}

func (s *Slot) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %q: %w", key, err)
	}
	return nil
}

func (s *Slot) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redisstore: delete %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Slot) Close() error {
	return s.client.Close()
}
