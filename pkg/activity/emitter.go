package activity

import (
	"context"
	"slices"
	"strings"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "storefront"

// Config controls an Emitter. Verbs, when set, limits emission to those verbs.
type Config struct {
	Enabled bool
	Channel string
	Verbs   []string
}

// Emitter is the entry point stores use to publish events.
type Emitter struct {
	hooks   Hooks
	channel string
	verbs   []string
}

// NewEmitter drops nil hooks. A disabled config, or no hooks at all, yields
// an emitter that discards everything.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{channel: strings.TrimSpace(cfg.Channel), verbs: slices.Clone(cfg.Verbs)}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if cfg.Enabled {
		e.hooks = slices.DeleteFunc(slices.Clone(hooks), func(hook ActivityHook) bool {
			return hook == nil
		})
	}
	return e
}

// Enabled is safe to call on a nil emitter.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if len(e.verbs) > 0 && !slices.Contains(e.verbs, strings.TrimSpace(event.Verb)) {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	return e.hooks.Notify(ctx, event)
}
