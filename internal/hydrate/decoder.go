// Package hydrate turns loosely typed records, as parsed from YAML or JSON
// documents, into typed values through a pre-hook, decode, post-hook
// pipeline.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Context locates a record inside its source document.
type Context struct {
	Source string
	Index  int
}

func (c Context) String() string {
	if c.Source == "" {
		return fmt.Sprintf("record %d", c.Index)
	}
	return fmt.Sprintf("%s record %d", c.Source, c.Index)
}

// Stages reported by DecodeError.
const (
	StagePrepare = "prepare"
	StagePreHook = "pre-hook"
	StageDecode  = "decode"
	StagePost    = "post-hook"
)

// DecodeError reports which record failed and at which stage.
type DecodeError struct {
	Record Context
	Stage  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hydrate: %s: %s: %v", e.Record, e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PreHook rewrites a raw record before decoding. Returning nil keeps the
// record as it was.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook adjusts or validates the decoded value.
type PostHook[T any] func(Context, *T) error

type DecoderOption[T any] func(*Decoder[T])

// Decoder is safe for concurrent use once built.
type Decoder[T any] struct {
	pre    []PreHook
	post   []PostHook[T]
	strict bool
}

func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.pre = append(d.pre, hook)
		}
	}
}

func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.post = append(d.post, hook)
		}
	}
}

// WithDisallowUnknownFields rejects record keys with no matching field.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts one record into T. Hooks work on a deep copy, so the
// caller's map is never modified.
func (d *Decoder[T]) Decode(ctx Context, record map[string]any) (T, error) {
	var out T
	fail := func(stage string, err error) (T, error) {
		var zero T
		return zero, &DecodeError{Record: ctx, Stage: stage, Err: err}
	}

	if record == nil {
		return fail(StagePrepare, errors.New("empty record"))
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fail(StagePrepare, err)
	}

	if len(d.pre) > 0 {
		var working map[string]any
		if err := json.Unmarshal(raw, &working); err != nil {
			return fail(StagePrepare, err)
		}
		for _, hook := range d.pre {
			next, err := hook(ctx, working)
			if err != nil {
				return fail(StagePreHook, err)
			}
			if next != nil {
				working = next
			}
		}
		if raw, err = json.Marshal(working); err != nil {
			return fail(StagePreHook, err)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&out); err != nil {
		return fail(StageDecode, err)
	}

	for _, hook := range d.post {
		if err := hook(ctx, &out); err != nil {
			return fail(StagePost, err)
		}
	}
	return out, nil
}

// DecodeAll decodes records in order and stops at the first failure.
func (d *Decoder[T]) DecodeAll(source string, records []map[string]any) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, record := range records {
		value, err := d.Decode(Context{Source: source, Index: i}, record)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
	return out, nil
}
