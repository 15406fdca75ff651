package state

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"
)

var ErrInvalidRef = errors.New("state: invalid ref")

var ErrCorruptSnapshot = errors.New("state: corrupt snapshot")

// Ref identifies one persisted snapshot slot.
type Ref struct {
	Namespace string
	Name      string
	Version   int
}

// Meta is storage-owned metadata used for tracing and auditing saves.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads/saves one snapshot for a single ref. Load reports ok=false when
// nothing has been saved yet.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	namespace := strings.TrimSpace(r.Namespace)
	name := strings.TrimSpace(r.Name)
	if namespace == "" {
		return "", fmt.Errorf("%w: namespace is required", ErrInvalidRef)
	}
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidRef)
	}
	if r.Version < 1 {
		return "", fmt.Errorf("%w: version must be positive, got %d", ErrInvalidRef, r.Version)
	}
	return fmt.Sprintf("%s/%s/v%d", namespace, name, r.Version), nil
}

func (r Ref) String() string {
	id, err := r.Identifier()
	if err != nil {
		return fmt.Sprintf("%s/%s/v%d", r.Namespace, r.Name, r.Version)
	}
	return id
}

func cloneMeta(meta Meta) Meta {
	meta.Extra = maps.Clone(meta.Extra)
	return meta
}
