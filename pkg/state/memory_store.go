package state

import (
	"context"
	"sync/atomic"
)

// MemoryStore is a Store kept in process memory. Snapshots go through the
// same JSON envelope as SlotStore, so a loaded value never aliases a saved
// one. It is meant for tests and demos.
type MemoryStore[T any] struct {
	store *SlotStore[T]
	saves atomic.Int64
}

func NewMemoryStore[T any](opts ...SlotStoreOption) *MemoryStore[T] {
	return &MemoryStore[T]{store: NewSlotStore[T](NewMemorySlot(), opts...)}
}

func (s *MemoryStore[T]) Load(ctx context.Context, ref Ref) (T, Meta, bool, error) {
	return s.store.Load(ctx, ref)
}

func (s *MemoryStore[T]) Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error) {
	written, err := s.store.Save(ctx, ref, snapshot, meta)
	if err != nil {
		return Meta{}, err
	}
	s.saves.Add(1)
	return written, nil
}

// Saves counts successful Save calls.
func (s *MemoryStore[T]) Saves() int {
	return int(s.saves.Load())
}
