// Package state defines the persistence boundary for shopper snapshots: a
// Store loads and saves one snapshot under one Ref, and nothing else.
//
// Responsibilities:
//   - Store[T] only loads/saves a full snapshot for a single Ref. There are no
//     partial patches; every Save overwrites the previous value.
//   - SlotStore[T] adapts any byte-oriented Slot (memory, file, SQLite, Redis)
//     into a Store[T] using a JSON envelope.
//   - Callers decide how to react to failures. The shopper session treats
//     load and save errors as soft: it logs them and keeps its in-memory
//     state authoritative.
//
// Data flow:
//
//	shopper.Session -> Store[Snapshot] -> SlotStore -> Slot
//
// Deterministic keys:
//
//	Ref.Identifier() yields `namespace/name/vN`. Bumping Version moves the
//	snapshot to a fresh key, so an incompatible layout is never decoded into
//	the new type; the old key is simply ignored.
package state
