package safebox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// DefaultStorageLimit is the assumed capacity ceiling for the backing store,
// used only by EstimateStorageUsage. The underlying store exposes no real
// quota API.
const DefaultStorageLimit = 50 * 1024 * 1024

// StorageUsage reports how much of the backing store the application occupies.
// Informational only; mutations are never blocked on it.
type StorageUsage struct {
	Used      int64
	Available int64
}

// EvidenceStore owns the locally queued evidence records and persists them as
// one serialized snapshot in a key-value store.
//
// Every mutation follows read-modify-write-persist: the new snapshot is built,
// written to the store, and only then swapped into memory. A failed write
// leaves the in-memory snapshot at the last successfully persisted state, so
// data loss is bounded to the single attempted mutation. Mutations are
// serialized through one mutex, so concurrent calls from the same process
// cannot interleave their read-modify-write bodies.
type EvidenceStore struct {
	kv     KV
	clock  Clock
	logger Logger
	limit  int64

	mu       sync.Mutex
	snapshot *Snapshot // last-known-good; nil until first Load
}

// NewEvidenceStore creates an EvidenceStore over the given key-value store.
// storageLimit is the capacity ceiling for usage estimates; values <= 0 fall
// back to DefaultStorageLimit.
func NewEvidenceStore(kv KV, clock Clock, logger Logger, storageLimit int64) *EvidenceStore {
	if storageLimit <= 0 {
		storageLimit = DefaultStorageLimit
	}
	return &EvidenceStore{
		kv:     kv,
		clock:  clock,
		logger: logger,
		limit:  storageLimit,
	}
}

// Load reads the persisted snapshot. If none exists yet, an empty snapshot is
// created and persisted before returning. On read or parse failure the
// previously loaded in-memory snapshot is left untouched.
func (s *EvidenceStore) Load(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.loadLocked(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return snap.clone(), nil
}

// loadLocked reads and caches the snapshot. Caller must hold s.mu.
func (s *EvidenceStore) loadLocked(ctx context.Context) (Snapshot, error) {
	data, ok, err := s.kv.Get(ctx, SafeBoxKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading safe box: %w", err)
	}

	if !ok {
		// First load on this installation: initialize and persist an empty box.
		empty := emptySnapshot(s.clock.Now().UnixMilli())
		if err := s.persistLocked(ctx, empty); err != nil {
			return Snapshot{}, fmt.Errorf("initializing safe box: %w", err)
		}
		s.logger.Info("safe box initialized")
		return empty, nil
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing safe box: %w", err)
	}
	if snap.Items == nil {
		snap.Items = []EvidenceRecord{}
	}
	s.snapshot = &snap
	return snap, nil
}

// Current returns the in-memory snapshot. ok is false if Load has not
// succeeded yet.
func (s *EvidenceStore) Current() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return s.snapshot.clone(), true
}

// Upsert adds the record to the queue, or replaces the existing record with
// the same ID in place. The snapshot is persisted before the in-memory state
// advances; on persistence failure the previous state is retained.
func (s *EvidenceStore) Upsert(ctx context.Context, record EvidenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := s.baseLocked(ctx)
	if err != nil {
		return err
	}

	next := base.clone()
	replaced := false
	for i := range next.Items {
		if next.Items[i].ID == record.ID {
			next.Items[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		next.Items = append(next.Items, record)
	}

	if err := s.commitLocked(ctx, next); err != nil {
		return fmt.Errorf("saving evidence %s: %w", record.ID, err)
	}
	s.logger.Debug("evidence saved", "id", record.ID, "kind", record.Kind, "replaced", replaced)
	return nil
}

// Remove deletes the record with the given ID. Removing an absent ID is a
// successful no-op.
func (s *EvidenceStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base, err := s.baseLocked(ctx)
	if err != nil {
		return err
	}

	next := base.clone()
	kept := next.Items[:0]
	for _, item := range next.Items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	next.Items = kept

	if err := s.commitLocked(ctx, next); err != nil {
		return fmt.Errorf("removing evidence %s: %w", id, err)
	}
	s.logger.Debug("evidence removed", "id", id)
	return nil
}

// Clear resets the safe box to an empty snapshot.
func (s *EvidenceStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commitLocked(ctx, emptySnapshot(s.clock.Now().UnixMilli())); err != nil {
		return fmt.Errorf("clearing safe box: %w", err)
	}
	s.logger.Info("safe box cleared")
	return nil
}

// EstimateStorageUsage sums the serialized byte lengths of every key in the
// backing store and reports what remains of the configured capacity ceiling.
// The ceiling is an approximation, not an OS-reported quota.
func (s *EvidenceStore) EstimateStorageUsage(ctx context.Context) (StorageUsage, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return StorageUsage{}, fmt.Errorf("listing storage keys: %w", err)
	}

	var used int64
	for _, key := range keys {
		value, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return StorageUsage{}, fmt.Errorf("reading key %s: %w", key, err)
		}
		if ok {
			used += int64(len(value))
		}
	}

	available := s.limit - used
	if available < 0 {
		available = 0
	}
	return StorageUsage{Used: used, Available: available}, nil
}

// baseLocked returns the snapshot mutations start from, loading it from the
// store if this process has not read it yet. Caller must hold s.mu.
func (s *EvidenceStore) baseLocked(ctx context.Context) (Snapshot, error) {
	if s.snapshot != nil {
		return *s.snapshot, nil
	}
	return s.loadLocked(ctx)
}

// commitLocked recomputes aggregates, stamps the snapshot, persists it, and
// on success makes it the in-memory state. Caller must hold s.mu.
func (s *EvidenceStore) commitLocked(ctx context.Context, next Snapshot) error {
	next.recompute()
	next.LastUpdated = s.clock.Now().UnixMilli()
	return s.persistLocked(ctx, next)
}

// persistLocked writes the snapshot to the store and caches it.
func (s *EvidenceStore) persistLocked(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, SafeBoxKey, data); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	s.snapshot = &snap
	return nil
}
