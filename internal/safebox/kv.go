package safebox

import "context"

// SafeBoxKey is the fixed key the serialized snapshot is persisted under.
// There is exactly one snapshot per installation.
const SafeBoxKey = "evidence_safebox"

// KV is the durable key-value store the EvidenceStore persists into.
// Values are opaque byte strings. Implementations do not need to be safe for
// concurrent use; the store serializes its own mutations.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; err is reserved for actual read failures.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set durably stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Keys returns every key currently present in the store.
	Keys(ctx context.Context) ([]string, error)
}
