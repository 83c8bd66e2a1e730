package testutil

import (
	"context"
	"fmt"

	"yckf-go/internal/kv"
	"yckf-go/internal/safebox"
)

// NewTestKV creates a new in-memory key-value store for testing.
func NewTestKV() safebox.KV {
	return kv.NewMemoryStore()
}

// FailingKV wraps a KV store and fails operations on demand, for exercising
// the store's rollback behavior.
type FailingKV struct {
	Inner    safebox.KV
	FailGet  bool
	FailSet  bool
	FailKeys bool
}

// NewFailingKV wraps the given store. All operations pass through until a
// Fail* flag is flipped.
func NewFailingKV(inner safebox.KV) *FailingKV {
	return &FailingKV{Inner: inner}
}

func (f *FailingKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.FailGet {
		return nil, false, fmt.Errorf("injected get failure")
	}
	return f.Inner.Get(ctx, key)
}

func (f *FailingKV) Set(ctx context.Context, key string, value []byte) error {
	if f.FailSet {
		return fmt.Errorf("injected set failure")
	}
	return f.Inner.Set(ctx, key, value)
}

func (f *FailingKV) Keys(ctx context.Context) ([]string, error) {
	if f.FailKeys {
		return nil, fmt.Errorf("injected keys failure")
	}
	return f.Inner.Keys(ctx)
}
