package kv

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yckf-go/internal/safebox"
)

// FilesystemStore is a filesystem-based implementation of the KV interface.
// Each key is stored as one file under the root directory. Writes are atomic
// (temp file + rename), so a crashed write never leaves a torn value behind.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates a filesystem store rooted at the given path.
func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

// Get returns the value stored under key.
func (f *FilesystemStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return data, true, nil
}

// Set stores value under key, replacing any previous value.
func (f *FilesystemStore) Set(_ context.Context, key string, value []byte) error {
	destPath := f.path(key)

	// Create temp file in the same directory to ensure atomic rename works
	tmpFile, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write value: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Keys returns every key currently present.
func (f *FilesystemStore) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("listing storage directory: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".tmp-") {
			continue
		}
		key, err := decodeName(entry.Name())
		if err != nil {
			// Not a file this store wrote; skip it.
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// path maps a key to its file path. Keys are hex-encoded so arbitrary key
// strings cannot escape the root directory.
func (f *FilesystemStore) path(key string) string {
	return filepath.Join(f.root, encodeName(key))
}

func encodeName(key string) string {
	return hex.EncodeToString([]byte(key)) + ".kv"
}

func decodeName(name string) (string, error) {
	raw, ok := strings.CutSuffix(name, ".kv")
	if !ok {
		return "", fmt.Errorf("not a kv file: %s", name)
	}
	decoded, err := hex.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decoding key name: %w", err)
	}
	return string(decoded), nil
}

// Compile-time check that FilesystemStore implements the safebox.KV interface
var _ safebox.KV = (*FilesystemStore)(nil)
