package kv

import (
	"context"
	"fmt"

	"yckf-go/internal/config"
	"yckf-go/internal/safebox"
)

// NewStoreFromConfig creates a KV implementation based on the storage config type.
func NewStoreFromConfig(ctx context.Context, cfg config.StorageConfig) (safebox.KV, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem storage requires fs_root to be set")
		}
		return NewFilesystemStore(cfg.FSRoot)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
