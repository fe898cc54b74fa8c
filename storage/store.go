package storage

import (
	"context"
	"fmt"

	"multipiste/config"
	"multipiste/core/multitrack"
)

// New returns the store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *config.Config) (multitrack.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendLocal, "":
		return NewLocalStore(), nil
	case config.BackendMinio:
		store, err := NewMinioStore(ctx, MinioOptionsFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// MinioOptionsFromConfig extracts the MinIO settings from cfg.
func MinioOptionsFromConfig(cfg *config.Config) MinioOptions {
	return MinioOptions{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		Region:    cfg.MinioRegion,
	}
}
