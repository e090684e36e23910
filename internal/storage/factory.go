package storage

import (
	"context"
	"fmt"

	"laborviz/internal/config"
)

// DeploymentMode represents where files are kept
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = config.StorageLocal
	DeploymentGCS   DeploymentMode = config.StorageGCS
)

// NewStorageClient creates a storage client rooted at root. In local mode
// root is a directory; in GCS mode it is an object prefix inside cfg.GCSBucket.
func NewStorageClient(ctx context.Context, cfg *config.Config, root string) (StorageClient, error) {
	switch DeploymentMode(cfg.StorageMode) {
	case DeploymentLocal:
		localClient, err := NewLocalStorageClient(root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage client: %w", err)
		}
		return localClient, nil

	case DeploymentGCS:
		gcsClient, err := NewGCSClient(ctx, cfg.GCSBucket, root)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS client: %w", err)
		}
		return gcsClient, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode: %s", cfg.StorageMode)
	}
}
