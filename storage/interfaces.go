package storage

import (
	"context"
	"time"

	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/snapshot"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the repository and releases resources.
	Close() error
}

// DatasetInfo describes the stored dataset.
type DatasetInfo struct {
	Generation uint64
	Version    core.ID
	Nodes      int
	Edges      int
	Chunks     int
	SavedAt    time.Time
}

// DatasetRepository persists the dataset a snapshot is built from.
type DatasetRepository interface {
	Repository

	// SaveDataset replaces the stored dataset. Readers observe either the
	// previous dataset or the new one, never a mix.
	SaveDataset(ctx context.Context, ds *snapshot.Dataset) (*DatasetInfo, error)

	// LoadDataset returns the stored dataset in the order it was saved.
	// Returns ErrNotFound if no dataset has been saved.
	LoadDataset(ctx context.Context) (*snapshot.Dataset, error)

	// DatasetInfo returns metadata about the stored dataset.
	// Returns ErrNotFound if no dataset has been saved.
	DatasetInfo(ctx context.Context) (*DatasetInfo, error)
}
