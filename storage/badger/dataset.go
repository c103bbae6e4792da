package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
)

// DatasetRepository implements storage.DatasetRepository for BadgerDB.
//
// Each SaveDataset writes a new generation under its own key prefix and
// then flips the metadata record to point at it, so readers never observe a
// partially written dataset. The previous generation is deleted afterwards.
type DatasetRepository struct {
	backend *Backend
	genSeq  *badger.Sequence
	mu      sync.Mutex // serializes writers
	logger  *slog.Logger
}

var _ storage.DatasetRepository = (*DatasetRepository)(nil)

// NewDatasetRepository creates a new DatasetRepository.
func NewDatasetRepository(backend *Backend) (*DatasetRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	genSeq, err := backend.GetSequence(datasetGenSeq)
	if err != nil {
		return nil, err
	}

	return &DatasetRepository{
		backend: backend,
		genSeq:  genSeq,
		logger:  slog.Default().With("component", "dataset-repository"),
	}, nil
}

// Close releases the generation sequence. The backend stays open.
func (r *DatasetRepository) Close() error {
	if r.genSeq != nil {
		return r.genSeq.Release()
	}
	return nil
}

// WithTransaction delegates to the backend.
func (r *DatasetRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// SaveDataset replaces the stored dataset.
func (r *DatasetRepository) SaveDataset(ctx context.Context, ds *snapshot.Dataset) (*storage.DatasetInfo, error) {
	if ds == nil {
		return nil, storage.ErrDatasetRequired
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, err := r.readInfo()
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	next, err := r.genSeq.Next()
	if err != nil {
		return nil, err
	}
	generation := next + 1

	info := &storage.DatasetInfo{
		Generation: generation,
		Version:    snapshot.Version(ds),
		Nodes:      len(ds.Nodes),
		Edges:      len(ds.Edges),
		Chunks:     len(ds.Chunks),
		SavedAt:    time.Now().UTC(),
	}

	err = r.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i, node := range ds.Nodes {
			if err := ctx.Err(); err != nil {
				return err
			}
			value, err := storage.MarshalNode(node)
			if err != nil {
				return err
			}
			if err := wb.Set(makeRecordKey(generation, nodeSegment, i), value); err != nil {
				return err
			}
		}
		for i, edge := range ds.Edges {
			if err := wb.Set(makeRecordKey(generation, edgeSegment, i), storage.MarshalEdge(edge)); err != nil {
				return err
			}
		}
		for i, chunk := range ds.Chunks {
			if err := ctx.Err(); err != nil {
				return err
			}
			if chunk == nil {
				return fmt.Errorf("%w: nil chunk at position %d", storage.ErrSerializationFailed, i)
			}
			if err := wb.Set(makeRecordKey(generation, chunkSegment, i), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.discard(generation)
		return nil, fmt.Errorf("writing dataset generation %d: %w", generation, err)
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(datasetMetaKey), storage.MarshalDatasetInfo(info)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		r.discard(generation)
		return nil, err
	}

	if prev != nil {
		r.discard(prev.Generation)
	}
	r.logger.Info("dataset saved",
		"generation", generation,
		"version", info.Version,
		"nodes", info.Nodes,
		"edges", info.Edges,
		"chunks", info.Chunks)
	return info, nil
}

// discard deletes a generation's records. Failures only leak space, so
// they are logged rather than returned.
func (r *DatasetRepository) discard(generation uint64) {
	n, err := r.backend.DeletePrefix(makeGenerationPrefix(generation))
	if err != nil {
		r.logger.Warn("error deleting dataset generation", "generation", generation, "err", err)
		return
	}
	r.logger.Debug("deleted dataset generation", "generation", generation, "keys", n)
}

// LoadDataset returns the stored dataset in saved order.
func (r *DatasetRepository) LoadDataset(ctx context.Context) (*snapshot.Dataset, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	ds := &snapshot.Dataset{}
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		info, err := readInfo(tx)
		if err != nil {
			return err
		}

		ds.Nodes = make([]core.Node, 0, info.Nodes)
		err = scan(ctx, tx, makeSegmentPrefix(info.Generation, nodeSegment), func(val []byte) error {
			node, err := storage.UnmarshalNode(val)
			if err != nil {
				return err
			}
			ds.Nodes = append(ds.Nodes, node)
			return nil
		})
		if err != nil {
			return err
		}

		ds.Edges = make([]core.Edge, 0, info.Edges)
		err = scan(ctx, tx, makeSegmentPrefix(info.Generation, edgeSegment), func(val []byte) error {
			edge, err := storage.UnmarshalEdge(val)
			if err != nil {
				return err
			}
			ds.Edges = append(ds.Edges, edge)
			return nil
		})
		if err != nil {
			return err
		}

		ds.Chunks = make([]*core.DocumentChunk, 0, info.Chunks)
		return scan(ctx, tx, makeSegmentPrefix(info.Generation, chunkSegment), func(val []byte) error {
			chunk, err := storage.UnmarshalChunk(val)
			if err != nil {
				return err
			}
			ds.Chunks = append(ds.Chunks, chunk)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

// DatasetInfo returns metadata about the stored dataset.
func (r *DatasetRepository) DatasetInfo(ctx context.Context) (*storage.DatasetInfo, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	return r.readInfo()
}

func (r *DatasetRepository) readInfo() (*storage.DatasetInfo, error) {
	var info *storage.DatasetInfo
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readInfo(tx)
		return err
	}, false)
	return info, err
}

func readInfo(tx *badger.Txn) (*storage.DatasetInfo, error) {
	item, err := tx.Get([]byte(datasetMetaKey))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var info *storage.DatasetInfo
	err = item.Value(func(val []byte) error {
		var err error
		info, err = storage.UnmarshalDatasetInfo(val)
		return err
	})
	return info, err
}

// scan calls fn with the value of every key under prefix, in key order.
func scan(ctx context.Context, tx *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}
