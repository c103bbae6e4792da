// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/yojana/ai"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
)

const (
	// DefaultBatchSize is the number of chunks sent per embedding request.
	DefaultBatchSize = 32

	// DefaultMaxAttempts bounds embedding retries per batch.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the first retry delay; it doubles on each retry.
	DefaultBaseDelay = 500 * time.Millisecond
)

// Pipeline ingests a manifest into a dataset repository.
type Pipeline struct {
	repository storage.DatasetRepository
	embedder   ai.Embedder
	pool       *ants.Pool
	batchSize  int
	chunkSize  int
	retry      Backoff
	progress   io.Writer
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent embedding requests.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		p.batchSize = size
		return nil
	}
}

// WithChunkSize sets the soft maximum chunk length in bytes.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithRetry sets the embedding retry policy.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.retry.MaxAttempts = maxAttempts
		p.retry.BaseDelay = baseDelay
		return nil
	}
}

// WithProgress reports embedding progress to w.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(repository storage.DatasetRepository, embedder ai.Embedder, opts ...Option) (*Pipeline, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		repository: repository,
		embedder:   embedder,
		pool:       pool,
		batchSize:  DefaultBatchSize,
		chunkSize:  DefaultChunkSize,
		retry: Backoff{
			MaxAttempts: DefaultMaxAttempts,
			BaseDelay:   DefaultBaseDelay,
			MaxDelay:    DefaultMaxDelay,
		},
		logger: slog.Default().With("component", "ingestion"),
	}
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Run ingests the manifest and replaces the stored dataset with the result.
// Nothing is saved if any step fails.
func (p *Pipeline) Run(ctx context.Context, m *Manifest) (*storage.DatasetInfo, error) {
	ds, err := p.Prepare(ctx, m)
	if err != nil {
		return nil, err
	}

	info, err := p.repository.SaveDataset(ctx, ds)
	if err != nil {
		return nil, fmt.Errorf("saving dataset: %w", err)
	}
	p.logger.Info("dataset ingested",
		"generation", info.Generation,
		"version", info.Version,
		"nodes", info.Nodes,
		"edges", info.Edges,
		"chunks", info.Chunks)
	return info, nil
}

// Prepare builds and validates the dataset for a manifest without saving it.
func (p *Pipeline) Prepare(ctx context.Context, m *Manifest) (*snapshot.Dataset, error) {
	if m == nil {
		return nil, ErrManifestRequired
	}
	nodes, err := m.Nodes()
	if err != nil {
		return nil, err
	}

	var chunks []*core.DocumentChunk
	for _, d := range m.Documents {
		sections, err := m.sections(d)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", d.ID, err)
		}
		before := len(chunks)
		for _, s := range sections {
			chunks = append(chunks, ChunkSection(s, p.chunkSize)...)
		}
		p.logger.Debug("document chunked", "document", d.ID, "pages", len(sections), "chunks", len(chunks)-before)
	}

	if err := p.embed(ctx, chunks); err != nil {
		return nil, err
	}

	ds := snapshot.Assemble(nodes, chunks)
	if _, err := snapshot.Build(ds); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}
	return ds, nil
}

// embed fills in normalized vectors for every chunk, one batch per pool task.
// The first failing batch cancels the rest.
func (p *Pipeline) embed(ctx context.Context, chunks []*core.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(chunks), p.batchSize)
		tracker.Start()
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
	}

	for start := 0; start < len(chunks); start += p.batchSize {
		batch := chunks[start:min(start+p.batchSize, len(chunks))]
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.embedBatch(ctx, batch); err != nil {
				fail(err)
				return
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submitting embedding batch: %w", err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if tracker != nil {
		tracker.Finish()
	}
	p.logger.Info("chunks embedded", "chunks", len(chunks))
	return nil
}

func (p *Pipeline) embedBatch(ctx context.Context, batch []*core.DocumentChunk) error {
	texts := make([]string, len(batch))
	for i, c := range batch {
		texts[i] = c.Text
	}

	logger := p.logger.With("first", batch[0].Id, "size", len(batch))
	var vectors [][]float32
	err := p.retry.Do(ctx, logger, func(int) error {
		var err error
		vectors, err = p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return err
		}
		if len(vectors) != len(texts) {
			// A service that truncates a batch does so every time.
			return Permanent(fmt.Errorf("%w: got %d vectors for %d texts", ai.ErrEmbeddingCountMismatch, len(vectors), len(texts)))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		logger.Error("embedding batch failed", "err", err)
		return fmt.Errorf("embedding chunks: %w", err)
	}

	for i, v := range vectors {
		if err := ai.CheckEmbedding(v); err != nil {
			return fmt.Errorf("chunk %s: %w", batch[i].Id, err)
		}
		batch[i].Vector = ai.NormalizeVector(v)
	}
	return nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
