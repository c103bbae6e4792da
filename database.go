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

package yojana

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/yojana/ai"
	"github.com/poiesic/yojana/ai/openai"
	"github.com/poiesic/yojana/core"
	"github.com/poiesic/yojana/eligibility"
	"github.com/poiesic/yojana/ingestion"
	"github.com/poiesic/yojana/retrieval"
	"github.com/poiesic/yojana/snapshot"
	"github.com/poiesic/yojana/storage"
	"github.com/poiesic/yojana/storage/badger"
)

type Database struct {
	backend       *badger.Backend
	datasetRepo   storage.DatasetRepository
	embedder      ai.Embedder
	queryEmbedder ai.Embedder
	holder        *snapshot.Holder
	orchestrator  *retrieval.Orchestrator
	reloadMu      sync.Mutex
	logger        *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig      *ai.Config
	embedder      ai.Embedder
	inMemory      bool
	retrievalOpts []retrieval.Option
	engineOpts    []eligibility.Option
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithEmbedder uses embedder instead of connecting to an embedding service.
// Question embeddings are still cached per the AI config.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory keeps the dataset in memory; the file path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithRetrievalOptions passes options to the retrieval orchestrator.
func WithRetrievalOptions(opts ...retrieval.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.retrievalOpts = append(o.retrievalOpts, opts...)
	}
}

// WithEngineOptions passes options to the eligibility engine.
func WithEngineOptions(opts ...eligibility.Option) DatabaseOption {
	return func(o *databaseOptions) {
		o.engineOpts = append(o.engineOpts, opts...)
	}
}

// NewDatabase opens the dataset store at filePath and loads the stored
// dataset, if any, as the live snapshot. A store without a dataset opens
// successfully; queries fail with snapshot.ErrNoSnapshot until one is ingested.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	datasetRepo, err := badger.NewDatasetRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			datasetRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	engine, err := eligibility.NewEngine(options.engineOpts...)
	if err != nil {
		datasetRepo.Close()
		backend.Close()
		return nil, err
	}

	orchestrator, err := retrieval.NewOrchestrator(engine, options.retrievalOpts...)
	if err != nil {
		datasetRepo.Close()
		backend.Close()
		return nil, err
	}

	db := &Database{
		backend:       backend,
		datasetRepo:   datasetRepo,
		embedder:      embedder,
		queryEmbedder: ai.NewCachingEmbedder(embedder, options.aiConfig.QueryCacheTTL),
		holder:        snapshot.NewHolder(nil),
		orchestrator:  orchestrator,
		logger:        slog.Default().With("component", "database"),
	}

	if _, err := db.Reload(context.Background()); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			db.Close()
			return nil, err
		}
		db.logger.Info("no dataset stored yet")
	}
	return db, nil
}

// Close releases the worker pool, the dataset repository and the backend.
// The backend is closed even when the repository fails to close.
func (db *Database) Close() error {
	db.orchestrator.Release()

	var errs []error
	if err := db.datasetRepo.Close(); err != nil {
		db.logger.Error("error closing dataset repository", "err", err)
		errs = append(errs, fmt.Errorf("closing dataset repository: %w", err))
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		errs = append(errs, fmt.Errorf("closing backend: %w", err))
	}
	return errors.Join(errs...)
}

// Reload rebuilds the live snapshot from the stored dataset and swaps it in.
// On failure the current snapshot stays live.
func (db *Database) Reload(ctx context.Context) (*snapshot.Snapshot, error) {
	db.reloadMu.Lock()
	defer db.reloadMu.Unlock()

	ds, err := db.datasetRepo.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}
	snap, err := snapshot.Build(ds)
	if err != nil {
		return nil, err
	}

	previous := db.holder.Swap(snap)
	attrs := []any{"version", snap.Version, "nodes", snap.Graph.NodeCount(), "chunks", snap.Index.Len()}
	if previous != nil {
		attrs = append(attrs, "previous", previous.Version)
	}
	db.logger.Info("snapshot loaded", attrs...)
	return snap, nil
}

// Snapshot returns the live snapshot.
func (db *Database) Snapshot() (*snapshot.Snapshot, error) {
	return db.holder.Load()
}

// Answer embeds the question and returns ranked determinations for every
// scheme that applies to the profile's jurisdiction. Evidence per scheme is
// capped by the orchestrator's configured limit.
func (db *Database) Answer(ctx context.Context, profile core.UserProfile, question string) ([]core.EvaluationResult, error) {
	snap, vector, err := db.prepareQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return db.orchestrator.Answer(ctx, snap, profile, vector)
}

// AnswerTopK is Answer with an explicit evidence limit per scheme.
func (db *Database) AnswerTopK(ctx context.Context, profile core.UserProfile, question string, topK int) ([]core.EvaluationResult, error) {
	snap, vector, err := db.prepareQuery(ctx, question)
	if err != nil {
		return nil, err
	}
	return db.orchestrator.AnswerTopK(ctx, snap, profile, vector, topK)
}

// prepareQuery pins the live snapshot and embeds the question as a unit vector.
func (db *Database) prepareQuery(ctx context.Context, question string) (*snapshot.Snapshot, []float32, error) {
	if strings.TrimSpace(question) == "" {
		return nil, nil, retrieval.ErrEmptyQuery
	}
	snap, err := db.holder.Load()
	if err != nil {
		return nil, nil, err
	}

	vector, err := db.queryEmbedder.EmbedText(ctx, question)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingUnavailable, err)
	}
	return snap, ai.NormalizeVector(vector), nil
}

// Ingest runs the ingestion pipeline for m and, on success, makes the new
// dataset live.
func (db *Database) Ingest(ctx context.Context, m *ingestion.Manifest, opts ...ingestion.Option) (*storage.DatasetInfo, error) {
	pipeline, err := db.NewIngestionPipeline(opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	info, err := pipeline.Run(ctx, m)
	if err != nil {
		return nil, err
	}
	if _, err := db.Reload(ctx); err != nil {
		return info, fmt.Errorf("dataset saved but not loaded: %w", err)
	}
	return info, nil
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.datasetRepo, db.embedder, opts...)
}

func (db *Database) DatasetRepository() storage.DatasetRepository {
	return db.datasetRepo
}

func (db *Database) Embedder() ai.Embedder {
	return db.embedder
}
