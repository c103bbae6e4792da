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

// Package storage provides the storage abstraction layer for yojana datasets.
//
// A dataset is the flat output of ingestion: scheme, criterion, benefit,
// document and jurisdiction nodes, the edges between them, and embedded
// document chunks. The repository persists datasets so a server can rebuild
// its in-memory snapshot without re-running ingestion.
//
// # Generations
//
// Each save writes a complete new generation under its own key prefix and
// then flips a single info record to point at it. Readers always see either
// the previous dataset or the new one, never a mix. Superseded generations
// are dropped after the flip.
//
// # Usage
//
// Open a backend and save what ingestion produced:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
//	repo, err := badger.NewDatasetRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	info, err := repo.SaveDataset(ctx, dataset)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(info.Generation, info.Chunks)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Encoding
//
// Records are encoded with mus-go primitives. Criterion values, which are
// untyped in the rule model, are written with a one-byte type tag and read
// back as bool, int64, float64, string or []any.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
