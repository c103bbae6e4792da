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

// Package index provides the in-memory semantic index over document chunks.
//
// Chunk vectors must be unit-normalized before they are added; cosine
// similarity is computed as a plain dot product. The index is built once per
// dataset and only read afterwards.
package index

import (
	"fmt"
	"slices"

	"github.com/poiesic/yojana/core"
)

// Filter restricts a search to chunks it accepts.
type Filter func(chunk *core.DocumentChunk) bool

// DocumentFilter accepts chunks belonging to any of the given documents.
func DocumentFilter(documentIDs ...core.ID) Filter {
	allowed := make(map[core.ID]bool, len(documentIDs))
	for _, id := range documentIDs {
		allowed[id] = true
	}
	return func(chunk *core.DocumentChunk) bool {
		return allowed[chunk.DocumentID]
	}
}

// Index holds one vector per chunk in insertion order.
type Index struct {
	chunks    []*core.DocumentChunk
	ids       map[core.ID]bool
	dimension int
}

// New creates an empty Index.
func New() *Index {
	return &Index{ids: make(map[core.ID]bool)}
}

// Add appends chunks to the index. The first chunk fixes the dimension.
// On error nothing from the batch is added.
func (ix *Index) Add(chunks ...*core.DocumentChunk) error {
	dim := ix.dimension
	batch := make(map[core.ID]bool, len(chunks))
	for _, c := range chunks {
		if err := core.ValidateChunk(c); err != nil {
			return err
		}
		if ix.ids[c.Id] || batch[c.Id] {
			return fmt.Errorf("%w: %s", ErrDuplicateChunk, c.Id)
		}
		if dim == 0 {
			dim = len(c.Vector)
		}
		if len(c.Vector) != dim {
			return fmt.Errorf("%w: chunk %s has %d, index has %d", ErrDimensionMismatch, c.Id, len(c.Vector), dim)
		}
		batch[c.Id] = true
	}

	ix.dimension = dim
	for _, c := range chunks {
		ix.ids[c.Id] = true
		ix.chunks = append(ix.chunks, c)
	}
	return nil
}

// Len returns the number of indexed chunks.
func (ix *Index) Len() int {
	return len(ix.chunks)
}

// Dimension returns the vector dimension, or 0 for an empty index.
func (ix *Index) Dimension() int {
	return ix.dimension
}

// Search returns up to k chunks with the highest similarity to query,
// considering only chunks accepted by filter when it is non-nil. Results are
// sorted by descending score; equal scores keep insertion order.
// An empty index or k <= 0 yields an empty result.
func (ix *Index) Search(query []float32, k int, filter Filter) ([]core.ScoredChunk, error) {
	if k <= 0 || len(ix.chunks) == 0 {
		return []core.ScoredChunk{}, nil
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), ix.dimension)
	}

	results := make([]core.ScoredChunk, 0, min(k, len(ix.chunks)))
	for _, c := range ix.chunks {
		if filter != nil && !filter(c) {
			continue
		}
		results = append(results, core.ScoredChunk{
			Chunk: c,
			Score: dotProduct(query, c.Vector),
		})
	}

	// Stable sort keeps insertion order among ties.
	slices.SortStableFunc(results, func(a, b core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
