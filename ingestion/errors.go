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

import "errors"

var (
	// ErrRepositoryRequired is returned when a dataset repository is not provided.
	ErrRepositoryRequired = errors.New("dataset repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrManifestRequired is returned when Run is called without a manifest.
	ErrManifestRequired = errors.New("manifest required")

	// ErrInvalidManifest indicates a manifest entry that cannot be turned into a node.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrNoDocumentText indicates a document with neither a PDF nor inline pages.
	ErrNoDocumentText = errors.New("document has no text source")

	// ErrInvalidMaxAttempts is returned for a retry policy without attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrRetriesExhausted wraps the last failure once every attempt has failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
