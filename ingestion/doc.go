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

// Package ingestion turns published scheme guidelines into a persisted dataset.
//
// A YAML Manifest names the schemes with their extracted criteria and
// benefits, and the source documents they cite. The Pipeline:
//   - reads each document's page text from a PDF or from inline pages
//   - splits every page into sentence-grouped chunks
//   - embeds the chunks in batches on a worker pool, retrying with backoff
//   - assembles nodes, edges and chunks into a snapshot.Dataset
//   - validates the dataset by building a snapshot from it
//   - saves it through a storage.DatasetRepository
//
// A dataset that fails validation is never saved, so the repository always
// holds the last dataset that could be served.
package ingestion
