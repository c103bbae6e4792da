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


package snapshot

import "errors"

var (
	// ErrNoSnapshot is returned when no snapshot has been loaded yet.
	ErrNoSnapshot = errors.New("no snapshot loaded")

	// ErrDatasetRequired is returned when Build is given a nil dataset.
	ErrDatasetRequired = errors.New("dataset required")

	// ErrUnknownDocument is returned when a chunk names a document that is
	// not a node of the dataset.
	ErrUnknownDocument = errors.New("chunk references unknown document")
)
