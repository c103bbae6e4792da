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

package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidScheme indicates a Scheme failed validation.
	ErrInvalidScheme = errors.New("invalid scheme")

	// ErrInvalidBenefit indicates a Benefit failed validation.
	ErrInvalidBenefit = errors.New("invalid benefit")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a DocumentChunk failed validation.
	ErrInvalidChunk = errors.New("invalid document chunk")

	// ErrEmptyID indicates an identifier field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptyContent indicates a text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyVector indicates a chunk carries no embedding.
	ErrEmptyVector = errors.New("vector cannot be empty")

	// ErrMissingProvenance indicates a fact has no traceable source text.
	ErrMissingProvenance = errors.New("provenance is required")

	// ErrUnknownLabel indicates a label name outside the three determinations.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrUnknownVerdict indicates a verdict name outside the three outcomes.
	ErrUnknownVerdict = errors.New("unknown verdict")

	// ErrInvalidOffsets indicates chunk character offsets are out of order.
	ErrInvalidOffsets = errors.New("invalid character offsets")
)
