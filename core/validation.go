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

import "fmt"

// ValidateScheme validates a Scheme according to domain rules.
//
// Validation rules:
//   - ID and Name must not be empty
//   - at least one jurisdiction must be listed
func ValidateScheme(scheme *Scheme) error {
	if scheme == nil {
		return fmt.Errorf("%w: scheme is nil", ErrInvalidScheme)
	}
	if scheme.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidScheme, ErrEmptyID)
	}
	if scheme.Name == "" {
		return fmt.Errorf("%w: %s: name: %w", ErrInvalidScheme, scheme.Id, ErrEmptyContent)
	}
	if len(scheme.Jurisdictions) == 0 {
		return fmt.Errorf("%w: %s: no jurisdictions", ErrInvalidScheme, scheme.Id)
	}
	return nil
}

// ValidateBenefit validates a Benefit. Benefits must cite a document.
func ValidateBenefit(benefit *Benefit) error {
	if benefit == nil {
		return fmt.Errorf("%w: benefit is nil", ErrInvalidBenefit)
	}
	if benefit.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidBenefit, ErrEmptyID)
	}
	if err := ValidateProvenance(benefit.Provenance); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidBenefit, benefit.Id, err)
	}
	return nil
}

// ValidateDocument validates a Document.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if doc.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}
	return nil
}

// ValidateProvenance checks that a provenance reference names a document.
func ValidateProvenance(p Provenance) error {
	if p.DocumentID == "" {
		return ErrMissingProvenance
	}
	return nil
}

// ValidateChunk validates a DocumentChunk according to domain rules.
//
// Validation rules:
//   - ID and DocumentID must not be empty
//   - Text must not be empty
//   - Vector must not be empty
//   - Start must not exceed End
//
// NOT validated:
//   - Vector normalization (the caller owns it)
func ValidateChunk(chunk *DocumentChunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}
	if chunk.Id == "" || chunk.DocumentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyID)
	}
	if chunk.Text == "" {
		return fmt.Errorf("%w: %s: %w", ErrInvalidChunk, chunk.Id, ErrEmptyContent)
	}
	if len(chunk.Vector) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidChunk, chunk.Id, ErrEmptyVector)
	}
	if chunk.Start < 0 || chunk.End < chunk.Start {
		return fmt.Errorf("%w: %s: %w", ErrInvalidChunk, chunk.Id, ErrInvalidOffsets)
	}
	return nil
}
