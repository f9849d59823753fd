// Copyright 2025 The picmem Authors
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

// ValidateImageRecord validates an ImageRecord before it may reach the index.
//
// Validation rules:
//   - Id must not be empty
//   - Text must not be empty
//   - Vector must be present and exactly EmbeddingDimensions long
//
// NOT validated (optional by design):
//   - Location (nil when no geotag could be resolved)
//   - CreatedAt (nil when no capture date could be determined)
func ValidateImageRecord(record *ImageRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidImageRecord)
	}

	if record.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImageRecord, ErrEmptyId)
	}

	if record.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImageRecord, ErrEmptyText)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidImageRecord, ErrMissingVector)
	}

	if len(record.Vector) != EmbeddingDimensions {
		return fmt.Errorf("%w: %w: got %d, want %d",
			ErrInvalidImageRecord, ErrVectorDimensions, len(record.Vector), EmbeddingDimensions)
	}

	return nil
}
