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

import "errors"

// Domain validation errors
var (
	// ErrInvalidImageRecord indicates an ImageRecord failed validation.
	ErrInvalidImageRecord = errors.New("invalid image record")

	// ErrEmptyId indicates the Id field is empty.
	ErrEmptyId = errors.New("record id cannot be empty")

	// ErrEmptyText indicates the Text field is empty.
	ErrEmptyText = errors.New("record text cannot be empty")

	// ErrMissingVector indicates the Vector field is empty.
	ErrMissingVector = errors.New("record vector cannot be empty")

	// ErrVectorDimensions indicates a vector of the wrong length.
	ErrVectorDimensions = errors.New("record vector has wrong dimensions")
)
