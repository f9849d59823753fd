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


// Package ai provides abstractions for the AI services used in picmem.
//
// This package defines interfaces for image captioning and text embedding.
// The ingestion pipeline and search layer depend only on these
// abstractions, never on a concrete client.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
package ai
