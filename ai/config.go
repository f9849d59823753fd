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


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Host is the base URL for the OpenAI-compatible API serving both
	// captioning and embeddings.
	// Example: "https://api.openai.com/v1", "http://localhost:11434/v1"
	Host string

	// Token is the API credential. Use "none" for local services that
	// don't require authentication.
	Token string

	// CaptionModel is the vision-capable model used to describe images.
	// Example: "gpt-4o", "llava"
	CaptionModel string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-ada-002", "embeddinggemma"
	EmbeddingModel string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithHost sets the API host URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.Host = host
	}
}

// WithToken sets the API credential.
func WithToken(token string) ConfigOption {
	return func(c *Config) {
		c.Token = token
	}
}

// WithCaptionModel sets the vision model identifier.
func WithCaptionModel(model string) ConfigOption {
	return func(c *Config) {
		c.CaptionModel = model
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// DefaultConfig returns a Config with sensible defaults for a local
// OpenAI-compatible service.
func DefaultConfig() *Config {
	return &Config{
		Host:           "http://localhost:11434/v1",
		Token:          "none",
		CaptionModel:   "llava",
		EmbeddingModel: "embeddinggemma",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It adds the /v1 suffix to the host if missing, which is required by
// most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.Host != "" && !strings.HasSuffix(c.Host, "/v1") {
		c.Host = strings.TrimSuffix(c.Host, "/")
		c.Host = c.Host + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// A failed validation aborts the process before any pipeline work begins.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Host == "" {
		return errors.New("ai config: Host is required")
	}
	if c.Token == "" {
		return errors.New("ai config: Token is required")
	}
	if c.CaptionModel == "" {
		return errors.New("ai config: CaptionModel is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	return nil
}
