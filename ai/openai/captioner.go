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


package openai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/picmem/picmem/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// captionPrompt is the fixed instruction sent with every image.
const captionPrompt = "Describe the image in detail."

// Captioner implements ai.Captioner using OpenAI-compatible vision chat APIs.
type Captioner struct {
	client llms.Model
	logger *slog.Logger
}

// newCaptioner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCaptioner(config *ai.Config) (*Captioner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.CaptionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Captioner{
		client: client,
		logger: slog.Default().With("component", "openai-captioner"),
	}, nil
}

// NewCaptioner creates a new captioner using the provided configuration.
//
// Returns ai.Captioner interface to enforce abstraction.
func NewCaptioner(config *ai.Config) (ai.Captioner, error) {
	return newCaptioner(config)
}

// Caption describes the given image using a vision-capable chat model.
// The image is sent as an inline binary part alongside the fixed prompt.
func (c *Captioner) Caption(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", errors.New("empty image")
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(captionPrompt),
				llms.BinaryPart(http.DetectContentType(image), image),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.2))
	if err != nil {
		c.logger.Error("failed to generate caption", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", errors.New("captioning model returned no choices")
	}

	caption := strings.TrimSpace(response.Choices[0].Content)
	if caption == "" {
		return "", errors.New("captioning model returned empty description")
	}

	return caption, nil
}
