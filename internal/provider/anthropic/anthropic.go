// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package anthropic implements a generation backend on the Anthropic
// Messages API. Anthropic offers no embeddings endpoint, so there is no
// Embedder here.
package anthropic

import (
	"context"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/paperlens-dev/paperlens/internal/provider"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

const defaultModel = "claude-haiku-4-5"

// Config holds Anthropic backend configuration.
type Config struct {
	APIKey  string
	BaseURL string // optional, useful for testing against a mock server
	Model   string
}

// Compile-time interface check.
var _ provider.Generator = (*Generator)(nil)

// Generator wraps the Messages API.
type Generator struct {
	client    anthropicsdk.Client
	model     string
	maxTokens int
}

// NewGenerator creates an SDK-backed generator. Returns an error if the API
// key is missing.
func NewGenerator(cfg Config, maxTokens int) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, plerr.New(plerr.CodeProviderCredentialAbsent, "anthropic: missing api_key in config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &Generator{
		client:    anthropicsdk.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (g *Generator) Name() string { return "anthropic" }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Messages.New(ctx, anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(g.model),
		MaxTokens: int64(g.maxTokens),
		System: []anthropicsdk.TextBlockParam{
			{Text: "You are an academic assistant."},
		},
		Messages: []anthropicsdk.MessageParam{
			anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "anthropic: generation request")
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}

	if sb.Len() == 0 {
		return "", plerr.New(plerr.CodeProviderResponseInvalid, "anthropic: response has no text content")
	}
	return sb.String(), nil
}
