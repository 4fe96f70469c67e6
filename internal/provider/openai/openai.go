// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package openai implements embedding and generation backends on the
// official OpenAI SDK, for deployments that point paperlens at OpenAI or an
// OpenAI-compatible endpoint.
package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
	"github.com/paperlens-dev/paperlens/internal/provider"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

const (
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultChatModel      = "gpt-4o"

	// text-embedding-3-small output width.
	defaultEmbeddingDims = 1536
)

// Config holds OpenAI backend configuration.
type Config struct {
	APIKey  string
	BaseURL string // optional, useful for testing against a mock server
	Model   string
}

func newClient(cfg Config) (openaisdk.Client, error) {
	if cfg.APIKey == "" {
		return openaisdk.Client{}, plerr.New(plerr.CodeProviderCredentialAbsent, "openai: missing api_key in config")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return openaisdk.NewClient(opts...), nil
}

// Compile-time interface checks.
var (
	_ provider.Embedder  = (*Embedder)(nil)
	_ provider.Generator = (*Generator)(nil)
)

// Embedder wraps the SDK embeddings API.
type Embedder struct {
	client openaisdk.Client
	model  string
	dims   int
}

// NewEmbedder creates an SDK-backed embedder. Returns an error if the API
// key is missing.
func NewEmbedder(cfg Config, dims int) (*Embedder, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = defaultEmbeddingModel
	}
	if dims <= 0 {
		dims = defaultEmbeddingDims
	}

	return &Embedder{client: client, model: model, dims: dims}, nil
}

func (e *Embedder) Name() string { return "openai" }

func (e *Embedder) Dimensions() int { return e.dims }

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "openai: embedding request")
	}

	if len(resp.Data) != len(texts) {
		return nil, plerr.Errorf(plerr.CodeProviderResponseInvalid,
			"embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, plerr.Errorf(plerr.CodeProviderResponseInvalid,
				"embedding index %d out of range", item.Index)
		}
		vec := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vec[i] = float32(v)
		}
		vectors[item.Index] = vec
	}
	return vectors, nil
}

// Generator wraps the SDK chat completions API.
type Generator struct {
	client    openaisdk.Client
	model     string
	maxTokens int
}

// NewGenerator creates an SDK-backed generator. Returns an error if the API
// key is missing.
func NewGenerator(cfg Config, maxTokens int) (*Generator, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = defaultChatModel
	}
	if maxTokens <= 0 {
		maxTokens = 1500
	}

	return &Generator{client: client, model: model, maxTokens: maxTokens}, nil
}

func (g *Generator) Name() string { return "openai" }

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage("You are an academic assistant."),
			openaisdk.UserMessage(prompt),
		},
		MaxCompletionTokens: param.NewOpt(int64(g.maxTokens)),
	})
	if err != nil {
		return "", plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "openai: generation request")
	}

	if len(resp.Choices) == 0 {
		return "", plerr.New(plerr.CodeProviderResponseInvalid, "openai: response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
