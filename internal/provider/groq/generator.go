// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package groq

import (
	"context"
	"net/http"

	"github.com/paperlens-dev/paperlens/internal/provider"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Compile-time interface check.
var _ provider.Generator = (*Generator)(nil)

// Generator calls the remote generation endpoint.
type Generator struct {
	cfg       Config
	maxTokens int
	client    *http.Client
}

// NewGenerator creates a remote generator. Returns an error if the API key
// is missing.
func NewGenerator(cfg Config, maxTokens int) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, plerr.New(plerr.CodeProviderCredentialAbsent, "groq: missing api_key in config")
	}

	if maxTokens <= 0 {
		maxTokens = 512
	}
	timeout := cfg.GenerateTimeout
	if timeout <= 0 {
		timeout = defaultGenerateTimeout
	}

	return &Generator{
		cfg:       cfg,
		maxTokens: maxTokens,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (g *Generator) Name() string { return "groq" }

type generateRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

// Generate posts the prompt and normalizes the response envelope. Transport
// and status failures surface as errors; an unrecognized body shape does
// not — the raw body is the answer of last resort.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := postJSON(ctx, g.client, g.cfg.generateEndpoint(), g.cfg.APIKey, generateRequest{
		Prompt:    prompt,
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", err
	}

	return decodeGeneration(body), nil
}
