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
var _ provider.Embedder = (*Embedder)(nil)

// Embedder calls the remote embedding endpoint with batched inputs.
type Embedder struct {
	cfg    Config
	dims   int
	client *http.Client
}

// NewEmbedder creates a remote embedder. Returns an error if the API key is
// missing — backend selection falls back to offline before this point, so a
// missing key here is a configuration mistake, not a fallback trigger.
func NewEmbedder(cfg Config, dims int) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, plerr.New(plerr.CodeProviderCredentialAbsent, "groq: missing api_key in config")
	}

	timeout := cfg.EmbeddingTimeout
	if timeout <= 0 {
		timeout = defaultEmbeddingTimeout
	}

	return &Embedder{
		cfg:    cfg,
		dims:   dims,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (e *Embedder) Name() string { return "groq" }

func (e *Embedder) Dimensions() int { return e.dims }

type embeddingRequest struct {
	Input []string `json:"input"`
}

// Embed sends one batch request and decodes the envelope. A vector count
// that does not match the input count is a hard error: silently dropping or
// padding vectors would desynchronize chunk ids from their embeddings.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := postJSON(ctx, e.client, e.cfg.embeddingEndpoint(), e.cfg.APIKey, embeddingRequest{Input: texts})
	if err != nil {
		return nil, err
	}

	vectors, err := decodeEmbeddings(body)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, plerr.Errorf(plerr.CodeProviderResponseInvalid,
			"embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(vectors))
	}
	return vectors, nil
}
