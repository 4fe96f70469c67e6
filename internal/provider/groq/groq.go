// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

// Package groq implements the remote embedding and generation backends
// against Groq-style HTTP endpoints. Response envelopes vary between
// deployments, so decoding tries an ordered list of known shapes.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

const (
	defaultEmbeddingEndpoint = "https://api.groq.com/v1/embeddings"
	defaultGenerateEndpoint  = "https://api.groq.com/v1/generate"

	defaultEmbeddingTimeout = 30 * time.Second
	defaultGenerateTimeout  = 60 * time.Second
)

// Config holds credentials and endpoints for the Groq backends.
type Config struct {
	APIKey            string
	EmbeddingEndpoint string
	GenerateEndpoint  string
	EmbeddingTimeout  time.Duration
	GenerateTimeout   time.Duration
}

func (c Config) embeddingEndpoint() string {
	if c.EmbeddingEndpoint != "" {
		return c.EmbeddingEndpoint
	}
	return defaultEmbeddingEndpoint
}

func (c Config) generateEndpoint() string {
	if c.GenerateEndpoint != "" {
		return c.GenerateEndpoint
	}
	return defaultGenerateEndpoint
}

// postJSON sends one authenticated JSON request and returns the raw
// response body. Non-2xx statuses are upstream failures; calls are never
// retried here.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderRequestInvalid, "marshalling request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderRequestInvalid, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "calling %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, plerr.Wrapf(err, plerr.CodeProviderUpstreamFailure, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, plerr.Errorf(plerr.CodeProviderUpstreamFailure,
			"endpoint %s returned status %d: %s", url, resp.StatusCode, string(body))
	}

	return body, nil
}
