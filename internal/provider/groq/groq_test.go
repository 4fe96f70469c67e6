// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package groq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/provider/groq"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := groq.NewEmbedder(groq.Config{}, 64)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderCredentialAbsent))
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := groq.NewGenerator(groq.Config{}, 0)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderCredentialAbsent))
}

func TestEmbedder_SendsBatchAndDecodes(t *testing.T) {
	var gotAuth string
	var gotInput []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotInput = req.Input

		resp := map[string]any{"data": []map[string]any{
			{"embedding": []float32{0.1, 0.2}},
			{"embedding": []float32{0.3, 0.4}},
		}}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	e, err := groq.NewEmbedder(groq.Config{APIKey: "key", EmbeddingEndpoint: srv.URL}, 2)
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), []string{"one", "two"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.3, 0.4}, vectors[1])
	assert.Equal(t, "Bearer key", gotAuth)
	assert.Equal(t, []string{"one", "two"}, gotInput)
}

func TestEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1]}]}`))
	}))
	defer srv.Close()

	e, err := groq.NewEmbedder(groq.Config{APIKey: "key", EmbeddingEndpoint: srv.URL}, 1)
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"one", "two"})
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderResponseInvalid))
}

func TestEmbedder_EmptyInputSkipsNetwork(t *testing.T) {
	e, err := groq.NewEmbedder(groq.Config{APIKey: "key", EmbeddingEndpoint: "http://127.0.0.1:1"}, 1)
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}

func TestGenerator_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	g, err := groq.NewGenerator(groq.Config{APIKey: "key", GenerateEndpoint: srv.URL}, 0)
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderUpstreamFailure))
}

func TestGenerator_SendsPromptAndMaxTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt    string `json:"prompt"`
			MaxTokens int    `json:"max_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "summarize this", req.Prompt)
		assert.Equal(t, 256, req.MaxTokens)

		_, _ = w.Write([]byte(`{"output":"a summary"}`))
	}))
	defer srv.Close()

	g, err := groq.NewGenerator(groq.Config{APIKey: "key", GenerateEndpoint: srv.URL}, 256)
	require.NoError(t, err)

	out, err := g.Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "a summary", out)
}
