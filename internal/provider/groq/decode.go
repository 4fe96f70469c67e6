// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package groq

import (
	"encoding/json"

	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Embedding envelopes observed in the wild. Each parser attempts one known
// shape and reports whether it matched; decodeEmbeddings tries them in
// order and fails with a typed error only when none match.

type embeddingParser func(raw []byte) ([][]float32, bool)

var embeddingParsers = []embeddingParser{
	parseDataEnvelope,
	parseEmbeddingsEnvelope,
}

func decodeEmbeddings(raw []byte) ([][]float32, error) {
	for _, parse := range embeddingParsers {
		if vectors, ok := parse(raw); ok {
			return vectors, nil
		}
	}
	return nil, plerr.New(plerr.CodeProviderResponseInvalid, "no embeddings found in response")
}

// parseDataEnvelope handles {"data": [{"embedding": [...]}, ...]} where
// individual items may use "vector" instead of "embedding".
func parseDataEnvelope(raw []byte) ([][]float32, bool) {
	var envelope struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
			Vector    []float32 `json:"vector"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Data) == 0 {
		return nil, false
	}

	vectors := make([][]float32, 0, len(envelope.Data))
	for _, item := range envelope.Data {
		switch {
		case len(item.Embedding) > 0:
			vectors = append(vectors, item.Embedding)
		case len(item.Vector) > 0:
			vectors = append(vectors, item.Vector)
		}
	}
	if len(vectors) == 0 {
		return nil, false
	}
	return vectors, true
}

// parseEmbeddingsEnvelope handles {"embeddings": [[...], ...]}.
func parseEmbeddingsEnvelope(raw []byte) ([][]float32, bool) {
	var envelope struct {
		Embeddings [][]float32 `json:"embeddings"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Embeddings) == 0 {
		return nil, false
	}
	return envelope.Embeddings, true
}

// Generation envelopes. Unlike embeddings, an unrecognized generation shape
// is not an error: the serialized body is returned as the answer so the
// pipeline stays usable against unknown deployments.

type generationParser func(raw []byte) (string, bool)

var generationParsers = []generationParser{
	parseOutputField,
	parseTextField,
	parseChoices,
}

func decodeGeneration(raw []byte) string {
	for _, parse := range generationParsers {
		if text, ok := parse(raw); ok {
			return text
		}
	}
	return string(raw)
}

func parseOutputField(raw []byte) (string, bool) {
	var envelope struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Output == "" {
		return "", false
	}
	return envelope.Output, true
}

func parseTextField(raw []byte) (string, bool) {
	var envelope struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Text == "" {
		return "", false
	}
	return envelope.Text, true
}

// parseChoices handles both completion-style {"choices":[{"text":...}]} and
// chat-style {"choices":[{"message":{"content":...}}]} envelopes.
func parseChoices(raw []byte) (string, bool) {
	var envelope struct {
		Choices []struct {
			Text    string `json:"text"`
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Choices) == 0 {
		return "", false
	}

	first := envelope.Choices[0]
	if first.Text != "" {
		return first.Text, true
	}
	if first.Message.Content != "" {
		return first.Message.Content, true
	}
	return "", false
}
