// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package groq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func TestDecodeEmbeddings_DataEnvelope(t *testing.T) {
	raw := []byte(`{"data":[{"embedding":[0.1,0.2]},{"embedding":[0.3,0.4]}]}`)

	vectors, err := decodeEmbeddings(raw)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.1, 0.2}, vectors[0])
}

func TestDecodeEmbeddings_DataEnvelopeVectorField(t *testing.T) {
	raw := []byte(`{"data":[{"vector":[1,2,3]}]}`)

	vectors, err := decodeEmbeddings(raw)
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, []float32{1, 2, 3}, vectors[0])
}

func TestDecodeEmbeddings_EmbeddingsEnvelope(t *testing.T) {
	raw := []byte(`{"embeddings":[[0.5],[0.6]]}`)

	vectors, err := decodeEmbeddings(raw)
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{0.6}, vectors[1])
}

func TestDecodeEmbeddings_UnknownShape(t *testing.T) {
	_, err := decodeEmbeddings([]byte(`{"results":[[1,2]]}`))
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderResponseInvalid))
}

func TestDecodeGeneration_KnownShapes(t *testing.T) {
	assert.Equal(t, "from output", decodeGeneration([]byte(`{"output":"from output"}`)))
	assert.Equal(t, "from text", decodeGeneration([]byte(`{"text":"from text"}`)))
	assert.Equal(t, "from choice text", decodeGeneration([]byte(`{"choices":[{"text":"from choice text"}]}`)))
	assert.Equal(t, "from message", decodeGeneration([]byte(`{"choices":[{"message":{"content":"from message"}}]}`)))
}

func TestDecodeGeneration_PrefersOutputOverChoices(t *testing.T) {
	raw := []byte(`{"output":"primary","choices":[{"text":"secondary"}]}`)
	assert.Equal(t, "primary", decodeGeneration(raw))
}

func TestDecodeGeneration_UnknownShapeReturnsRawBody(t *testing.T) {
	raw := `{"unexpected":"shape"}`
	assert.Equal(t, raw, decodeGeneration([]byte(raw)))
}
