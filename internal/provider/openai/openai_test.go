// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package openai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/provider/openai"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

func TestNewEmbedder_MissingAPIKey(t *testing.T) {
	_, err := openai.NewEmbedder(openai.Config{}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderCredentialAbsent))
}

func TestNewGenerator_MissingAPIKey(t *testing.T) {
	_, err := openai.NewGenerator(openai.Config{}, 0)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeProviderCredentialAbsent))
}

func TestNewEmbedder_Defaults(t *testing.T) {
	e, err := openai.NewEmbedder(openai.Config{APIKey: "test-key-not-real"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "openai", e.Name())
	assert.Equal(t, 1536, e.Dimensions())
}

func TestNewEmbedder_ExplicitDimensions(t *testing.T) {
	e, err := openai.NewEmbedder(openai.Config{APIKey: "test-key-not-real"}, 256)
	require.NoError(t, err)
	assert.Equal(t, 256, e.Dimensions())
}

func TestNewGenerator_Name(t *testing.T) {
	g, err := openai.NewGenerator(openai.Config{APIKey: "test-key-not-real"}, 0)
	require.NoError(t, err)
	assert.Equal(t, "openai", g.Name())
}
