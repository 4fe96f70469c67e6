// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package index_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/index"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

type nopStore struct{}

func (nopStore) Upsert(_ context.Context, _ string, _ []index.Entry) (int, error) { return 0, nil }

func (nopStore) Load(_ context.Context, _ []string) ([]index.Entry, error) { return nil, nil }

func (nopStore) Close() error { return nil }

func TestNewStore_UnknownBackend(t *testing.T) {
	_, err := index.NewStore(config.IndexConfig{Backend: "etcd"}, 64)
	require.Error(t, err)
	assert.True(t, plerr.HasCode(err, plerr.CodeIndexBackendUnknown))
}

func TestNewStore_ResolvesRegisteredBackend(t *testing.T) {
	index.RegisterBackend("fake", func(_ config.IndexConfig, _ int) (index.Store, error) {
		return nopStore{}, nil
	})

	store, err := index.NewStore(config.IndexConfig{Backend: "fake"}, 64)
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestEntryID_Format(t *testing.T) {
	assert.Equal(t, "doc_0", index.EntryID("doc", 0))
	assert.Equal(t, "doc_12", index.EntryID("doc", 12))
}
