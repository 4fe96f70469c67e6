// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package index

import (
	"sync"

	"github.com/paperlens-dev/paperlens/internal/config"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// StoreFactory creates a Store from the index configuration.
type StoreFactory func(cfg config.IndexConfig, dims int) (Store, error)

var (
	factories   = map[string]StoreFactory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named index backend. Backend
// packages call this from init(). Goroutine-safe.
func RegisterBackend(name string, f StoreFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// NewStore creates the Store selected by cfg.Backend, defaulting to "file".
func NewStore(cfg config.IndexConfig, dims int) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "file"
	}

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, plerr.New(plerr.CodeIndexBackendUnknown,
			"unsupported index backend: "+backend, plerr.FieldBackend(backend))
	}

	return factory(cfg, dims)
}
