// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package provider

import (
	"log/slog"

	"github.com/paperlens-dev/paperlens/internal/config"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// Factories for the concrete backends, injected by the wiring layer so this
// package does not import its own subpackages.
type (
	EmbedderFactory  func(cfg config.EmbeddingConfig) (Embedder, error)
	GeneratorFactory func(cfg config.GenerationConfig) (Generator, error)
)

// Registry resolves configured backend names to constructed providers,
// applying the auto rule: remote when a credential is present, offline
// otherwise.
type Registry struct {
	embedders  map[string]EmbedderFactory
	generators map[string]GeneratorFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		embedders:  make(map[string]EmbedderFactory),
		generators: make(map[string]GeneratorFactory),
	}
}

// RegisterEmbedder adds an embedding backend factory under name.
func (r *Registry) RegisterEmbedder(name string, f EmbedderFactory) {
	r.embedders[name] = f
}

// RegisterGenerator adds a generation backend factory under name.
func (r *Registry) RegisterGenerator(name string, f GeneratorFactory) {
	r.generators[name] = f
}

// Embedder constructs the embedding provider selected by cfg.
func (r *Registry) Embedder(cfg config.EmbeddingConfig) (Embedder, error) {
	backend := resolveBackend(cfg.Backend, cfg.APIKey, "groq")

	factory, ok := r.embedders[backend]
	if !ok {
		return nil, plerr.New(plerr.CodeProviderBackendUnknown,
			"unknown embedding backend: "+backend, plerr.FieldBackend(backend))
	}

	e, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("embedding provider selected", "backend", e.Name(), "dimensions", e.Dimensions())
	return e, nil
}

// Generator constructs the generation provider selected by cfg.
func (r *Registry) Generator(cfg config.GenerationConfig) (Generator, error) {
	backend := resolveBackend(cfg.Backend, cfg.APIKey, "groq")

	factory, ok := r.generators[backend]
	if !ok {
		return nil, plerr.New(plerr.CodeProviderBackendUnknown,
			"unknown generation backend: "+backend, plerr.FieldBackend(backend))
	}

	g, err := factory(cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("generation provider selected", "backend", g.Name())
	return g, nil
}

// resolveBackend applies the auto rule. An explicit backend name is always
// honored; only "auto" (or empty) inspects the credential.
func resolveBackend(backend, apiKey, remote string) string {
	if backend != "" && backend != "auto" {
		return backend
	}
	if apiKey != "" {
		return remote
	}
	return "offline"
}
