// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package main

import (
	"github.com/paperlens-dev/paperlens/internal/analysis"
	"github.com/paperlens-dev/paperlens/internal/config"
	"github.com/paperlens-dev/paperlens/internal/document"
	"github.com/paperlens-dev/paperlens/internal/index"
	_ "github.com/paperlens-dev/paperlens/internal/index/file"   // register file backend
	_ "github.com/paperlens-dev/paperlens/internal/index/sqlite" // register sqlite backend
	"github.com/paperlens-dev/paperlens/internal/job"
	"github.com/paperlens-dev/paperlens/internal/provider"
	anthropicprov "github.com/paperlens-dev/paperlens/internal/provider/anthropic"
	groqprov "github.com/paperlens-dev/paperlens/internal/provider/groq"
	offlineprov "github.com/paperlens-dev/paperlens/internal/provider/offline"
	openaiprov "github.com/paperlens-dev/paperlens/internal/provider/openai"
	"github.com/paperlens-dev/paperlens/internal/server"
	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
)

// App holds all wired subsystems and manages their lifecycle.
type App struct {
	Server    *server.Server
	Pipelines *analysis.Service
	Executor  *job.Executor
	Store     index.Store
	Embedder  provider.Embedder
	Generator provider.Generator
}

// WireApp creates all subsystems and wires them together. withServer is
// false for one-shot CLI runs that never listen.
func WireApp(cfg *config.Config, withServer bool) (*App, error) {
	registry := provider.NewRegistry()
	registerBuiltinBackends(registry)

	embedder, err := registry.Embedder(cfg.Providers.Embedding)
	if err != nil {
		return nil, plerr.Wrap(err, plerr.CodeCLISetupFailure, "creating embedding provider")
	}
	generator, err := registry.Generator(cfg.Providers.Generation)
	if err != nil {
		return nil, plerr.Wrap(err, plerr.CodeCLISetupFailure, "creating generation provider")
	}

	store, err := index.NewStore(cfg.Index, embedder.Dimensions())
	if err != nil {
		return nil, plerr.Wrap(err, plerr.CodeCLISetupFailure, "creating index store")
	}

	docs := document.NewDirStore(cfg.Uploads.Dir)
	pipelines := analysis.NewService(docs, embedder, generator, store, analysis.Options{
		ChunkSize:      cfg.Chunking.Size,
		ChunkOverlap:   cfg.Chunking.Overlap,
		EmbedBatchSize: cfg.Providers.Embedding.BatchSize,
		TopK:           cfg.Retrieval.TopK,
	})

	app := &App{
		Pipelines: pipelines,
		Store:     store,
		Embedder:  embedder,
		Generator: generator,
	}

	if !withServer {
		return app, nil
	}

	app.Executor = job.NewExecutor(cfg.Jobs.Workers, cfg.Jobs.QueueDepth)

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	if err != nil {
		app.Executor.Close()
		_ = store.Close()
		return nil, plerr.Wrap(err, plerr.CodeCLISetupFailure, "creating server")
	}
	srv.RegisterPipelines(&server.Dependencies{
		Pipelines: pipelines,
		Jobs:      app.Executor,
	})
	app.Server = srv

	return app, nil
}

// Close drains the executor and releases the index store.
func (a *App) Close() error {
	if a.Executor != nil {
		a.Executor.Close()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// registerBuiltinBackends wires the concrete provider constructors into the
// registry. The offline backends never fail to construct, which keeps a
// credential-less deployment fully functional.
func registerBuiltinBackends(r *provider.Registry) {
	r.RegisterEmbedder("offline", func(c config.EmbeddingConfig) (provider.Embedder, error) {
		return offlineprov.NewEmbedder(c.Dimensions), nil
	})
	r.RegisterEmbedder("groq", func(c config.EmbeddingConfig) (provider.Embedder, error) {
		return groqprov.NewEmbedder(groqprov.Config{
			APIKey:            c.APIKey,
			EmbeddingEndpoint: c.Endpoint,
			EmbeddingTimeout:  c.Timeout,
		}, c.Dimensions)
	})
	r.RegisterEmbedder("openai", func(c config.EmbeddingConfig) (provider.Embedder, error) {
		return openaiprov.NewEmbedder(openaiprov.Config{
			APIKey:  c.APIKey,
			BaseURL: c.Endpoint,
			Model:   c.Model,
		}, c.Dimensions)
	})

	r.RegisterGenerator("offline", func(_ config.GenerationConfig) (provider.Generator, error) {
		return offlineprov.NewGenerator(0), nil
	})
	r.RegisterGenerator("groq", func(c config.GenerationConfig) (provider.Generator, error) {
		return groqprov.NewGenerator(groqprov.Config{
			APIKey:           c.APIKey,
			GenerateEndpoint: c.Endpoint,
			GenerateTimeout:  c.Timeout,
		}, c.MaxTokens)
	})
	r.RegisterGenerator("openai", func(c config.GenerationConfig) (provider.Generator, error) {
		return openaiprov.NewGenerator(openaiprov.Config{
			APIKey:  c.APIKey,
			BaseURL: c.Endpoint,
			Model:   c.Model,
		}, c.MaxTokens)
	})
	r.RegisterGenerator("anthropic", func(c config.GenerationConfig) (provider.Generator, error) {
		return anthropicprov.NewGenerator(anthropicprov.Config{
			APIKey:  c.APIKey,
			BaseURL: c.Endpoint,
			Model:   c.Model,
		}, c.MaxTokens)
	})
}
