// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Paperlens Contributors

package config

import (
	"errors"
	"strings"
	"time"

	plerr "github.com/paperlens-dev/paperlens/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the top-level paperlens configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Uploads   UploadsConfig   `mapstructure:"uploads"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Index     IndexConfig     `mapstructure:"index"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

// ServerConfig controls how paperlens listens for connections.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// UploadsConfig locates extracted document text.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// ProvidersConfig selects embedding and generation backends.
type ProvidersConfig struct {
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Generation GenerationConfig `mapstructure:"generation"`
}

// EmbeddingConfig holds credentials and tuning for the embedding provider.
// Backend "auto" resolves to the remote backend when an API key is set and
// to the deterministic offline embedder otherwise.
type EmbeddingConfig struct {
	Backend    string        `mapstructure:"backend"`
	APIKey     string        `mapstructure:"api_key"`
	Endpoint   string        `mapstructure:"endpoint"`
	Model      string        `mapstructure:"model"`
	Dimensions int           `mapstructure:"dimensions"`
	BatchSize  int           `mapstructure:"batch_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// GenerationConfig holds credentials and tuning for the generation provider.
type GenerationConfig struct {
	Backend   string        `mapstructure:"backend"`
	APIKey    string        `mapstructure:"api_key"`
	Endpoint  string        `mapstructure:"endpoint"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// IndexConfig selects the vector index backend.
type IndexConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
	Path    string `mapstructure:"path"`
}

// ChunkingConfig controls the sliding-window chunker.
type ChunkingConfig struct {
	Size    int `mapstructure:"size"`
	Overlap int `mapstructure:"overlap"`
}

// RetrievalConfig controls similarity search.
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"`
}

// JobsConfig controls the background job executor.
type JobsConfig struct {
	Workers    int `mapstructure:"workers"`
	QueueDepth int `mapstructure:"queue_depth"`
}

// SetDefaults installs default values on the given Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:8420")
	v.SetDefault("uploads.dir", "data/uploads")

	v.SetDefault("providers.embedding.backend", "auto")
	v.SetDefault("providers.embedding.dimensions", 64)
	v.SetDefault("providers.embedding.batch_size", 64)
	v.SetDefault("providers.embedding.timeout", 30*time.Second)

	v.SetDefault("providers.generation.backend", "auto")
	v.SetDefault("providers.generation.max_tokens", 512)
	v.SetDefault("providers.generation.timeout", 60*time.Second)

	v.SetDefault("index.backend", "file")
	v.SetDefault("index.dir", "data/index")
	v.SetDefault("index.path", "data/index.db")

	v.SetDefault("chunking.size", 800)
	v.SetDefault("chunking.overlap", 200)

	v.SetDefault("retrieval.top_k", 6)

	v.SetDefault("jobs.workers", 4)
	v.SetDefault("jobs.queue_depth", 64)
}

// SetupEnv binds environment variables with the PAPERLENS_ prefix.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("PAPERLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, plerr.Errorf(plerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// FromViper unmarshals and validates a Config from an already-initialised
// Viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, plerr.Errorf(plerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, plerr.Errorf(plerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns all
// validation errors found rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateProviders()...)
	errs = append(errs, c.validateIndex()...)
	errs = append(errs, c.validateChunking()...)
	errs = append(errs, c.validateJobs()...)

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, plerr.New(plerr.CodeConfigValidateInvalidValue,
			"config: server.listen must not be empty"))
	}

	return errs
}

var (
	validEmbeddingBackends  = map[string]bool{"auto": true, "groq": true, "openai": true, "offline": true}
	validGenerationBackends = map[string]bool{"auto": true, "groq": true, "openai": true, "anthropic": true, "offline": true}
	validIndexBackends      = map[string]bool{"file": true, "sqlite": true}
)

func (c *Config) validateProviders() []error {
	var errs []error

	if !validEmbeddingBackends[c.Providers.Embedding.Backend] {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: providers.embedding.backend must be one of [auto, groq, openai, offline], got %q",
			c.Providers.Embedding.Backend))
	}
	if c.Providers.Embedding.Dimensions <= 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: providers.embedding.dimensions must be positive, got %d",
			c.Providers.Embedding.Dimensions))
	}
	if c.Providers.Embedding.BatchSize <= 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: providers.embedding.batch_size must be positive, got %d",
			c.Providers.Embedding.BatchSize))
	}

	if !validGenerationBackends[c.Providers.Generation.Backend] {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: providers.generation.backend must be one of [auto, groq, openai, anthropic, offline], got %q",
			c.Providers.Generation.Backend))
	}

	return errs
}

func (c *Config) validateIndex() []error {
	var errs []error

	if !validIndexBackends[c.Index.Backend] {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: index.backend must be one of [file, sqlite], got %q", c.Index.Backend))
	}

	return errs
}

func (c *Config) validateChunking() []error {
	var errs []error

	if c.Chunking.Size <= 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: chunking.size must be positive, got %d", c.Chunking.Size))
	}
	if c.Chunking.Overlap < 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: chunking.overlap must be non-negative, got %d", c.Chunking.Overlap))
	}
	if c.Chunking.Size > 0 && c.Chunking.Overlap >= c.Chunking.Size {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: chunking.overlap (%d) must be smaller than chunking.size (%d)",
			c.Chunking.Overlap, c.Chunking.Size))
	}

	return errs
}

func (c *Config) validateJobs() []error {
	var errs []error

	if c.Jobs.Workers <= 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: jobs.workers must be positive, got %d", c.Jobs.Workers))
	}
	if c.Jobs.QueueDepth <= 0 {
		errs = append(errs, plerr.Errorf(plerr.CodeConfigValidateInvalidValue,
			"config: jobs.queue_depth must be positive, got %d", c.Jobs.QueueDepth))
	}

	return errs
}
