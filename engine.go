// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package lectern

import (
	"context"
	"log/slog"

	"github.com/poiesic/lectern/ai"
	"github.com/poiesic/lectern/ai/openai"
	"github.com/poiesic/lectern/index"
	"github.com/poiesic/lectern/index/elastic"
	"github.com/poiesic/lectern/ingestion"
	"github.com/poiesic/lectern/search"
	"github.com/poiesic/lectern/storage"
	"github.com/poiesic/lectern/storage/badger"
)

// DefaultIndexName is the segment index used unless overridden.
const DefaultIndexName = "transcriptions"

// Engine wires the index client, the embedding service and local
// checkpoint storage into one handle the callers build searchers and
// pipelines from.
type Engine struct {
	client         index.Client
	embedder       ai.Embedder
	backend        *badger.Backend
	checkpointRepo storage.CheckpointRepository
	indexName      string
	logger         *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	elasticConfig *elastic.Config
	aiConfig      *ai.Config
	indexName     string
	statePath     string
	noEmbeddings  bool
}

// WithElasticConfig sets the index service connection settings.
func WithElasticConfig(cfg *elastic.Config) EngineOption {
	return func(o *engineOptions) {
		o.elasticConfig = cfg
	}
}

// WithAIConfig sets the embedding service settings.
func WithAIConfig(cfg *ai.Config) EngineOption {
	return func(o *engineOptions) {
		o.aiConfig = cfg
	}
}

// WithIndexName overrides DefaultIndexName.
func WithIndexName(name string) EngineOption {
	return func(o *engineOptions) {
		o.indexName = name
	}
}

// WithStatePath enables resumable ingestion, persisting checkpoints in a
// local database at the given directory.
func WithStatePath(path string) EngineOption {
	return func(o *engineOptions) {
		o.statePath = path
	}
}

// WithoutEmbeddings disables the embedding service entirely. Semantic
// searches run as enhanced.
func WithoutEmbeddings() EngineOption {
	return func(o *engineOptions) {
		o.noEmbeddings = true
	}
}

// NewEngine connects to the index service and, unless disabled,
// configures the embedding client. The embedding service itself is only
// reached per request; a failure there is not fatal and semantic
// searches degrade to enhanced.
func NewEngine(opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		elasticConfig: elastic.DefaultConfig(),
		aiConfig:      ai.DefaultConfig(),
		indexName:     DefaultIndexName,
	}
	for _, opt := range opts {
		opt(options)
	}

	logger := slog.Default().With("component", "engine")

	client, err := elastic.NewClient(options.elasticConfig)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		client:    client,
		indexName: options.indexName,
		logger:    logger,
	}

	if !options.noEmbeddings {
		embedder, err := openai.NewEmbedder(options.aiConfig)
		if err != nil {
			logger.Warn("embedding service unavailable, semantic search disabled", "err", err)
		} else {
			e.embedder = embedder
		}
	}

	if options.statePath != "" {
		backend, err := badger.OpenBackend(options.statePath, false)
		if err != nil {
			return nil, err
		}
		e.backend = backend
		e.checkpointRepo = badger.NewCheckpointRepository(backend)
	}

	return e, nil
}

// Close releases the engine's local resources.
func (e *Engine) Close() error {
	if e.backend != nil {
		if err := e.backend.Close(); err != nil {
			e.logger.Error("error closing state storage", "err", err)
			return err
		}
	}
	return nil
}

// Client returns the underlying index client.
func (e *Engine) Client() index.Client {
	return e.client
}

// IndexName returns the segment index the engine operates on.
func (e *Engine) IndexName() string {
	return e.indexName
}

// CheckpointRepository returns the checkpoint store, or nil when no state
// path was configured.
func (e *Engine) CheckpointRepository() storage.CheckpointRepository {
	return e.checkpointRepo
}

// NewSearcher builds a searcher over the engine's index. The embedder is
// attached when available so semantic mode works out of the box.
func (e *Engine) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	if e.embedder != nil {
		opts = append([]search.Option{search.WithEmbedder(e.embedder)}, opts...)
	}
	return search.NewSearcher(e.client, e.indexName, opts...)
}

// NewPipeline builds an ingestion pipeline over the engine's index, with
// checkpointing when a state path was configured.
func (e *Engine) NewPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if e.checkpointRepo != nil {
		opts = append([]ingestion.Option{ingestion.WithCheckpoints(e.checkpointRepo)}, opts...)
	}
	return ingestion.NewPipeline(e.client, e.indexName, opts...)
}

// NewEnricher builds an embedding enricher over the engine's index.
// Requires the embedding service.
func (e *Engine) NewEnricher(opts ...ingestion.EnricherOption) (*ingestion.Enricher, error) {
	if e.embedder == nil {
		return nil, ingestion.ErrEmbedderRequired
	}
	if e.checkpointRepo != nil {
		opts = append([]ingestion.EnricherOption{ingestion.WithEnrichCheckpoints(e.checkpointRepo)}, opts...)
	}
	return ingestion.NewEnricher(e.client, e.embedder, e.indexName, opts...)
}

// Health probes the index service and reports its identity.
func (e *Engine) Health(ctx context.Context) (*index.ClusterInfo, bool) {
	if !e.client.Ping(ctx) {
		return nil, false
	}
	info, err := e.client.Info(ctx)
	if err != nil {
		e.logger.Warn("cluster info unavailable", "err", err)
		return nil, true
	}
	return info, true
}
