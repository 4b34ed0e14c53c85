package main

import (
	"errors"

	"go.uber.org/zap"

	"github.com/paperchase/paperchase/internal/arxiv"
	"github.com/paperchase/paperchase/internal/config"
	"github.com/paperchase/paperchase/internal/corpus"
	"github.com/paperchase/paperchase/internal/embedding"
	"github.com/paperchase/paperchase/internal/generate"
	"github.com/paperchase/paperchase/internal/keyword"
	"github.com/paperchase/paperchase/internal/lexical"
	"github.com/paperchase/paperchase/internal/pipeline"
	"github.com/paperchase/paperchase/internal/reader"
	"github.com/paperchase/paperchase/internal/rerank"
	"github.com/paperchase/paperchase/internal/semantic"
)

// mustLoadConfig loads the config file or exits with a config error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// newLogger builds the process logger. Human mode keeps stdout clean for
// command output, so logs always go to stderr.
func newLogger() *zap.Logger {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newGenerator constructs the text-generation backend selected by config.
// The choice happens once here; everything downstream sees the interface.
func newGenerator(cfg *config.Config) generate.Generator {
	if cfg.Backend == config.BackendRemote {
		return generate.NewOpenAIGenerator(generate.OpenAIConfig{
			APIKey:  config.APIKey(cfg.Generation.APIKeyEnv),
			BaseURL: cfg.Generation.Endpoint,
			Model:   cfg.Generation.Model,
		})
	}

	var opts []generate.OllamaOption
	if cfg.Generation.Endpoint != "" {
		opts = append(opts, generate.WithBaseURL(cfg.Generation.Endpoint))
	}
	if cfg.Generation.Model != "" {
		opts = append(opts, generate.WithModel(cfg.Generation.Model))
	}
	return generate.NewOllamaGenerator(opts...)
}

// newEmbedder constructs the embedding backend selected by config.
func newEmbedder(cfg *config.Config) embedding.Provider {
	if cfg.Backend == config.BackendRemote {
		return embedding.NewOpenAIProvider(embedding.OpenAIConfig{
			APIKey:     config.APIKey(cfg.Embedding.APIKeyEnv),
			BaseURL:    cfg.Embedding.Endpoint,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	}

	var opts []embedding.OllamaOption
	if cfg.Embedding.Endpoint != "" {
		opts = append(opts, embedding.WithBaseURL(cfg.Embedding.Endpoint))
	}
	if cfg.Embedding.Model != "" {
		opts = append(opts, embedding.WithModel(cfg.Embedding.Model))
	}
	return embedding.NewOllamaProvider(opts...)
}

// newAnnotator wires the annotation generator to its persistent cache.
func newAnnotator(cfg *config.Config, generator generate.Generator) *reader.Annotator {
	cache, err := reader.OpenFileCache(cfg.CachePath())
	if err != nil {
		exitWithError(ExitConfigError, "opening annotation cache: %v", err)
	}
	return reader.NewAnnotator(generator, cache)
}

// buildSearchPipeline wires the offline search path. The returned closer
// releases the lexical index handle.
func buildSearchPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, func() error) {
	retriever, err := lexical.Open(lexical.IndexPath(cfg.Root))
	if err != nil {
		if errors.Is(err, lexical.ErrIndexUnavailable) {
			exitWithError(ExitIndexNotFound, "lexical index not found; run 'paperchase index build'")
		}
		exitWithError(ExitError, "opening lexical index: %v", err)
	}

	generator := newGenerator(cfg)
	pipe := pipeline.New(pipeline.Config{
		Retriever: retriever,
		Documents: corpus.DefaultStore(cfg.Root),
		Reranker:  rerank.NewReranker(rerank.NewHTTPScorer(cfg.Rerank.Endpoint)),
		Annotator: newAnnotator(cfg, generator),
		Logger:    logger,
	})
	return pipe, retriever.Close
}

// buildServerPipeline wires both the offline and online paths into one
// pipeline for the HTTP server. The semantic store is returned so the
// server can persist discovery upserts.
func buildServerPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, *semantic.Store, func() error) {
	retriever, err := lexical.Open(lexical.IndexPath(cfg.Root))
	if err != nil {
		if errors.Is(err, lexical.ErrIndexUnavailable) {
			exitWithError(ExitIndexNotFound, "lexical index not found; run 'paperchase index build'")
		}
		exitWithError(ExitError, "opening lexical index: %v", err)
	}

	generator := newGenerator(cfg)
	store, err := semantic.Open(semantic.IndexPath(cfg.Root), newEmbedder(cfg))
	if err != nil {
		exitWithError(ExitError, "opening semantic index: %v", err)
	}

	pipe := pipeline.New(pipeline.Config{
		Retriever: retriever,
		Documents: corpus.DefaultStore(cfg.Root),
		Reranker:  rerank.NewReranker(rerank.NewHTTPScorer(cfg.Rerank.Endpoint)),
		Annotator: newAnnotator(cfg, generator),
		Keywords:  keyword.NewExtractor(generator),
		Fetcher:   arxiv.NewClient(),
		Vectors:   store,
		Logger:    logger,
	})
	return pipe, store, retriever.Close
}

// buildDiscoverPipeline wires the online discovery path on top of the
// offline collaborators it shares (generator, embedder). The semantic store
// is returned alongside the pipeline: upserts live in memory until the
// caller saves, so every successful discovery must be followed by a Save.
func buildDiscoverPipeline(cfg *config.Config, logger *zap.Logger) (*pipeline.Pipeline, *semantic.Store) {
	generator := newGenerator(cfg)
	store, err := semantic.Open(semantic.IndexPath(cfg.Root), newEmbedder(cfg))
	if err != nil {
		exitWithError(ExitError, "opening semantic index: %v", err)
	}

	pipe := pipeline.New(pipeline.Config{
		Keywords: keyword.NewExtractor(generator),
		Fetcher:  arxiv.NewClient(),
		Vectors:  store,
		Logger:   logger,
	})
	return pipe, store
}
