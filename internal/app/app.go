// Package app wires configuration into a ready ScholarshipService. The
// server binary and the CLI share it.
package app

import (
	"context"
	"fmt"
	"time"

	"scholarship-engine/internal/catalog"
	"scholarship-engine/internal/common/config"
	"scholarship-engine/internal/common/database"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/corpus"
	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/essay"
	"scholarship-engine/internal/generation"
	"scholarship-engine/internal/matching"
	"scholarship-engine/internal/service"
	"scholarship-engine/internal/strategy"
)

const genAIRetryDelay = 500 * time.Millisecond

// Build loads the corpus and catalog once and assembles the service.
// conns may be nil when the configuration needs no backends.
func Build(ctx context.Context, cfg *config.Config, conns *database.Connections, log logger.Logger) (*service.ScholarshipService, error) {
	if conns == nil {
		conns = &database.Connections{}
	}

	embedder, err := NewEmbedder(cfg, conns, log)
	if err != nil {
		return nil, err
	}

	index, err := LoadCorpus(ctx, cfg, embedder.Model(), conns)
	if err != nil {
		return nil, err
	}
	log.Info("corpus loaded", map[string]interface{}{
		"source":    cfg.Corpus.Source,
		"size":      index.Len(),
		"metric":    string(index.Metric()),
		"dimension": index.Dimension(),
	})

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}

	selector, err := strategy.NewSelector(ctx, cat, embedder, strategy.Options{Feasibility: cfg.Strategy.Feasibility}, log)
	if err != nil {
		return nil, err
	}

	gen, err := NewGenerator(cfg)
	if err != nil {
		return nil, err
	}

	var explainer matching.Explainer
	if cfg.Matching.Reasoning {
		explainer = matching.NewTemplateExplainer()
	}
	engine := matching.NewEngine(embedder, explainer, matching.Config{
		TopN:        cfg.Matching.TopN,
		MaxTopN:     cfg.Matching.MaxTopN,
		MaxDistance: cfg.Matching.MaxDistance,
	}, log)

	composer := essay.NewComposer(gen, essay.Config{
		Timeout:     time.Duration(cfg.Essay.Timeout) * time.Millisecond,
		MaxTokens:   cfg.Essay.MaxTokens,
		Temperature: cfg.Essay.Temperature,
	}, log)

	return service.New(index, engine, selector, composer, service.Options{
		EssayRetries: cfg.Essay.Retries,
	}, log), nil
}

// LoadCorpus reads the configured corpus source into an Index.
func LoadCorpus(ctx context.Context, cfg *config.Config, model string, conns *database.Connections) (*corpus.Index, error) {
	var backends corpus.Backends
	if conns.Postgres != nil {
		backends.Postgres = conns.Postgres.DB
	}
	if conns.Elasticsearch != nil {
		backends.Elasticsearch = conns.Elasticsearch.Client
	}

	src, err := corpus.NewSource(cfg.Corpus, model, backends)
	if err != nil {
		return nil, err
	}
	return corpus.Load(ctx, src, cfg.Corpus.Source)
}

// NewEmbedder returns the configured embedder, behind the redis cache when
// embedding.cache_ttl is set.
func NewEmbedder(cfg *config.Config, conns *database.Connections, log logger.Logger) (embedding.Embedder, error) {
	var base embedding.Embedder
	switch cfg.Embedding.Provider {
	case "hashing":
		base = embedding.NewHashingEmbedder(cfg.Embedding.Dimension)
	case "openai", "":
		e, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			APIKey:     cfg.APIs.OpenAI.APIKey,
			BaseURL:    cfg.APIs.OpenAI.BaseURL,
			Model:      cfg.APIs.OpenAI.EmbeddingModel,
			MaxRetries: cfg.APIs.OpenAI.MaxRetries,
			RetryDelay: time.Duration(cfg.APIs.OpenAI.RetryDelay) * time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		base = e
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	if cfg.Embedding.CacheTTL <= 0 {
		return base, nil
	}
	if conns == nil || conns.Redis == nil {
		return nil, fmt.Errorf("embedding cache enabled but no redis connection")
	}
	return embedding.NewCachedEmbedder(base, conns.Redis.Client,
		time.Duration(cfg.Embedding.CacheTTL)*time.Millisecond, cfg.Embedding.KeyPrefix, log), nil
}

// NewGenerator returns the configured essay generation provider.
func NewGenerator(cfg *config.Config) (generation.Generator, error) {
	switch cfg.Essay.Provider {
	case "genai":
		return generation.NewGenAIGenerator(generation.GenAIConfig{
			BaseURL:    cfg.APIs.GenAI.BaseURL,
			APIKey:     cfg.APIs.GenAI.APIKey,
			MaxRetries: cfg.APIs.GenAI.MaxRetries,
			RetryDelay: genAIRetryDelay,
		})
	case "openai", "":
		return generation.NewOpenAIGenerator(generation.OpenAIConfig{
			APIKey:     cfg.APIs.OpenAI.APIKey,
			BaseURL:    cfg.APIs.OpenAI.BaseURL,
			Model:      cfg.APIs.OpenAI.ChatModel,
			MaxRetries: cfg.APIs.OpenAI.MaxRetries,
			RetryDelay: time.Duration(cfg.APIs.OpenAI.RetryDelay) * time.Millisecond,
		})
	default:
		return nil, fmt.Errorf("unknown essay provider %q", cfg.Essay.Provider)
	}
}
