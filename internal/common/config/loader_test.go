package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// LoadFromFile Tests
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
embedding:
  provider: hashing
essay:
  provider: genai
apis:
  genai:
    base_url: http://genai.local
corpus:
  path: testdata/corpus.json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "scholarship-engine", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "file", cfg.Corpus.Source)
	assert.Equal(t, "cosine", cfg.Corpus.Metric)
	assert.Equal(t, 5, cfg.Matching.TopN)
	assert.Equal(t, 50, cfg.Matching.MaxTopN)
	assert.True(t, cfg.Matching.Reasoning)
	assert.InDelta(t, 1.0, cfg.Matching.MaxDistance, 1e-9)
	assert.True(t, cfg.Strategy.Feasibility)
	assert.False(t, cfg.Camunda.Enabled)
	assert.Equal(t, 1, cfg.Essay.Retries)
	assert.Equal(t, 90*time.Second, GetDuration(cfg.Essay.Timeout))
	assert.Equal(t, 512, cfg.Embedding.Dimension)
	assert.Equal(t, "gpt-4o-mini", cfg.APIs.OpenAI.ChatModel)
}

func TestLoadFromFile_ExplicitZeroDisablesDistanceThreshold(t *testing.T) {
	path := writeConfig(t, `
embedding:
  provider: hashing
essay:
  provider: genai
apis:
  genai:
    base_url: http://genai.local
corpus:
  path: testdata/corpus.json
matching:
  max_distance: 0
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.Matching.MaxDistance)
}

func TestLoadFromFile_ExpandsAndOverridesSecrets(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	t.Setenv("SCHOLAR_CORPUS", "/srv/corpus.json")

	path := writeConfig(t, `
corpus:
  path: ${SCHOLAR_CORPUS}
matching:
  top_n: 3
  reasoning: false
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "sk-from-env", cfg.APIs.OpenAI.APIKey)
	assert.Equal(t, "/srv/corpus.json", cfg.Corpus.Path)
	assert.Equal(t, 3, cfg.Matching.TopN)
	assert.False(t, cfg.Matching.Reasoning)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

// ==========================
// validateConfig Tests
// ==========================

func validBase() *Config {
	cfg := &Config{}
	cfg.Embedding.Provider = "hashing"
	cfg.Essay.Provider = "genai"
	cfg.APIs.GenAI.BaseURL = "http://genai.local"
	applyDefaults(cfg)
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid hashing + genai",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "openai embeddings need a key",
			mutate:  func(cfg *Config) { cfg.Embedding.Provider = "openai" },
			wantErr: "apis.openai.api_key",
		},
		{
			name:    "unknown embedding provider",
			mutate:  func(cfg *Config) { cfg.Embedding.Provider = "word2vec" },
			wantErr: "embedding.provider",
		},
		{
			name:    "cache without redis",
			mutate:  func(cfg *Config) { cfg.Embedding.CacheTTL = 60000 },
			wantErr: "database.redis.address",
		},
		{
			name:    "genai without base url",
			mutate:  func(cfg *Config) { cfg.APIs.GenAI.BaseURL = "" },
			wantErr: "apis.genai.base_url",
		},
		{
			name:    "postgres corpus without host",
			mutate:  func(cfg *Config) { cfg.Corpus.Source = "postgres" },
			wantErr: "database.postgres.host",
		},
		{
			name:    "elasticsearch corpus without addresses",
			mutate:  func(cfg *Config) { cfg.Corpus.Source = "elasticsearch" },
			wantErr: "database.elasticsearch.addresses",
		},
		{
			name:    "unknown metric",
			mutate:  func(cfg *Config) { cfg.Corpus.Metric = "dot" },
			wantErr: "corpus.metric",
		},
		{
			name:    "top_n above cap",
			mutate:  func(cfg *Config) { cfg.Matching.TopN = 80 },
			wantErr: "matching.top_n",
		},
		{
			name:    "negative distance threshold",
			mutate:  func(cfg *Config) { cfg.Matching.MaxDistance = -0.1 },
			wantErr: "matching.max_distance",
		},
		{
			name:    "camunda enabled without broker",
			mutate:  func(cfg *Config) { cfg.Camunda.Enabled = true },
			wantErr: "camunda.broker_address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"generate-essay": {Enabled: false, MaxJobsActive: 2, Timeout: 1000},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "generate-essay"))
	assert.True(t, IsWorkerEnabled(cfg, "match-scholarships"))
	assert.Equal(t, 2, GetWorkerConfig(cfg, "generate-essay").MaxJobsActive)
	assert.Equal(t, 5, GetWorkerConfig(cfg, "match-scholarships").MaxJobsActive)
}
