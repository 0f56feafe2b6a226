// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App       AppConfig               `mapstructure:"app"`
	Server    ServerConfig            `mapstructure:"server"`
	Camunda   CamundaConfig           `mapstructure:"camunda"`
	Database  DatabaseConfig          `mapstructure:"database"`
	Workers   map[string]WorkerConfig `mapstructure:"workers"`
	APIs      APIsConfig              `mapstructure:"apis"`
	Embedding EmbeddingConfig         `mapstructure:"embedding"`
	Corpus    CorpusConfig            `mapstructure:"corpus"`
	Catalog   CatalogConfig           `mapstructure:"catalog"`
	Matching  MatchingConfig          `mapstructure:"matching"`
	Strategy  StrategyConfig          `mapstructure:"strategy"`
	Essay     EssayConfig             `mapstructure:"essay"`
	Logging   LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// --- External providers ---

// APIsConfig holds settings for the embedding and generation providers.
type APIsConfig struct {
	OpenAI struct {
		APIKey         string `mapstructure:"api_key"`
		BaseURL        string `mapstructure:"base_url"`
		ChatModel      string `mapstructure:"chat_model"`
		EmbeddingModel string `mapstructure:"embedding_model"`
		MaxRetries     int    `mapstructure:"max_retries"`
		RetryDelay     int    `mapstructure:"retry_delay"` // milliseconds
	} `mapstructure:"openai"`

	GenAI struct {
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		MaxRetries int    `mapstructure:"max_retries"`
	} `mapstructure:"genai"`
}

// EmbeddingConfig selects the embedding provider used for queries and
// strategy archetypes.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"`  // openai | hashing
	Dimension int    `mapstructure:"dimension"` // hashing provider only
	CacheTTL  int    `mapstructure:"cache_ttl"` // milliseconds, 0 disables the redis cache
	KeyPrefix string `mapstructure:"key_prefix"`
}

// --- Domain sections ---

// CorpusConfig says where the precomputed scholarship index lives.
type CorpusConfig struct {
	Source string `mapstructure:"source"` // file | postgres | elasticsearch
	Path   string `mapstructure:"path"`
	Table  string `mapstructure:"table"`
	Index  string `mapstructure:"index"`
	Metric string `mapstructure:"metric"` // cosine | l2
	Limit  int    `mapstructure:"limit"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty selects the built-in catalog
}

type MatchingConfig struct {
	TopN        int     `mapstructure:"top_n"`
	MaxTopN     int     `mapstructure:"max_top_n"`
	MaxDistance float64 `mapstructure:"max_distance"` // defaults to 1.0; an explicit 0 disables the threshold
	Reasoning   bool    `mapstructure:"reasoning"`
}

type StrategyConfig struct {
	Feasibility bool `mapstructure:"feasibility"`
}

// EssayConfig configures the generation step.
type EssayConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | genai
	Timeout     int     `mapstructure:"timeout"`  // milliseconds
	Retries     int     `mapstructure:"retries"`  // orchestration retries on GENERATION_TIMEOUT
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
