package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"scholarship-engine/internal/common/config"
	apperrors "scholarship-engine/internal/common/errors"
)

// Source loads a complete Index. Loading happens once at startup.
type Source interface {
	Load(ctx context.Context) (*Index, error)
}

// Backends carries the connections a Source may need. Only the one named
// by the config has to be set.
type Backends struct {
	Postgres      *sql.DB
	Elasticsearch *elasticsearch.Client
}

// NewSource picks the Source named by cfg.Source.
func NewSource(cfg config.CorpusConfig, model string, b Backends) (Source, error) {
	metric, err := ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}

	switch cfg.Source {
	case "", "file":
		return &FileSource{Path: cfg.Path, Metric: metric, Model: model}, nil
	case "postgres":
		if b.Postgres == nil {
			return nil, fmt.Errorf("corpus source postgres: no database connection")
		}
		return &PostgresSource{DB: b.Postgres, Table: cfg.Table, Metric: metric, Model: model, Limit: cfg.Limit}, nil
	case "elasticsearch":
		if b.Elasticsearch == nil {
			return nil, fmt.Errorf("corpus source elasticsearch: no client")
		}
		return &ElasticsearchSource{Client: b.Elasticsearch, Index: cfg.Index, Metric: metric, Model: model, Limit: cfg.Limit}, nil
	default:
		return nil, fmt.Errorf("unknown corpus source %q", cfg.Source)
	}
}

// Load runs src and wraps any failure as CORPUS_LOAD_FAILED.
func Load(ctx context.Context, src Source, name string) (*Index, error) {
	ix, err := src.Load(ctx)
	if err != nil {
		return nil, apperrors.NewCorpusLoadFailedError(name, err)
	}
	return ix, nil
}
