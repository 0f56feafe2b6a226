package database

import (
	"context"
	"errors"
	"fmt"

	"scholarship-engine/internal/common/config"
	"scholarship-engine/internal/common/logger"
)

// Connections holds whichever backends the configuration asks for. Unused
// backends stay nil.
type Connections struct {
	Postgres      *PostgresClient
	Elasticsearch *ElasticsearchClient
	Redis         *RedisClient
}

// Needs lists the backends to open.
type Needs struct {
	Postgres      bool
	Elasticsearch bool
	Redis         bool
}

// NeedsFor derives the backends from the corpus source and the embedding
// cache setting.
func NeedsFor(cfg *config.Config) Needs {
	return Needs{
		Postgres:      cfg.Corpus.Source == "postgres",
		Elasticsearch: cfg.Corpus.Source == "elasticsearch",
		Redis:         cfg.Embedding.CacheTTL > 0,
	}
}

// Open creates the clients named by needs. Call Ping to check them.
func Open(cfg config.DatabaseConfig, needs Needs, log logger.Logger) (*Connections, error) {
	conns := &Connections{}

	if needs.Postgres {
		pg, err := NewPostgres(cfg.Postgres)
		if err != nil {
			return nil, err
		}
		conns.Postgres = pg
		log.Info("postgres pool created", map[string]interface{}{"host": cfg.Postgres.Host, "database": cfg.Postgres.Database})
	}

	if needs.Elasticsearch {
		es, err := NewElasticsearch(cfg.Elasticsearch)
		if err != nil {
			_ = conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
		log.Info("elasticsearch client created", map[string]interface{}{"addresses": cfg.Elasticsearch.Addresses})
	}

	if needs.Redis {
		rdb, err := NewRedis(cfg.Redis)
		if err != nil {
			_ = conns.Close()
			return nil, err
		}
		conns.Redis = rdb
		log.Info("redis client created", map[string]interface{}{"address": cfg.Redis.Address})
	}

	return conns, nil
}

// Ping checks every opened backend and joins the failures.
func (c *Connections) Ping(ctx context.Context) error {
	var errs []error
	if c.Postgres != nil {
		errs = append(errs, c.Postgres.Ping(ctx))
	}
	if c.Elasticsearch != nil {
		errs = append(errs, c.Elasticsearch.Ping(ctx))
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Ping(ctx))
	}
	return errors.Join(errs...)
}

func (c *Connections) Close() error {
	var errs []error
	if c.Postgres != nil {
		errs = append(errs, c.Postgres.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("closing connections: %w", err)
	}
	return nil
}
