package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"scholarship-engine/internal/models"
)

const defaultTable = "scholarships"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource reads the corpus from a table with the columns
// name, full_text, url, metadata (jsonb) and embedding (float8[]).
// Rows come back ordered by id so corpus order is stable across loads.
type PostgresSource struct {
	DB     *sql.DB
	Table  string
	Metric Metric
	Model  string
	Limit  int
}

func (s *PostgresSource) Load(ctx context.Context) (*Index, error) {
	table := s.Table
	if table == "" {
		table = defaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid corpus table name %q", table)
	}

	query := fmt.Sprintf(`
		SELECT name, full_text, url, metadata, embedding
		FROM %s
		ORDER BY id`, table)
	args := []interface{}{}
	if s.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, s.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query corpus table: %w", err)
	}
	defer rows.Close()

	var records []models.ScholarshipRecord
	for rows.Next() {
		var (
			rec      models.ScholarshipRecord
			url      sql.NullString
			metadata []byte
			vec      []float64
		)
		if err := rows.Scan(&rec.Name, &rec.FullText, &url, &metadata, pq.Array(&vec)); err != nil {
			return nil, fmt.Errorf("scan corpus row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata for %s: %w", rec.Name, err)
			}
		}
		rec.URL = url.String
		rec.Embedding = vec
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate corpus rows: %w", err)
	}

	return NewIndex(records, s.Metric, s.Model)
}
