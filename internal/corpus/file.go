package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"scholarship-engine/internal/models"
)

// fileDocument is the on-disk corpus format. A bare JSON array of records
// is accepted too.
type fileDocument struct {
	Metric       string                     `json:"metric"`
	Model        string                     `json:"model"`
	Scholarships []models.ScholarshipRecord `json:"scholarships"`
}

// FileSource reads a JSON corpus file produced by the offline builder.
type FileSource struct {
	Path   string
	Metric Metric
	Model  string
}

func (s *FileSource) Load(ctx context.Context) (*Index, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	return s.parse(raw)
}

func (s *FileSource) parse(raw []byte) (*Index, error) {
	var doc fileDocument

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Scholarships); err != nil {
			return nil, fmt.Errorf("decode corpus file: %w", err)
		}
	} else if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode corpus file: %w", err)
	}

	metric := s.Metric
	if doc.Metric != "" {
		m, err := ParseMetric(doc.Metric)
		if err != nil {
			return nil, err
		}
		metric = m
	}

	model := s.Model
	if doc.Model != "" {
		model = doc.Model
	}

	return NewIndex(doc.Scholarships, metric, model)
}
