package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"scholarship-engine/internal/models"
)

const (
	defaultIndexName = "scholarships"
	defaultESLimit   = 10000
)

// ElasticsearchSource reads every document of an index. Documents use the
// ScholarshipRecord JSON shape, embedding included.
type ElasticsearchSource struct {
	Client *elasticsearch.Client
	Index  string
	Metric Metric
	Model  string
	Limit  int
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string                   `json:"_id"`
			Source models.ScholarshipRecord `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (s *ElasticsearchSource) Load(ctx context.Context) (*Index, error) {
	index := s.Index
	if index == "" {
		index = defaultIndexName
	}
	size := s.Limit
	if size <= 0 {
		size = defaultESLimit
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  strings.NewReader(`{"query": {"match_all": {}}}`),
		Size:  &size,
		Sort:  []string{"_doc"},
	}

	res, err := req.Do(ctx, s.Client)
	if err != nil {
		return nil, fmt.Errorf("search corpus index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search corpus index %s: %s", index, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	records := make([]models.ScholarshipRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		rec := hit.Source
		if rec.Name == "" {
			rec.Name = hit.ID
		}
		records = append(records, rec)
	}

	return NewIndex(records, s.Metric, s.Model)
}
