package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-engine/internal/embedding"
	"scholarship-engine/internal/models"
)

func TestBuild_WriteFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	emb := embedding.NewHashingEmbedder(64)
	records := []models.ScholarshipRecord{
		{Name: "Coastal Stewards", FullText: "Marine science students protecting reefs.", Metadata: models.ScholarshipMetadata{URL: "https://example.org/coastal"}},
		{Name: "Main Street Builders", FullText: "Small business and entrepreneurship majors."},
	}

	ix, err := Build(ctx, emb, records, MetricL2)
	require.NoError(t, err)
	assert.Equal(t, "hashing-64", ix.Model())
	assert.Equal(t, 64, ix.Dimension())
	assert.Equal(t, "https://example.org/coastal", ix.Entries()[0].URL)

	want, err := emb.Embed(ctx, "Coastal Stewards\nMarine science students protecting reefs.")
	require.NoError(t, err)
	assert.Equal(t, want, ix.Entries()[0].Embedding)

	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, WriteFile(path, ix))

	loaded, err := (&FileSource{Path: path}).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, MetricL2, loaded.Metric())
	assert.Equal(t, "hashing-64", loaded.Model())
	assert.Equal(t, ix.Entries(), loaded.Entries())
}

func TestBuild_RejectsUnnamedRecord(t *testing.T) {
	_, err := Build(context.Background(), embedding.NewHashingEmbedder(8), []models.ScholarshipRecord{{FullText: "x"}}, MetricCosine)
	assert.Error(t, err)
}
