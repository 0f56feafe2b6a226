package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/models"
)

func entry(id int, name string) models.StrategyEntry {
	return models.StrategyEntry{
		ClusterID:            id,
		ClusterName:          name,
		DescriptionArchetype: name + " archetype",
		WritingStrategy: models.WritingStrategy{
			BroadInstructions:  "Write about " + name,
			StructuralTemplate: "1. Hook\n2. Body\n3. Close",
		},
	}
}

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, 6, c.Len())
	assert.Equal(t, "Leadership & Impact", c.Entries()[0].ClusterName)

	adversity, ok := c.Lookup("Overcoming Adversity")
	require.True(t, ok)
	assert.Equal(t, []string{RequireChallenges}, adversity.Requirements)
	assert.Contains(t, adversity.WritingStrategy.StructuralTemplate, "1. Hook")

	for i := 1; i < c.Len(); i++ {
		assert.Less(t, c.Entries()[i-1].ClusterID, c.Entries()[i].ClusterID)
	}
}

func TestNew_SortsAndValidates(t *testing.T) {
	c, err := New([]models.StrategyEntry{entry(7, "B"), entry(2, " A ")})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, c.Names())

	tests := []struct {
		name    string
		entries []models.StrategyEntry
		wantErr string
	}{
		{name: "duplicate id", entries: []models.StrategyEntry{entry(1, "A"), entry(1, "B")}, wantErr: "duplicate cluster_id"},
		{name: "duplicate name", entries: []models.StrategyEntry{entry(1, "A"), entry(2, "A")}, wantErr: "duplicate cluster_name"},
		{name: "blank name", entries: []models.StrategyEntry{entry(1, "  ")}, wantErr: "cluster_name is required"},
		{
			name: "missing template",
			entries: func() []models.StrategyEntry {
				e := entry(1, "A")
				e.WritingStrategy.StructuralTemplate = ""
				return []models.StrategyEntry{e}
			}(),
			wantErr: "writing_strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.entries)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParse(t *testing.T) {
	t.Run("json document", func(t *testing.T) {
		c, err := Parse([]byte(`[{"cluster_id": 3, "cluster_name": "STEM Builders",
			"description_archetype": "Engineering projects",
			"requirements": ["stem"],
			"writing_strategy": {"broad_instructions": "Show the build", "structural_template": "1. Hook"}}]`))
		require.NoError(t, err)
		assert.Equal(t, []string{"STEM Builders"}, c.Names())
		assert.Equal(t, []string{RequireSTEM}, c.Entries()[0].Requirements)
	})

	t.Run("empty document is an empty catalog", func(t *testing.T) {
		c, err := Parse([]byte(""))
		require.NoError(t, err)
		assert.Zero(t, c.Len())
	})

	t.Run("unknown requirement", func(t *testing.T) {
		_, err := Parse([]byte(`
- cluster_id: 1
  cluster_name: Chess
  description_archetype: Strategy games
  requirements: [grandmaster]
  writing_strategy:
    broad_instructions: Talk about chess
    structural_template: "1. Opening"
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema")
	})

	t.Run("missing writing strategy", func(t *testing.T) {
		_, err := Parse([]byte(`[{"cluster_id": 1, "cluster_name": "X", "description_archetype": "Y"}]`))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6, c.Len())

	path := filepath.Join(t.TempDir(), "strategies.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- cluster_id: 1\n  cluster_name: Solo\n  description_archetype: One\n  writing_strategy:\n    broad_instructions: Do it\n    structural_template: \"1. All\"\n"), 0o600))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, c.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeCatalogLoadFailed, apperrors.CodeOf(err))
}
