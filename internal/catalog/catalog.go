// Package catalog loads the essay strategy catalog: the fixed taxonomy of
// archetypes an essay can be written against.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "scholarship-engine/internal/common/errors"
	"scholarship-engine/internal/common/validation"
	"scholarship-engine/internal/models"
)

//go:embed default.yaml
var defaultCatalog []byte

// Requirement names the profile evidence an archetype depends on.
const (
	RequireChallenges = "challenges"
	RequireLeadership = "leadership"
	RequireResearch   = "research"
	RequireCommunity  = "community"
	RequireSTEM       = "stem"
	RequireCreative   = "creative"
)

const catalogSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["cluster_id", "cluster_name", "description_archetype", "writing_strategy"],
    "properties": {
      "cluster_id":            {"type": "integer", "minimum": 0},
      "cluster_name":          {"type": "string", "minLength": 1, "pattern": "\\S"},
      "description_archetype": {"type": "string", "minLength": 1, "pattern": "\\S"},
      "writing_strategy": {
        "type": "object",
        "required": ["broad_instructions", "structural_template"],
        "properties": {
          "broad_instructions":  {"type": "string", "minLength": 1, "pattern": "\\S"},
          "structural_template": {"type": "string", "minLength": 1, "pattern": "\\S"}
        }
      },
      "requirements": {
        "type": "array",
        "items": {"type": "string", "enum": ["challenges", "leadership", "research", "community", "stem", "creative"]}
      }
    }
  }
}`

var catalogSchema = validation.MustCompile(catalogSchemaJSON)

// Catalog is an immutable, id-ordered list of strategy entries.
type Catalog struct {
	entries []models.StrategyEntry
}

// New validates entries and sorts them by cluster_id.
func New(entries []models.StrategyEntry) (*Catalog, error) {
	seenID := make(map[int]bool, len(entries))
	seenName := make(map[string]bool, len(entries))

	out := make([]models.StrategyEntry, len(entries))
	for i, e := range entries {
		if seenID[e.ClusterID] {
			return nil, fmt.Errorf("duplicate cluster_id %d", e.ClusterID)
		}
		name := strings.TrimSpace(e.ClusterName)
		if name == "" {
			return nil, fmt.Errorf("cluster %d: cluster_name is required", e.ClusterID)
		}
		if seenName[name] {
			return nil, fmt.Errorf("duplicate cluster_name %q", name)
		}
		if strings.TrimSpace(e.WritingStrategy.BroadInstructions) == "" ||
			strings.TrimSpace(e.WritingStrategy.StructuralTemplate) == "" {
			return nil, fmt.Errorf("cluster %d: writing_strategy is incomplete", e.ClusterID)
		}
		seenID[e.ClusterID] = true
		seenName[name] = true

		e.ClusterName = name
		e.Requirements = append([]string(nil), e.Requirements...)
		out[i] = e
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ClusterID < out[j].ClusterID })
	return &Catalog{entries: out}, nil
}

// Parse decodes a YAML or JSON catalog document and validates it.
func Parse(raw []byte) (*Catalog, error) {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if doc == nil {
		doc = []interface{}{}
	}

	if result := catalogSchema.Validate(doc); !result.Valid {
		return nil, fmt.Errorf("catalog does not match schema: %s", strings.Join(result.Messages(), "; "))
	}

	var entries []models.StrategyEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog entries: %w", err)
	}
	return New(entries)
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(path, err)
	}
	return c, nil
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError("builtin", err)
	}
	return c, nil
}

// Entries returns the entries ordered by cluster_id. Callers must not
// modify them.
func (c *Catalog) Entries() []models.StrategyEntry {
	return c.entries
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Names lists the cluster names in id order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.ClusterName
	}
	return names
}

// Lookup finds an entry by cluster name.
func (c *Catalog) Lookup(name string) (models.StrategyEntry, bool) {
	for _, e := range c.entries {
		if e.ClusterName == name {
			return e, true
		}
	}
	return models.StrategyEntry{}, false
}
