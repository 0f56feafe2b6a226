package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"scholarship-engine/internal/app"
	"scholarship-engine/internal/common/database"
	"scholarship-engine/internal/corpus"
	"scholarship-engine/internal/models"
)

type corpusBuildOptions struct {
	inPath  string
	outPath string
	metric  string
}

func NewCorpusCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage the scholarship corpus",
	}
	cmd.AddCommand(newCorpusBuildCmd(global))
	return cmd
}

func newCorpusBuildCmd(global *globalOptions) *cobra.Command {
	opts := &corpusBuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Embed scholarship records into a corpus file",
		Long: `Embed raw scholarship records with the configured embedding provider and
write a corpus file that the file source can load.

The input is either a JSON array of records or an object with a
"scholarships" array. Existing embeddings are replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorpusBuild(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.inPath, "in", "i", "", "Raw scholarship records JSON (required)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "Output corpus file (default corpus.path from config)")
	cmd.Flags().StringVar(&opts.metric, "metric", "", "Distance metric: cosine or l2 (default corpus.metric from config)")
	return cmd
}

func runCorpusBuild(cmd *cobra.Command, global *globalOptions, opts *corpusBuildOptions) error {
	if opts.inPath == "" {
		return fmt.Errorf("--in is required")
	}

	raw, err := readInput(opts.inPath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	records, err := decodeRecords(raw)
	if err != nil {
		return err
	}

	cfg, err := global.loadConfig()
	if err != nil {
		return err
	}

	metricName := opts.metric
	if metricName == "" {
		metricName = cfg.Corpus.Metric
	}
	metric, err := corpus.ParseMetric(metricName)
	if err != nil {
		return err
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = cfg.Corpus.Path
	}

	log := global.logger()
	conns, err := database.Open(cfg.Database, database.Needs{Redis: cfg.Embedding.CacheTTL > 0}, log)
	if err != nil {
		return err
	}
	defer conns.Close()

	embedder, err := app.NewEmbedder(cfg, conns, log)
	if err != nil {
		return err
	}

	ix, err := corpus.Build(cmdContext(cmd), embedder, records, metric)
	if err != nil {
		return err
	}
	if err := corpus.WriteFile(outPath, ix); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d scholarships to %s (%s, %s)\n",
		boldGreen("✓"), ix.Len(), outPath, ix.Model(), ix.Metric())
	return nil
}

func decodeRecords(raw []byte) ([]models.ScholarshipRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var records []models.ScholarshipRecord
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("parsing records: %w", err)
		}
		return records, nil
	}

	var doc struct {
		Scholarships []models.ScholarshipRecord `json:"scholarships"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing records: %w", err)
	}
	if doc.Scholarships == nil {
		return nil, fmt.Errorf("parsing records: no scholarships array")
	}
	return doc.Scholarships, nil
}
