package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"scholarship-engine/internal/catalog"
)

func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect essay strategy catalogs",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a strategy catalog file",
		Long: `Check a YAML or JSON strategy catalog against the catalog schema and
list its clusters. Without a path the built-in catalog is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCatalogValidate(cmd, path)
		},
	}
}

func runCatalogValidate(cmd *cobra.Command, path string) error {
	c, err := catalog.Load(path)
	if err != nil {
		if described := describeError(err); described != nil {
			return described
		}
		return err
	}

	source := path
	if source == "" {
		source = "built-in catalog"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s: %d strategies\n", boldGreen("✓"), source, c.Len())
	for _, e := range c.Entries() {
		fmt.Fprintf(out, "  %s %s\n", faint(fmt.Sprintf("%2d", e.ClusterID)), e.ClusterName)
	}
	return nil
}
