package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scholarship-engine/internal/service"
)

type essayOptions struct {
	profilePath     string
	descriptionPath string
	name            string
}

func NewEssayCmd(global *globalOptions) *cobra.Command {
	opts := &essayOptions{}

	cmd := &cobra.Command{
		Use:   "essay",
		Short: "Draft an essay for one scholarship",
		Long: `Pick the best-fitting essay strategy for a scholarship description and
draft an essay for the student profile.

When --name is omitted the scholarship name is taken from the first line of
the description.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEssay(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "Student profile JSON file (required)")
	cmd.Flags().StringVarP(&opts.descriptionPath, "description", "d", "", "Scholarship description text file, or - for stdin (required)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Scholarship name")
	return cmd
}

func runEssay(cmd *cobra.Command, global *globalOptions, opts *essayOptions) error {
	if opts.descriptionPath == "" {
		return fmt.Errorf("--description is required")
	}
	if opts.profilePath == "-" && opts.descriptionPath == "-" {
		return fmt.Errorf("only one of --profile and --description can read stdin")
	}

	profile, err := readProfile(opts.profilePath, cmd.InOrStdin())
	if err != nil {
		return err
	}
	description, err := readInput(opts.descriptionPath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	svc, cleanup, err := global.buildService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.GenerateEssay(cmdContext(cmd), service.EssayRequest{
		ScholarshipDescription: string(description),
		ScholarshipName:        opts.name,
		StudentProfile:         profile,
	})
	if err != nil {
		if described := describeError(err); described != nil {
			return described
		}
		return err
	}

	out := cmd.OutOrStdout()
	if global.jsonOutput {
		return printJSON(out, result)
	}

	fmt.Fprintf(out, "%s %s\n", boldCyan("Scholarship:"), result.ScholarshipName)
	fmt.Fprintf(out, "%s %s\n", boldCyan("Strategy:"), boldGreen(result.SelectedStrategy.ClusterName))
	if len(result.MatchingClusters) > 1 {
		fmt.Fprintf(out, "%s %s\n", boldCyan("Also fits:"), faint(strings.Join(result.MatchingClusters[1:], ", ")))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, result.Essay)
	return nil
}
