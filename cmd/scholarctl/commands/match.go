package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scholarship-engine/internal/service"
)

type matchOptions struct {
	profilePath string
	topN        int
}

func NewMatchCmd(global *globalOptions) *cobra.Command {
	opts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank scholarships for a student profile",
		Long: `Rank the configured scholarship corpus against a student profile.

The profile is a JSON document with the same fields the HTTP API accepts.
Use "-" to read it from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profilePath, "profile", "p", "", "Student profile JSON file (required)")
	cmd.Flags().IntVarP(&opts.topN, "top-n", "n", 0, "Number of matches to return (default from config)")
	return cmd
}

func runMatch(cmd *cobra.Command, global *globalOptions, opts *matchOptions) error {
	profile, err := readProfile(opts.profilePath, cmd.InOrStdin())
	if err != nil {
		return err
	}

	svc, cleanup, err := global.buildService(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resp, err := svc.Match(cmdContext(cmd), service.MatchRequest{StudentProfile: profile, TopN: opts.topN})
	if err != nil {
		if described := describeError(err); described != nil {
			return described
		}
		return err
	}

	out := cmd.OutOrStdout()
	if global.jsonOutput {
		return printJSON(out, resp)
	}

	if len(resp.Matches) == 0 {
		fmt.Fprintln(out, yellow("No eligible scholarships found."))
		return nil
	}

	for _, m := range resp.Matches {
		fmt.Fprintf(out, "%s %s  %s\n", boldCyan(fmt.Sprintf("%2d.", m.Rank)), boldGreen(m.Scholarship), yellow(fmt.Sprintf("%d%%", m.MatchScore)))
		if m.URL != "" {
			fmt.Fprintf(out, "    %s\n", faint(m.URL))
		}
		if m.Reasoning != "" {
			fmt.Fprintf(out, "    %s\n", strings.TrimSpace(m.Reasoning))
		}
	}
	return nil
}
