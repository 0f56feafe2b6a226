package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"scholarship-engine/internal/app"
)

// NewActivitiesCmd prints the Zeebe job types with their variable schemas.
func NewActivitiesCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activities",
		Short: "List the Zeebe job types served by scholarship-server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := app.Activities(appVersion)
			out := cmd.OutOrStdout()
			if global.jsonOutput {
				return printJSON(out, reg)
			}
			for _, a := range reg.Activities {
				fmt.Fprintf(out, "%s  %s\n", boldGreen(a.TaskType), a.DisplayName)
				fmt.Fprintf(out, "    %s\n", a.Description)
				fmt.Fprintf(out, "    %s %s, %s %d\n", faint("timeout"), a.Timeout, faint("retries"), a.Retries)
				fmt.Fprintf(out, "    %s %s\n", faint("errors"), strings.Join(a.ErrorCodes, ", "))
			}
			return nil
		},
	}
}
