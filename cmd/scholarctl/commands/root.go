package commands

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"scholarship-engine/internal/app"
	"scholarship-engine/internal/common/config"
	"scholarship-engine/internal/common/database"
	"scholarship-engine/internal/common/logger"
	"scholarship-engine/internal/service"
)

var appVersion = "dev"

// SetVersion is called from main.
func SetVersion(v string) { appVersion = v }

type globalOptions struct {
	configPath string
	jsonOutput bool
	noColor    bool
	verbose    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "scholarctl",
		Short: "Match scholarships and draft essays from the command line",
		Long: `scholarctl ranks the scholarship corpus for a student profile and drafts
application essays, using the same configuration as scholarship-server.

Examples:
  scholarctl match --profile profile.json --top-n 5
  scholarctl essay --profile profile.json --description gates.txt
  scholarctl catalog validate strategies.yaml
  scholarctl corpus build --in raw.json --out data/scholarships.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default: configs/config.yaml lookup)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print raw JSON")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")

	cmd.AddCommand(
		NewMatchCmd(opts),
		NewEssayCmd(opts),
		NewCatalogCmd(),
		NewCorpusCmd(opts),
		NewActivitiesCmd(opts),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scholarctl %s\n", appVersion)
		},
	}
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromFile(o.configPath)
	}
	return config.Load()
}

func (o *globalOptions) logger() logger.Logger {
	if !o.verbose {
		return logger.NewNoOpLogger()
	}
	l, err := logger.Build(logger.Options{Level: "debug", Format: "console", Output: "stderr"})
	if err != nil {
		return logger.NewNoOpLogger()
	}
	return logger.NewZapAdapter(l)
}

// buildService opens whatever backends the config needs and assembles the
// service. The returned cleanup closes them.
func (o *globalOptions) buildService(cmd *cobra.Command) (*service.ScholarshipService, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := o.logger()

	conns, err := database.Open(cfg.Database, database.NeedsFor(cfg), log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = conns.Close() }

	ctx := cmdContext(cmd)
	if err := conns.Ping(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}

	svc, err := app.Build(ctx, cfg, conns, log)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return svc, cleanup, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
