package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/glow/pkg/pipeline"
)

// compileCommand creates the compile command with its datasources and
// events subcommands.
func (c *CLI) compileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Write documentation pages into the docs tree",
	}

	cmd.AddCommand(c.compileDatasourcesCommand())
	cmd.AddCommand(c.compileEventsCommand())

	return cmd
}

// compileDatasourcesCommand creates the "compile datasources" subcommand.
func (c *CLI) compileDatasourcesCommand() *cobra.Command {
	var (
		local      bool
		noDiagrams bool
		names      []string
		refresh    bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:     "datasources",
		Aliases: []string{"ds"},
		Short:   "Write a page with lineage for every data source",
		Long: `Compile data source pages. Data sources are fetched from the BI server
unless --local is given, in which case the definitions file written by the
last fetch is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			e, err := c.newEnv(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer e.Close()

			spinner := newSpinnerWithContext(ctx, "Compiling data source pages...")
			spinner.Start()
			res, err := e.runner.Datasources(ctx, pipeline.DatasourceOptions{
				DocsDir:             cfg.DocsDir,
				DefinitionsDir:      cfg.DefinitionsDir,
				UseLocalDefinitions: local,
				Names:               names,
				Diagrams:            !noDiagrams,
				Refresh:             refresh,
			})
			if err != nil {
				spinner.StopWithError("Compiling data source pages failed")
				return err
			}
			spinner.Stop()

			printResult("Compiled data source pages", res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "use the stored definitions file instead of the BI server")
	cmd.Flags().BoolVar(&noDiagrams, "no-diagrams", false, "skip lineage diagrams")
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "only compile these data sources")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached responses and downloads")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")

	return cmd
}

// compileEventsCommand creates the "compile events" subcommand.
func (c *CLI) compileEventsCommand() *cobra.Command {
	var noUsage bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Write a page for every tracking event",
		Long: `Compile event pages from the event definitions repository. Each page
carries the event's git history and, unless disabled, a weekly usage chart
queried from the warehouse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			e, err := c.newEnv(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer e.Close()

			spinner := newSpinnerWithContext(ctx, "Compiling event pages...")
			spinner.Start()
			res, err := e.runner.Events(ctx, eventOptions(cfg, !noUsage))
			if err != nil {
				spinner.StopWithError("Compiling event pages failed")
				return err
			}
			spinner.Stop()

			printResult("Compiled event pages", res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noUsage, "no-usage", false, "skip weekly usage charts")

	return cmd
}
