package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glow/pkg/config"
	"github.com/matzehuels/glow/pkg/pipeline"
)

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		pick    bool
		names   []string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch data sources from the BI server and store their definitions",
		Long: `Fetch lists the data sources of the configured Tableau site, downloads their
definitions, derives lineage and writes the data source definitions file.

Use --pick to choose data sources interactively.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			e, err := c.newEnv(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer e.Close()
			if e.connector == nil {
				return fmt.Errorf("no Tableau server configured: set [tableau] server and username in %s", c.configName())
			}

			if pick {
				spinner := newSpinnerWithContext(ctx, "Listing data sources...")
				spinner.Start()
				sources, err := e.connector.List(ctx)
				spinner.Stop()
				if err != nil {
					return err
				}
				if len(sources) == 0 {
					printInfo("No data sources on site")
					return nil
				}

				final, err := tea.NewProgram(NewDatasourceListModel(sources), tea.WithContext(ctx)).Run()
				if err != nil {
					return fmt.Errorf("picker: %w", err)
				}
				names = final.(DatasourceListModel).Selected()
				if len(names) == 0 {
					printInfo("Nothing selected")
					return nil
				}
			}

			prog := newProgress(logger)
			spinner := newSpinnerWithContext(ctx, "Fetching data sources...")
			spinner.Start()
			datasources, failed, err := e.runner.Fetch(ctx, pipeline.DatasourceOptions{
				DocsDir:        cfg.DocsDir,
				DefinitionsDir: cfg.DefinitionsDir,
				Names:          names,
				Refresh:        refresh,
			})
			spinner.Stop()
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d data sources", len(datasources)))

			printSuccess("Stored %d data source definitions", len(datasources))
			printFile(pipeline.DatasourceOptions{DefinitionsDir: cfg.DefinitionsDir}.DefinitionsPath())
			printFailed("Incomplete", failed)
			printNewline()
			printNextStep("Write pages from these definitions", "glow compile datasources --local")
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose data sources interactively")
	cmd.Flags().StringSliceVarP(&names, "name", "n", nil, "only fetch these data sources")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass cached responses and downloads")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the response cache")
	cmd.MarkFlagsMutuallyExclusive("pick", "name")

	return cmd
}

// configName returns the project file name for messages.
func (c *CLI) configName() string {
	if c.ConfigPath != "" {
		return c.ConfigPath
	}
	return config.FileName
}
