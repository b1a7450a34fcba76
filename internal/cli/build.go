package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/glow/pkg/config"
	"github.com/matzehuels/glow/pkg/pipeline"
	"github.com/matzehuels/glow/pkg/site"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		compile bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the docs tree into a static HTML site",
		Long: `Build converts every markdown page of the docs tree to HTML and writes an
index page. With --compile, data source and event pages are compiled first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if output != "" {
				cfg.SiteDir = output
			}

			prog := newProgress(logger)
			spinner := newSpinnerWithContext(ctx, "Rendering site...")
			if compile {
				e, err := c.newEnv(ctx, cfg, false)
				if err != nil {
					return err
				}
				defer e.Close()

				spinner.SetMessage("Compiling pages...")
				spinner.Start()
				if err := compileAll(ctx, logger, e); err != nil {
					spinner.StopWithError("Compiling pages failed")
					return err
				}
				spinner.SetMessage("Rendering site...")
			} else {
				spinner.Start()
			}

			res, err := site.NewBuilder(logger).Build(cfg.DocsDir, cfg.SiteDir)
			if err != nil {
				spinner.StopWithError("Rendering site failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Rendered %d pages", res.Pages))

			printSuccess("Built site with %d pages and %d assets", res.Pages, res.Assets)
			printFile(cfg.SiteDir)
			printNewline()
			printNextStep("Preview it", "glow serve")
			return nil
		},
	}

	cmd.Flags().BoolVar(&compile, "compile", false, "compile data source and event pages first")
	cmd.Flags().StringVarP(&output, "output", "o", "", "site directory (default from project file)")

	return cmd
}

// compileAll runs every compile step the project is configured for. Data
// sources come from the BI server when configured, else from the stored
// definitions file. Events are compiled when a repository URL is set or a
// checkout exists.
func compileAll(ctx context.Context, logger *log.Logger, e *env) error {
	cfg := e.cfg

	dsOpts := pipeline.DatasourceOptions{
		DocsDir:        cfg.DocsDir,
		DefinitionsDir: cfg.DefinitionsDir,
		Diagrams:       true,
	}
	dsOpts.UseLocalDefinitions = e.connector == nil
	if _, err := os.Stat(dsOpts.DefinitionsPath()); e.connector != nil || err == nil {
		res, err := e.runner.Datasources(ctx, dsOpts)
		if err != nil {
			return fmt.Errorf("compile data sources: %w", err)
		}
		logger.Info("compiled data sources", "pages", len(res.Pages), "failed", len(res.Failed))
	} else {
		logger.Warn("skipping data sources: no BI server and no stored definitions")
	}

	evOpts := eventOptions(cfg, true)
	if _, err := os.Stat(evOpts.CloneDir); evOpts.RepoURL != "" || err == nil {
		res, err := e.runner.Events(ctx, evOpts)
		if err != nil {
			return fmt.Errorf("compile events: %w", err)
		}
		logger.Info("compiled events", "pages", len(res.Pages), "failed", len(res.Failed))
	} else {
		logger.Warn("skipping events: no definitions repository configured")
	}
	return nil
}

func eventOptions(cfg *config.Config, usage bool) pipeline.EventOptions {
	return pipeline.EventOptions{
		DocsDir:    cfg.DocsDir,
		RepoURL:    cfg.Events.RepoURL,
		CloneDir:   cfg.Events.CloneDir,
		WebURL:     cfg.Events.WebURL,
		Usage:      usage && cfg.Warehouse.Enabled,
		UsageTable: cfg.Warehouse.UsageTable,
	}
}
