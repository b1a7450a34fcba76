package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/glow/pkg/definitions"
	"github.com/matzehuels/glow/pkg/docs"
	"github.com/matzehuels/glow/pkg/errors"
	"github.com/matzehuels/glow/pkg/integrations/tableau"
	"github.com/matzehuels/glow/pkg/lineage"
	"github.com/matzehuels/glow/pkg/observability"
	"github.com/matzehuels/glow/pkg/render/nodelink"
)

// Fetch retrieves data sources from the BI server, derives their lineage
// and writes the definitions file. It returns the data sources and the
// names of those with incomplete metadata or lineage.
func (r *Runner) Fetch(ctx context.Context, opts DatasourceOptions) ([]*lineage.Datasource, []string, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	logger, _, done := r.start("fetch")
	defer done()
	return r.fetch(ctx, logger, opts)
}

func (r *Runner) fetch(ctx context.Context, logger *log.Logger, opts DatasourceOptions) ([]*lineage.Datasource, []string, error) {
	if r.Sources.Datasources == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidConfig, "no BI server configured")
	}

	sources, err := r.Sources.Datasources.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list data sources: %w", err)
	}
	if len(opts.Names) > 0 {
		sources = slices.DeleteFunc(sources, func(s tableau.Datasource) bool {
			return !slices.Contains(opts.Names, s.Name)
		})
	}

	datasources, incomplete, err := r.Sources.Datasources.Fetch(ctx, sources, opts.Refresh)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch data sources: %w", err)
	}

	failed := mergeNames(incomplete, r.generateLineage(ctx, logger, datasources))

	path := opts.DefinitionsPath()
	if err := definitions.SaveDatasources(path, datasources); err != nil {
		return nil, nil, fmt.Errorf("store data source definitions: %w", err)
	}
	logger.Info("stored data source definitions", "path", path, "count", len(datasources))
	return datasources, failed, nil
}

// generateLineage runs GenerateDAG on every data source in parallel.
// Failures are logged and the data source is kept without relations.
func (r *Runner) generateLineage(ctx context.Context, logger *log.Logger, datasources []*lineage.Datasource) []string {
	var (
		mu     sync.Mutex
		failed []string
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))
	for _, ds := range datasources {
		g.Go(func() error {
			start := time.Now()
			observability.Pipeline().OnDatasourceStart(ctx, ds.Name)

			err := r.Builder.GenerateDAG(ds)
			observability.Pipeline().OnDatasourceComplete(ctx, ds.Name, len(ds.Relations), time.Since(start), err)
			if err != nil {
				logger.Error("could not derive lineage", "datasource", ds.Name, "err", err)
				ds.Document = nil
				mu.Lock()
				failed = append(failed, ds.Name)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	slices.Sort(failed)
	return failed
}

// Datasources writes a page for every data source, fetching them first
// unless local definitions are requested.
func (r *Runner) Datasources(ctx context.Context, opts DatasourceOptions) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger, id, done := r.start("datasources")
	defer done()
	begin := time.Now()

	var (
		datasources []*lineage.Datasource
		failed      []string
		err         error
	)
	if opts.UseLocalDefinitions {
		logger.Info("reading local data source definitions", "path", opts.DefinitionsPath())
		datasources, err = definitions.LoadDatasources(opts.DefinitionsPath())
	} else {
		datasources, failed, err = r.fetch(ctx, logger, opts)
	}
	if err != nil {
		return nil, err
	}

	store := docs.NewStore(opts.DocsDir)
	res := &Result{RunID: id, Failed: failed}
	for _, ds := range datasources {
		if len(opts.Names) > 0 && !slices.Contains(opts.Names, ds.Name) {
			continue
		}
		path, err := r.writeDatasource(ctx, store, ds, opts.Diagrams)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("could not write data source page", "datasource", ds.Name, "err", err)
			res.Failed = mergeNames(res.Failed, []string{ds.Name})
			continue
		}
		logger.Debug("wrote data source page", "path", path)
		res.Pages = append(res.Pages, path)
	}

	res.Duration = time.Since(begin)
	logger.Info("data source pages written", "pages", len(res.Pages), "failed", len(res.Failed), "duration", res.Duration)
	return res, nil
}

func (r *Runner) writeDatasource(ctx context.Context, store *docs.Store, ds *lineage.Datasource, diagrams bool) (string, error) {
	graph := ""
	if diagrams && len(ds.Relations) > 0 {
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(lineage.ToDAG(ds.Relations), nodelink.Options{Detailed: true}))
		if err != nil {
			return "", fmt.Errorf("lineage diagram: %w", err)
		}
		graph = errors.SanitizeFileName(ds.Name, ".svg")
		if _, err := store.WriteAsset(docs.TypeDataSources, ds.Project, graph, svg); err != nil {
			return "", err
		}
	}

	page, err := r.Templates.DatasourcePage(ds, graph)
	if err != nil {
		return "", err
	}
	return store.Write(docs.TypeDataSources, ds.Project, ds.Name, page)
}

// mergeNames returns the sorted union of a and b.
func mergeNames(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}
