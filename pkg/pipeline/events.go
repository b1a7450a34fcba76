package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/matzehuels/glow/pkg/definitions"
	"github.com/matzehuels/glow/pkg/docs"
	"github.com/matzehuels/glow/pkg/gitlog"
	"github.com/matzehuels/glow/pkg/observability"
	"github.com/matzehuels/glow/pkg/warehouse"
)

// Events writes a page for every event in the definitions repository.
func (r *Runner) Events(ctx context.Context, opts EventOptions) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger, id, done := r.start("events")
	defer done()
	begin := time.Now()

	var repo *gitlog.Repo
	if opts.RepoURL != "" {
		logger.Info("cloning definitions repository", "url", opts.RepoURL)
		var err error
		if repo, err = gitlog.Clone(ctx, opts.RepoURL, opts.CloneDir, logger); err != nil {
			return nil, fmt.Errorf("clone definitions: %w", err)
		}
	} else {
		repo = gitlog.Open(opts.CloneDir, logger)
	}

	eventsPath := filepath.Join(repo.Dir, definitions.EventsFile)
	events, err := definitions.LoadEvents(eventsPath)
	if err != nil {
		return nil, err
	}
	models, err := definitions.LoadModels(filepath.Join(repo.Dir, definitions.ModelsFile))
	if err != nil {
		return nil, err
	}
	lines, err := definitions.ReadLines(eventsPath)
	if err != nil {
		return nil, err
	}

	var usage *warehouse.Usage
	if opts.Usage && r.Sources.Usage != nil {
		names := make([]string, len(events))
		for i, ev := range events {
			names[i] = ev.Name
		}
		logger.Info("fetching usage", "events", len(names), "table", opts.UsageTable)
		if usage, err = r.Sources.Usage.FetchUsage(ctx, opts.UsageTable, names); err != nil {
			return nil, fmt.Errorf("fetch usage: %w", err)
		}
	} else if opts.Usage {
		logger.Warn("usage charts requested but no warehouse configured")
	}

	store := docs.NewStore(opts.DocsDir)
	res := &Result{RunID: id}
	for _, ev := range events {
		start := time.Now()
		observability.Pipeline().OnEventStart(ctx, ev.Key)
		path, ok, err := r.writeEvent(ctx, store, repo, ev, models, lines, usage, opts.WebURL)
		observability.Pipeline().OnEventComplete(ctx, ev.Key, time.Since(start), err)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("could not write event page", "event", ev.Key, "err", err)
			res.Failed = append(res.Failed, ev.Key)
			continue
		}
		if !ok {
			res.Failed = append(res.Failed, ev.Key)
		}
		logger.Debug("wrote event page", "path", path)
		res.Pages = append(res.Pages, path)
	}

	res.Duration = time.Since(begin)
	logger.Info("event pages written", "pages", len(res.Pages), "failed", len(res.Failed), "duration", res.Duration)
	return res, nil
}

// writeEvent renders and stores one event page. ok is false when the git
// history of the event could not be read; the page is written anyway.
func (r *Runner) writeEvent(ctx context.Context, store *docs.Store, repo *gitlog.Repo, ev definitions.Event,
	models definitions.Models, lines []string, usage *warehouse.Usage, webURL string) (string, bool, error) {
	ok := true
	logger := repo.Logger.With("event", ev.Key)

	created, err := repo.Created(ctx, ev.Key, definitions.EventsFile)
	if err != nil {
		logger.Warn("could not read creation commit", "err", err)
		ok = false
	}
	start, length := definitions.EventLines(lines, ev.Key)
	modified, err := repo.LastModified(ctx, start, length, len(lines), definitions.EventsFile)
	if err != nil {
		logger.Warn("could not read last modification", "err", err)
		ok = false
	}

	chart := ""
	if usage != nil {
		chart = r.Templates.Chart(ev.Name, usage.Labels(), usage.For(ev.Name))
	}
	page, err := r.Templates.EventPage(docs.NewEventPage(ev, created, modified, webURL, models), chart)
	if err != nil {
		return "", false, err
	}
	path, err := store.Write(docs.TypeEvents, ev.Category, ev.Name, page)
	return path, ok, err
}
