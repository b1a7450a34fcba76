package tableau

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glow/pkg/lineage"
)

// Connector turns Tableau data sources into [lineage.Datasource] records.
// Owner names and extract refresh tasks are looked up once per Connector;
// a failed task lookup is not retried.
type Connector struct {
	client *Client
	logger *log.Logger

	owners   map[string]string
	tasks    []Task
	tasksErr error
}

// NewConnector creates a connector. A nil logger discards output.
func NewConnector(client *Client, logger *log.Logger) *Connector {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Connector{client: client, logger: logger, owners: make(map[string]string)}
}

// List returns the published data sources of the site.
func (c *Connector) List(ctx context.Context) ([]Datasource, error) {
	sources, err := c.client.Datasources(ctx)
	if err != nil {
		return nil, err
	}
	c.logger.Info("data sources found", "count", len(sources))
	return sources, nil
}

// Fetch builds a record for each of sources, including the downloaded
// .tds document. A data source whose owner, schedules or connections cannot
// be looked up is kept with those fields empty and its name is returned in
// incomplete. One that cannot be downloaded or parsed is kept without a
// document. Only cancellation of ctx stops the batch.
func (c *Connector) Fetch(ctx context.Context, sources []Datasource, refresh bool) (records []*lineage.Datasource, incomplete []string, err error) {
	records = make([]*lineage.Datasource, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		ds, ok := c.build(ctx, src, refresh)
		if !ok {
			incomplete = append(incomplete, src.Name)
		}
		records = append(records, ds)
	}
	return records, incomplete, nil
}

// build returns the record for src. ok is false when a metadata lookup
// failed.
func (c *Connector) build(ctx context.Context, src Datasource, refresh bool) (ds *lineage.Datasource, ok bool) {
	logger := c.logger.With("datasource", src.Name)
	logger.Debug("fetching data source")
	ok = true

	ds = &lineage.Datasource{
		ID:          src.ID,
		Name:        src.Name,
		Type:        lineage.DatasourceType,
		Project:     src.Project.Name,
		URL:         src.WebpageURL,
		Description: src.Description,
		CreatedAt:   parseTime(src.CreatedAt),
		UpdatedAt:   parseTime(src.UpdatedAt),
		Materialisation: lineage.Materialisation{
			Type:      lineage.MaterialisationLive,
			Schedules: []lineage.Schedule{},
		},
	}
	if src.HasExtracts {
		ds.Materialisation.Type = lineage.MaterialisationExtract
	}

	if owner, err := c.ownerName(ctx, src.Owner.ID, refresh); err != nil {
		logger.Error("could not look up owner", "err", err)
		ok = false
	} else {
		ds.Owner.Name = owner
	}
	if schedules, err := c.schedules(ctx, src.ID); err != nil {
		logger.Error("could not look up refresh schedules", "err", err)
		ok = false
	} else {
		ds.Materialisation.Schedules = schedules
	}
	if conns, err := c.client.Connections(ctx, src.ID); err != nil {
		logger.Error("could not look up connections", "err", err)
		ok = false
	} else if len(conns) > 0 {
		ds.Materialisation.DBUsername = conns[0].Username
	}

	data, err := c.client.Download(ctx, src.ID, ds.UpdatedAt, refresh)
	if err != nil {
		logger.Warn("could not download data source", "err", err)
		return ds, ok
	}
	root, err := ParseBundle(data)
	if err != nil {
		logger.Warn("could not process data source", "err", err)
		return ds, ok
	}
	for _, opt := range root.FindAll("date-options") {
		if v, found := opt.Lookup("start-of-week"); found {
			ds.Materialisation.WeekStart = v
			break
		}
	}
	ds.Document = root
	return ds, ok
}

func (c *Connector) ownerName(ctx context.Context, id string, refresh bool) (string, error) {
	if name, ok := c.owners[id]; ok {
		return name, nil
	}
	u, err := c.client.User(ctx, id, refresh)
	if err != nil {
		return "", err
	}
	c.owners[id] = u.Name
	return u.Name, nil
}

func (c *Connector) schedules(ctx context.Context, datasourceID string) ([]lineage.Schedule, error) {
	if c.tasksErr != nil {
		return nil, c.tasksErr
	}
	if c.tasks == nil {
		tasks, err := c.client.ExtractRefreshTasks(ctx)
		if err != nil {
			c.tasksErr = err
			return nil, err
		}
		c.tasks = tasks
	}

	schedules := []lineage.Schedule{}
	for _, t := range c.tasks {
		if t.Type != TaskRefreshExtract || t.TargetType != TargetTypeDatasource || t.TargetID != datasourceID {
			continue
		}
		schedules = append(schedules, lineage.Schedule{
			ID:        t.ScheduleID,
			Frequency: t.Frequency,
			State:     t.State,
			NextRunAt: t.NextRunAt,
		})
	}
	return schedules, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
