package tableau

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/glow/pkg/cache"
	"github.com/matzehuels/glow/pkg/integrations"
)

// DefaultAPIVersion is the REST API version used when Config leaves it empty.
const DefaultAPIVersion = "3.13"

// pageSize is the number of data sources requested per page.
const pageSize = 100

// ErrUnexpectedResponse is returned when a response does not have the
// expected root elements.
var ErrUnexpectedResponse = errors.New("unexpected tableau response")

// Config holds the connection settings for a Tableau site.
type Config struct {
	Server     string // e.g. https://tableau.example.com/
	Site       string // site content URL, empty for the default site
	Username   string
	Password   string
	APIVersion string

	// RequestsPerSecond limits API calls. Zero means unlimited.
	RequestsPerSecond float64
}

// Client talks to one Tableau site.
type Client struct {
	*integrations.Client
	baseURL  string
	cfg      Config
	keys     cache.Keyer
	cacheTTL time.Duration

	mu     sync.Mutex
	token  string
	siteID string
}

// NewClient creates a client for cfg. c may be nil to disable caching.
func NewClient(cfg Config, c cache.Cache, ttl time.Duration) *Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	ic := integrations.NewClient(c, "", ttl, nil)
	ic.SetRateLimit(cfg.RequestsPerSecond, 4)

	return &Client{
		Client:   ic,
		baseURL:  strings.TrimSuffix(cfg.Server, "/") + "/api/" + cfg.APIVersion,
		cfg:      cfg,
		keys:     cache.NewScopedKeyer(nil, "tableau:"+cfg.Site+":"),
		cacheTTL: ttl,
	}
}

// SignIn authenticates with the configured credentials and stores the
// session token and site id. Other methods call it on demand.
func (c *Client) SignIn(ctx context.Context) error {
	var req signInRequest
	req.Credentials.Name = c.cfg.Username
	req.Credentials.Password = c.cfg.Password
	req.Credentials.Site.ContentURL = c.cfg.Site

	body, err := xml.Marshal(req)
	if err != nil {
		return err
	}
	data, err := c.Post(ctx, c.baseURL+"/auth/signin", body, map[string]string{"Content-Type": "application/xml"})
	if err != nil {
		return fmt.Errorf("tableau sign in: %w", err)
	}

	var resp signInResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("tableau sign in: %w", err)
	}
	if resp.Credentials.Token == "" || resp.Credentials.Site.ID == "" {
		return fmt.Errorf("tableau sign in: %w: missing credentials", ErrUnexpectedResponse)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = resp.Credentials.Token
	c.siteID = resp.Credentials.Site.ID
	c.SetHeader("X-Tableau-Auth", c.token)
	return nil
}

// site returns the site id, signing in first if needed.
func (c *Client) site(ctx context.Context) (string, error) {
	c.mu.Lock()
	id := c.siteID
	c.mu.Unlock()
	if id != "" {
		return id, nil
	}
	if err := c.SignIn(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.siteID, nil
}

// get performs an authenticated GET on a site-relative path. An expired
// session is renewed once.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	site, err := c.site(ctx)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/sites/%s/%s", c.baseURL, site, path)
	data, err := c.Get(ctx, url, nil)
	if !errors.Is(err, integrations.ErrUnauthorized) {
		return data, err
	}
	if err := c.SignIn(ctx); err != nil {
		return nil, err
	}
	if site, err = c.site(ctx); err != nil {
		return nil, err
	}
	return c.Get(ctx, fmt.Sprintf("%s/sites/%s/%s", c.baseURL, site, path), nil)
}

func (c *Client) getXML(ctx context.Context, path string, v any) error {
	data, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Datasources lists every published data source on the site.
func (c *Client) Datasources(ctx context.Context) ([]Datasource, error) {
	var all []Datasource
	for page := 1; ; page++ {
		var resp datasourcesResponse
		path := fmt.Sprintf("datasources?pageSize=%d&pageNumber=%d", pageSize, page)
		if err := c.getXML(ctx, path, &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Datasources...)
		if len(resp.Datasources) == 0 || len(all) >= resp.Pagination.TotalAvailable {
			return all, nil
		}
	}
}

// User returns the user with the given id. Results are cached.
func (c *Client) User(ctx context.Context, id string, refresh bool) (*User, error) {
	data, err := c.Cached(ctx, c.keys.HTTPKey("users", id), refresh, func() ([]byte, error) {
		return c.get(ctx, "users/"+id)
	})
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, err)
	}

	var resp userResponse
	if err := xml.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", id, err)
	}
	return &resp.User, nil
}

// Connections returns the database connections of a data source.
func (c *Client) Connections(ctx context.Context, datasourceID string) ([]Connection, error) {
	var resp connectionsResponse
	if err := c.getXML(ctx, "datasources/"+datasourceID+"/connections", &resp); err != nil {
		return nil, err
	}
	return resp.Connections, nil
}

// ExtractRefreshTasks returns all extract refresh tasks of the site.
func (c *Client) ExtractRefreshTasks(ctx context.Context) ([]Task, error) {
	var resp tasksResponse
	if err := c.getXML(ctx, "tasks/extractRefreshes", &resp); err != nil {
		return nil, err
	}
	if resp.Tasks == nil {
		return nil, fmt.Errorf("%w: tasks not found", ErrUnexpectedResponse)
	}

	tasks := make([]Task, 0, len(resp.Tasks.Tasks))
	for _, t := range resp.Tasks.Tasks {
		er := t.ExtractRefresh
		if er == nil {
			tasks = append(tasks, Task{})
			continue
		}
		task := Task{ID: er.ID, Type: er.Type}
		if s := er.Schedule; s != nil {
			task.ScheduleID = s.ID
			task.Frequency = s.Frequency
			task.State = s.State
			task.NextRunAt = s.NextRunAt
		}
		switch {
		case er.Datasource != nil:
			task.TargetType, task.TargetID = TargetTypeDatasource, er.Datasource.ID
		case er.Workbook != nil:
			task.TargetType, task.TargetID = TargetTypeWorkbook, er.Workbook.ID
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Download fetches the data source file without extract data. The result
// is either a zipped .tdsx or a plain .tds; see [ParseBundle]. Downloads
// are cached per data source revision.
func (c *Client) Download(ctx context.Context, datasourceID string, updatedAt time.Time, refresh bool) ([]byte, error) {
	data, err := c.Cached(ctx, c.keys.DownloadKey(datasourceID, updatedAt), refresh, func() ([]byte, error) {
		return c.get(ctx, "datasources/"+datasourceID+"/content?includeExtract=false")
	})
	if err != nil {
		return nil, fmt.Errorf("download data source %s: %w", datasourceID, err)
	}
	return data, nil
}
