package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/matzehuels/glow/pkg/errors"
)

// DefaultDriver is the database/sql driver used when none is configured.
const DefaultDriver = "duckdb"

// Row is one result row keyed by column name.
type Row map[string]any

// Client runs queries against the warehouse.
type Client struct {
	db *sql.DB
}

// Open connects to the warehouse with the given driver and DSN.
func Open(driver, dsn string) (*Client, error) {
	if driver == "" {
		driver = DefaultDriver
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open %s warehouse", driver)
	}
	return &Client{db: db}, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB) *Client {
	return &Client{db: db}
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	return c.db.Close()
}

// Rows runs query and returns every row keyed by column name.
func (c *Client) Rows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("warehouse query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("warehouse scan: %w", err)
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*){0,2}$`)

// UsageQuery returns the weekly usage query for n events read from table.
// Event names are bound as parameters; table must be a plain, optionally
// qualified, identifier.
func UsageQuery(table string, n int) (string, error) {
	if !identRe.MatchString(table) {
		return "", errors.New(errors.ErrCodeInvalidConfig, "invalid usage table %q", table)
	}
	if n < 1 {
		return "", errors.New(errors.ErrCodeInvalidInput, "usage query needs at least one event")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
	return fmt.Sprintf(`select date_trunc('week', event_created_utc_date) as week,
       event_name,
       count(*) as totals
from %s
where event_name in (%s)
  and event_created_utc_date >= date_trunc('week', current_date - interval 1 year)
  and event_created_utc_date < date_trunc('week', current_date)
group by 1, 2
order by 1, 2`, table, placeholders), nil
}

// FetchUsage returns the weekly usage of events over the last year.
func (c *Client) FetchUsage(ctx context.Context, table string, events []string) (*Usage, error) {
	if len(events) == 0 {
		return &Usage{Series: map[string][]int64{}}, nil
	}
	query, err := UsageQuery(table, len(events))
	if err != nil {
		return nil, err
	}
	args := make([]any, len(events))
	for i, e := range events {
		args[i] = e
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []WeeklyCount
	for rows.Next() {
		var wc WeeklyCount
		if err := rows.Scan(&wc.Week, &wc.Event, &wc.Total); err != nil {
			return nil, fmt.Errorf("usage scan: %w", err)
		}
		counts = append(counts, wc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return PivotUsage(counts, events), nil
}
