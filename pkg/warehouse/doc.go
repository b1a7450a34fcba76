// Package warehouse reads event usage statistics from the analytics
// warehouse.
//
// The warehouse is reached through database/sql. glow registers the DuckDB
// driver, which can query local files as well as attached remote catalogs;
// any other registered driver works for [Client.Rows].
//
// Usage for event pages is the weekly event count over the last year,
// excluding the current week:
//
//	wh, err := warehouse.Open("duckdb", dsn)
//	usage, err := wh.FetchUsage(ctx, "raw.events", []string{"Task Posted", "Offer Made"})
//	usage.Series["Task Posted"] // one count per usage.Weeks entry, zero filled
package warehouse
