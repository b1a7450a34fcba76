// Package tableau provides a client for the Tableau Server REST API.
//
// # Overview
//
// glow reads published data sources from Tableau to document them: their
// owner, project, extract refresh schedules and the relation tree inside
// the .tds file. The relation tree is handed to [lineage.Builder] to
// produce lineage.
//
// # Usage
//
//	client := tableau.NewClient(tableau.Config{
//	    Server:   "https://tableau.example.com/",
//	    Site:     "analytics",
//	    Username: "glow",
//	    Password: os.Getenv("GLOW_TABLEAU_PASSWORD"),
//	}, c, 24*time.Hour)
//
//	conn := tableau.NewConnector(client, logger)
//	sources, err := conn.List(ctx)
//	datasources, incomplete, err := conn.Fetch(ctx, sources, false)
//
// Every call signs in lazily. An expired session (401) triggers one
// re-authentication before the error is returned.
//
// # Caching
//
// Owner lookups and .tdsx downloads go through [cache.Cache]. Downloads are
// keyed by data source id and updatedAt, so republishing a data source
// invalidates its cached download.
//
// [lineage.Builder]: github.com/matzehuels/glow/pkg/lineage.Builder
// [cache.Cache]: github.com/matzehuels/glow/pkg/cache.Cache
package tableau
