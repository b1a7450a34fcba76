// Package pkg provides the core libraries for glow documentation generation.
//
// # Overview
//
// glow turns three kinds of source material into markdown pages and a
// static site: BI data source definitions (with their table lineage), an
// event definitions repository (with its git history) and event usage
// counts from the warehouse.
//
// # Architecture
//
// The data flow for data sources:
//
//	Tableau REST API (.tdsx download)
//	         ↓
//	    [integrations/tableau] (list, download, owners, schedules)
//	         ↓
//	    [xmltree] (parsed .tds document)
//	         ↓
//	    [lineage] (relation tree → flat relation list)
//	         ↓
//	    [dag] + [render/nodelink] (lineage graph → SVG)
//	         ↓
//	    [docs] (data source page)
//
// And for events:
//
//	event_definitions.yml + git history + warehouse usage
//	         ↓
//	    [definitions], [gitlog], [warehouse]
//	         ↓
//	    [docs] (event page with usage chart)
//
// [pipeline] orchestrates both runs and [site] renders the resulting docs
// tree to HTML.
//
// # Quick Start
//
// Derive the lineage of a downloaded data source:
//
//	root, _ := tableau.ParseBundle(data)
//	ds := &lineage.Datasource{Name: "Sales", Document: root}
//	if err := lineage.NewBuilder(logger).GenerateDAG(ds); err != nil {
//	    return err
//	}
//	svg, _ := nodelink.RenderSVG(ctx, nodelink.ToDOT(lineage.ToDAG(ds.Relations), nodelink.Options{}))
//
// # Main Packages
//
// [lineage] - Converts the relation tree of a data source into relations
// joined onto each other, and relations into a graph.
//
// [dag] - Directed acyclic graph organized into rows, with cycle breaking
// and layering in [dag/transform].
//
// [integrations] - Shared HTTP client with caching, retry, rate limiting and
// hooks; [integrations/tableau] is the Tableau REST client.
//
// [cache] - File, Redis and null cache backends for API responses and
// downloads.
//
// [io] - JSON import and export of lineage graphs.
//
// [config] - The glow_project.toml project file.
//
// [cache]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/config
// [dag]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/dag/transform
// [definitions]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/definitions
// [docs]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/docs
// [gitlog]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/gitlog
// [integrations]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/integrations
// [integrations/tableau]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/integrations/tableau
// [io]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/io
// [lineage]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/lineage
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/pipeline
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/render/nodelink
// [site]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/site
// [warehouse]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/warehouse
// [xmltree]: https://pkg.go.dev/github.com/matzehuels/glow/pkg/xmltree
package pkg
