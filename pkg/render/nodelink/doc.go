// Package nodelink renders lineage graphs as node-link diagrams.
//
// # Overview
//
// Relations appear as boxes connected by arrows that point from the
// relation a join starts at to the relation being joined. Tables are drawn
// as rounded boxes and custom SQL as notes. Edges are labelled with the join
// type.
//
// # Usage
//
//	g := lineage.ToDAG(ds.Relations)
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the backing table and edge labels the
//     join predicate
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering, so no Graphviz installation is needed.
package nodelink
