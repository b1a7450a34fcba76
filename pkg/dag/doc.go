// Package dag provides the directed acyclic graph used for data-source
// lineage diagrams.
//
// # Overview
//
// A Tableau data source is built from base relations (tables and custom SQL
// queries) that are joined together. glow turns the flat relation list into
// a graph where each join contributes an edge from the relation it joins
// onto to the relation being joined. Nodes are organized into rows so
// diagrams read top-to-bottom from the base relation outwards.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "Orders"})
//	g.AddNode(dag.Node{ID: "Returns"})
//	g.AddEdge(dag.Edge{From: "Orders", To: "Returns"})
//
// Nodes and edges keep insertion order, so rendering the same relations
// twice produces byte-identical output.
//
// # Metadata
//
// Nodes, edges and the graph itself carry [Metadata] maps. The lineage
// builder stores the relation kind and backing table on nodes and the join
// type and predicate on edges.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use.
//
// # Related Packages
//
// The [transform] subpackage assigns rows and breaks cycles.
//
// [transform]: github.com/matzehuels/glow/pkg/dag/transform
package dag
