// Package transform provides graph transformations that prepare a lineage
// DAG for rendering.
//
// # Layer Assignment
//
// [AssignLayers] computes the row for each node based on its depth from
// source nodes (those with no incoming edges). Base relations end up in row
// 0 and every join pushes the joined relation one row further down.
//
// # Cycle Breaking
//
// [BreakCycles] removes edges that close a cycle. Join predicates in
// hand-edited workbooks occasionally reference the same pair of relations in
// both directions, which would otherwise leave nodes without a row.
//
// # Usage
//
//	transform.BreakCycles(g)
//	transform.AssignLayers(g)
package transform
