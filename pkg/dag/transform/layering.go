package transform

import "github.com/matzehuels/glow/pkg/dag"

// AssignLayers assigns nodes to rows based on their distance from the base
// relations of a lineage graph.
//
// It is a longest-path layering over a topological order (Kahn's algorithm):
// sources sit in row 0 and every other node is placed one row below its
// deepest parent. Existing row assignments are overwritten.
//
// AssignLayers assumes the graph is acyclic. Nodes on a cycle never reach
// in-degree zero and stay in row 0; run [BreakCycles] first.
//
// Runs in O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		rows[n.ID] = 0
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
