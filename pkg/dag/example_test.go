package dag_test

import (
	"fmt"

	"github.com/matzehuels/glow/pkg/dag"
)

func ExampleDAG_basic() {
	// Orders joined with Returns and Regions
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Orders", Row: 0})
	_ = g.AddNode(dag.Node{ID: "Returns", Row: 1})
	_ = g.AddNode(dag.Node{ID: "Regions", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "Orders", To: "Returns"})
	_ = g.AddEdge(dag.Edge{From: "Orders", To: "Regions"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 2
}

func ExampleDAG_traversal() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Orders"})
	_ = g.AddNode(dag.Node{ID: "Returns"})
	_ = g.AddNode(dag.Node{ID: "People"})
	_ = g.AddEdge(dag.Edge{From: "Orders", To: "Returns"})
	_ = g.AddEdge(dag.Edge{From: "Orders", To: "People"})

	fmt.Println("Children of Orders:", g.Children("Orders"))
	fmt.Println("Parents of Returns:", g.Parents("Returns"))
	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// Children of Orders: [Returns People]
	// Parents of Returns: [Orders]
	// Sources: [Orders]
}
