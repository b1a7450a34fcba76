package lineage

import (
	"github.com/matzehuels/glow/pkg/dag"
	"github.com/matzehuels/glow/pkg/dag/transform"
)

// Metadata keys set by ToDAG.
const (
	MetaKind         = "kind"
	MetaModel        = "model"
	MetaQuery        = "query"
	MetaRelationType = "relation_type"
	MetaSQL          = "sql"
)

// ToDAG builds the lineage graph of a relation list. Every relation becomes
// a node and every join an edge from the relation it joins to. Joins whose
// target is not in the list are ignored. Rows are assigned so base
// relations sit at the top.
func ToDAG(relations []Relation) *dag.DAG {
	g := dag.New(nil)
	for _, r := range relations {
		meta := dag.Metadata{
			MetaKind:         string(r.Kind),
			MetaRelationType: r.RelationType,
		}
		switch r.Kind {
		case NodeModel:
			meta[MetaModel] = r.Model
		case NodeQuery:
			meta[MetaQuery] = r.Query
		}
		// duplicates come from hand-edited definitions files; first one wins
		_ = g.AddNode(dag.Node{ID: r.Name, Meta: meta})
	}

	for _, r := range relations {
		if r.To == "" {
			continue
		}
		_ = g.AddEdge(dag.Edge{
			From: r.To,
			To:   r.Name,
			Meta: dag.Metadata{
				MetaRelationType: r.RelationType,
				MetaSQL:          r.SQL,
			},
		})
	}

	transform.BreakCycles(g)
	transform.AssignLayers(g)
	return g
}
