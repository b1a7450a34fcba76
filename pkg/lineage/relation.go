package lineage

import "strings"

// NodeKind says what backs a relation.
type NodeKind string

const (
	// NodeModel is a relation backed by a warehouse table.
	NodeModel NodeKind = "model"
	// NodeQuery is a relation backed by SQL text (custom SQL or a union).
	NodeQuery NodeKind = "query"
)

// RelationTypeFrom is the relation type of relations that are not joined
// onto anything.
const RelationTypeFrom = "from"

// Relation is one named table or query in a data source.
//
// Model is set iff Kind is [NodeModel] and Query iff Kind is [NodeQuery].
// To and SQL are set iff RelationType is a join type such as "left_join".
type Relation struct {
	Name         string   `yaml:"name" json:"name"`
	Kind         NodeKind `yaml:"type" json:"type"`
	Model        string   `yaml:"model,omitempty" json:"model,omitempty"`
	Query        string   `yaml:"query,omitempty" json:"query,omitempty"`
	RelationType string   `yaml:"relation_type,omitempty" json:"relation_type,omitempty"`
	To           string   `yaml:"to,omitempty" json:"to,omitempty"`
	SQL          string   `yaml:"sql,omitempty" json:"sql,omitempty"`
}

// IsJoin reports whether the relation is joined onto another relation.
func (r Relation) IsJoin() bool {
	return strings.HasSuffix(r.RelationType, "_join")
}

// Set is an ordered collection of relations keyed by name.
//
// The zero value is an empty set ready to use.
type Set struct {
	order  []string
	byName map[string]Relation
}

// Put stores r under its name. If the name is already present the value is
// replaced and the original position is kept.
func (s *Set) Put(r Relation) {
	if s.byName == nil {
		s.byName = make(map[string]Relation)
	}
	if _, ok := s.byName[r.Name]; !ok {
		s.order = append(s.order, r.Name)
	}
	s.byName[r.Name] = r
}

// Merge puts every relation of o into s in o's order, so o wins on
// collisions.
func (s *Set) Merge(o Set) {
	for _, name := range o.order {
		s.Put(o.byName[name])
	}
}

// Get returns the relation with the given name.
func (s Set) Get(name string) (Relation, bool) {
	r, ok := s.byName[name]
	return r, ok
}

// Len returns the number of relations.
func (s Set) Len() int { return len(s.order) }

// Names returns relation names in insertion order.
func (s Set) Names() []string {
	return append([]string(nil), s.order...)
}

// Relations returns the relations in insertion order.
func (s Set) Relations() []Relation {
	out := make([]Relation, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}
