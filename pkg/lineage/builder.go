package lineage

import (
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/glow/pkg/errors"
	"github.com/matzehuels/glow/pkg/xmltree"
)

// DefaultMaxDepth bounds join and predicate nesting.
const DefaultMaxDepth = 64

// TablePlaceholder replaces the relation reference in join predicates.
const TablePlaceholder = "{TABLE}"

// LegacyRelationTag is the relation element name written by Tableau versions
// that encapsulate the legacy object model.
const LegacyRelationTag = "_.fcp.ObjectModelEncapsulateLegacy.false...relation"

// RelationKind is the type attribute of a relation element.
type RelationKind int

const (
	RelationUnknown RelationKind = iota
	RelationJoin
	RelationUnion
	RelationTable
	RelationText
)

// ParseRelationKind maps a relation type attribute to its kind.
func ParseRelationKind(s string) RelationKind {
	switch s {
	case "join":
		return RelationJoin
	case "union":
		return RelationUnion
	case "table":
		return RelationTable
	case "text":
		return RelationText
	default:
		return RelationUnknown
	}
}

// ExprOp is the op attribute of a predicate expression element.
type ExprOp int

const (
	// OpLeaf is an operand such as "[Orders].[id]".
	OpLeaf ExprOp = iota
	OpEq
	OpAnd
	OpOr
)

// ParseExprOp classifies an op attribute. Anything that is not an operator
// is an operand.
func ParseExprOp(s string) ExprOp {
	switch strings.ToLower(s) {
	case "=":
		return OpEq
	case "and":
		return OpAnd
	case "or":
		return OpOr
	default:
		return OpLeaf
	}
}

var bracketRe = regexp.MustCompile(`\[[^\]]*\]`)

// Builder converts relation trees. It holds no state between calls and is
// safe for concurrent use.
type Builder struct {
	// Logger receives recognition warnings. Nil discards them.
	Logger *log.Logger
	// MaxDepth bounds nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// NewBuilder returns a Builder that logs to logger.
func NewBuilder(logger *log.Logger) *Builder {
	return &Builder{Logger: logger}
}

func (b *Builder) logger() *log.Logger {
	if b.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return b.Logger
}

func (b *Builder) maxDepth() int {
	if b.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return b.MaxDepth
}

// Convert flattens the relation tree rooted at rel. The input tree is not
// modified.
//
// Only nodes joined onto another node get a RelationType here. Table, text
// and union nodes that are not the right side of a join come back with an
// empty RelationType, and [Builder.GenerateDAG] defaults those to
// [RelationTypeFrom]. A single table relation therefore ends up in a
// datasource as one model node with relation type "from".
func (b *Builder) Convert(rel *xmltree.Element) (Set, error) {
	return b.convert(b.logger(), rel, 0)
}

func (b *Builder) convert(logger *log.Logger, rel *xmltree.Element, depth int) (Set, error) {
	if depth > b.maxDepth() {
		return Set{}, errors.New(errors.ErrCodeMalformedExpression, "relation nesting exceeds %d levels", b.maxDepth())
	}

	switch ParseRelationKind(rel.Attr("type")) {
	case RelationTable:
		name, err := relationName(rel)
		if err != nil {
			return Set{}, err
		}
		var s Set
		s.Put(Relation{Name: name, Kind: NodeModel, Model: rel.Attr("table")})
		return s, nil

	case RelationText:
		name, err := relationName(rel)
		if err != nil {
			return Set{}, err
		}
		var s Set
		s.Put(Relation{Name: name, Kind: NodeQuery, Query: rel.Text})
		return s, nil

	case RelationUnion:
		return b.convertUnion(logger, rel)

	case RelationJoin:
		return b.convertJoin(logger, rel, depth)

	default:
		logger.Warn("relation type not recognised, skipping", "type", rel.Attr("type"), "element", rel.String())
		return Set{}, nil
	}
}

func (b *Builder) convertUnion(logger *log.Logger, rel *xmltree.Element) (Set, error) {
	name, err := relationName(rel)
	if err != nil {
		return Set{}, err
	}
	logger.Warn("union found in relations, children are assumed to be tables", "relation", name)

	sep := "\nunion\n"
	if rel.Attr("all") == "true" {
		sep = "\nunion all\n"
	}

	selects := make([]string, 0, len(rel.Children))
	for i, child := range rel.Children {
		table, ok := child.Lookup("table")
		if !ok {
			return Set{}, errors.New(errors.ErrCodeMalformedExpression,
				"union %q: child %d %s has no table attribute", name, i, child)
		}
		selects = append(selects, "select * from "+table)
	}

	var s Set
	s.Put(Relation{Name: name, Kind: NodeQuery, Query: strings.Join(selects, sep)})
	return s, nil
}

func (b *Builder) convertJoin(logger *log.Logger, rel *xmltree.Element, depth int) (Set, error) {
	join, ok := rel.Lookup("join")
	if !ok || join == "" {
		return Set{}, errors.New(errors.ErrCodeMalformedExpression, "join %s has no join attribute", rel)
	}

	left, err := joinOperand(rel, 1)
	if err != nil {
		return Set{}, err
	}
	right, err := joinOperand(rel, 2)
	if err != nil {
		return Set{}, err
	}

	rels, err := b.convert(logger, left, depth+1)
	if err != nil {
		return Set{}, err
	}
	rightRels, err := b.convert(logger, right, depth+1)
	if err != nil {
		return Set{}, err
	}
	rels.Merge(rightRels)

	expr := rel.FindPath("clause/expression")
	if expr == nil {
		return Set{}, errors.New(errors.ErrCodeMalformedExpression, "%s join has no clause/expression", join)
	}
	names, sql, err := b.evaluate(logger, expr, depth+1)
	if err != nil {
		return Set{}, err
	}
	if len(names) < 2 {
		return Set{}, errors.New(errors.ErrCodeMalformedExpression,
			"%s join predicate %q references %d relation(s), need 2", join, sql, len(names))
	}
	if countDistinct(names) > 2 {
		logger.Warn("join between more than two relations is not supported, lineage may be incorrect",
			"relations", names)
	}

	to, target := names[0], names[1]
	node, ok := rels.Get(target)
	if !ok {
		return Set{}, errors.New(errors.ErrCodeMalformedExpression,
			"%s join predicate references unknown relation %q", join, target)
	}
	node.RelationType = join + "_join"
	node.To = to
	node.SQL = sql
	rels.Put(node)
	return rels, nil
}

// evaluate renders a join predicate and returns the relation names it
// references in order of appearance.
func (b *Builder) evaluate(logger *log.Logger, expr *xmltree.Element, depth int) ([]string, string, error) {
	if depth > b.maxDepth() {
		return nil, "", errors.New(errors.ErrCodeMalformedExpression, "expression nesting exceeds %d levels", b.maxDepth())
	}

	op := expr.Attr("op")
	kind := ParseExprOp(op)
	if kind == OpLeaf {
		return evaluateLeaf(op)
	}

	operands := expr.FindAll("expression")
	if len(operands) != 2 {
		return nil, "", errors.New(errors.ErrCodeMalformedExpression,
			"operator %q has %d operands, want 2", op, len(operands))
	}
	leftNames, leftSQL, err := b.evaluate(logger, operands[0], depth+1)
	if err != nil {
		return nil, "", err
	}
	rightNames, rightSQL, err := b.evaluate(logger, operands[1], depth+1)
	if err != nil {
		return nil, "", err
	}

	if kind == OpEq {
		return append(leftNames, rightNames...), leftSQL + " = " + rightSQL, nil
	}

	names := leftNames
	for _, n := range rightNames {
		if !slices.Contains(names, n) {
			logger.Warn("join between multiple relations is not supported, assumed relations may be incorrect",
				"relation", n)
			names = append(names, n)
		}
	}
	return names, "(" + leftSQL + ") " + strings.ToLower(op) + " (" + rightSQL + ")", nil
}

func evaluateLeaf(op string) ([]string, string, error) {
	loc := bracketRe.FindStringIndex(op)
	if loc == nil {
		return nil, "", errors.New(errors.ErrCodeMalformedExpression,
			"operand %q has no [relation] reference", op)
	}
	name := op[loc[0]+1 : loc[1]-1]
	sql := op[:loc[0]] + TablePlaceholder + op[loc[1]:]
	return []string{name}, sql, nil
}

// IsRelationElement reports whether el is a relation element under either
// the current or the legacy tag name.
func IsRelationElement(el *xmltree.Element) bool {
	return el.Tag == "relation" ||
		(strings.HasPrefix(el.Tag, "_.fcp.") && strings.HasSuffix(el.Tag, "...relation"))
}

func joinOperand(rel *xmltree.Element, i int) (*xmltree.Element, error) {
	child, ok := rel.Child(i)
	if !ok {
		return nil, errors.New(errors.ErrCodeMalformedExpression,
			"%s join has %d children, want clause plus two relations", rel.Attr("join"), len(rel.Children))
	}
	if !IsRelationElement(child) {
		return nil, errors.New(errors.ErrCodeMalformedExpression,
			"%s join child %d is %s, want a relation", rel.Attr("join"), i, child)
	}
	return child, nil
}

func relationName(rel *xmltree.Element) (string, error) {
	name := rel.Attr("name")
	if name == "" {
		return "", errors.New(errors.ErrCodeMalformedExpression, "%s has no name", rel)
	}
	return name, nil
}

func countDistinct(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	return len(seen)
}
