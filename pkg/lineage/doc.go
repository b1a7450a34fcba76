// Package lineage converts Tableau relation trees into flat, named relation
// lists that describe how a data source is assembled.
//
// # Overview
//
// A Tableau data source (.tds) describes its tables as a nested tree of
// <relation> elements under its first <connection>:
//
//	<relation join="inner" type="join">
//	  <clause type="join">
//	    <expression op="=">
//	      <expression op="[A].[id]"/>
//	      <expression op="[B].[a_id]"/>
//	    </expression>
//	  </clause>
//	  <relation name="A" table="[public].[a]" type="table"/>
//	  <relation name="B" table="[public].[b]" type="table"/>
//	</relation>
//
// [Builder.Convert] flattens such a tree into a [Set] of [Relation] values.
// Tables become "model" relations and custom SQL or unions become "query"
// relations. Every relation that is joined onto another one carries the
// join type, the name of the relation it joins to and the join predicate
// with table references replaced by the {TABLE} placeholder:
//
//	A: type=model model=[public].[a] relation_type=from
//	B: type=model model=[public].[b] relation_type=inner_join to=A sql="{TABLE}.[id] = {TABLE}.[a_id]"
//
// # Recognized shapes
//
// Relation elements are dispatched on their type attribute:
//
//   - table: one model relation
//   - text: one query relation holding the custom SQL
//   - union: one query relation that unions "select * from <table>" for every child
//   - join: the two child relations merged, plus join metadata on the second
//     relation referenced by the predicate
//
// Unknown types are logged and contribute nothing.
//
// # Errors
//
// Shapes that cannot be interpreted at all, such as a predicate operand
// without a bracketed relation reference or a join without two child
// relations, fail with an [errors.ErrCodeMalformedExpression] error. The
// caller decides what that means for the data source; the pipeline keeps the
// data source and drops its relations.
//
// # Collisions
//
// Relation names are unique within a [Set]. When a tree contains two
// relations with the same name the one converted last wins, keeping the
// position of the first.
//
// [errors.ErrCodeMalformedExpression]: github.com/matzehuels/glow/pkg/errors
package lineage
