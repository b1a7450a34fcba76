package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/glow/pkg/dag"
	"github.com/matzehuels/glow/pkg/lineage"
)

// Options configures lineage diagram rendering.
type Options struct {
	// Detailed adds the backing table to node labels and the join
	// predicate to edge labels.
	Detailed bool
}

// ToDOT converts a lineage graph to Graphviz DOT source. Output is
// deterministic for a given graph.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph lineage {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10, color=\"#555555\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(*n, opts.Detailed), ", "))
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, edgeLabel(e, opts.Detailed))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n dag.Node, detailed bool) []string {
	query := n.Meta[lineage.MetaKind] == string(lineage.NodeQuery)

	label := n.ID
	if detailed {
		if query {
			label += "\ncustom sql"
		} else if model, _ := n.Meta[lineage.MetaModel].(string); model != "" {
			label += "\n" + model
		}
	}

	attrs := []string{fmt.Sprintf("label=%q", label)}
	if query {
		attrs = append(attrs, "shape=note", "fillcolor=\"#eef5ff\"")
	}
	return attrs
}

func edgeLabel(e dag.Edge, detailed bool) string {
	label, _ := e.Meta[lineage.MetaRelationType].(string)
	if sql, _ := e.Meta[lineage.MetaSQL].(string); detailed && sql != "" {
		label += "\n" + sql
	}
	return label
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the diagram scales inside
// markdown pages instead of using Graphviz's point based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
