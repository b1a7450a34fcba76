package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glow/pkg/dag"
	"github.com/matzehuels/glow/pkg/integrations/tableau"
	graphio "github.com/matzehuels/glow/pkg/io"
	"github.com/matzehuels/glow/pkg/lineage"
	"github.com/matzehuels/glow/pkg/render"
	"github.com/matzehuels/glow/pkg/render/nodelink"
)

// Lineage output formats.
const (
	formatYAML = "yaml"
	formatJSON = "json"
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatPNG  = "png"
	formatPDF  = "pdf"
)

var lineageFormats = []string{formatYAML, formatJSON, formatDOT, formatSVG, formatPNG, formatPDF}

// lineageCommand creates the lineage command.
func (c *CLI) lineageCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "lineage <file.tds|file.tdsx|graph.json>",
		Short: "Print the lineage of a data source file",
		Long: `Lineage derives the relations of a local .tds or .tdsx file and prints
them as yaml, a JSON graph, Graphviz DOT or a rendered diagram. A JSON
graph written by --format json can be given instead of a data source file
to render it again.

Examples:
  glow lineage Sales.tdsx
  glow lineage Sales.tds --format svg -o sales.svg
  glow lineage sales.json --format png -o sales.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			path := args[0]
			if strings.EqualFold(filepath.Ext(path), ".json") {
				g, err := graphio.ImportJSON(path)
				if err != nil {
					return err
				}
				out, err := renderGraph(ctx, g, format, detailed)
				if err != nil {
					return err
				}
				return writeLineage(cmd, baseName(path), g.NodeCount(), out, output)
			}

			ds, err := loadDatasource(path, lineage.NewBuilder(logger))
			if err != nil {
				return err
			}
			out, err := renderLineage(ctx, ds, format, detailed)
			if err != nil {
				return err
			}
			return writeLineage(cmd, ds.Name, len(ds.Relations), out, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatYAML, "output format: "+strings.Join(lineageFormats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", true, "label diagrams with tables and join predicates")

	return cmd
}

// loadDatasource parses a .tds or .tdsx file and derives its relations.
func loadDatasource(path string, b *lineage.Builder) (*lineage.Datasource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	root, err := tableau.ParseBundle(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	name := baseName(path)
	if n := root.Attr("formatted-name"); n != "" {
		name = n
	}
	ds := &lineage.Datasource{Name: name, Type: lineage.DatasourceType, Document: root}
	if err := b.GenerateDAG(ds); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}

func baseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// writeLineage writes out to output, or to stdout when output is empty.
func writeLineage(cmd *cobra.Command, name string, relations int, out []byte, output string) error {
	if output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return err
	}
	printSuccess("Wrote lineage of %s (%d relations)", name, relations)
	printFile(output)
	return nil
}

// renderLineage encodes the relations of ds in format.
func renderLineage(ctx context.Context, ds *lineage.Datasource, format string, detailed bool) ([]byte, error) {
	if format != formatYAML {
		return renderGraph(ctx, lineage.ToDAG(ds.Relations), format, detailed)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err := enc.Encode(ds); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderGraph encodes a lineage graph in any format but yaml.
func renderGraph(ctx context.Context, g *dag.DAG, format string, detailed bool) ([]byte, error) {
	switch format {
	case formatJSON:
		var buf bytes.Buffer
		if err := graphio.WriteJSON(g, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatDOT, formatSVG, formatPNG, formatPDF:
	case formatYAML:
		return nil, fmt.Errorf("format %q needs a data source file", format)
	default:
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(lineageFormats, ", "))
	}

	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	switch format {
	case formatPNG:
		return render.ToPNG(ctx, svg, 2)
	case formatPDF:
		return render.ToPDF(ctx, svg)
	}
	return svg, nil
}
