// Package render converts rendered lineage diagrams between formats.
//
// Diagrams are produced as SVG by the [nodelink] subpackage. [Convert],
// [ToPDF] and [ToPNG] shell out to rsvg-convert (librsvg) for the other
// formats offered by `glow lineage`:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2)  // 2x scale
//
// A missing converter is reported as [ErrNoConverter].
//
// [nodelink]: github.com/matzehuels/glow/pkg/render/nodelink
package render
