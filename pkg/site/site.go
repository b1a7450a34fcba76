// Package site builds a static HTML site from the generated docs tree.
//
// Every markdown page is converted with goldmark. A leading yaml front
// matter block is shown verbatim in a metadata section above the page
// body. Other files (lineage diagrams) are copied unchanged, and an index
// page links every page grouped by its top-level section.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates
var assets embed.FS

var (
	pageTmpl  = template.Must(template.ParseFS(assets, "templates/page.html.tmpl"))
	indexTmpl = template.Must(template.ParseFS(assets, "templates/index.html.tmpl"))
)

// Result summarizes a build.
type Result struct {
	Pages  int
	Assets int
}

// Builder converts a docs tree into a site.
type Builder struct {
	md     goldmark.Markdown
	logger *log.Logger
}

// NewBuilder creates a site builder. A nil logger discards output.
func NewBuilder(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Builder{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			// usage charts are inline <canvas>/<script> blocks
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		logger: logger,
	}
}

type page struct {
	Title    string
	Href     string
	Root     string
	Metadata string
	Body     template.HTML
}

type section struct {
	Name  string
	Pages []page
}

// Build renders docsDir into siteDir. siteDir is created if needed;
// existing files are overwritten.
func (b *Builder) Build(docsDir, siteDir string) (*Result, error) {
	if _, err := os.Stat(docsDir); err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return nil, err
	}

	res := &Result{}
	sections := map[string][]page{}

	err := filepath.WalkDir(docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(docsDir, path)
		if err != nil {
			return err
		}

		if !strings.EqualFold(filepath.Ext(rel), ".md") {
			res.Assets++
			return copyFile(path, filepath.Join(siteDir, rel))
		}

		p, err := b.renderPage(path, rel, filepath.Join(siteDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".html"))
		if err != nil {
			return err
		}
		res.Pages++
		name := "pages"
		if i := strings.IndexRune(filepath.ToSlash(rel), '/'); i > 0 {
			name = filepath.ToSlash(rel)[:i]
		}
		sections[name] = append(sections[name], p)
		b.logger.Debug("rendered page", "page", rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := writeIndex(siteDir, sections); err != nil {
		return nil, err
	}
	css, _ := assets.ReadFile("templates/style.css")
	if err := os.WriteFile(filepath.Join(siteDir, "style.css"), css, 0o644); err != nil {
		return nil, err
	}
	return res, nil
}

func (b *Builder) renderPage(src, rel, dst string) (page, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return page{}, err
	}
	meta, body := SplitFrontMatter(data)

	var out bytes.Buffer
	if err := b.md.Convert(body, &out); err != nil {
		return page{}, fmt.Errorf("convert %s: %w", rel, err)
	}

	slashRel := filepath.ToSlash(rel)
	p := page{
		Title:    strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
		Href:     strings.TrimSuffix(slashRel, filepath.Ext(slashRel)) + ".html",
		Root:     strings.Repeat("../", strings.Count(slashRel, "/")),
		Metadata: string(meta),
		Body:     template.HTML(out.String()),
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, p); err != nil {
		return page{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return page{}, err
	}
	return p, os.WriteFile(dst, buf.Bytes(), 0o644)
}

// SplitFrontMatter separates a leading "---" delimited block from the rest
// of a markdown document. Delimiter lines may end in CRLF, and the closing
// one may end the document. meta is nil when there is no front matter.
func SplitFrontMatter(doc []byte) (meta, body []byte) {
	line, rest := nextLine(doc)
	if !isDelimiter(line) {
		return nil, doc
	}
	start := rest
	for len(rest) > 0 {
		line, next := nextLine(rest)
		if isDelimiter(line) {
			return start[:len(start)-len(rest)], next
		}
		rest = next
	}
	return nil, doc
}

// nextLine splits off the first line of b, line ending included.
func nextLine(b []byte) (line, rest []byte) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i+1], b[i+1:]
	}
	return b, nil
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, "\r\n")) == "---"
}

func writeIndex(siteDir string, bySection map[string][]page) error {
	names := make([]string, 0, len(bySection))
	for name := range bySection {
		names = append(names, name)
	}
	sort.Strings(names)

	var sections []section
	for _, name := range names {
		pages := bySection[name]
		sort.Slice(pages, func(i, j int) bool { return pages[i].Href < pages[j].Href })
		sections = append(sections, section{Name: name, Pages: pages})
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, map[string]any{"Sections": sections}); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(siteDir, "index.html"), buf.Bytes(), 0o644)
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
