package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/glow/pkg/cache"
	"github.com/matzehuels/glow/pkg/config"
	"github.com/matzehuels/glow/pkg/definitions"
	"github.com/matzehuels/glow/pkg/lineage"
)

const salesTDS = `<?xml version='1.0' encoding='utf-8' ?>
<datasource formatted-name='Sales' inline='true' version='18.1'>
  <connection class='federated'>
    <relation join='left' type='join'>
      <clause type='join'>
        <expression op='='>
          <expression op='[Orders].[id]' />
          <expression op='[Returns].[order_id]' />
        </expression>
      </clause>
      <relation name='Orders' table='[s].[orders]' type='table' />
      <relation name='Returns' table='[s].[returns]' type='table' />
    </relation>
  </connection>
</datasource>`

// execute runs the root command with args and returns what it wrote to
// the command's stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// writeProject writes a project file into a new directory and returns its
// path.
func writeProject(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"fetch", "compile", "build", "serve", "lineage", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestLineageCommandYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.tds")
	if err := os.WriteFile(path, []byte(salesTDS), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "lineage", path)
	if err != nil {
		t.Fatalf("lineage error: %v", err)
	}

	for _, want := range []string{
		"data_source_name: Sales",
		"name: Orders",
		"relation_type: from",
		"name: Returns",
		"relation_type: left_join",
		"to: Orders",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLineageCommandDOTToFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sales.tds")
	dst := filepath.Join(dir, "sales.dot")
	if err := os.WriteFile(src, []byte(salesTDS), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "lineage", src, "--format", "dot", "-o", dst); err != nil {
		t.Fatalf("lineage error: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Orders" -> "Returns"`) {
		t.Errorf("DOT output missing edge:\n%s", data)
	}
}

func TestLineageCommandJSONGraph(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sales.tds")
	graph := filepath.Join(dir, "sales.json")
	if err := os.WriteFile(src, []byte(salesTDS), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "lineage", src, "--format", "json", "-o", graph); err != nil {
		t.Fatalf("lineage --format json error: %v", err)
	}

	out, err := execute(t, "lineage", graph, "--format", "dot")
	if err != nil {
		t.Fatalf("lineage of JSON graph error: %v", err)
	}
	if !strings.Contains(out, `"Orders" -> "Returns"`) {
		t.Errorf("DOT output missing edge:\n%s", out)
	}

	if _, err := execute(t, "lineage", graph); err == nil {
		t.Error("yaml output of a JSON graph should fail")
	}
}

func TestLineageCommandErrors(t *testing.T) {
	if _, err := execute(t, "lineage", filepath.Join(t.TempDir(), "missing.tds")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := execute(t, "lineage"); err == nil {
		t.Error("expected error without argument")
	}
}

func TestRenderLineageUnknownFormat(t *testing.T) {
	ds := &lineage.Datasource{Name: "Sales"}
	if _, err := renderLineage(context.Background(), ds, "gif", true); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCompileDatasourcesLocal(t *testing.T) {
	project := writeProject(t, `
docs_dir = "docs"
definitions_dir = "definitions"

[cache]
backend = "none"

[warehouse]
enabled = false
`)
	dir := filepath.Dir(project)

	err := definitions.SaveDatasources(filepath.Join(dir, "definitions", definitions.DatasourcesFile), []*lineage.Datasource{{
		Name:    "Sales",
		Type:    lineage.DatasourceType,
		Project: "Finance",
		Relations: []lineage.Relation{
			{Name: "Orders", Kind: lineage.NodeModel, Model: "orders", RelationType: lineage.RelationTypeFrom},
		},
	}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "--config", project, "compile", "datasources", "--local", "--no-diagrams"); err != nil {
		t.Fatalf("compile datasources error: %v", err)
	}

	page, err := os.ReadFile(filepath.Join(dir, "docs", "data sources", "Finance", "Sales.md"))
	if err != nil {
		t.Fatalf("page not written: %v", err)
	}
	if !strings.Contains(string(page), "data_source_name: Sales") {
		t.Errorf("page header missing name:\n%s", page)
	}
}

func TestFetchWithoutTableau(t *testing.T) {
	project := writeProject(t, "[cache]\nbackend = \"none\"\n")

	_, err := execute(t, "--config", project, "fetch")
	if err == nil || !strings.Contains(err.Error(), "no Tableau server configured") {
		t.Errorf("fetch error = %v, want missing server", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	want := filepath.Join(t.TempDir(), "http-cache")
	project := writeProject(t, "[cache]\ndir = \""+filepath.ToSlash(want)+"\"\n")

	out, err := execute(t, "--config", project, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(want) && strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", out, want)
	}
}

func TestCacheClearCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "http-cache")
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := fc.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	project := writeProject(t, "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	if _, err := execute(t, "--config", project, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if _, ok, _ := fc.Get(context.Background(), "k"); ok {
		t.Error("entry still cached after clear")
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	c, err := newCache(ctx, config.Cache{Backend: config.CacheFile, Dir: t.TempDir()}, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("noCache: got %T, want *cache.NullCache", c)
	}

	c, err = newCache(ctx, config.Cache{Backend: config.CacheNone}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend: got %T, want *cache.NullCache", c)
	}

	dir := t.TempDir()
	c, err = newCache(ctx, config.Cache{Backend: config.CacheFile, Dir: dir}, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != dir {
		t.Errorf("file backend: got %T", c)
	}
}

func TestCacheDirDefault(t *testing.T) {
	dir, err := cacheDir(config.Cache{})
	if err != nil {
		t.Skipf("no user cache dir: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}
