package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/glow/pkg/dag"
	"github.com/matzehuels/glow/pkg/lineage"
)

func TestWriteReadJSON(t *testing.T) {
	g := lineage.ToDAG([]lineage.Relation{
		{Name: "Orders", Kind: lineage.NodeModel, Model: "orders", RelationType: lineage.RelationTypeFrom},
		{Name: "Returns", Kind: lineage.NodeModel, Model: "returns", RelationType: "left_join", To: "Orders", SQL: "{TABLE}.[id] = {TABLE}.[order_id]"},
	})

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"relation_type": "left_join"`) {
		t.Errorf("edge metadata missing:\n%s", buf.String())
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("nodes=%d edges=%d, want 2 and 1", got.NodeCount(), got.EdgeCount())
	}
	returns, _ := got.Node("Returns")
	if returns.Row != 1 || returns.Meta[lineage.MetaModel] != "returns" {
		t.Errorf("Returns = %+v", returns)
	}
	if e := got.Edges()[0]; e.Meta[lineage.MetaSQL] != "{TABLE}.[id] = {TABLE}.[order_id]" {
		t.Errorf("edge meta = %v", e.Meta)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, dag.ErrDuplicateNodeID},
		{"unknown target", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, dag.ErrUnknownTargetNode},
		{"upward edge", `{"nodes":[{"id":"a","row":1},{"id":"b","row":0}],"edges":[{"from":"a","to":"b"}]}`, dag.ErrRowOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ReadJSON() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ReadJSON(strings.NewReader("{")); err == nil {
		t.Error("expected decode error")
	}
}

func TestImportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(`{"nodes":[{"id":"a"}],"edges":[]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := ImportJSON(path)
	if err != nil || g.NodeCount() != 1 {
		t.Fatalf("ImportJSON() = %v, %v", g, err)
	}
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
