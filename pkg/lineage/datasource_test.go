package lineage

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/glow/pkg/errors"
)

const tdsDocument = `<?xml version='1.0' encoding='utf-8' ?>
<datasource formatted-name='Sales' inline='true' version='18.1' xmlns:user='http://www.tableausoftware.com/xml/user'>
  <connection class='federated'>
    <named-connections>
      <named-connection caption='warehouse' name='snowflake.1'>
        <connection class='snowflake' dbname='ANALYTICS' username='TABLEAU' />
      </named-connection>
    </named-connections>
    %s
  </connection>
  <date-options start-of-week='monday' />
</datasource>`

func datasourceWith(t *testing.T, relation string) *Datasource {
	t.Helper()
	return &Datasource{
		Name:     "Sales",
		Document: mustParse(t, strings.Replace(tdsDocument, "%s", relation, 1)),
	}
}

func TestGenerateDAG(t *testing.T) {
	b, _ := newTestBuilder()
	ds := datasourceWith(t, innerJoinXML)

	if err := b.GenerateDAG(ds); err != nil {
		t.Fatalf("GenerateDAG() error: %v", err)
	}

	if ds.Document != nil {
		t.Error("Document should be cleared after GenerateDAG")
	}
	if len(ds.Relations) != 2 {
		t.Fatalf("Relations = %d, want 2", len(ds.Relations))
	}
	if got := ds.Relations[0]; got.Name != "A" || got.RelationType != RelationTypeFrom {
		t.Errorf("Relations[0] = %+v, want A with relation_type from", got)
	}
	if got := ds.Relations[1]; got.Name != "B" || got.RelationType != "inner_join" || !got.IsJoin() {
		t.Errorf("Relations[1] = %+v, want B inner_join", got)
	}
}

func TestGenerateDAG_TableIsFrom(t *testing.T) {
	b, _ := newTestBuilder()
	ds := datasourceWith(t, `<relation name='A' table='schema.A' type='table' />`)

	if err := b.GenerateDAG(ds); err != nil {
		t.Fatalf("GenerateDAG() error: %v", err)
	}

	want := []Relation{{Name: "A", Kind: NodeModel, Model: "schema.A", RelationType: "from"}}
	if !reflect.DeepEqual(ds.Relations, want) {
		t.Errorf("Relations = %+v, want %+v", ds.Relations, want)
	}
}

func TestGenerateDAG_LegacyTag(t *testing.T) {
	b, _ := newTestBuilder()
	ds := datasourceWith(t,
		`<_.fcp.ObjectModelEncapsulateLegacy.false...relation name='Orders' table='[s].[orders]' type='table' />`)

	if err := b.GenerateDAG(ds); err != nil {
		t.Fatalf("GenerateDAG() error: %v", err)
	}
	if len(ds.Relations) != 1 || ds.Relations[0].Model != "[s].[orders]" {
		t.Errorf("Relations = %+v", ds.Relations)
	}
}

func TestGenerateDAG_NoOp(t *testing.T) {
	tests := []struct {
		name string
		ds   func(t *testing.T) *Datasource
		warn string
	}{
		{
			name: "no document",
			ds:   func(*testing.T) *Datasource { return &Datasource{Name: "Sales"} },
			warn: "no relationships document",
		},
		{
			name: "no connection",
			ds: func(t *testing.T) *Datasource {
				return &Datasource{Name: "Sales", Document: mustParse(t, `<datasource><date-options/></datasource>`)}
			},
			warn: "no connection",
		},
		{
			name: "no relation",
			ds:   func(t *testing.T) *Datasource { return datasourceWith(t, "") },
			warn: "no relationships found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, logs := newTestBuilder()
			ds := tt.ds(t)
			doc := ds.Document

			if err := b.GenerateDAG(ds); err != nil {
				t.Fatalf("GenerateDAG() error: %v", err)
			}
			if ds.Relations != nil {
				t.Errorf("Relations = %+v, want nil", ds.Relations)
			}
			if ds.Document != doc {
				t.Error("Document should be untouched")
			}
			if !strings.Contains(logs.String(), tt.warn) {
				t.Errorf("log %q does not contain %q", logs.String(), tt.warn)
			}
			if !strings.Contains(logs.String(), "Sales") {
				t.Error("warning should name the datasource")
			}
		})
	}
}

func TestGenerateDAG_MalformedKeepsDatasource(t *testing.T) {
	b, _ := newTestBuilder()
	ds := datasourceWith(t, `<relation join='inner' type='join'>
	  <clause type='join'><expression op='='><expression op='id' /><expression op='[B].[id]' /></expression></clause>
	  <relation name='A' table='a' type='table' /><relation name='B' table='b' type='table' />
	</relation>`)

	err := b.GenerateDAG(ds)
	if !errors.Is(err, errors.ErrCodeMalformedExpression) {
		t.Fatalf("GenerateDAG() error = %v, want malformed expression", err)
	}
	if ds.Relations != nil || ds.Document == nil {
		t.Error("datasource should be untouched on error")
	}
}
