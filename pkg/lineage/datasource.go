package lineage

import (
	"time"

	"github.com/matzehuels/glow/pkg/xmltree"
)

// DatasourceType is the type reported for every Tableau data source.
const DatasourceType = "Tableau Data Source"

// Materialisation types.
const (
	MaterialisationExtract = "Extract"
	MaterialisationLive    = "Live"
)

// Datasource is one published BI data source together with its lineage.
//
// The yaml keys match the data source definitions file and the yaml header
// of generated data source pages.
type Datasource struct {
	ID              string          `yaml:"data_source_id,omitempty"`
	Name            string          `yaml:"data_source_name"`
	Type            string          `yaml:"data_source_type"`
	Project         string          `yaml:"data_source_project"`
	URL             string          `yaml:"data_source_url"`
	Description     string          `yaml:"data_source_description"`
	CreatedAt       time.Time       `yaml:"data_source_created_at,omitempty"`
	UpdatedAt       time.Time       `yaml:"data_source_updated_at,omitempty"`
	Owner           Owner           `yaml:"data_source_owner"`
	Materialisation Materialisation `yaml:"data_source_materialisation"`
	Relations       []Relation      `yaml:"relations,omitempty"`

	// Document is the downloaded .tds root element. GenerateDAG clears it
	// once the relations have been extracted.
	Document *xmltree.Element `yaml:"-"`
}

// Owner is the data source owner.
type Owner struct {
	Name string `yaml:"name"`
}

// Materialisation describes how the data source is served.
type Materialisation struct {
	Type       string     `yaml:"type"`
	Schedules  []Schedule `yaml:"schedules"`
	DBUsername string     `yaml:"db_username"`
	WeekStart  string     `yaml:"week_start,omitempty"`
}

// Schedule is an extract refresh schedule.
type Schedule struct {
	ID        string `yaml:"id"`
	Frequency string `yaml:"frequency"`
	State     string `yaml:"state"`
	NextRunAt string `yaml:"next_run_at"`
}

// GenerateDAG extracts the relations of ds from its document.
//
// The relation tree is taken from the first <connection> element, using the
// legacy relation tag when no plain <relation> child exists. Relations that
// are not joined onto anything get relation type "from". On success
// ds.Relations is replaced and ds.Document is cleared.
//
// A missing document, connection or relation is logged and leaves ds
// untouched. Conversion errors are returned and also leave ds untouched.
func (b *Builder) GenerateDAG(ds *Datasource) error {
	logger := b.logger().With("datasource", ds.Name)

	if ds.Document == nil {
		logger.Warn("no relationships document available")
		return nil
	}
	conn := ds.Document.Find("connection")
	if conn == nil {
		logger.Warn("no connection found in document")
		return nil
	}
	rel := conn.Find("relation")
	if rel == nil {
		rel = conn.Find(LegacyRelationTag)
	}
	if rel == nil {
		logger.Warn("no relationships found in document")
		return nil
	}

	set, err := b.convert(logger, rel, 0)
	if err != nil {
		return err
	}

	relations := set.Relations()
	for i := range relations {
		if relations[i].RelationType == "" {
			relations[i].RelationType = RelationTypeFrom
		}
	}
	ds.Relations = relations
	ds.Document = nil
	return nil
}
