package docs

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glow/pkg/definitions"
	"github.com/matzehuels/glow/pkg/gitlog"
	"github.com/matzehuels/glow/pkg/lineage"
)

// EventPage is the yaml header of an event page.
type EventPage struct {
	Name                 string             `yaml:"event_name"`
	CreationDate         string             `yaml:"event_creation_date"`
	CreationAuthor       string             `yaml:"event_creation_author"`
	CreationLink         string             `yaml:"event_creation_link"`
	LastModifiedDate     string             `yaml:"last_modified_date"`
	LastModifiedAuthor   string             `yaml:"last_modified_author"`
	LastModifiedLink     string             `yaml:"last_modified_link"`
	Description          string             `yaml:"event_description"`
	ID                   string             `yaml:"event_id"`
	Category             string             `yaml:"event_category"`
	Platforms            []string           `yaml:"event_platforms"`
	AdditionalParameters []any              `yaml:"event_additional_parameters"`
	ModelProperties      definitions.Models `yaml:"model_properties"`
}

// NewEventPage collects the header data of ev. repoURL is the web URL of
// the definitions repository used for commit links.
func NewEventPage(ev definitions.Event, created, modified gitlog.Commit, repoURL string, models definitions.Models) EventPage {
	return EventPage{
		Name:                 ev.Name,
		CreationDate:         created.Date,
		CreationAuthor:       created.Author,
		CreationLink:         created.Link(repoURL),
		LastModifiedDate:     modified.Date,
		LastModifiedAuthor:   modified.Author,
		LastModifiedLink:     modified.Link(repoURL),
		Description:          ev.Description,
		ID:                   ev.Key,
		Category:             ev.Category,
		Platforms:            ev.Platforms,
		AdditionalParameters: ev.Parameters,
		ModelProperties:      ev.ModelProperties(models),
	}
}

// DatasourcePage renders the page of ds. graph is the file name of the
// lineage diagram next to the page, or empty when there is none.
func (t *Templates) DatasourcePage(ds *lineage.Datasource, graph string) (string, error) {
	header, err := yaml.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("data source %s: %w", ds.Name, err)
	}

	diagram := ""
	if graph != "" {
		diagram = fmt.Sprintf("![%s lineage](%s)", ds.Name, url.PathEscape(graph))
	}
	return strings.NewReplacer(
		YAMLHeader, string(header),
		LineageGraph, diagram,
	).Replace(t.DataSource), nil
}

// EventPage renders an event page. chart is the rendered usage chart and
// may be empty when usage queries are disabled.
func (t *Templates) EventPage(page EventPage, chart string) (string, error) {
	header, err := yaml.Marshal(page)
	if err != nil {
		return "", fmt.Errorf("event %s: %w", page.ID, err)
	}
	return strings.NewReplacer(
		YAMLHeader, string(header),
		UsageChart, chart,
	).Replace(t.Event), nil
}
