package docs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/glow/pkg/errors"
)

//go:embed templates/*.md
var defaultTemplates embed.FS

// Template file names.
const (
	DataSourceTemplate = "data_source.md"
	EventTemplate      = "event.md"
	UsageChartTemplate = "usage_chart.md"
)

// Placeholders replaced in page templates.
const (
	YAMLHeader   = "{<yaml_header>}"
	UsageChart   = "{<UsageChart>}"
	LineageGraph = "{<LineageGraph>}"
)

// Placeholders replaced in the usage chart template.
const (
	ChartLabels = "{{labels}}"
	ChartTitle  = "{{title}}"
	ChartData   = "{{data}}"
)

// Templates holds the raw page templates.
type Templates struct {
	DataSource string
	Event      string
	UsageChart string
}

// LoadTemplates returns the embedded templates, each replaced by the file
// of the same name in dir when it exists. dir may be empty.
func LoadTemplates(dir string) (*Templates, error) {
	load := func(name string) (string, error) {
		if dir != "" {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err == nil {
				return string(data), nil
			}
			if !os.IsNotExist(err) {
				return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read template %s", name)
			}
		}
		data, err := defaultTemplates.ReadFile("templates/" + name)
		if err != nil {
			return "", fmt.Errorf("embedded template %s: %w", name, err)
		}
		return string(data), nil
	}

	var t Templates
	var err error
	if t.DataSource, err = load(DataSourceTemplate); err != nil {
		return nil, err
	}
	if t.Event, err = load(EventTemplate); err != nil {
		return nil, err
	}
	if t.UsageChart, err = load(UsageChartTemplate); err != nil {
		return nil, err
	}
	return &t, nil
}

// Chart renders the usage chart of one event.
func (t *Templates) Chart(event string, labels []string, data []int64) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", l)
	}
	values := make([]string, len(data))
	for i, v := range data {
		values[i] = fmt.Sprint(v)
	}

	return strings.NewReplacer(
		ChartLabels, strings.Join(quoted, ", "),
		ChartTitle, "weekly usage for "+event,
		ChartData, strings.Join(values, ", "),
	).Replace(t.UsageChart)
}
