package definitions

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glow/pkg/errors"
)

// File names inside the definitions repository.
const (
	EventsFile = "event_definitions.yml"
	ModelsFile = "model_definitions.yml"
)

// DefaultPlatforms is used for events that don't list their platforms.
var DefaultPlatforms = []string{"web", "Android", "iOS"}

// Event is one analytics event definition.
type Event struct {
	Key         string   `yaml:"-"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    string   `yaml:"category"`
	Platforms   []string `yaml:"platforms"`
	Models      []string `yaml:"models"`
	Parameters  []any    `yaml:"event_specific_parameters"`
}

// Property is one property of a model.
type Property struct {
	ParameterName string `yaml:"parameter_name"`
	Type          string `yaml:"type"`
	Description   string `yaml:"description"`
	Allowed       []any  `yaml:"allowed"`
}

// Model is a named group of properties shared by events.
type Model struct {
	Name       string
	Properties []Property
}

// Models is an ordered list of models. It marshals to a YAML mapping from
// model name to its properties.
type Models []Model

// MarshalYAML keeps the model order in the output mapping.
func (m Models) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, model := range m {
		var value yaml.Node
		props := model.Properties
		if props == nil {
			props = []Property{}
		}
		if err := value.Encode(props); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: model.Name},
			&value)
	}
	return node, nil
}

// Get returns the model with the given name.
func (m Models) Get(name string) (Model, bool) {
	for _, model := range m {
		if model.Name == name {
			return model, true
		}
	}
	return Model{}, false
}

// LoadEvents reads an event definitions file. Events are returned in file
// order; missing platforms default to [DefaultPlatforms].
func LoadEvents(path string) ([]Event, error) {
	root, err := loadMapping(path)
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		var ev Event
		if err := root.Content[i+1].Decode(&ev); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: event %s", path, root.Content[i].Value)
		}
		ev.Key = root.Content[i].Value
		if len(ev.Platforms) == 0 {
			ev.Platforms = append([]string(nil), DefaultPlatforms...)
		}
		if ev.Parameters == nil {
			ev.Parameters = []any{}
		}
		events = append(events, ev)
	}
	return events, nil
}

// LoadModels reads a model definitions file. Models and their properties
// are returned in file order. Missing property fields are empty.
func LoadModels(path string) (Models, error) {
	root, err := loadMapping(path)
	if err != nil {
		return nil, err
	}

	models := make(Models, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, body := root.Content[i].Value, root.Content[i+1]
		model := Model{Name: name, Properties: []Property{}}
		if body.Kind == yaml.MappingNode {
			for j := 0; j+1 < len(body.Content); j += 2 {
				var p Property
				if err := body.Content[j+1].Decode(&p); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "%s: model %s", path, name)
				}
				p.ParameterName = body.Content[j].Value
				if p.Allowed == nil {
					p.Allowed = []any{}
				}
				model.Properties = append(model.Properties, p)
			}
		}
		models = append(models, model)
	}
	return models, nil
}

// ModelProperties returns the models referenced by the event, in the order
// of models.
func (e Event) ModelProperties(models Models) Models {
	out := Models{}
	for _, m := range models {
		for _, name := range e.Models {
			if name == m.Name {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

func loadMapping(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "definitions file %s", path)
		}
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if len(doc.Content) == 0 {
		return &yaml.Node{Kind: yaml.MappingNode}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "%s: expected a mapping at the top level", path)
	}
	return root, nil
}

// ReadLines returns the lines of a file without line terminators.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// EventLines locates the definition block of an event in the lines of the
// events file. start is the 1-based line of the first occurrence of key;
// length counts the lines after it up to the next blank line. Both are 0
// when key or the closing blank line is not found.
func EventLines(lines []string, key string) (start, length int) {
	for i, line := range lines {
		if strings.Contains(line, key) {
			start = i + 1
			break
		}
	}
	if start == 0 {
		return 0, 0
	}
	for i := start; i < len(lines); i++ {
		if lines[i] == "" {
			return start, i - start
		}
	}
	return start, 0
}

// ValidWindow reports whether a window from EventLines can be passed to a
// line-range log query.
func ValidWindow(start, length, total int) bool {
	return start != 0 && length != 0 && start+length < total
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s (%s)", e.Key, e.Name)
}
