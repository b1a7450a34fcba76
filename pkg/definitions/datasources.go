package definitions

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/glow/pkg/errors"
	"github.com/matzehuels/glow/pkg/lineage"
)

// DatasourcesFile is the data source definitions file written by fetch.
const DatasourcesFile = "data sources.yml"

// SaveDatasources writes data sources to path as a yaml list, creating the
// parent directory if needed.
func SaveDatasources(path string, datasources []*lineage.Datasource) error {
	if datasources == nil {
		datasources = []*lineage.Datasource{}
	}
	data, err := yaml.Marshal(datasources)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadDatasources reads a file written by [SaveDatasources].
func LoadDatasources(path string) ([]*lineage.Datasource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "data source definitions %s", path)
		}
		return nil, err
	}
	var out []*lineage.Datasource
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	return out, nil
}
