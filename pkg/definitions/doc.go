// Package definitions loads the event and model definition files kept in
// the definitions repository.
//
// Both files are YAML mappings whose order is meaningful: generated pages
// list events and model properties in the order they were defined, so the
// loaders decode through [yaml.Node] instead of into Go maps.
//
// [yaml.Node]: gopkg.in/yaml.v3.Node
package definitions
