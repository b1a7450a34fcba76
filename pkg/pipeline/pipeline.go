// Package pipeline runs the glow documentation generation.
//
// This package implements the two generation runs shared by the CLI
// commands and the scheduled rebuilds of `glow serve`:
//
//  1. Datasources: fetch BI data sources (or load the local definitions
//     file), derive lineage, write data source pages and lineage diagrams
//  2. Events: read the definitions repository, look up git history and
//     weekly usage, write event pages
//
// # Usage
//
//	runner := pipeline.NewRunner(pipeline.Sources{
//	    Datasources: tableau.NewConnector(client, logger),
//	    Usage:       wh,
//	}, templates, logger)
//
//	res, err := runner.Datasources(ctx, pipeline.DatasourceOptions{
//	    DocsDir:        "docs",
//	    DefinitionsDir: "definitions",
//	    Diagrams:       true,
//	})
//
// Failures are isolated per data source and per event. A lineage or
// metadata failure still writes the page, with the missing fields empty;
// a page that cannot be rendered or stored is skipped. Either way the name
// is reported in [Result.Failed] and the run continues.
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/glow/pkg/definitions"
	"github.com/matzehuels/glow/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultConcurrency bounds parallel lineage generation.
	DefaultConcurrency = 8

	// DefaultUsageTable is the warehouse table holding raw events.
	DefaultUsageTable = "raw.events"

	// DefaultCloneDir is where the definitions repository is cloned.
	DefaultCloneDir = "event_definitions_git_clone"
)

// =============================================================================
// Options
// =============================================================================

// DatasourceOptions configures a data source run.
type DatasourceOptions struct {
	DocsDir        string
	DefinitionsDir string

	// UseLocalDefinitions reads the definitions file written by a previous
	// fetch instead of querying the BI server.
	UseLocalDefinitions bool

	// Names restricts the run to these data sources. Empty means all.
	Names []string

	// Diagrams renders a lineage SVG next to every page with relations.
	Diagrams bool

	// Refresh bypasses cached API responses and downloads.
	Refresh bool
}

// DefinitionsPath returns the path of the data source definitions file.
func (o DatasourceOptions) DefinitionsPath() string {
	return filepath.Join(o.DefinitionsDir, definitions.DatasourcesFile)
}

// Validate checks required fields.
func (o DatasourceOptions) Validate() error {
	if o.DocsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "docs directory is required")
	}
	if o.DefinitionsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "definitions directory is required")
	}
	return nil
}

// EventOptions configures an event run.
type EventOptions struct {
	DocsDir string

	// RepoURL is cloned into CloneDir when set. Otherwise CloneDir must
	// already hold a checkout.
	RepoURL  string
	CloneDir string

	// WebURL is the browsable repository URL used for commit links.
	WebURL string

	// Usage enables the weekly usage chart.
	Usage      bool
	UsageTable string
}

// ValidateAndSetDefaults checks required fields and fills defaults.
func (o *EventOptions) ValidateAndSetDefaults() error {
	if o.DocsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "docs directory is required")
	}
	if o.CloneDir == "" {
		o.CloneDir = DefaultCloneDir
	}
	if o.UsageTable == "" {
		o.UsageTable = DefaultUsageTable
	}
	if o.WebURL != "" {
		if err := errors.ValidateURL(o.WebURL); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result summarizes a run.
type Result struct {
	RunID    string
	Pages    []string // written page paths
	Failed   []string // items that are incomplete or were not written
	Duration time.Duration
}
