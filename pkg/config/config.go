// Package config loads the glow project file, glow_project.toml.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Defaults ([Default])
//  2. The project file
//  3. Environment variables for secrets and switches:
//     GLOW_TABLEAU_PASSWORD, GLOW_WAREHOUSE_DSN, GLOW_REDIS_URL and
//     ENABLE_SQL_QUERIES
//
// Command-line flags are applied on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/glow/pkg/errors"
)

// FileName is the project file looked up in the working directory.
const FileName = "glow_project.toml"

// Environment variables read by [Load].
const (
	EnvTableauPassword = "GLOW_TABLEAU_PASSWORD"
	EnvWarehouseDSN    = "GLOW_WAREHOUSE_DSN"
	EnvRedisURL        = "GLOW_REDIS_URL"
	EnvEnableSQL       = "ENABLE_SQL_QUERIES"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the project configuration.
type Config struct {
	DocsDir        string `toml:"docs_dir"`
	DefinitionsDir string `toml:"definitions_dir"`
	SiteDir        string `toml:"site_dir"`
	TemplatesDir   string `toml:"templates_dir"`

	Tableau   Tableau   `toml:"tableau"`
	Warehouse Warehouse `toml:"warehouse"`
	Events    Events    `toml:"events"`
	Cache     Cache     `toml:"cache"`
	Serve     Serve     `toml:"serve"`
}

// Tableau configures the BI server connection.
type Tableau struct {
	Server            string  `toml:"server"`
	Site              string  `toml:"site"`
	Username          string  `toml:"username"`
	Password          string  `toml:"password"`
	APIVersion        string  `toml:"api_version"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// Warehouse configures usage queries.
type Warehouse struct {
	Driver     string `toml:"driver"`
	DSN        string `toml:"dsn"`
	UsageTable string `toml:"usage_table"`
	Enabled    bool   `toml:"enabled"`
}

// Events configures the definitions repository.
type Events struct {
	RepoURL  string `toml:"repo_url"`
	WebURL   string `toml:"web_url"`
	CloneDir string `toml:"clone_dir"`
}

// Cache configures the response cache.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// Serve configures `glow serve`.
type Serve struct {
	Addr    string `toml:"addr"`
	Rebuild string `toml:"rebuild"` // cron expression, empty disables
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		DocsDir:        "docs",
		DefinitionsDir: "definitions",
		SiteDir:        "site",
		TemplatesDir:   "templates",
		Tableau:        Tableau{APIVersion: "3.13"},
		Warehouse:      Warehouse{Driver: "duckdb", UsageTable: "raw.events", Enabled: true},
		Events:         Events{CloneDir: "event_definitions_git_clone"},
		Cache:          Cache{Backend: CacheFile, TTL: 24 * time.Hour},
		Serve:          Serve{Addr: "localhost:8000"},
	}
}

// Load reads the project file at path. When path is empty the file is
// looked up in the working directory and may be absent. Relative
// directories are resolved against the project file's directory.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		cfg.resolve(filepath.Dir(path))
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.DocsDir, &c.DefinitionsDir, &c.SiteDir, &c.TemplatesDir, &c.Events.CloneDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvTableauPassword); v != "" {
		c.Tableau.Password = v
	}
	if v := getenv(EnvWarehouseDSN); v != "" {
		c.Warehouse.DSN = v
	}
	if v := getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := getenv(EnvEnableSQL); v != "" {
		c.Warehouse.Enabled = ParseBool(v)
	}
}

// ParseBool accepts "true", "1" and "t" in any case as true; anything else
// is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t":
		return true
	}
	return false
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DocsDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "docs_dir must not be empty")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Tableau.Server != "" {
		if err := errors.ValidateURL(c.Tableau.Server); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tableau.server")
		}
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	return nil
}

// HasTableau reports whether a BI server is configured.
func (c *Config) HasTableau() bool {
	return c.Tableau.Server != "" && c.Tableau.Username != ""
}
