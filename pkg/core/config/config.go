// Package config loads runtime settings for the xbrl tools from a YAML file and
// environment variables, and the taxonomy description table from an Hjson/JSON file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"

	"edinet_xbrl/pkg/core/xbrl"
)

// Config holds settings shared by the CLI and the API server.
type Config struct {
	CatalogFile string `yaml:"catalog_file"` // Hjson/JSON taxonomy table; empty uses the built-in table
	TaxonomyDir string `yaml:"taxonomy_dir"`
	CacheDir    string `yaml:"cache_dir"`
	UseDatabase bool   `yaml:"use_database"` // DATABASE_URL must be set
	ListenAddr  string `yaml:"listen_addr"`
	Format      string `yaml:"format"` // text, markdown or html
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		Format:     "text",
	}
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("XBRL_CATALOG_FILE"); v != "" {
		c.CatalogFile = v
	}
	if v := os.Getenv("XBRL_TAXONOMY_DIR"); v != "" {
		c.TaxonomyDir = v
	}
	if v := os.Getenv("XBRL_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("XBRL_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("XBRL_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("XBRL_USE_DATABASE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid XBRL_USE_DATABASE %q: %w", v, err)
		}
		c.UseDatabase = b
	}
	return nil
}

// Catalog builds the taxonomy catalog: the built-in table, or CatalogFile when set.
func (c Config) Catalog() (*xbrl.Catalog, error) {
	if c.CatalogFile == "" {
		return xbrl.DefaultCatalog(), nil
	}
	entries, err := LoadCatalogEntries(c.CatalogFile)
	if err != nil {
		return nil, err
	}
	return xbrl.NewCatalog(entries), nil
}
