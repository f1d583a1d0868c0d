// Package config provides configuration loading and structs for the seiri pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Watch    WatchConfig    `yaml:"watch"`
	Brand    BrandConfig    `yaml:"brand"`
}

// InputConfig holds the raw scraped data location.
type InputConfig struct {
	Directory  string   `yaml:"directory"`
	Extensions []string `yaml:"extensions"`
}

// OutputConfig holds the knowledge-base output location.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ServerConfig holds HTTP retrieval API settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the corpus database and keyword index.
// Empty paths disable persistence (the batch run then only writes artifacts).
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
}

// PipelineConfig holds batch-processing thresholds.
type PipelineConfig struct {
	// MinContentLength is the minimum cleaned-text length; shorter documents
	// are counted as failed and excluded from the corpus.
	MinContentLength int `yaml:"min_content_length"`
	// RelatedLimit is the maximum related documents reported per document.
	RelatedLimit int `yaml:"related_limit"`
}

// WatchConfig holds input-directory watch settings for re-running the batch.
type WatchConfig struct {
	DebounceMillis int `yaml:"debounce_ms"`
}

// BrandConfig drives the generated brand-guidelines document and output headers.
type BrandConfig struct {
	CompanyName         string   `yaml:"company_name"`
	Tagline             string   `yaml:"tagline"`
	Tone                string   `yaml:"tone"`
	KeyValues           []string `yaml:"key_values"`
	Regulators          []string `yaml:"regulators"`
	ProhibitedClaims    []string `yaml:"prohibited_claims"`
	RequiredDisclaimers []string `yaml:"required_disclaimers"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Input.Directory = expandPath(cfg.Input.Directory, configDir)
	cfg.Output.Directory = expandPath(cfg.Output.Directory, configDir)
	if cfg.Storage.DatabasePath != "" {
		cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	}
	if cfg.Storage.BleveIndexPath != "" {
		cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative
// to configDir; other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
