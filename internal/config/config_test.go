package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
input:
  directory: "./raw"
pipeline:
  min_content_length: 50
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Pipeline.MinContentLength != 50 {
		t.Errorf("min_content_length: got %d", cfg.Pipeline.MinContentLength)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
input:
  directory: "./raw_scraped_data"
output:
  directory: "./data/knowledge_base/website"
storage:
  database_path: "./data/db/corpus.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantInput := filepath.Join(dir, "raw_scraped_data")
	if cfg.Input.Directory != wantInput {
		t.Errorf("input directory = %s, want %s", cfg.Input.Directory, wantInput)
	}
	wantDB := filepath.Join(dir, "data", "db", "corpus.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
}

func TestLoad_emptyStoragePathsStayEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.DatabasePath != "" || cfg.Storage.BleveIndexPath != "" {
		t.Errorf("storage paths should stay empty (persistence disabled): %+v", cfg.Storage)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Pipeline.MinContentLength != 100 {
		t.Errorf("default min_content_length: got %d", cfg.Pipeline.MinContentLength)
	}
	if cfg.Pipeline.RelatedLimit != 5 {
		t.Errorf("default related_limit: got %d", cfg.Pipeline.RelatedLimit)
	}
	if cfg.Watch.DebounceMillis != 2000 {
		t.Errorf("default debounce_ms: got %d", cfg.Watch.DebounceMillis)
	}
	if len(cfg.Input.Extensions) != 1 || cfg.Input.Extensions[0] != ".txt" {
		t.Errorf("default extensions: got %v", cfg.Input.Extensions)
	}
	if cfg.Brand.CompanyName != "Hantec Markets" {
		t.Errorf("default company name: got %s", cfg.Brand.CompanyName)
	}
	if len(cfg.Brand.ProhibitedClaims) == 0 || len(cfg.Brand.RequiredDisclaimers) == 0 {
		t.Error("brand compliance lists should have defaults")
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Brand.CompanyName = "Acme Broker"
	ApplyDefaults(cfg)
	if cfg.Server.Port != 9999 {
		t.Errorf("explicit port should be kept: got %d", cfg.Server.Port)
	}
	if cfg.Brand.CompanyName != "Acme Broker" {
		t.Errorf("explicit company name should be kept: got %s", cfg.Brand.CompanyName)
	}
}
