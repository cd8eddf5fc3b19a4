package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultAtlasName = "ui_icons"
	cfg.DefaultFormats = []string{model.FormatC, model.FormatJSON}
	cfg.DefaultWorkers = 4
	cfg.RecentAtlases = []string{"ui_icons", "tiles"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultAtlasName != "ui_icons" {
		t.Errorf("expected DefaultAtlasName=ui_icons, got %s", loaded.DefaultAtlasName)
	}
	if len(loaded.DefaultFormats) != 2 || loaded.DefaultFormats[1] != model.FormatJSON {
		t.Errorf("unexpected formats %v", loaded.DefaultFormats)
	}
	if loaded.DefaultWorkers != 4 {
		t.Errorf("expected DefaultWorkers=4, got %d", loaded.DefaultWorkers)
	}
	if len(loaded.RecentAtlases) != 2 {
		t.Errorf("expected 2 recent atlases, got %d", len(loaded.RecentAtlases))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultAtlasName != defaults.DefaultAtlasName {
		t.Errorf("expected default atlas name %s, got %s", defaults.DefaultAtlasName, cfg.DefaultAtlasName)
	}
	if cfg.RecentAtlases == nil {
		t.Error("expected RecentAtlases to be non-nil")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_atlas_name": "tiles"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultAtlasName != "tiles" {
		t.Errorf("expected tiles, got %s", cfg.DefaultAtlasName)
	}
	if cfg.DefaultSizeLimit != model.DefaultSizeLimit {
		t.Errorf("expected default size limit, got %d", cfg.DefaultSizeLimit)
	}
	if cfg.RecentAtlases == nil {
		t.Error("expected RecentAtlases to be non-nil")
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{invalid json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveAppConfigCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("expected config file to be created")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !strings.HasSuffix(path, filepath.Join(".atlaspack", "config.json")) {
		t.Errorf("unexpected config path %s", path)
	}
}
