package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/atlaspack/internal/model"
)

func TestSaveAndLoadPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")

	store := model.NewPresetStore()
	store.Put(model.NewPreset("mobile", "Small textures", model.PackSettings{MinSize: 32, SizeLimit: 4096, Workers: 2}))
	store.Put(model.NewPreset("desktop", "", model.DefaultSettings()))

	if err := SavePresets(path, store); err != nil {
		t.Fatalf("SavePresets failed: %v", err)
	}

	loaded, err := LoadPresets(path)
	if err != nil {
		t.Fatalf("LoadPresets failed: %v", err)
	}
	if len(loaded.Presets) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(loaded.Presets))
	}
	mobile := loaded.FindByName("mobile")
	if mobile == nil {
		t.Fatal("expected to find mobile preset")
	}
	if mobile.Settings.SizeLimit != 4096 || mobile.Settings.Workers != 2 {
		t.Errorf("unexpected mobile settings %+v", mobile.Settings)
	}
}

func TestLoadPresetsMissingFile(t *testing.T) {
	store, err := LoadPresets(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if store.Presets == nil || len(store.Presets) != 0 {
		t.Errorf("expected empty non-nil store, got %v", store.Presets)
	}
}

func TestLoadPresetsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	if err := os.WriteFile(path, []byte("[broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPresets(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestFindPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	store := model.NewPresetStore()
	store.Put(model.NewPreset("mobile", "", model.PackSettings{MinSize: 64, SizeLimit: 2048}))
	if err := SavePresets(path, store); err != nil {
		t.Fatal(err)
	}

	p, err := FindPreset(path, "mobile")
	if err != nil {
		t.Fatalf("FindPreset failed: %v", err)
	}
	if p.Settings.MinSize != 64 {
		t.Errorf("expected MinSize 64, got %d", p.Settings.MinSize)
	}

	_, err = FindPreset(path, "console")
	if !errors.Is(err, ErrPresetNotFound) {
		t.Errorf("expected ErrPresetNotFound, got %v", err)
	}
}
