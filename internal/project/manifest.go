package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/atlaspack/internal/model"
)

// Manifest describes a repeatable atlas build.
//
//	name = "ui_icons"
//	output_dir = "build"
//	formats = ["c", "json"]
//	inputs = ["icons/", "extra/logo.png"]
//	preset = "mobile"
//
//	[settings]
//	min_size = 64
//	size_limit = 4096
//	workers = 4
type Manifest struct {
	Name      string             `toml:"name"`
	OutputDir string             `toml:"output_dir"`
	Formats   []string           `toml:"formats"`
	Inputs    []string           `toml:"inputs"`
	Preset    string             `toml:"preset"`
	Settings  model.PackSettings `toml:"settings"`
}

// LoadManifest reads a TOML manifest. Relative inputs and output_dir are
// resolved against the manifest's directory.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}

	var m Manifest
	meta, err := toml.Decode(string(data), &m)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Manifest{}, fmt.Errorf("manifest %s: unknown key %q", path, undecoded[0].String())
	}

	base := filepath.Dir(path)
	for i, in := range m.Inputs {
		m.Inputs[i] = resolve(base, in)
	}
	if m.OutputDir != "" {
		m.OutputDir = resolve(base, m.OutputDir)
	}

	if err := m.Validate(); err != nil {
		return Manifest{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// Validate checks the formats and the explicitly set settings.
func (m Manifest) Validate() error {
	for _, f := range m.Formats {
		if !model.IsFormat(f) {
			return fmt.Errorf("unknown format %q", f)
		}
	}
	if m.Settings.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", m.Settings.Workers)
	}
	return nil
}

// ApplyToSettings copies the non-zero manifest settings into s.
func (m Manifest) ApplyToSettings(s *model.PackSettings) {
	if m.Settings.MinSize > 0 {
		s.MinSize = m.Settings.MinSize
	}
	if m.Settings.SizeLimit > 0 {
		s.SizeLimit = m.Settings.SizeLimit
	}
	if m.Settings.Workers > 0 {
		s.Workers = m.Settings.Workers
	}
}

// SaveManifest writes m as TOML.
func SaveManifest(path string, m Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
