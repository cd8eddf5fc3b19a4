package cli

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

type testCLI struct {
	*CLI
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogDebug)
	c.Out = &out
	c.ConfigDir = t.TempDir()
	return &testCLI{CLI: c, out: &out, logs: &logs}
}

func (tc *testCLI) run(args ...string) error {
	root := tc.RootCommand()
	root.SetArgs(args)
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))))
}

func writeSizeList(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sizes.csv")
	data := "name,width,height\na,64,64\nb,64,64\nc,32,32\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func TestRootCommand(t *testing.T) {
	tc := newTestCLI(t)
	root := tc.RootCommand()

	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"build", "plan", "config", "preset"} {
		assert.True(t, names[want], "missing %s command", want)
	}
	assert.True(t, root.SilenceUsage)
}

func TestBuildCommand(t *testing.T) {
	tc := newTestCLI(t)
	src := t.TempDir()
	writeImage(t, filepath.Join(src, "a.png"), 64, 64)
	writeImage(t, filepath.Join(src, "b.png"), 64, 64)
	writeImage(t, filepath.Join(src, "c.png"), 32, 32)
	out := filepath.Join(t.TempDir(), "out")

	err := tc.run("build", "-o", "icons", "--out-dir", out, "--format", "c,json", src)
	require.NoError(t, err)

	for _, name := range []string{"icons.png", "icons.h", "icons.c", "SpriteDescriptor.h", "icons.json"} {
		assert.FileExists(t, filepath.Join(out, name))
	}
	assert.Contains(t, tc.out.String(), "128x128")
	assert.Contains(t, tc.logs.String(), "Packed 3 sprites")

	cfg, err := project.LoadAppConfig(tc.configPath())
	require.NoError(t, err)
	assert.Equal(t, []string{"icons"}, cfg.RecentAtlases)
}

func TestBuildCommandManifest(t *testing.T) {
	tc := newTestCLI(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sprites"), 0755))
	writeImage(t, filepath.Join(dir, "sprites", "hero.png"), 40, 20)

	manifest := `name = "game"
output_dir = "build"
formats = ["json"]
inputs = ["sprites"]

[settings]
min_size = 64
`
	path := filepath.Join(dir, "atlas.toml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0644))

	require.NoError(t, tc.run("build", "--manifest", path))
	assert.FileExists(t, filepath.Join(dir, "build", "game.png"))
	assert.FileExists(t, filepath.Join(dir, "build", "game.json"))
	assert.NoFileExists(t, filepath.Join(dir, "build", "game.c"))
	assert.Contains(t, tc.out.String(), "64x64")
}

func TestBuildCommandSaveManifest(t *testing.T) {
	tc := newTestCLI(t)
	src := t.TempDir()
	writeImage(t, filepath.Join(src, "a.png"), 16, 16)
	out := t.TempDir()
	path := filepath.Join(t.TempDir(), "saved.toml")

	require.NoError(t, tc.run("build", "-o", "saved", "--out-dir", out, "--format", "json",
		"--size-limit", "4096", "--save-manifest", path, src))

	m, err := project.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "saved", m.Name)
	assert.Equal(t, out, m.OutputDir)
	assert.Equal(t, []string{src}, m.Inputs)
	assert.Equal(t, []string{"json"}, m.Formats)
	assert.Equal(t, 4096, m.Settings.SizeLimit)
}

func TestBuildCommandNoInputs(t *testing.T) {
	tc := newTestCLI(t)
	assert.ErrorContains(t, tc.run("build"), "no input images")
}

func TestResolveSettingsPrecedence(t *testing.T) {
	tc := newTestCLI(t)

	store := model.NewPresetStore()
	store.Put(model.NewPreset("mobile", "", model.PackSettings{MinSize: 64, SizeLimit: 4096, Workers: 2}))
	require.NoError(t, project.SavePresets(tc.presetsPath(), store))

	cfg := model.DefaultAppConfig()
	cfg.DefaultWorkers = 8

	manifest := project.Manifest{Preset: "mobile", Settings: model.PackSettings{SizeLimit: 2048}}

	cmd := tc.buildCommand()
	var opts buildOptions
	require.NoError(t, cmd.ParseFlags([]string{"--workers", "3"}))
	opts.workers, _ = cmd.Flags().GetInt("workers")

	got, err := tc.resolveSettings(cmd, cfg, manifest, opts)
	require.NoError(t, err)
	assert.Equal(t, model.PackSettings{MinSize: 64, SizeLimit: 2048, Workers: 3}, got)
}

func TestResolveSettingsMissingPreset(t *testing.T) {
	tc := newTestCLI(t)
	cmd := tc.buildCommand()
	_, err := tc.resolveSettings(cmd, model.DefaultAppConfig(), project.Manifest{}, buildOptions{preset: "nope"})
	assert.ErrorIs(t, err, project.ErrPresetNotFound)
}

func TestPlanCommand(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, tc.run("plan", writeSizeList(t)))
	out := tc.out.String()
	assert.Contains(t, out, "128x128")
	assert.Contains(t, out, "7168 px")
	assert.Contains(t, out, "max side 8192")
	assert.Contains(t, out, "largest free region 96x64 at (32,64)")
}

func TestPlanCommandExplainEmptyAgreesWithSummary(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,width,height\n"), 0644))

	require.NoError(t, tc.run("plan", "--explain", path))
	out := tc.out.String()
	assert.Contains(t, out, "32x32")
	assert.Contains(t, out, "0 px")
	assert.NotContains(t, out, "1024")
}

func TestPlanCommandExplain(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, tc.run("plan", "--explain", "--size-limit", "512", writeSizeList(t)))
	out := tc.out.String()
	assert.Contains(t, out, "Canvas")
	assert.Contains(t, out, "32x32")
	assert.Contains(t, out, "does not fit")
}

func TestPlanCommandInfeasible(t *testing.T) {
	tc := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, []byte("banner,8200,8200\n"), 0644))
	assert.ErrorIs(t, tc.run("plan", path), engine.ErrInfeasible)
}

func TestConfigCommands(t *testing.T) {
	tc := newTestCLI(t)

	require.NoError(t, tc.run("config", "init"))
	assert.FileExists(t, tc.configPath())

	tc.out.Reset()
	require.NoError(t, tc.run("config", "init"))
	assert.Contains(t, tc.out.String(), "already exists")

	tc.out.Reset()
	require.NoError(t, tc.run("config", "show"))
	assert.Contains(t, tc.out.String(), "unnamed_atlas")
}

func TestConfigBackupRestore(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, tc.run("preset", "save", "hd", "--min-size", "128"))

	backup := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, tc.run("config", "backup", backup))
	assert.FileExists(t, backup)

	require.NoError(t, tc.run("preset", "remove", "hd"))
	require.NoError(t, tc.run("config", "restore", backup))

	p, err := project.FindPreset(tc.presetsPath(), "hd")
	require.NoError(t, err)
	assert.Equal(t, 128, p.Settings.MinSize)
}

func TestPresetCommands(t *testing.T) {
	tc := newTestCLI(t)

	require.NoError(t, tc.run("preset", "list"))
	assert.Contains(t, tc.out.String(), "No presets saved")

	require.NoError(t, tc.run("preset", "save", "mobile", "--size-limit", "4096", "--description", "phones"))
	tc.out.Reset()
	require.NoError(t, tc.run("preset", "list"))
	assert.Contains(t, tc.out.String(), "mobile")
	assert.Contains(t, tc.out.String(), "limit 4096")
	assert.Contains(t, tc.out.String(), "phones")

	assert.Error(t, tc.run("preset", "save", "bad", "--min-size", "33"))
	assert.ErrorIs(t, tc.run("preset", "remove", "ghost"), project.ErrPresetNotFound)
}
