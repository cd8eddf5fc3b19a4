package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/piwi3910/atlaspack/internal/atlas"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/project"
)

// buildOptions holds the raw flag values of the build command.
type buildOptions struct {
	name      string
	outDir    string
	formats   []string
	workers   int
	minSize   int
	sizeLimit int
	manifest  string
	preset    string
	preview   bool
	save      string
}

// buildCommand creates the build command for packing images into an atlas.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [files|dirs...]",
		Short: "Pack images into a texture atlas",
		Long: `Pack images into a texture atlas.

Directories are searched recursively for PNG, JPEG, GIF, BMP, TIFF and WebP
files. The atlas is written as <name>.png plus one output per --format.

Settings are layered: built-in defaults, then the app config, then the
preset, then the manifest, then any flag given on the command line.`,
		Example: `  # Pack a directory into ui.png, ui.h and ui.c
  atlaspack build -o ui icons/

  # Build from a manifest and also write a JSON atlas and a PDF report
  atlaspack build --manifest atlas.toml --format json,pdf`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.name, "out-format", "o", "", "atlas name, used for every output file")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", "", "output directory")
	cmd.Flags().StringSliceVar(&opts.formats, "format", nil, "outputs besides the PNG: c, json, xlsx, pdf, dxf")
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "canvas sizes evaluated concurrently")
	cmd.Flags().IntVar(&opts.minSize, "min-size", model.DefaultMinSize, "smallest canvas side (power of two)")
	cmd.Flags().IntVar(&opts.sizeLimit, "size-limit", model.DefaultSizeLimit, "exclusive upper bound for canvas sides")
	cmd.Flags().StringVar(&opts.manifest, "manifest", "", "TOML build manifest")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "named preset from the preset store")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "embed the atlas image in the PDF report")
	cmd.Flags().StringVar(&opts.save, "save-manifest", "", "write the resolved build as a TOML manifest")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string, opts buildOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var manifest project.Manifest
	if opts.manifest != "" {
		if manifest, err = project.LoadManifest(opts.manifest); err != nil {
			return err
		}
		logger.Debug("loaded manifest", "path", opts.manifest, "inputs", len(manifest.Inputs))
	}

	settings, err := c.resolveSettings(cmd, cfg, manifest, opts)
	if err != nil {
		return err
	}

	build := atlas.Options{
		Name:      firstNonEmpty(opts.name, manifest.Name, cfg.DefaultAtlasName),
		Inputs:    append(append([]string(nil), manifest.Inputs...), args...),
		OutputDir: firstNonEmpty(opts.outDir, manifest.OutputDir, cfg.DefaultOutputDir),
		Formats:   cfg.DefaultFormats,
		Preview:   opts.preview,
	}
	if len(manifest.Formats) > 0 {
		build.Formats = manifest.Formats
	}
	if cmd.Flags().Changed("format") {
		build.Formats = parseFormats(opts.formats)
	}
	if len(build.Inputs) == 0 {
		return fmt.Errorf("no input images: pass files or directories, or a manifest with inputs")
	}

	if opts.save != "" {
		saved := project.Manifest{
			Name:      build.Name,
			OutputDir: absPath(build.OutputDir),
			Formats:   build.Formats,
			Settings:  settings,
		}
		for _, in := range build.Inputs {
			saved.Inputs = append(saved.Inputs, absPath(in))
		}
		if err := project.SaveManifest(opts.save, saved); err != nil {
			return fmt.Errorf("save manifest: %w", err)
		}
		logger.Info("saved manifest", "path", opts.save)
	}

	report, err := atlas.NewBuilder(settings, logger).Build(ctx, build)
	if err != nil {
		return err
	}

	cfg.AddRecent(build.Name)
	if err := project.SaveAppConfig(c.configPath(), cfg); err != nil {
		logger.Warn("could not save recent atlases", "err", err)
	}

	c.printReport(report)
	return nil
}

// resolveSettings layers defaults, app config, preset, manifest and flags.
func (c *CLI) resolveSettings(cmd *cobra.Command, cfg model.AppConfig, manifest project.Manifest, opts buildOptions) (model.PackSettings, error) {
	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	presetName := opts.preset
	if presetName == "" {
		presetName = manifest.Preset
	}
	if presetName != "" {
		preset, err := project.FindPreset(c.presetsPath(), presetName)
		if err != nil {
			return settings, err
		}
		settings = preset.Settings
	}

	manifest.ApplyToSettings(&settings)

	flags := cmd.Flags()
	if flags.Changed("min-size") {
		settings.MinSize = opts.minSize
	}
	if flags.Changed("size-limit") {
		settings.SizeLimit = opts.sizeLimit
	}
	if flags.Changed("workers") {
		settings.Workers = opts.workers
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}
	return settings, nil
}

func (c *CLI) printReport(r *atlas.Report) {
	m := r.SpriteMap
	printSuccess(c.Out, "Packed %s sprites into %s",
		StyleNumber.Render(fmt.Sprint(m.NumSprites)),
		StyleValue.Render(fmt.Sprintf("%dx%d", m.Width, m.Height)))
	printDetail(c.Out, "waste %d px, %.1f%% used, %d of %d canvas sizes fit",
		r.Waste, m.Efficiency(), r.Fitting, r.Evaluated)
	for _, f := range r.Files {
		printFile(c.Out, f)
	}
}

// absPath makes p absolute so a saved manifest does not depend on the
// directory it is written to.
func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
