// Package atlas runs a complete build: load sprites, pack them, compose the
// atlas image and write every requested output next to it.
package atlas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
)

// ErrInvalidName is returned for atlas names that cannot name output files.
var ErrInvalidName = errors.New("invalid atlas name")

// Options selects what to build.
type Options struct {
	Name      string         // Base name of every output file
	Inputs    []string       // Image files and directories
	Sprites   []model.Sprite // Already loaded sprites, packed before Inputs
	OutputDir string
	Formats   []string // Extra outputs besides the PNG, see model.AllFormats
	Preview   bool     // Embed the composed image in the PDF report
}

// Report summarizes a finished build.
type Report struct {
	SpriteMap model.SpriteMap
	Free      []model.FreeRegion
	Waste     int64
	Evaluated int // Canvas sizes tried
	Fitting   int // Canvas sizes that held every sprite
	Files     []string
	Elapsed   time.Duration
}

// Builder drives the build pipeline.
type Builder struct {
	Logger   *log.Logger
	Settings model.PackSettings
}

func NewBuilder(settings model.PackSettings, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{Logger: logger, Settings: settings}
}

// ValidateName rejects names that are empty or contain path separators.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func (b *Builder) packer() *engine.Packer[model.Sprite] {
	p := engine.New[model.Sprite](b.Settings)
	p.Logger = b.Logger
	return p
}

// Items wraps sprites as packer items carrying the sprite as payload.
func Items(sprites []model.Sprite) []engine.Item[model.Sprite] {
	items := make([]engine.Item[model.Sprite], len(sprites))
	for i, s := range sprites {
		items[i] = engine.NewItem(s.Name, s.Width, s.Height, s)
	}
	return items
}

// Pack finds the best canvas for sprites without writing anything.
func (b *Builder) Pack(ctx context.Context, sprites []model.Sprite) (*engine.Result[model.Sprite], error) {
	prog := newProgress(b.Logger)
	result, err := b.packer().PackContext(ctx, Items(sprites))
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Packed %d sprites into %dx%d, %d of %d canvas sizes fit",
		len(sprites), result.Width, result.Height, result.Fitting, result.Evaluated))
	return result, nil
}

// Explain reports how every candidate canvas fared for sprites.
func (b *Builder) Explain(ctx context.Context, sprites []model.Sprite) ([]engine.CandidateReport, error) {
	return b.packer().Explain(ctx, Items(sprites))
}

// Build runs the whole pipeline and returns what it wrote.
func (b *Builder) Build(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	if err := ValidateName(opts.Name); err != nil {
		return nil, err
	}
	for _, f := range opts.Formats {
		if !model.IsFormat(f) {
			return nil, fmt.Errorf("unknown output format %q", f)
		}
	}
	outDir := opts.OutputDir
	if outDir == "" {
		outDir = "."
	}

	sprites := append([]model.Sprite(nil), opts.Sprites...)
	if len(opts.Inputs) > 0 {
		prog := newProgress(b.Logger)
		loaded, err := importer.LoadImages(opts.Inputs...)
		if err != nil {
			return nil, err
		}
		sprites = append(sprites, loaded...)
		prog.done(fmt.Sprintf("Loaded %d images", len(loaded)))
	}
	if len(sprites) == 0 {
		b.Logger.Warn("no sprites to pack, writing an empty atlas")
	}

	result, err := b.Pack(ctx, sprites)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("cannot create output directory: %w", err)
	}

	imageFile := opts.Name + ".png"
	m := export.Describe(opts.Name, imageFile, result.Tree)
	for _, s := range m.Sprites {
		if first, _ := m.FindSprite(s.Name); first.Offset != s.Offset {
			b.Logger.Warn("duplicate sprite name, JSON frames keep only the last", "name", s.Name, "offset", s.Offset)
		}
	}

	report := &Report{
		SpriteMap: m,
		Free:      result.Tree.FreeRegions(1, 1),
		Waste:     result.Waste,
		Evaluated: result.Evaluated,
		Fitting:   result.Fitting,
	}

	prog := newProgress(b.Logger)
	img := export.Compose(result.Tree)
	pngPath := filepath.Join(outDir, imageFile)
	if err := export.WritePNG(pngPath, img); err != nil {
		return nil, err
	}
	report.Files = append(report.Files, pngPath)
	prog.done("Wrote " + pngPath)

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		prog := newProgress(b.Logger)
		files, err := b.writeFormat(format, outDir, m, report.Free, opts, img)
		if err != nil {
			return nil, fmt.Errorf("writing %s output: %w", format, err)
		}
		report.Files = append(report.Files, files...)
		prog.done(fmt.Sprintf("Wrote %s output", format))
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func (b *Builder) writeFormat(format, dir string, m model.SpriteMap, free []model.FreeRegion, opts Options, img *image.NRGBA) ([]string, error) {
	path := filepath.Join(dir, m.Name+"."+format)
	switch format {
	case model.FormatC:
		if err := export.WriteDescriptors(dir, m); err != nil {
			return nil, err
		}
		return export.DescriptorFiles(dir, m.Name), nil
	case model.FormatJSON:
		return []string{path}, export.WriteJSON(path, m)
	case model.FormatXLSX:
		return []string{path}, export.ExportXLSX(path, m)
	case model.FormatPDF:
		if opts.Preview {
			return []string{path}, export.ExportPDFWithPreview(path, m, free, img)
		}
		return []string{path}, export.ExportPDF(path, m, free)
	case model.FormatDXF:
		return []string{path}, export.ExportDXF(path, m)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
