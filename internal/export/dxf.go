package export

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DXF layer names.
const (
	LayerAtlas   = "ATLAS"
	LayerSprites = "SPRITES"
	LayerLabels  = "LABELS"
)

// ExportDXF writes the atlas layout as a DXF drawing in pixel units: the
// canvas outline on ATLAS, one closed outline per sprite on SPRITES and the
// sprite names on LABELS. The Y axis is flipped so the drawing reads the
// same way up as the image.
func ExportDXF(path string, m model.SpriteMap) error {
	d := dxf.NewDrawing()

	flip := func(y int) float64 { return float64(m.Height - y) }
	rect := func(left, top, right, bottom int) error {
		_, err := d.LwPolyline(true,
			[]float64{float64(left), flip(top)},
			[]float64{float64(right), flip(top)},
			[]float64{float64(right), flip(bottom)},
			[]float64{float64(left), flip(bottom)},
		)
		return err
	}

	if _, err := d.AddLayer(LayerAtlas, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerAtlas, err)
	}
	if err := rect(0, 0, m.Width, m.Height); err != nil {
		return fmt.Errorf("failed to draw canvas outline: %w", err)
	}

	if _, err := d.AddLayer(LayerSprites, color.Cyan, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerSprites, err)
	}
	for _, s := range m.Sprites {
		if err := rect(s.Left, s.Top, s.Right, s.Bottom); err != nil {
			return fmt.Errorf("failed to draw sprite %q: %w", s.Name, err)
		}
	}

	if _, err := d.AddLayer(LayerLabels, color.Yellow, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer %s: %w", LayerLabels, err)
	}
	for _, s := range m.Sprites {
		height := math.Min(8, float64(min(s.Width, s.Height))/4)
		if height < 1 {
			continue
		}
		if _, err := d.Text(s.Name, float64(s.Left)+1, flip(s.Top)-height-1, 0, height); err != nil {
			return fmt.Errorf("failed to label sprite %q: %w", s.Name, err)
		}
	}

	return d.SaveAs(path)
}
