package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/atlaspack/internal/model"
)

const (
	spritesSheet = "Sprites"
	summarySheet = "Summary"
)

var spriteColumns = []string{
	"Offset", "Name", "Left", "Top", "Right", "Bottom", "Width", "Height",
	"U0", "V0", "U1", "V1",
}

// ExportXLSX writes a workbook with one row per sprite on the Sprites sheet
// and the atlas statistics on the Summary sheet. U/V columns hold the
// sprite corners as 0.0-1.0 texture coordinates.
func ExportXLSX(path string, m model.SpriteMap) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), spritesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(spriteColumns))
	for i, c := range spriteColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(spritesSheet, "A1", &header); err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(spriteColumns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(spritesSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(spritesSheet, "B", "B", 28); err != nil {
		return err
	}

	for i, s := range m.Sprites {
		row := []interface{}{
			s.Offset, s.Name, s.Left, s.Top, s.Right, s.Bottom, s.Width, s.Height,
			m.FXPos(s.Left), m.FYPos(s.Top), m.FXPos(s.Right), m.FYPos(s.Bottom),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(spritesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write sprite %q: %w", s.Name, err)
		}
	}

	summary := [][]interface{}{
		{"Atlas", m.Name},
		{"Image", m.ImageFileName},
		{"Width", m.Width},
		{"Height", m.Height},
		{"Sprites", m.NumSprites},
		{"Used Area", m.UsedArea()},
		{"Wasted Area", m.Waste()},
		{"Efficiency (%)", fmt.Sprintf("%.1f", m.Efficiency())},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 20); err != nil {
		return err
	}

	return f.SaveAs(path)
}
