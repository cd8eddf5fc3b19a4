// Package export writes a packed atlas out: the composed PNG, C sprite
// descriptors, TexturePacker JSON, and XLSX, PDF and DXF layout reports.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/atlaspack/internal/model"
)

// spriteColor represents an RGB color for a placed sprite.
type spriteColor struct {
	R, G, B int
}

var spriteColors = []spriteColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 40.0
	previewSide  = 1024
)

// ExportPDF generates a PDF report of the atlas: a layout page with every
// sprite and the free regions left over, then a summary page.
func ExportPDF(path string, m model.SpriteMap, free []model.FreeRegion) error {
	return ExportPDFWithPreview(path, m, free, nil)
}

// ExportPDFWithPreview is ExportPDF with an extra page showing the composed
// atlas image. A nil preview skips that page.
func ExportPDFWithPreview(path string, m model.SpriteMap, free []model.FreeRegion, preview image.Image) error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("atlas %q has no canvas to export", m.Name)
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, m, free)

	if preview != nil {
		pdf.AddPage()
		if err := renderPreviewPage(pdf, m, preview); err != nil {
			return err
		}
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, m, free); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// canvasPlacement fits the atlas canvas into the page drawing area.
func canvasPlacement(m model.SpriteMap) (scale, offsetX, offsetY, canvasW, canvasH float64) {
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight

	scale = math.Min(drawWidth/float64(m.Width), drawHeight/float64(m.Height))
	canvasW = float64(m.Width) * scale
	canvasH = float64(m.Height) * scale
	offsetX = marginLeft + (drawWidth-canvasW)/2
	offsetY = drawAreaTop
	return
}

func renderPageTitle(pdf *fpdf.Fpdf, title, stats string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderLayoutPage draws the canvas, the sprites and the free regions.
func renderLayoutPage(pdf *fpdf.Fpdf, m model.SpriteMap, free []model.FreeRegion) {
	renderPageTitle(pdf,
		fmt.Sprintf("Atlas %s (%d x %d px)", m.Name, m.Width, m.Height),
		fmt.Sprintf("Sprites: %d | Used area: %d px | Wasted: %d px | Efficiency: %.1f%%",
			m.NumSprites, m.UsedArea(), m.Waste(), m.Efficiency()))

	scale, offsetX, offsetY, canvasW, canvasH := canvasPlacement(m)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, r := range free {
		zx := offsetX + float64(r.Left)*scale
		zy := offsetY + float64(r.Top)*scale
		zw := float64(r.Width) * scale
		zh := float64(r.Height) * scale
		drawHatchPattern(pdf, zx, zy, zw, zh)
	}

	for i, s := range m.Sprites {
		col := spriteColors[i%len(spriteColors)]
		pw := float64(s.Width) * scale
		ph := float64(s.Height) * scale
		px := offsetX + float64(s.Left)*scale
		py := offsetY + float64(s.Top)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(px, py, pw, ph, "FD")

		// Label only if the rectangle is large enough
		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			dims := fmt.Sprintf("%dx%d", s.Width, s.Height)
			labelW := pdf.GetStringWidth(s.Name)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-4)
				pdf.CellFormat(labelW, 4, s.Name, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, m, offsetX, offsetY, canvasW, canvasH)
	drawSpriteLegend(pdf, m, offsetY+canvasH+5)
}

// drawHatchPattern draws diagonal lines inside a rectangle to mark free space.
func drawHatchPattern(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(170, 170, 170)
	pdf.SetLineWidth(0.15)

	spacing := 3.0
	maxDist := w + h

	for d := spacing; d < maxDist; d += spacing {
		x1 := x + math.Max(0, d-h)
		y1 := y + math.Min(h, d)
		x2 := x + math.Min(w, d)
		y2 := y + math.Max(0, d-w)

		pdf.Line(x1, y1, x2, y2)
	}
}

// drawDimensionAnnotations adds width and height labels outside the canvas.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, m model.SpriteMap, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d px", m.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d px", m.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawSpriteLegend renders a compact legend of sprites below the canvas.
// Entries that would run off the page are counted instead of listed.
func drawSpriteLegend(pdf *fpdf.Fpdf, m model.SpriteMap, startY float64) {
	if len(m.Sprites) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Sprites:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	maxY := pageHeight - marginBottom

	for i, s := range m.Sprites {
		col := spriteColors[i%len(spriteColors)]
		label := fmt.Sprintf("%s (%dx%d)", s.Name, s.Width, s.Height)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}
		if startY+4 > maxY {
			pdf.SetXY(xPos, startY-5)
			pdf.CellFormat(40, 4, fmt.Sprintf("... and %d more", len(m.Sprites)-i), "", 0, "L", false, 0, "")
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderPreviewPage embeds a downscaled copy of the composed atlas.
func renderPreviewPage(pdf *fpdf.Fpdf, m model.SpriteMap, preview image.Image) error {
	renderPageTitle(pdf, fmt.Sprintf("Atlas %s image", m.Name), m.ImageFileName)

	var buf bytes.Buffer
	if err := png.Encode(&buf, Thumbnail(preview, previewSide)); err != nil {
		return fmt.Errorf("failed to encode preview: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("atlas_preview", opts, &buf)

	_, offsetX, offsetY, canvasW, canvasH := canvasPlacement(m)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "D")
	pdf.ImageOptions("atlas_preview", offsetX, offsetY, canvasW, canvasH, false, opts, 0, "")
	return nil
}

// renderSummaryPage draws the statistics, the QR summary and the sprite table.
func renderSummaryPage(pdf *fpdf.Fpdf, m model.SpriteMap, free []model.FreeRegion) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Atlas Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	qrPNG, err := summaryQR(CollectSummary(m))
	if err != nil {
		return err
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("summary_qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("summary_qr", pageWidth-marginRight-qrSize, marginTop+15, qrSize, qrSize, false, opts, 0, "")

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Image", m.ImageFileName},
		{"Canvas", fmt.Sprintf("%d x %d px", m.Width, m.Height)},
		{"Sprites", fmt.Sprintf("%d", m.NumSprites)},
		{"Efficiency", fmt.Sprintf("%.1f%%", m.Efficiency())},
		{"Wasted Area", fmt.Sprintf("%d px", m.Waste())},
		{"Free Regions", fmt.Sprintf("%d (%d px)", len(free), model.TotalFreeArea(free))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(80, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sprite Placements", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 80, 45, 45, 40, 37}
	headers := []string{"Offset", "Name", "Left, Top", "Right, Bottom", "Size", "UV"}

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, s := range m.Sprites {
		if y+6 > pageHeight-marginBottom-6 {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		rowData := []string{
			fmt.Sprintf("%d", s.Offset),
			s.Name,
			fmt.Sprintf("%d, %d", s.Left, s.Top),
			fmt.Sprintf("%d, %d", s.Right, s.Bottom),
			fmt.Sprintf("%d x %d", s.Width, s.Height),
			fmt.Sprintf("%.3f, %.3f", m.FXPos(s.Left), m.FYPos(s.Top)),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by atlaspack", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
