package export

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/atlaspack/internal/model"
)

// AtlasSummary is the data encoded into the summary page QR code.
type AtlasSummary struct {
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Sprites    int     `json:"sprites"`
	Waste      int64   `json:"waste_px"`
	Efficiency float64 `json:"efficiency"`
}

// CollectSummary extracts the QR summary from a sprite map.
func CollectSummary(m model.SpriteMap) AtlasSummary {
	return AtlasSummary{
		Name:       m.Name,
		Image:      m.ImageFileName,
		Width:      m.Width,
		Height:     m.Height,
		Sprites:    m.NumSprites,
		Waste:      m.Waste(),
		Efficiency: m.Efficiency(),
	}
}

// summaryQR renders the summary as a PNG QR code.
func summaryQR(s AtlasSummary) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal atlas summary: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
