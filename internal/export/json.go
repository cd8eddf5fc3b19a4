package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/atlaspack/internal/buildinfo"
	"github.com/piwi3910/atlaspack/internal/model"
)

// FrameRect is a pixel rectangle in TexturePacker JSON.
type FrameRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// FrameSize is a pixel size in TexturePacker JSON.
type FrameSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Frame is one sprite entry. Sprites are never rotated or trimmed.
type Frame struct {
	Frame            FrameRect `json:"frame"`
	Rotated          bool      `json:"rotated"`
	Trimmed          bool      `json:"trimmed"`
	SpriteSourceSize FrameRect `json:"spriteSourceSize"`
	SourceSize       FrameSize `json:"sourceSize"`
}

// Meta describes the atlas page.
type Meta struct {
	App     string    `json:"app"`
	Version string    `json:"version"`
	Image   string    `json:"image"`
	Format  string    `json:"format"`
	Size    FrameSize `json:"size"`
	Scale   string    `json:"scale"`
}

// TexturePackerAtlas is the TexturePacker "hash" layout: frames keyed by
// sprite name plus page metadata.
type TexturePackerAtlas struct {
	Frames map[string]Frame `json:"frames"`
	Meta   Meta             `json:"meta"`
}

// NewTexturePackerAtlas converts a sprite map into TexturePacker form.
func NewTexturePackerAtlas(m model.SpriteMap) TexturePackerAtlas {
	atlas := TexturePackerAtlas{
		Frames: make(map[string]Frame, len(m.Sprites)),
		Meta: Meta{
			App:     "atlaspack",
			Version: buildinfo.Version,
			Image:   m.ImageFileName,
			Format:  "RGBA8888",
			Size:    FrameSize{W: m.Width, H: m.Height},
			Scale:   "1",
		},
	}
	for _, s := range m.Sprites {
		atlas.Frames[s.Name] = Frame{
			Frame:            FrameRect{X: s.Left, Y: s.Top, W: s.Width, H: s.Height},
			SpriteSourceSize: FrameRect{W: s.Width, H: s.Height},
			SourceSize:       FrameSize{W: s.Width, H: s.Height},
		}
	}
	return atlas
}

// WriteJSON writes the sprite map as TexturePacker hash JSON. Duplicate
// sprite names collapse to the last one, as the format is keyed by name.
func WriteJSON(path string, m model.SpriteMap) error {
	data, err := json.MarshalIndent(NewTexturePackerAtlas(m), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal atlas JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}
