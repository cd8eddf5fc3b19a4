package model

import (
	"fmt"
	"image"
	"math/bits"

	"github.com/google/uuid"
)

// Sprite is one source image to be placed in the atlas.
type Sprite struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"` // File base name without its extension
	Path   string      `json:"path"` // Source file, empty for geometry-only plans
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Image  image.Image `json:"-"` // Decoded pixels; nil when only the geometry is known
}

func NewSprite(name string, w, h int) Sprite {
	return Sprite{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  w,
		Height: h,
	}
}

// NewImageSprite creates a sprite whose size is taken from the decoded image bounds.
func NewImageSprite(name, path string, img image.Image) Sprite {
	b := img.Bounds()
	s := NewSprite(name, b.Dx(), b.Dy())
	s.Path = path
	s.Image = img
	return s
}

// Area returns the pixel area of the sprite.
func (s Sprite) Area() int64 {
	return int64(s.Width) * int64(s.Height)
}

// Default canvas search bounds. Candidate sides are powers of two in
// [MinSize, SizeLimit), so the largest canvas tried is 8192x8192.
const (
	DefaultMinSize   = 32
	DefaultSizeLimit = 16384
)

// MaxSizeLimit is the largest SizeLimit Validate accepts. Canvas sides stay
// below 65536, so canvas areas and pixel buffers always fit an int64.
const MaxSizeLimit = 1 << 16

// PackSettings holds the canvas search configuration.
type PackSettings struct {
	MinSize   int `json:"min_size" toml:"min_size"`     // Smallest candidate side (power of two)
	SizeLimit int `json:"size_limit" toml:"size_limit"` // Exclusive upper bound for candidate sides
	Workers   int `json:"workers" toml:"workers"`       // Concurrent candidate evaluations, <=1 is sequential
}

func DefaultSettings() PackSettings {
	return PackSettings{
		MinSize:   DefaultMinSize,
		SizeLimit: DefaultSizeLimit,
		Workers:   1,
	}
}

// Validate checks that the search bounds are usable.
func (s PackSettings) Validate() error {
	if !isPowerOfTwo(s.MinSize) {
		return fmt.Errorf("min size %d is not a positive power of two", s.MinSize)
	}
	if !isPowerOfTwo(s.SizeLimit) {
		return fmt.Errorf("size limit %d is not a positive power of two", s.SizeLimit)
	}
	if s.SizeLimit > MaxSizeLimit {
		return fmt.Errorf("size limit %d exceeds the maximum of %d", s.SizeLimit, MaxSizeLimit)
	}
	if s.MinSize >= s.SizeLimit {
		return fmt.Errorf("min size %d must be below size limit %d", s.MinSize, s.SizeLimit)
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	return nil
}

// MaxSide returns the largest candidate side the settings allow.
func (s PackSettings) MaxSide() int {
	side := s.MinSize
	for side*2 < s.SizeLimit {
		side *= 2
	}
	return side
}

func isPowerOfTwo(n int) bool {
	return n > 0 && bits.OnesCount(uint(n)) == 1
}

// SpriteDescriptor is the placement record of one sprite in the atlas.
type SpriteDescriptor struct {
	Offset int    `json:"offset"` // Index in the map, in traversal order
	Name   string `json:"name"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Right  int    `json:"right"`
	Bottom int    `json:"bottom"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SpriteMap describes a finished atlas and every sprite in it.
type SpriteMap struct {
	Name          string             `json:"name"`
	ImageFileName string             `json:"image_file_name"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	NumSprites    int                `json:"num_sprites"`
	Sprites       []SpriteDescriptor `json:"sprites"`
}

// FindSprite returns the sprite with the given name.
func (m SpriteMap) FindSprite(name string) (SpriteDescriptor, bool) {
	for _, s := range m.Sprites {
		if s.Name == name {
			return s, true
		}
	}
	return SpriteDescriptor{}, false
}

// Sprite returns the sprite at the given offset.
func (m SpriteMap) Sprite(offset int) (SpriteDescriptor, bool) {
	if offset < 0 || offset >= len(m.Sprites) {
		return SpriteDescriptor{}, false
	}
	return m.Sprites[offset], true
}

// FXPos converts a pixel column to a 0.0-1.0 texture coordinate.
func (m SpriteMap) FXPos(x int) float64 {
	if m.Width == 0 {
		return 0
	}
	return float64(x) / float64(m.Width)
}

// FYPos converts a pixel row to a 0.0-1.0 texture coordinate.
func (m SpriteMap) FYPos(y int) float64 {
	if m.Height == 0 {
		return 0
	}
	return float64(y) / float64(m.Height)
}

// UsedArea returns the total area covered by sprites.
func (m SpriteMap) UsedArea() int64 {
	var total int64
	for _, s := range m.Sprites {
		total += int64(s.Width) * int64(s.Height)
	}
	return total
}

// TotalArea returns the canvas area.
func (m SpriteMap) TotalArea() int64 {
	return int64(m.Width) * int64(m.Height)
}

// Waste returns the number of canvas pixels not covered by a sprite.
func (m SpriteMap) Waste() int64 {
	return m.TotalArea() - m.UsedArea()
}

// Efficiency returns the usage percentage.
func (m SpriteMap) Efficiency() float64 {
	ta := m.TotalArea()
	if ta == 0 {
		return 0
	}
	return (float64(m.UsedArea()) / float64(ta)) * 100.0
}
