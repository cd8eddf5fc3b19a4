package importer

import (
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	// Registered decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/piwi3910/atlaspack/internal/model"
)

// MaxNameLength is the longest sprite name kept, in bytes.
const MaxNameLength = 255

// imageExtensions are the file types picked up when walking a directory.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsImageFile reports whether path has an extension LoadImages decodes.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// SpriteName derives a sprite name from a file path: the base name with its
// last extension removed, cut to MaxNameLength bytes.
func SpriteName(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
		for !utf8.ValidString(name) {
			name = name[:len(name)-1]
		}
	}
	return name
}

// LoadImages decodes every image named by paths. Directories are walked
// recursively in lexical order and files without a known image extension
// inside them are skipped. Files named explicitly are always decoded.
// Sprites come back in argument order.
func LoadImages(paths ...string) ([]model.Sprite, error) {
	var sprites []model.Sprite
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", p, err)
		}

		if !info.IsDir() {
			s, err := LoadImage(p)
			if err != nil {
				return nil, err
			}
			sprites = append(sprites, s)
			continue
		}

		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !IsImageFile(path) {
				return nil
			}
			s, err := LoadImage(path)
			if err != nil {
				return err
			}
			sprites = append(sprites, s)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return sprites, nil
}

// LoadImage decodes a single image file into a sprite.
func LoadImage(path string) (model.Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Sprite{}, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return model.Sprite{}, fmt.Errorf("cannot decode %s: %w", path, err)
	}

	s := model.NewImageSprite(SpriteName(path), path, img)
	if s.Width == 0 || s.Height == 0 {
		return model.Sprite{}, fmt.Errorf("image %s has no pixels", path)
	}
	return s, nil
}
