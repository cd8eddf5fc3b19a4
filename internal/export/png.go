package export

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/model"
)

// Compose renders the atlas image: a fully transparent canvas with every
// sprite copied to its placement. Pixels are copied as-is, alpha included,
// without blending. Sprites with no decoded image leave their area empty.
func Compose(tree *engine.Tree[model.Sprite]) *image.NRGBA {
	canvas := image.NewNRGBA(image.Rect(0, 0, tree.Width(), tree.Height()))

	tree.Traverse(func(_ int, n *engine.Node[model.Sprite]) {
		src := n.Item().Payload.Image
		if src == nil {
			return
		}
		dst := image.Rect(n.Left, n.Top, n.Right, n.Bottom)
		draw.Draw(canvas, dst, src, src.Bounds().Min, draw.Src)
	})

	return canvas
}

// Thumbnail scales img down so its longest side is at most maxSide. Images
// already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}

	if w >= h {
		h = max(1, h*maxSide/w)
		w = maxSide
	} else {
		w = max(1, w*maxSide/h)
		h = maxSide
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// WritePNG encodes img to path with the best compression.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("cannot encode %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return f.Close()
}
