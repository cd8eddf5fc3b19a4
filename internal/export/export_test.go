package export

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/model"
)

// solid returns a w x h image filled with c.
func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

var (
	red   = color.NRGBA{R: 255, A: 255}
	green = color.NRGBA{G: 255, A: 128}
	blue  = color.NRGBA{B: 255, A: 255}
)

// packTestSprites packs two 64x64 sprites and a 32x32 sprite, which lands
// on a 128x128 canvas.
func packTestSprites(t *testing.T) *engine.Result[model.Sprite] {
	t.Helper()
	sprites := []model.Sprite{
		model.NewImageSprite("hero", "hero.png", solid(64, 64, red)),
		model.NewImageSprite("enemy", "enemy.png", solid(64, 64, green)),
		model.NewImageSprite("coin", "coin.png", solid(32, 32, blue)),
	}
	items := make([]engine.Item[model.Sprite], len(sprites))
	for i, s := range sprites {
		items[i] = engine.NewItem(s.Name, s.Width, s.Height, s)
	}

	result, err := engine.New[model.Sprite](model.DefaultSettings()).Pack(items)
	require.NoError(t, err)
	return result
}

func testSpriteMap(t *testing.T) model.SpriteMap {
	t.Helper()
	return Describe("game_sprites", "game_sprites.png", packTestSprites(t).Tree)
}
