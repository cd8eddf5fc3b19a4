package export

import (
	"github.com/piwi3910/atlaspack/internal/engine"
	"github.com/piwi3910/atlaspack/internal/model"
)

// Describe builds the sprite map for a packed tree. Sprites are listed in
// traversal order and their offsets count up from zero in that order.
func Describe[T any](name, imageFile string, tree *engine.Tree[T]) model.SpriteMap {
	m := model.SpriteMap{
		Name:          name,
		ImageFileName: imageFile,
		Width:         tree.Width(),
		Height:        tree.Height(),
		Sprites:       []model.SpriteDescriptor{},
	}

	tree.Traverse(func(_ int, n *engine.Node[T]) {
		m.Sprites = append(m.Sprites, model.SpriteDescriptor{
			Offset: len(m.Sprites),
			Name:   n.Item().Name,
			Left:   n.Left,
			Top:    n.Top,
			Right:  n.Right,
			Bottom: n.Bottom,
			Width:  n.Width(),
			Height: n.Height(),
		})
	})
	m.NumSprites = len(m.Sprites)

	return m
}
