package engine

import "github.com/piwi3910/atlaspack/internal/model"

// Traverse calls visit for every node holding an item, pre-order, child 0
// before child 1. The root has depth 0. Internal nodes are walked but not
// visited.
func (t *Tree[T]) Traverse(visit func(depth int, n *Node[T])) {
	t.walk(func(depth int, n *Node[T]) {
		if n.item != nil {
			visit(depth, n)
		}
	})
}

// walk visits every node, pre-order, child 0 before child 1.
func (t *Tree[T]) walk(visit func(depth int, n *Node[T])) {
	var rec func(n *Node[T], depth int)
	rec = func(n *Node[T], depth int) {
		visit(depth, n)
		if n.children[0] != nil {
			rec(n.children[0], depth+1)
		}
		if n.children[1] != nil {
			rec(n.children[1], depth+1)
		}
	}
	rec(t.root, 0)
}

// Placement is the final position of one item.
type Placement[T any] struct {
	Offset  int // Sequential index in traversal order
	Depth   int
	NodeID  int
	Name    string
	Left    int
	Top     int
	Right   int
	Bottom  int
	Width   int
	Height  int
	Payload T
}

// Placements returns one record per placed item, in traversal order.
func (t *Tree[T]) Placements() []Placement[T] {
	placements := make([]Placement[T], 0, t.placed)
	t.Traverse(func(depth int, n *Node[T]) {
		placements = append(placements, Placement[T]{
			Offset:  len(placements),
			Depth:   depth,
			NodeID:  n.ID,
			Name:    n.item.Name,
			Left:    n.Left,
			Top:     n.Top,
			Right:   n.Right,
			Bottom:  n.Bottom,
			Width:   n.Width(),
			Height:  n.Height(),
			Payload: n.item.Payload,
		})
	})
	return placements
}

// FreeRegions returns the free leaves at least minW x minH, largest first.
func (t *Tree[T]) FreeRegions(minW, minH int) []model.FreeRegion {
	var regions []model.FreeRegion
	t.walk(func(_ int, n *Node[T]) {
		if !n.leaf || n.occupied {
			return
		}
		if n.Width() < minW || n.Height() < minH {
			return
		}
		regions = append(regions, model.FreeRegion{
			Left:   n.Left,
			Top:    n.Top,
			Width:  n.Width(),
			Height: n.Height(),
		})
	})
	model.SortFreeRegions(regions)
	return regions
}

// Depth returns the depth of the deepest node.
func (t *Tree[T]) Depth() int {
	deepest := 0
	t.walk(func(depth int, _ *Node[T]) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}
