// Package engine implements the rectangle packing core: a binary guillotine
// tree over the canvas and a driver that searches power-of-two canvas sizes
// for the layout with the least wasted area.
package engine

// Item is a rectangle to be placed. Payload is handed back untouched
// through the tree so callers can reach their own data (pixels, file names)
// from a placed node.
type Item[T any] struct {
	Name    string
	Width   int
	Height  int
	Payload T
}

func NewItem[T any](name string, w, h int, payload T) Item[T] {
	return Item[T]{Name: name, Width: w, Height: h, Payload: payload}
}

// Area returns the rectangle area.
func (it Item[T]) Area() int64 {
	return int64(it.Width) * int64(it.Height)
}

// Validate rejects rectangles that cannot enter a tree.
func (it Item[T]) Validate() error {
	if it.Width <= 0 || it.Height <= 0 {
		return &RectError{Index: -1, Name: it.Name, Width: it.Width, Height: it.Height}
	}
	return nil
}

// Node is a region [Left,Top,Right,Bottom) of the canvas. A node is either
// a leaf (free or holding exactly one item) or internal with exactly two
// children that partition its region.
type Node[T any] struct {
	ID     int
	Left   int
	Top    int
	Right  int
	Bottom int

	leaf     bool
	occupied bool
	item     *Item[T]
	children [2]*Node[T]
}

func (n *Node[T]) Width() int {
	return n.Right - n.Left
}

func (n *Node[T]) Height() int {
	return n.Bottom - n.Top
}

// IsLeaf reports whether the node has not been split.
func (n *Node[T]) IsLeaf() bool {
	return n.leaf
}

// IsOccupied reports whether the node holds an item.
func (n *Node[T]) IsOccupied() bool {
	return n.occupied
}

// Item returns the placed item, or nil.
func (n *Node[T]) Item() *Item[T] {
	return n.item
}

// Child returns child 0 or 1, or nil for a leaf.
func (n *Node[T]) Child(i int) *Node[T] {
	return n.children[i]
}

// Tree owns every node of one candidate layout. Node ids come from the
// tree's own counter, so they are unique and ordered within a tree.
type Tree[T any] struct {
	root   *Node[T]
	nextID int
	placed int
}

// NewTree creates a tree whose root covers [0,0,width,height).
func NewTree[T any](width, height int) *Tree[T] {
	t := &Tree[T]{}
	t.root = t.newNode(0, 0, width, height)
	return t
}

func (t *Tree[T]) newNode(left, top, right, bottom int) *Node[T] {
	n := &Node[T]{
		ID:     t.nextID,
		Left:   left,
		Top:    top,
		Right:  right,
		Bottom: bottom,
		leaf:   true,
	}
	t.nextID++
	return n
}

// Root returns the node covering the whole canvas.
func (t *Tree[T]) Root() *Node[T] {
	return t.root
}

func (t *Tree[T]) Width() int {
	return t.root.Width()
}

func (t *Tree[T]) Height() int {
	return t.root.Height()
}

// Len returns the number of placed items.
func (t *Tree[T]) Len() int {
	return t.placed
}

// NodeCount returns the number of nodes created so far.
func (t *Tree[T]) NodeCount() int {
	return t.nextID
}

// Insert places item in the first free leaf that can hold it, splitting
// leaves as needed, and returns the leaf now holding it. Splits are never
// undone, even when the insertion fails further down.
func (t *Tree[T]) Insert(item *Item[T]) (*Node[T], error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}
	n := t.insert(t.root, item)
	if n == nil {
		return nil, ErrInsertionFailed
	}
	t.placed++
	return n, nil
}

func (t *Tree[T]) insert(n *Node[T], item *Item[T]) *Node[T] {
	if !n.leaf {
		// Child 0 first; the order decides the layout.
		if placed := t.insert(n.children[0], item); placed != nil {
			return placed
		}
		return t.insert(n.children[1], item)
	}

	if n.occupied {
		return nil
	}

	w, h := item.Width, item.Height
	if w == n.Width() && h == n.Height() {
		n.item = item
		n.occupied = true
		return n
	}

	if w > n.Width() || h > n.Height() {
		return nil
	}

	// Vertical cut when the horizontal leftover is larger, else horizontal.
	// Child 0 is sized to the item along the cut axis.
	dw := n.Width() - w
	dh := n.Height() - h
	if dw > dh {
		n.children[0] = t.newNode(n.Left, n.Top, n.Left+w, n.Bottom)
		n.children[1] = t.newNode(n.Left+w, n.Top, n.Right, n.Bottom)
	} else {
		n.children[0] = t.newNode(n.Left, n.Top, n.Right, n.Top+h)
		n.children[1] = t.newNode(n.Left, n.Top+h, n.Right, n.Bottom)
	}
	n.leaf = false

	return t.insert(n.children[0], item)
}
