package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInsertionFailed is returned when a rectangle has no room in a tree.
	// The packer treats it as a rejected candidate, never as a fatal error.
	ErrInsertionFailed = errors.New("no space left for rectangle")

	// ErrInvalidRect is returned for rectangles without a positive width and height.
	ErrInvalidRect = errors.New("rectangle width and height must be positive")

	// ErrInfeasible is returned when no candidate canvas fits every rectangle.
	ErrInfeasible = errors.New("no candidate canvas fits all rectangles")
)

// RectError reports a malformed input rectangle.
type RectError struct {
	Index  int // Position in the caller's slice, -1 when unknown
	Name   string
	Width  int
	Height int
}

func (e *RectError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("rect %q (%dx%d): %v", e.Name, e.Width, e.Height, ErrInvalidRect)
	}
	return fmt.Sprintf("rect %d %q (%dx%d): %v", e.Index, e.Name, e.Width, e.Height, ErrInvalidRect)
}

func (e *RectError) Unwrap() error {
	return ErrInvalidRect
}

// InfeasibleError names the rectangle that could not be placed in the
// largest candidate canvas.
type InfeasibleError struct {
	Index        int // Position in size-sorted order
	Name         string
	Width        int
	Height       int
	CanvasWidth  int
	CanvasHeight int
	Candidates   int // Number of canvas sizes tried
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("packing infeasible: %q (%dx%d) does not fit in the largest canvas %dx%d after %d candidates",
		e.Name, e.Width, e.Height, e.CanvasWidth, e.CanvasHeight, e.Candidates)
}

func (e *InfeasibleError) Unwrap() error {
	return ErrInfeasible
}
