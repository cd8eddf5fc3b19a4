package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/atlaspack/internal/model"
)

// Candidate is one canvas size the packer tries.
type Candidate struct {
	Width  int
	Height int
}

// Area returns the canvas area.
func (c Candidate) Area() int64 {
	return int64(c.Width) * int64(c.Height)
}

// Ratio returns min(w,h)/max(w,h); 1.0 is square.
func (c Candidate) Ratio() float64 {
	if c.Width < c.Height {
		return float64(c.Width) / float64(c.Height)
	}
	return float64(c.Height) / float64(c.Width)
}

// Candidates lists every power-of-two canvas in [MinSize, SizeLimit) for
// both sides, height in the outer loop and width in the inner loop.
func Candidates(settings model.PackSettings) []Candidate {
	var candidates []Candidate
	for h := settings.MinSize; h < settings.SizeLimit; h *= 2 {
		for w := settings.MinSize; w < settings.SizeLimit; w *= 2 {
			candidates = append(candidates, Candidate{Width: w, Height: h})
		}
	}
	return candidates
}

// SortItems returns a copy of items ordered by width descending, then
// height descending. Items of equal size keep their input order.
func SortItems[T any](items []Item[T]) []Item[T] {
	sorted := make([]Item[T], len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Width != sorted[j].Width {
			return sorted[i].Width > sorted[j].Width
		}
		return sorted[i].Height > sorted[j].Height
	})
	return sorted
}

// Result is the winning layout.
type Result[T any] struct {
	Tree      *Tree[T]
	Width     int
	Height    int
	UsedArea  int64
	Waste     int64   // Canvas area not covered by an item
	Ratio     float64 // min(w,h)/max(w,h)
	Evaluated int     // Candidates tried
	Fitting   int     // Candidates that held every item
}

// Packer runs the canvas search.
type Packer[T any] struct {
	Settings model.PackSettings
	Logger   *log.Logger
}

func New[T any](settings model.PackSettings) *Packer[T] {
	return &Packer[T]{Settings: settings}
}

func (p *Packer[T]) logger() *log.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return log.Default()
}

// Pack places every item on the candidate canvas with the least waste,
// preferring the squarer canvas on equal waste.
func (p *Packer[T]) Pack(items []Item[T]) (*Result[T], error) {
	return p.PackContext(context.Background(), items)
}

// PackContext is Pack with cancellation checked between candidates.
func (p *Packer[T]) PackContext(ctx context.Context, items []Item[T]) (*Result[T], error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pack settings: %w", err)
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	candidates := Candidates(p.Settings)

	// Nothing to place: the smallest canvas, with nothing wasted around nothing.
	if len(items) == 0 {
		c := candidates[0]
		return &Result[T]{
			Tree:      NewTree[T](c.Width, c.Height),
			Width:     c.Width,
			Height:    c.Height,
			Ratio:     c.Ratio(),
			Evaluated: 1,
			Fitting:   1,
		}, nil
	}

	sorted := SortItems(items)
	var used int64
	for _, it := range sorted {
		used += it.Area()
	}

	outcomes, err := p.evaluateAll(ctx, sorted, candidates)
	if err != nil {
		return nil, err
	}

	bestIdx := p.selectBest(outcomes)
	if bestIdx < 0 {
		last := outcomes[len(outcomes)-1]
		failed := sorted[last.failedIndex]
		return nil, &InfeasibleError{
			Index:        last.failedIndex,
			Name:         failed.Name,
			Width:        failed.Width,
			Height:       failed.Height,
			CanvasWidth:  last.candidate.Width,
			CanvasHeight: last.candidate.Height,
			Candidates:   len(outcomes),
		}
	}

	best := outcomes[bestIdx]
	fitting := 0
	for _, o := range outcomes {
		if o.fits {
			fitting++
		}
	}

	return &Result[T]{
		Tree:      best.tree,
		Width:     best.candidate.Width,
		Height:    best.candidate.Height,
		UsedArea:  used,
		Waste:     best.waste,
		Ratio:     best.ratio,
		Evaluated: len(outcomes),
		Fitting:   fitting,
	}, nil
}

func validateItems[T any](items []Item[T]) error {
	for i, it := range items {
		if it.Width <= 0 || it.Height <= 0 {
			return &RectError{Index: i, Name: it.Name, Width: it.Width, Height: it.Height}
		}
	}
	return nil
}

// outcome is the evaluation of one candidate canvas.
type outcome[T any] struct {
	candidate   Candidate
	fits        bool
	tree        *Tree[T] // Set only when fits
	waste       int64
	ratio       float64
	failedIndex int // Sorted index of the first item that did not fit
}

// evaluate builds a fresh tree for c and inserts every item. A single
// failed insertion rejects the whole candidate.
func evaluate[T any](sorted []Item[T], c Candidate) outcome[T] {
	tree := NewTree[T](c.Width, c.Height)
	var used int64
	for i := range sorted {
		if _, err := tree.Insert(&sorted[i]); err != nil {
			return outcome[T]{candidate: c, failedIndex: i}
		}
		used += sorted[i].Area()
	}
	return outcome[T]{
		candidate:   c,
		fits:        true,
		tree:        tree,
		waste:       c.Area() - used,
		ratio:       c.Ratio(),
		failedIndex: -1,
	}
}

// evaluateAll evaluates every candidate, concurrently when Workers > 1.
// Outcomes are returned in candidate order either way.
func (p *Packer[T]) evaluateAll(ctx context.Context, sorted []Item[T], candidates []Candidate) ([]outcome[T], error) {
	outcomes := make([]outcome[T], len(candidates))

	if p.Settings.Workers <= 1 {
		for i, c := range candidates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = evaluate(sorted, c)
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Settings.Workers)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = evaluate(sorted, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// selectBest returns the index of the winning outcome, or -1 when none fits.
// Outcomes are scanned in candidate order so ties resolve the same way
// regardless of how they were evaluated.
func (p *Packer[T]) selectBest(outcomes []outcome[T]) int {
	logger := p.logger()
	bestIdx := -1
	for i, o := range outcomes {
		if !o.fits {
			continue
		}
		logger.Debug("canvas fits", "width", o.candidate.Width, "height", o.candidate.Height,
			"ratio", fmt.Sprintf("%.3f", o.ratio), "waste", o.waste)

		if bestIdx < 0 || isBetter(o.waste, o.ratio, outcomes[bestIdx].waste, outcomes[bestIdx].ratio) {
			logger.Debug("best so far", "width", o.candidate.Width, "height", o.candidate.Height)
			bestIdx = i
		}
	}
	return bestIdx
}

// isBetter reports whether a candidate beats the current best: less waste,
// or equal waste and a strictly squarer canvas.
func isBetter(waste int64, ratio float64, bestWaste int64, bestRatio float64) bool {
	if waste != bestWaste {
		return waste < bestWaste
	}
	return ratio > bestRatio
}
