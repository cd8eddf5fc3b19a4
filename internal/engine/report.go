package engine

import "context"

// CandidateReport describes how one candidate canvas fared.
type CandidateReport struct {
	Width       int
	Height      int
	Fits        bool
	Waste       int64
	Ratio       float64
	FailedIndex int    // Sorted index of the first item that did not fit, -1 when Fits
	FailedName  string // Name of that item
	Best        bool
}

// Explain evaluates every candidate and reports the outcome of each one in
// candidate order, marking the canvas Pack would choose. It runs the same
// search as Pack, so it is as expensive as a full pack.
func (p *Packer[T]) Explain(ctx context.Context, items []Item[T]) ([]CandidateReport, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, err
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	// Same rule as Pack: nothing to place is the smallest canvas with no waste.
	if len(items) == 0 {
		c := Candidates(p.Settings)[0]
		return []CandidateReport{{
			Width:       c.Width,
			Height:      c.Height,
			Fits:        true,
			Ratio:       c.Ratio(),
			FailedIndex: -1,
			Best:        true,
		}}, nil
	}

	sorted := SortItems(items)
	outcomes, err := p.evaluateAll(ctx, sorted, Candidates(p.Settings))
	if err != nil {
		return nil, err
	}
	bestIdx := p.selectBest(outcomes)

	reports := make([]CandidateReport, 0, len(outcomes))
	for i, o := range outcomes {
		r := CandidateReport{
			Width:       o.candidate.Width,
			Height:      o.candidate.Height,
			Fits:        o.fits,
			Waste:       o.waste,
			Ratio:       o.candidate.Ratio(),
			FailedIndex: o.failedIndex,
			Best:        i == bestIdx,
		}
		if !o.fits {
			r.FailedName = sorted[o.failedIndex].Name
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// FittingReports filters reports down to the candidates that held every item.
func FittingReports(reports []CandidateReport) []CandidateReport {
	var fitting []CandidateReport
	for _, r := range reports {
		if r.Fits {
			fitting = append(fitting, r)
		}
	}
	return fitting
}
