package engine

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/atlaspack/internal/model"
)

func scenarioItems() []Item[int] {
	return []Item[int]{
		NewItem("a", 64, 64, 1),
		NewItem("b", 64, 64, 2),
		NewItem("small", 32, 32, 3),
	}
}

func randomItems(n int, seed int64) []Item[int] {
	rng := rand.New(rand.NewSource(seed))
	items := make([]Item[int], n)
	for i := range items {
		items[i] = NewItem(fmt.Sprintf("r%d", i), 1+rng.Intn(120), 1+rng.Intn(120), i)
	}
	return items
}

func assertNoOverlap[T any](t *testing.T, result *Result[T]) {
	t.Helper()
	placements := result.Tree.Placements()
	for i, a := range placements {
		assert.GreaterOrEqual(t, a.Left, 0)
		assert.GreaterOrEqual(t, a.Top, 0)
		assert.LessOrEqual(t, a.Right, result.Width)
		assert.LessOrEqual(t, a.Bottom, result.Height)
		for _, b := range placements[i+1:] {
			overlap := a.Left < b.Right && b.Left < a.Right && a.Top < b.Bottom && b.Top < a.Bottom
			assert.False(t, overlap, "%s overlaps %s", a.Name, b.Name)
		}
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates(model.PackSettings{MinSize: 32, SizeLimit: 128})
	assert.Equal(t, []Candidate{
		{Width: 32, Height: 32},
		{Width: 64, Height: 32},
		{Width: 32, Height: 64},
		{Width: 64, Height: 64},
	}, got)

	all := Candidates(model.DefaultSettings())
	assert.Len(t, all, 81)
	assert.Equal(t, Candidate{Width: 8192, Height: 8192}, all[len(all)-1])
}

func TestCandidate_Ratio(t *testing.T) {
	assert.Equal(t, 1.0, Candidate{Width: 64, Height: 64}.Ratio())
	assert.Equal(t, 0.25, Candidate{Width: 256, Height: 64}.Ratio())
	assert.Equal(t, 0.25, Candidate{Width: 64, Height: 256}.Ratio())
}

func TestSortItems(t *testing.T) {
	items := []Item[int]{
		NewItem("narrow", 10, 50, 0),
		NewItem("wide-short", 40, 10, 1),
		NewItem("wide-tall", 40, 30, 2),
		NewItem("wide-tall-2", 40, 30, 3),
	}
	sorted := SortItems(items)

	var names []string
	for _, it := range sorted {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"wide-tall", "wide-tall-2", "wide-short", "narrow"}, names)
	assert.Equal(t, "narrow", items[0].Name, "input must not be reordered")
}

func TestIsBetter(t *testing.T) {
	assert.True(t, isBetter(100, 0.5, 200, 1.0), "less waste wins")
	assert.False(t, isBetter(200, 1.0, 100, 0.5), "more waste loses")
	assert.True(t, isBetter(100, 1.0, 100, 0.25), "squarer wins on equal waste")
	assert.False(t, isBetter(100, 0.25, 100, 1.0))
	assert.False(t, isBetter(100, 1.0, 100, 1.0), "ties keep the earlier candidate")

	square, tall := Candidate{256, 256}, Candidate{128, 512}
	require.Equal(t, square.Area(), tall.Area())
	assert.True(t, isBetter(0, square.Ratio(), 0, tall.Ratio()), "256x256 beats 128x512")
}

func TestPack_Scenario(t *testing.T) {
	p := New[int](model.DefaultSettings())

	result, err := p.Pack(scenarioItems())
	require.NoError(t, err)

	assert.Equal(t, 128, result.Width)
	assert.Equal(t, 128, result.Height)
	assert.Equal(t, int64(7168), result.Waste)
	assert.Equal(t, int64(9216), result.UsedArea)
	assert.Equal(t, 1.0, result.Ratio)
	assert.Equal(t, 81, result.Evaluated)
	assert.Equal(t, 3, result.Tree.Len())
	assertNoOverlap(t, result)
}

func TestPack_SingleExactSprite(t *testing.T) {
	p := New[int](model.DefaultSettings())

	result, err := p.Pack([]Item[int]{NewItem("tile", 64, 64, 0)})
	require.NoError(t, err)

	assert.Equal(t, 64, result.Width)
	assert.Equal(t, 64, result.Height)
	assert.Equal(t, int64(0), result.Waste)
}

func TestPack_Empty(t *testing.T) {
	p := New[int](model.DefaultSettings())

	result, err := p.Pack(nil)
	require.NoError(t, err)

	assert.Equal(t, 32, result.Width)
	assert.Equal(t, 32, result.Height)
	assert.Equal(t, int64(0), result.Waste)
	assert.Empty(t, result.Tree.Placements())
}

func TestPack_Infeasible(t *testing.T) {
	p := New[int](model.DefaultSettings())

	_, err := p.Pack([]Item[int]{
		NewItem("ok", 16, 16, 0),
		NewItem("huge", 8200, 8200, 1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)

	var infErr *InfeasibleError
	require.ErrorAs(t, err, &infErr)
	assert.Equal(t, "huge", infErr.Name)
	assert.Equal(t, 0, infErr.Index, "the largest rectangle is tried first")
	assert.Equal(t, 8192, infErr.CanvasWidth)
	assert.Equal(t, 8192, infErr.CanvasHeight)
	assert.Equal(t, 81, infErr.Candidates)
}

func TestPack_InvalidRect(t *testing.T) {
	p := New[int](model.DefaultSettings())

	_, err := p.Pack([]Item[int]{
		NewItem("ok", 16, 16, 0),
		NewItem("flat", 16, 0, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidRect)

	var rectErr *RectError
	require.ErrorAs(t, err, &rectErr)
	assert.Equal(t, 1, rectErr.Index)
	assert.Equal(t, "flat", rectErr.Name)
}

func TestPack_InvalidSettings(t *testing.T) {
	p := New[int](model.PackSettings{MinSize: 48, SizeLimit: 1024})
	_, err := p.Pack(scenarioItems())
	assert.Error(t, err)
}

func TestPack_OversizedLimitRejected(t *testing.T) {
	p := New[int](model.PackSettings{MinSize: 1 << 31, SizeLimit: 1 << 62})
	result, err := p.Pack([]Item[int]{NewItem("huge", 1<<31, 1<<31, 0)})
	assert.ErrorContains(t, err, "exceeds the maximum")
	assert.Nil(t, result)

	_, err = p.Explain(context.Background(), nil)
	assert.Error(t, err)
}

func TestPack_RandomInputsStayInBounds(t *testing.T) {
	p := New[int](model.DefaultSettings())

	for seed := int64(1); seed <= 5; seed++ {
		items := randomItems(40, seed)
		result, err := p.Pack(items)
		require.NoError(t, err)

		assert.Equal(t, len(items), result.Tree.Len())
		assert.GreaterOrEqual(t, result.Waste, int64(0))
		assert.Equal(t, int64(result.Width)*int64(result.Height)-result.UsedArea, result.Waste)
		assertNoOverlap(t, result)
	}
}

func TestPack_Idempotent(t *testing.T) {
	p := New[int](model.DefaultSettings())
	items := randomItems(25, 42)

	first, err := p.Pack(items)
	require.NoError(t, err)
	second, err := p.Pack(items)
	require.NoError(t, err)

	assert.Equal(t, first.Width, second.Width)
	assert.Equal(t, first.Height, second.Height)
	assert.Equal(t, first.Tree.Placements(), second.Tree.Placements())
}

func TestPack_ParallelMatchesSequential(t *testing.T) {
	items := randomItems(30, 7)

	seq, err := New[int](model.DefaultSettings()).Pack(items)
	require.NoError(t, err)

	settings := model.DefaultSettings()
	settings.Workers = 8
	par, err := New[int](settings).Pack(items)
	require.NoError(t, err)

	assert.Equal(t, seq.Width, par.Width)
	assert.Equal(t, seq.Height, par.Height)
	assert.Equal(t, seq.Waste, par.Waste)
	assert.Equal(t, seq.Fitting, par.Fitting)
	assert.Equal(t, seq.Tree.Placements(), par.Tree.Placements())
}

func TestPackContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New[int](model.DefaultSettings()).PackContext(ctx, scenarioItems())
	assert.ErrorIs(t, err, context.Canceled)

	settings := model.DefaultSettings()
	settings.Workers = 4
	_, err = New[int](settings).PackContext(ctx, scenarioItems())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExplain_EmptyMatchesPack(t *testing.T) {
	p := New[int](model.DefaultSettings())

	packed, err := p.Pack(nil)
	require.NoError(t, err)

	reports, err := p.Explain(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.True(t, r.Best)
	assert.True(t, r.Fits)
	assert.Equal(t, packed.Width, r.Width)
	assert.Equal(t, packed.Height, r.Height)
	assert.Equal(t, packed.Waste, r.Waste)
	assert.Zero(t, r.Waste)
}

func TestExplain(t *testing.T) {
	p := New[int](model.DefaultSettings())

	reports, err := p.Explain(context.Background(), scenarioItems())
	require.NoError(t, err)
	require.Len(t, reports, 81)

	var best []CandidateReport
	for _, r := range reports {
		if r.Best {
			best = append(best, r)
		}
		if r.Fits {
			assert.Equal(t, -1, r.FailedIndex)
			assert.Empty(t, r.FailedName)
		}
	}
	require.Len(t, best, 1)
	assert.Equal(t, 128, best[0].Width)
	assert.Equal(t, 128, best[0].Height)
	assert.Equal(t, int64(7168), best[0].Waste)

	for _, r := range reports {
		if r.Width == 128 && r.Height == 64 {
			assert.False(t, r.Fits)
			assert.Equal(t, 2, r.FailedIndex)
			assert.Equal(t, "small", r.FailedName)
		}
	}

	for _, r := range FittingReports(reports) {
		assert.True(t, r.Fits)
		assert.GreaterOrEqual(t, r.Waste, int64(7168))
	}
}
