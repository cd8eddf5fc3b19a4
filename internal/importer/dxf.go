package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/atlaspack/internal/model"
)

// point is a 2D drawing coordinate.
type point struct {
	x, y float64
}

// segment is a loose LINE waiting to be chained into an outline.
type segment struct {
	start point
	end   point
}

// chainTolerance is the largest endpoint gap still treated as connected.
const chainTolerance = 0.01

// ImportDXF reads a size list from a DXF drawing. Every closed LWPOLYLINE,
// CIRCLE or chain of connected LINEs becomes one sprite whose size is the
// shape's bounding box rounded up to whole pixels. Sprites are named
// dxf_1, dxf_2 ... in drawing order, chained outlines last.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 3 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
				continue
			}
			outline := make([]point, len(e.Vertices))
			for i, v := range e.Vertices {
				outline[i] = point{v[0], v[1]}
			}
			outlines = append(outlines, outline)

		case *entity.Circle:
			cx, cy, r := e.Center[0], e.Center[1], e.Radius
			outlines = append(outlines, []point{{cx - r, cy - r}, {cx + r, cy + r}})

		case *entity.Line:
			segments = append(segments, segment{
				start: point{e.Start[0], e.Start[1]},
				end:   point{e.End[0], e.End[1]},
			})
		}
	}

	chained, open := chainSegments(segments)
	outlines = append(outlines, chained...)
	if open > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d open LINE chains", open))
	}

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, outline := range outlines {
		w, h := boundingSize(outline)
		if w == 0 || h == 0 {
			result.Warnings = append(result.Warnings, "Skipped degenerate shape")
			continue
		}
		name := fmt.Sprintf("dxf_%d", len(result.Sprites)+1)
		result.Sprites = append(result.Sprites, model.NewSprite(name, w, h))
	}

	return result
}

// boundingSize returns the bounding box of pts in whole pixels, rounded up.
func boundingSize(pts []point) (int, int) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX = math.Min(minX, p.x)
		minY = math.Min(minY, p.y)
		maxX = math.Max(maxX, p.x)
		maxY = math.Max(maxY, p.y)
	}
	w := maxX - minX
	h := maxY - minY
	if w < chainTolerance || h < chainTolerance {
		return 0, 0
	}
	return int(math.Ceil(w - chainTolerance)), int(math.Ceil(h - chainTolerance))
}

// chainSegments connects loose segments into closed outlines and returns
// them with the number of chains that did not close.
func chainSegments(segs []segment) ([][]point, int) {
	used := make([]bool, len(segs))
	var outlines [][]point
	open := 0

	for start := range segs {
		if used[start] {
			continue
		}
		used[start] = true
		chain := []point{segs[start].start, segs[start].end}

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				switch {
				case pointsClose(tail, seg.start):
					chain = append(chain, seg.end)
				case pointsClose(tail, seg.end):
					chain = append(chain, seg.start)
				default:
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1]) {
			outlines = append(outlines, chain[:len(chain)-1])
		} else {
			open++
		}
	}

	return outlines, open
}

func pointsClose(a, b point) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= chainTolerance
}
