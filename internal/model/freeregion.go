package model

import "sort"

// FreeRegion is an unused rectangle left in the atlas after packing.
type FreeRegion struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns the area of the region in pixels.
func (r FreeRegion) Area() int64 {
	return int64(r.Width) * int64(r.Height)
}

// SortFreeRegions orders regions by area descending (largest first),
// keeping the original order among regions of equal area.
func SortFreeRegions(regions []FreeRegion) {
	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Area() > regions[j].Area()
	})
}

// TotalFreeArea returns the total area of all regions.
func TotalFreeArea(regions []FreeRegion) int64 {
	var total int64
	for _, r := range regions {
		total += r.Area()
	}
	return total
}
