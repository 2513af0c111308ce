package skips

import (
	"sort"
	"strings"
)

// ParseSortKey accepts "size" or "price"; anything else sorts by size.
func ParseSortKey(raw string) SortKey {
	if SortKey(strings.ToLower(strings.TrimSpace(raw))) == SortByPrice {
		return SortByPrice
	}
	return SortBySize
}

// Active reports whether any filter toggle is on.
func (f FilterState) Active() bool {
	return f.RoadLegalOnly || f.HeavyWasteOnly
}

// Keep applies the AND of the active toggles.
func (f FilterState) Keep(s SkipViewModel) bool {
	return (!f.RoadLegalOnly || s.RoadLegal) && (!f.HeavyWasteOnly || s.HeavyWasteSuitable)
}

// Apply derives the displayed list from the full list. The result is a new
// slice; full is left untouched. Equal keys keep their order in full.
func Apply(full []SkipViewModel, f FilterState) []SkipViewModel {
	out := make([]SkipViewModel, 0, len(full))
	for _, s := range full {
		if f.Keep(s) {
			out = append(out, s)
		}
	}

	switch f.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PriceNumeric < out[j].PriceNumeric
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Size < out[j].Size
		})
	}
	return out
}
