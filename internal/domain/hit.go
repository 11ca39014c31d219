package domain

// Hit is the record found at a pointer position.
type Hit struct {
	Index  int    `json:"index"`
	Record Record `json:"record"`
}

// HitResult holds the hit for each active view; nil means no record at that index.
type HitResult struct {
	Primary    *Hit `json:"primary"`
	Comparison *Hit `json:"comparison"`
}

// Empty reports whether neither view produced a hit.
func (h HitResult) Empty() bool {
	return h.Primary == nil && h.Comparison == nil
}

// Nearest resolves a plot-space pointer X to the record at the same index in
// each view. Views of different lengths are looked up independently at that
// index: alignment is by position, never by date.
func Nearest(pointerX float64, b Bounds, area PlotArea, primary, comparison View) HitResult {
	idx := ToIndex(pointerX, b, area)
	return HitResult{
		Primary:    hitAt(primary, idx),
		Comparison: hitAt(comparison, idx),
	}
}

func hitAt(view View, idx int) *Hit {
	if idx < 0 || idx >= len(view) {
		return nil
	}
	return &Hit{Index: idx, Record: view[idx]}
}
