package domain

import "math"

// valuePadding is the fraction of the raw value range added above and below.
const valuePadding = 0.1

// Bounds are the data-space extents shared by every active view.
type Bounds struct {
	MinIndex int     `json:"min_index"`
	MaxIndex int     `json:"max_index"`
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
}

// PlotArea is the size of the drawable region in screen pixels. Coordinates
// are relative to its top-left corner.
type PlotArea struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComputeBounds derives axis extents from the primary and optional comparison
// views. It returns false when both views are empty; callers treat that as
// "nothing to render". A constant series gets a span of value±1 so mapping
// never divides by zero.
func ComputeBounds(primary, comparison View) (Bounds, bool) {
	if len(primary) == 0 && len(comparison) == 0 {
		return Bounds{}, false
	}

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for _, v := range []View{primary, comparison} {
		for _, r := range v {
			minV = math.Min(minV, r.Value)
			maxV = math.Max(maxV, r.Value)
		}
	}

	pad := (maxV - minV) * valuePadding
	minV -= pad
	maxV += pad
	if maxV == minV {
		minV--
		maxV++
	}

	return Bounds{
		MinIndex: 0,
		MaxIndex: max(len(primary), len(comparison)) - 1,
		MinValue: minV,
		MaxValue: maxV,
	}, true
}

// Contains reports whether value lies inside the value range.
func (b Bounds) Contains(value float64) bool {
	return value >= b.MinValue && value <= b.MaxValue
}

// ToScreen maps an index/value pair to plot coordinates. Screen Y grows
// downward. A single-index span maps every point to x = 0.
func ToScreen(index int, value float64, b Bounds, area PlotArea) (x, y float64) {
	return ToScreenX(float64(index), b, area), ToScreenY(value, b, area)
}

// ToScreenX maps a (possibly fractional) index to a plot X coordinate.
func ToScreenX(index float64, b Bounds, area PlotArea) float64 {
	span := b.MaxIndex - b.MinIndex
	if span == 0 {
		return 0
	}
	return area.Width * (index - float64(b.MinIndex)) / float64(span)
}

// ToScreenY maps a value to a plot Y coordinate.
func ToScreenY(value float64, b Bounds, area PlotArea) float64 {
	return area.Height * (1 - (value-b.MinValue)/(b.MaxValue-b.MinValue))
}

// ToIndex inverts the X mapping, rounding half away from zero and clamping to
// [MinIndex, MaxIndex].
func ToIndex(screenX float64, b Bounds, area PlotArea) int {
	span := b.MaxIndex - b.MinIndex
	if span == 0 || area.Width <= 0 {
		return b.MinIndex
	}
	idx := int(math.Round(float64(b.MinIndex) + screenX/area.Width*float64(span)))
	return min(max(idx, b.MinIndex), b.MaxIndex)
}
