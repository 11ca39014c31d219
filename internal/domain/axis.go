package domain

import (
	"fmt"
	"math"
)

const (
	tickStep      = 10
	majorTickStep = 50
)

// Tick is a horizontal grid line at a value.
type Tick struct {
	Value float64 `json:"value"`
	Major bool    `json:"major"`
}

// ValueTicks returns a tick at every multiple of 10 inside the value range.
// Multiples of 50 are major and carry a label.
func ValueTicks(b Bounds) []Tick {
	lo := math.Floor(b.MinValue/tickStep) * tickStep
	hi := math.Ceil(b.MaxValue/tickStep) * tickStep

	var ticks []Tick
	for v := lo; v <= hi; v += tickStep {
		if !b.Contains(v) {
			continue
		}
		ticks = append(ticks, Tick{Value: v, Major: math.Mod(v, majorTickStep) == 0})
	}
	return ticks
}

// HasZeroLine reports whether zero falls inside the value range.
func HasZeroLine(b Bounds) bool {
	return b.Contains(0)
}

// TimeLabel is an X-axis label anchored at a view index.
type TimeLabel struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Text  string  `json:"text"`
}

// TimeLabels spreads up to n+1 "M/YYYY" labels across the view's index range.
func TimeLabels(view View, b Bounds, area PlotArea, n int) []TimeLabel {
	if len(view) == 0 || n <= 0 {
		return nil
	}
	labels := make([]TimeLabel, 0, n+1)
	last := len(view) - 1
	for i := 0; i <= n; i++ {
		idx := int(math.Floor(float64(i) * float64(last) / float64(n)))
		r := view[idx]
		labels = append(labels, TimeLabel{
			Index: idx,
			X:     ToScreenX(float64(idx), b, area),
			Text:  fmt.Sprintf("%d/%d", int(r.Date.Month()), r.Date.Year()),
		})
	}
	return labels
}
