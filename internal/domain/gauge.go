package domain

import "math"

// Water gauge wave parameters.
const (
	WaveStep      = 0.05 // phase advance per animation frame
	WaveAmplitude = 8.0
	WaveFrequency = 0.05
)

// GaugeLevel is the value a water gauge shows: the hovered record when there
// is one, otherwise the mean of the view. An empty view reads 0.
func GaugeLevel(view View, hit *Hit) float64 {
	if hit != nil {
		return hit.Record.Value
	}
	if len(view) == 0 {
		return 0
	}
	var sum float64
	for _, r := range view {
		sum += r.Value
	}
	return sum / float64(len(view))
}

// GaugeFill maps a level to the Y of the water surface inside a container
// spanning [top, top+height], using the same value range as the plot.
func GaugeFill(level float64, b Bounds, top, height float64) float64 {
	return top + ToScreenY(level, b, PlotArea{Height: height})
}

// WaveY is the vertical offset of the water surface at x for an animation phase.
func WaveY(x, phase float64) float64 {
	return WaveAmplitude * math.Sin(phase+x*WaveFrequency)
}
