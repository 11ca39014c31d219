package domain

// TrendFit is an ordinary least squares line over (index, value) pairs.
type TrendFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	N         int     `json:"n"`
}

// Fit computes the least squares line over x_i = i and y_i = view[i].Value.
// It returns false for views with fewer than two records.
func Fit(view View) (TrendFit, bool) {
	n := len(view)
	if n < 2 {
		return TrendFit{}, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, r := range view {
		x := float64(i)
		sumX += x
		sumY += r.Value
		sumXY += x * r.Value
		sumXX += x * x
	}
	fn := float64(n)
	slope := (fn*sumXY - sumX*sumY) / (fn*sumXX - sumX*sumX)
	intercept := (sumY - slope*sumX) / fn

	return TrendFit{Slope: slope, Intercept: intercept, N: n}, true
}

// At evaluates the fitted line at index.
func (f TrendFit) At(index int) float64 {
	return f.Slope*float64(index) + f.Intercept
}

// Endpoints returns the line's data-space endpoints at index 0 and n-1. Map
// them through the caller's Bounds, which may cover a longer view.
func (f TrendFit) Endpoints() (startIndex int, startValue float64, endIndex int, endValue float64) {
	return 0, f.Intercept, f.N - 1, f.At(f.N - 1)
}
