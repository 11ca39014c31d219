package render

import "github.com/couchcryptid/sea-level-chart/internal/domain"

// Chart margins around the plot area, in pixels. The right side also reserves
// room for the water gauge.
const (
	marginTop    = 100
	marginRight  = 60
	marginBottom = 80
	marginLeft   = 80

	gaugeReserve = 100
	gaugeWidth   = 120
	gaugeInset   = 150 // gauge left edge, measured from the right edge of the image
	gaugeGap     = 20  // vertical gap between stacked gauges

	timeLabelCount = 8
)

// Layout is the pixel geometry of a rendered chart.
type Layout struct {
	Width  int
	Height int
}

// PlotArea is the nominal drawable region that pointer coordinates refer to.
func (l Layout) PlotArea() domain.PlotArea {
	return domain.PlotArea{
		Width:  float64(l.Width - gaugeReserve - marginLeft - marginRight),
		Height: float64(l.Height - marginTop - marginBottom),
	}
}

// gaugeBox is one water gauge container in image coordinates.
type gaugeBox struct {
	Left, Top, Width, Height int
}

// gaugeBoxes returns the gauge containers: one full-height gauge, or two
// stacked halves when a comparison is shown.
func (l Layout) gaugeBoxes(comparing bool) []gaugeBox {
	left := l.Width - gaugeInset
	plotH := l.Height - marginTop - marginBottom
	if !comparing {
		return []gaugeBox{{Left: left, Top: marginTop, Width: gaugeWidth, Height: plotH}}
	}
	half := plotH/2 - gaugeGap
	return []gaugeBox{
		{Left: left, Top: marginTop, Width: gaugeWidth, Height: half},
		{Left: left, Top: marginTop + plotH/2 + gaugeGap, Width: gaugeWidth, Height: half},
	}
}
