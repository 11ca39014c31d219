package render

import (
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
)

const (
	tooltipWidth      = 230
	tooltipLineHeight = 18
	tooltipPadding    = 10
	waveSampleStep    = 5
)

// overlay draws everything go-chart has no series type for: the point count
// under the title, the water gauges and the hover tooltip.
func overlay(snap domain.Snapshot, hit domain.HitResult, layout Layout, phase float64) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		r.SetFont(defaults.Font)

		r.SetFontSize(12)
		r.SetFontColor(colorMuted)
		count := domain.PointCountText(snap)
		tb := r.MeasureText(count)
		r.Text(count, (layout.Width-tb.Width())/2, marginTop/2+35)

		drawGauges(r, snap, hit, layout, phase)

		if lines := domain.HitTooltip(snap.Selection, hit); len(lines) > 0 {
			drawTooltip(r, canvasBox, layout, hitIndex(hit), snap.Bounds, lines)
		}
	}
}

func drawGauges(r chart.Renderer, snap domain.Snapshot, hit domain.HitResult, layout Layout, phase float64) {
	comparing := len(snap.Comparison) > 0
	boxes := layout.gaugeBoxes(comparing)

	water := colorWaterSingle
	if comparing {
		water = colorWaterPrimary
	}
	drawGauge(r, boxes[0], snap.Selection.Primary, domain.GaugeLevel(snap.Primary, hit.Primary), snap.Bounds, phase, water)

	if comparing {
		level := domain.GaugeLevel(snap.Comparison, hit.Comparison)
		drawGauge(r, boxes[1], snap.Selection.Comparison, level, snap.Bounds, phase+math.Pi, colorWaterComparison)
	}
}

func drawGauge(r chart.Renderer, box gaugeBox, label string, level float64, b domain.Bounds, phase float64, water drawing.Color) {
	r.SetStrokeColor(colorMuted)
	r.SetStrokeWidth(2)
	r.MoveTo(box.Left, box.Top)
	r.LineTo(box.Left+box.Width, box.Top)
	r.LineTo(box.Left+box.Width, box.Top+box.Height)
	r.LineTo(box.Left, box.Top+box.Height)
	r.Close()
	r.Stroke()

	surface := domain.GaugeFill(level, b, float64(box.Top), float64(box.Height))
	bottom := box.Top + box.Height

	r.SetFillColor(water)
	r.SetStrokeWidth(0)
	r.MoveTo(box.Left, bottom)
	for x := box.Left; x <= box.Left+box.Width; x += waveSampleStep {
		y := surface + domain.WaveY(float64(x), phase)
		r.LineTo(x, int(math.Min(y, float64(bottom))))
	}
	r.LineTo(box.Left+box.Width, bottom)
	r.Close()
	r.Fill()

	r.SetFontSize(10)
	r.SetFontColor(drawing.ColorBlack)
	centerText(r, label, box.Left+box.Width/2, box.Top-10)
	centerText(r, fmt.Sprintf("%.1f mm", level), box.Left+box.Width/2, int(surface)-15)
}

func drawTooltip(r chart.Renderer, canvasBox chart.Box, layout Layout, idx int, b domain.Bounds, lines []string) {
	area := layout.PlotArea()
	// Place the box beside the crosshair, converting plot-area X to image X.
	px := domain.ToScreenX(float64(idx), b, area)
	x := canvasBox.Left + int(px/area.Width*float64(canvasBox.Width())) + 15
	if x+tooltipWidth > layout.Width-gaugeInset-10 {
		x -= tooltipWidth + 30
	}
	y := canvasBox.Top + 10
	height := len(lines)*tooltipLineHeight + 2*tooltipPadding - 4

	r.SetFillColor(drawing.Color{R: 255, G: 255, B: 255, A: 250})
	r.SetStrokeColor(colorMuted)
	r.SetStrokeWidth(1)
	r.MoveTo(x, y)
	r.LineTo(x+tooltipWidth, y)
	r.LineTo(x+tooltipWidth, y+height)
	r.LineTo(x, y+height)
	r.Close()
	r.FillStroke()

	r.SetFontSize(12)
	r.SetFontColor(drawing.ColorBlack)
	for i, line := range lines {
		r.Text(line, x+tooltipPadding, y+tooltipPadding+12+i*tooltipLineHeight)
	}
}

func centerText(r chart.Renderer, s string, cx, y int) {
	tb := r.MeasureText(s)
	r.Text(s, cx-tb.Width()/2, y)
}
