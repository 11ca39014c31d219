package render

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
)

// Format is the output image encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Series colors.
var (
	colorPrimaryCompared = drawing.Color{R: 255, G: 0, B: 0, A: 120}
	colorComparison      = drawing.Color{R: 20, G: 200, B: 20, A: 120}
	colorTrendSingle     = drawing.Color{R: 150, G: 150, B: 150, A: 200}
	colorTrendPrimary    = drawing.Color{R: 220, G: 20, B: 20, A: 180}
	colorTrendComparison = drawing.Color{R: 60, G: 160, B: 60, A: 180}
	colorHoverSingle     = drawing.Color{R: 25, G: 25, B: 25, A: 255}
	colorHoverPrimary    = drawing.Color{R: 255, G: 0, B: 0, A: 255}
	colorHoverComparison = drawing.Color{R: 20, G: 200, B: 20, A: 255}
	colorCrosshair       = drawing.Color{R: 100, G: 100, B: 255, A: 150}
	colorWaterSingle     = drawing.Color{R: 30, G: 144, B: 255, A: 150}
	colorWaterPrimary    = drawing.Color{R: 255, G: 0, B: 0, A: 150}
	colorWaterComparison = drawing.Color{R: 20, G: 200, B: 20, A: 150}
	colorMuted           = drawing.Color{R: 100, G: 100, B: 100, A: 255}
	colorGridMajor       = drawing.Color{R: 150, G: 150, B: 150, A: 255}
	colorGridMinor       = drawing.Color{R: 220, G: 220, B: 220, A: 255}
)

// Request describes one chart image.
type Request struct {
	Selection  domain.SelectionState
	PointerX   float64 // plot-area X, only used when HasPointer
	HasPointer bool
	Width      int
	Height     int
	Format     Format
	Phase      float64 // water gauge wave phase
}

// Key identifies a request for caching.
func (r Request) Key() string {
	pointer := "-"
	if r.HasPointer {
		pointer = strconv.FormatFloat(r.PointerX, 'f', 1, 64)
	}
	return fmt.Sprintf("%s|%s|%s|%dx%d|%s|%.2f",
		r.Selection.Primary, r.Selection.Comparison, pointer, r.Width, r.Height, r.Format, r.Phase)
}

// Charter produces chart images.
type Charter interface {
	Chart(ctx context.Context, req Request) ([]byte, error)
}

// StoreProvider returns the loaded dataset.
type StoreProvider interface {
	Store() (*domain.Store, error)
}

// Renderer draws snapshots with go-chart. It reads core state and never mutates it.
type Renderer struct {
	stores  StoreProvider
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewRenderer creates a Renderer over the dataset returned by stores.
func NewRenderer(stores StoreProvider, logger *slog.Logger, metrics *observability.Metrics) *Renderer {
	return &Renderer{stores: stores, logger: logger, metrics: metrics}
}

// Chart applies the request's selection to a fresh controller, hit-tests the
// pointer and renders the result.
func (r *Renderer) Chart(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := r.stores.Store()
	if err != nil {
		return nil, err
	}

	c := domain.NewController(store, req.Selection.Primary)
	c.SelectComparison(req.Selection.Comparison)
	snap := c.Snapshot()
	r.metrics.ViewsComputed.WithLabelValues("primary").Inc()
	if snap.Selection.HasComparison() {
		r.metrics.ViewsComputed.WithLabelValues("comparison").Inc()
	}

	layout := Layout{Width: req.Width, Height: req.Height}
	var hit domain.HitResult
	if req.HasPointer {
		hit = snap.Nearest(req.PointerX, layout.PlotArea())
		r.metrics.HitTests.WithLabelValues(hitOutcome(snap, hit)).Inc()
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, snap, hit, layout, req.Format, req.Phase); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render writes the chart for snap to w. An empty primary view renders a
// neutral "no data" image instead of failing.
func (r *Renderer) Render(w io.Writer, snap domain.Snapshot, hit domain.HitResult, layout Layout, format Format, phase float64) error {
	start := time.Now()
	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}

	var err error
	if snap.State() == domain.StateEmptyView || !snap.HasBounds {
		err = renderMessage(w, provider, layout, "No data available for selected location")
	} else {
		ch := buildChart(snap, hit, layout, phase)
		err = ch.Render(provider, w)
	}

	if err != nil {
		r.metrics.Renders.WithLabelValues(string(format), "error").Inc()
		r.logger.Error("chart render failed",
			"primary", snap.Selection.Primary,
			"comparison", snap.Selection.Comparison,
			"format", format,
			"error", err,
		)
		return fmt.Errorf("render chart: %w", err)
	}
	r.metrics.Renders.WithLabelValues(string(format), "success").Inc()
	r.metrics.RenderDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())
	return nil
}

func hitOutcome(snap domain.Snapshot, hit domain.HitResult) string {
	switch {
	case !snap.HasBounds:
		return "empty"
	case hit.Empty():
		return "miss"
	default:
		return "hit"
	}
}

func buildChart(snap domain.Snapshot, hit domain.HitResult, layout Layout, phase float64) chart.Chart {
	b := snap.Bounds
	comparing := len(snap.Comparison) > 0

	xMin, xMax := xRange(b)

	var series []chart.Series
	if hit.Primary != nil || hit.Comparison != nil {
		idx := hitIndex(hit)
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{float64(idx), float64(idx)},
			YValues: []float64{b.MinValue, b.MaxValue},
			Style: chart.Style{
				StrokeColor:     colorCrosshair,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		})
	}
	if domain.HasZeroLine(b) {
		series = append(series, chart.ContinuousSeries{
			XValues: []float64{xMin, xMax},
			YValues: []float64{0, 0},
			Style:   chart.Style{StrokeColor: drawing.ColorBlack, StrokeWidth: 2},
		})
	}

	primaryStyle := chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2, DotColor: colorPrimaryCompared}
	if !comparing {
		primaryStyle.DotColorProvider = changeColor
	}
	series = append(series, scatterSeries(snap.Selection.Primary, snap.Primary, primaryStyle))
	if comparing {
		series = append(series, scatterSeries(snap.Selection.Comparison, snap.Comparison,
			chart.Style{StrokeWidth: chart.Disabled, DotWidth: 2, DotColor: colorComparison}))
	}

	trendColor := colorTrendSingle
	if comparing {
		trendColor = colorTrendPrimary
	}
	if s, ok := trendSeries(snap.Primary, trendColor); ok {
		series = append(series, s)
	}
	if comparing {
		if s, ok := trendSeries(snap.Comparison, colorTrendComparison); ok {
			series = append(series, s)
		}
	}

	hoverColor := colorHoverSingle
	if comparing {
		hoverColor = colorHoverPrimary
	}
	if hit.Primary != nil {
		series = append(series, markerSeries(hit.Primary, hoverColor))
	}
	if hit.Comparison != nil {
		series = append(series, markerSeries(hit.Comparison, colorHoverComparison))
	}

	ch := chart.Chart{
		Title:  domain.Title(snap),
		Width:  layout.Width,
		Height: layout.Height,
		Background: chart.Style{Padding: chart.Box{
			Top:    marginTop,
			Left:   marginLeft,
			Right:  marginRight + gaugeReserve,
			Bottom: marginBottom,
		}},
		XAxis: chart.XAxis{
			Name:  "Data Point Index",
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: timeTicks(snap, layout),
		},
		YAxis:  yAxis(b),
		Series: series,
	}
	ch.Elements = []chart.Renderable{overlay(snap, hit, layout, phase)}
	return ch
}

func yAxis(b domain.Bounds) chart.YAxis {
	axis := chart.YAxis{
		Name:           "Change in Mean (mm)",
		Range:          &chart.ContinuousRange{Min: b.MinValue, Max: b.MaxValue},
		GridMajorStyle: chart.Style{StrokeColor: colorGridMajor, StrokeWidth: 0.8},
		GridMinorStyle: chart.Style{StrokeColor: colorGridMinor, StrokeWidth: 0.3},
	}
	ticks := domain.ValueTicks(b)
	if len(ticks) < 2 {
		return axis
	}
	// Pin the padded range; go-chart otherwise sizes the axis from the ticks.
	if ticks[0].Value > b.MinValue {
		axis.Ticks = append(axis.Ticks, chart.Tick{Value: b.MinValue})
	}
	for _, t := range ticks {
		label := ""
		if t.Major {
			label = strconv.FormatFloat(t.Value, 'f', 0, 64)
		}
		axis.Ticks = append(axis.Ticks, chart.Tick{Value: t.Value, Label: label})
		axis.GridLines = append(axis.GridLines, chart.GridLine{Value: t.Value, IsMinor: !t.Major})
	}
	if ticks[len(ticks)-1].Value < b.MaxValue {
		axis.Ticks = append(axis.Ticks, chart.Tick{Value: b.MaxValue})
	}
	return axis
}

// xRange is the drawn index range. A single-index span still needs a
// non-zero axis range; the point sits at x = 0.
func xRange(b domain.Bounds) (lo, hi float64) {
	lo, hi = float64(b.MinIndex), float64(b.MaxIndex)
	if b.MaxIndex == b.MinIndex {
		hi = lo + 1
	}
	return lo, hi
}

// timeTicks labels the X axis from the longer view. go-chart sizes the axis
// from the tick extremes, so both ends of xRange are always pinned.
func timeTicks(snap domain.Snapshot, layout Layout) []chart.Tick {
	lo, hi := xRange(snap.Bounds)
	labels := domain.TimeLabels(snap.AxisView(), snap.Bounds, layout.PlotArea(), timeLabelCount)

	ticks := make([]chart.Tick, 0, len(labels)+2)
	for _, l := range labels {
		v := float64(l.Index)
		if n := len(ticks); n > 0 && ticks[n-1].Value == v {
			continue
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: l.Text})
	}
	if len(ticks) == 0 || ticks[0].Value > lo {
		ticks = append([]chart.Tick{{Value: lo}}, ticks...)
	}
	if ticks[len(ticks)-1].Value < hi {
		ticks = append(ticks, chart.Tick{Value: hi})
	}
	return ticks
}

func scatterSeries(name string, view domain.View, style chart.Style) chart.ContinuousSeries {
	xs := make([]float64, len(view))
	for i := range view {
		xs[i] = float64(i)
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: view.Values(), Style: style}
}

func trendSeries(view domain.View, col drawing.Color) (chart.ContinuousSeries, bool) {
	fit, ok := domain.Fit(view)
	if !ok {
		return chart.ContinuousSeries{}, false
	}
	i0, v0, i1, v1 := fit.Endpoints()
	return chart.ContinuousSeries{
		XValues: []float64{float64(i0), float64(i1)},
		YValues: []float64{v0, v1},
		Style:   chart.Style{StrokeColor: col, StrokeWidth: 2},
	}, true
}

func markerSeries(h *domain.Hit, col drawing.Color) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		XValues: []float64{float64(h.Index)},
		YValues: []float64{h.Record.Value},
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: col},
	}
}

func hitIndex(hit domain.HitResult) int {
	if hit.Primary != nil {
		return hit.Primary.Index
	}
	return hit.Comparison.Index
}

// changeColor shades single-series points from blue (falling) to red (rising).
func changeColor(_, _ chart.Range, _ int, _, y float64) drawing.Color {
	return drawing.Color{
		R: clampByte(127.5 + y),
		G: 0,
		B: clampByte(127.5 - y),
		A: 75,
	}
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, v)))
}

func renderMessage(w io.Writer, provider chart.RendererProvider, layout Layout, msg string) error {
	r, err := provider(layout.Width, layout.Height)
	if err != nil {
		return err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return err
	}

	r.SetFillColor(drawing.ColorWhite)
	fillRect(r, 0, 0, layout.Width, layout.Height)

	r.SetFont(font)
	r.SetFontSize(16)
	r.SetFontColor(colorMuted)
	tb := r.MeasureText(msg)
	r.Text(msg, (layout.Width-tb.Width())/2, layout.Height/2)
	return r.Save(w)
}

func fillRect(r chart.Renderer, left, top, width, height int) {
	r.MoveTo(left, top)
	r.LineTo(left+width, top)
	r.LineTo(left+width, top+height)
	r.LineTo(left, top+height)
	r.Close()
	r.Fill()
}
