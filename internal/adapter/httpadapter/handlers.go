package httpadapter

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/sea-level-chart/internal/dataset"
	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/render"
)

type categoriesResponse struct {
	Categories        []string `json:"categories"`
	ComparisonOptions []string `json:"comparison_options"`
}

// seriesView is one rendered series with its derived values.
type seriesView struct {
	Category   string           `json:"category"`
	Records    domain.View      `json:"records"`
	Trend      *domain.TrendFit `json:"trend,omitempty"`
	GaugeLevel float64          `json:"gauge_level"`
}

type seriesResponse struct {
	State      domain.ViewState      `json:"state"`
	Selection  domain.SelectionState `json:"selection"`
	Title      string                `json:"title"`
	PointCount string                `json:"point_count"`
	Bounds     *domain.Bounds        `json:"bounds,omitempty"`
	Primary    seriesView            `json:"primary"`
	Comparison *seriesView           `json:"comparison,omitempty"`
	ValueTicks []domain.Tick         `json:"value_ticks"`
	TimeLabels []domain.TimeLabel    `json:"time_labels"`
}

type hitResponse struct {
	State      domain.ViewState `json:"state"`
	Index      *int             `json:"index,omitempty"`
	Primary    *domain.Hit      `json:"primary"`
	Comparison *domain.Hit      `json:"comparison"`
	Tooltip    []string         `json:"tooltip"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	q := categoriesQuery{
		Term:    r.URL.Query().Get("q"),
		Primary: r.URL.Query().Get("primary"),
	}
	if err := validate.Struct(q); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.Primary == "" {
		q.Primary = s.deps.DefaultCategory
	}

	catalog := s.catalog.Load()
	writeJSON(w, http.StatusOK, categoriesResponse{
		Categories:        catalog.Filter(q.Term),
		ComparisonOptions: catalog.ComparisonOptions(q.Primary, q.Term),
	})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseViewQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, ok := s.snapshot(w, q)
	if !ok {
		return
	}

	area := render.Layout{Width: q.Width, Height: q.Height}.PlotArea()
	resp := seriesResponse{
		State:      snap.State(),
		Selection:  snap.Selection,
		Title:      domain.Title(snap),
		PointCount: domain.PointCountText(snap),
		Primary:    newSeriesView(snap.Selection.Primary, snap.Primary),
		ValueTicks: []domain.Tick{},
		TimeLabels: []domain.TimeLabel{},
	}
	if snap.HasBounds {
		b := snap.Bounds
		resp.Bounds = &b
		resp.ValueTicks = domain.ValueTicks(b)
		if labels := domain.TimeLabels(snap.AxisView(), b, area, 8); labels != nil {
			resp.TimeLabels = labels
		}
	}
	if snap.Selection.HasComparison() {
		c := newSeriesView(snap.Selection.Comparison, snap.Comparison)
		resp.Comparison = &c
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	q, err := s.parseViewQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if q.X == nil {
		writeError(w, http.StatusBadRequest, "x is required")
		return
	}
	snap, ok := s.snapshot(w, q)
	if !ok {
		return
	}

	area := render.Layout{Width: q.Width, Height: q.Height}.PlotArea()
	hit := snap.Nearest(*q.X, area)
	resp := hitResponse{
		State:      snap.State(),
		Primary:    hit.Primary,
		Comparison: hit.Comparison,
		Tooltip:    domain.HitTooltip(snap.Selection, hit),
	}
	if resp.Tooltip == nil {
		resp.Tooltip = []string{}
	}
	if snap.HasBounds {
		idx := domain.ToIndex(*q.X, snap.Bounds, area)
		resp.Index = &idx
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChart(format render.Format) http.HandlerFunc {
	contentType := "image/png"
	if format == render.FormatSVG {
		contentType = "image/svg+xml"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		q, err := s.parseViewQuery(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		req := render.Request{
			Selection: q.selection(),
			Width:     q.Width,
			Height:    q.Height,
			Format:    format,
		}
		if q.X != nil {
			req.HasPointer = true
			req.PointerX = *q.X
		}
		if s.deps.Phase != nil {
			req.Phase = s.deps.Phase.Phase()
		}

		img, err := s.deps.Charts.Chart(r.Context(), req)
		if err != nil {
			if errors.Is(err, dataset.ErrNotLoaded) {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
			s.logger.Error("chart request failed", "format", format, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to render chart")
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(img) //nolint:errcheck // client went away
	}
}

// snapshot computes the selection over the loaded dataset, answering 503 when
// no dataset is available yet.
func (s *Server) snapshot(w http.ResponseWriter, q viewQuery) (domain.Snapshot, bool) {
	store, err := s.deps.Stores.Store()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return domain.Snapshot{}, false
	}

	c := domain.NewController(store, q.Primary)
	c.SelectComparison(q.Compare)
	return c.Snapshot(), true
}

func newSeriesView(category string, view domain.View) seriesView {
	if view == nil {
		view = domain.View{}
	}
	sv := seriesView{
		Category:   category,
		Records:    view,
		GaugeLevel: domain.GaugeLevel(view, nil),
	}
	if fit, ok := domain.Fit(view); ok {
		sv.Trend = &fit
	}
	return sv
}
