package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/couchcryptid/sea-level-chart/internal/adapter/httpadapter"
	"github.com/couchcryptid/sea-level-chart/internal/dataset"
	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
	"github.com/couchcryptid/sea-level-chart/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStores struct {
	store *domain.Store
	err   error
}

func (m *mockStores) Store() (*domain.Store, error) { return m.store, m.err }

func (m *mockStores) CheckReadiness(_ context.Context) error { return m.err }

type fixedPhase float64

func (p fixedPhase) Phase() float64 { return float64(p) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T) *domain.Store {
	t.Helper()
	var rows []domain.Row
	add := func(category string, values ...float64) {
		for i, v := range values {
			id := len(rows) + 1
			rows = append(rows, domain.Row{Line: id + 1, Fields: map[string]string{
				domain.ColumnID:       strconv.Itoa(id),
				domain.ColumnMeasure:  category,
				domain.ColumnDate:     "D" + strconv.Itoa(i+1) + "/15/1993",
				domain.ColumnChangeMM: strconv.FormatFloat(v, 'f', -1, 64),
			}})
		}
	}
	add("World", -20, -10, 0, 10, 20)
	add("Atlantic Ocean", 5, 6, 7)
	store, err := domain.Load(rows)
	require.NoError(t, err)
	return store
}

func newTestServer(t *testing.T, stores *mockStores) *httpadapter.Server {
	t.Helper()
	renderer := render.NewRenderer(stores, discardLogger(), observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", httpadapter.Deps{
		Ready:           stores,
		Stores:          stores,
		Charts:          renderer,
		Phase:           fixedPhase(0.5),
		Catalog:         domain.NewCatalog(domain.DefaultCatalogNames),
		DefaultCategory: "World",
		ChartWidth:      1300,
		ChartHeight:     700,
	}, discardLogger())
}

func get(t *testing.T, srv http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- operational routes ---

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz").Code)
}

func TestReadyz(t *testing.T) {
	ready := newTestServer(t, &mockStores{store: testStore(t)})
	assert.Equal(t, http.StatusOK, get(t, ready, "/readyz").Code)

	notReady := newTestServer(t, &mockStores{err: dataset.ErrNotLoaded})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, notReady, "/readyz").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// --- categories ---

func TestCategories(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})

	t.Run("filters names and comparison options", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/categories?q=pacific&primary=North+Pacific")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string][]string](t, rec)
		assert.Equal(t, []string{"North Pacific", "Pacific Ocean"}, body["categories"])
		assert.Equal(t, []string{"None", "Pacific Ocean"}, body["comparison_options"])
	})

	t.Run("defaults primary", func(t *testing.T) {
		body := decode[map[string][]string](t, get(t, srv, "/api/v1/categories"))
		assert.Len(t, body["categories"], 25)
		assert.NotContains(t, body["comparison_options"], "World")
	})
}

func TestCategories_SetCatalogAfterReload(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})

	body := decode[map[string][]string](t, get(t, srv, "/api/v1/categories?q=erie"))
	assert.Empty(t, body["categories"])

	reloaded, err := domain.Load([]domain.Row{{Line: 2, Fields: map[string]string{
		domain.ColumnID:       "1",
		domain.ColumnMeasure:  "Lake Erie",
		domain.ColumnDate:     "1/1/2000",
		domain.ColumnChangeMM: "1",
	}}})
	require.NoError(t, err)
	srv.SetCatalog(domain.CatalogFor(reloaded))

	body = decode[map[string][]string](t, get(t, srv, "/api/v1/categories?q=erie"))
	assert.Equal(t, []string{"Lake Erie"}, body["categories"])
	assert.Equal(t, []string{"None", "Lake Erie"}, body["comparison_options"])
}

func TestCategories_NilCatalog(t *testing.T) {
	stores := &mockStores{store: testStore(t)}
	srv := httpadapter.NewServer(":0", httpadapter.Deps{
		Ready:           stores,
		Stores:          stores,
		Charts:          render.NewRenderer(stores, discardLogger(), observability.NewMetricsForTesting()),
		DefaultCategory: "World",
		ChartWidth:      1300,
		ChartHeight:     700,
	}, discardLogger())

	rec := get(t, srv, "/api/v1/categories")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]string](t, rec)
	assert.Empty(t, body["categories"])
	assert.Equal(t, []string{"None"}, body["comparison_options"])
}

// --- series ---

type seriesBody struct {
	State      string `json:"state"`
	Title      string `json:"title"`
	PointCount string `json:"point_count"`
	Bounds     *struct {
		MinValue float64 `json:"min_value"`
		MaxValue float64 `json:"max_value"`
		MaxIndex int     `json:"max_index"`
	} `json:"bounds"`
	Primary struct {
		Category string           `json:"category"`
		Records  []map[string]any `json:"records"`
		Trend    *struct {
			Slope float64 `json:"slope"`
		} `json:"trend"`
		GaugeLevel float64 `json:"gauge_level"`
	} `json:"primary"`
	Comparison *struct {
		Category string           `json:"category"`
		Records  []map[string]any `json:"records"`
	} `json:"comparison"`
	ValueTicks []map[string]any `json:"value_ticks"`
}

func TestSeries(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})

	t.Run("default primary", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/series")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[seriesBody](t, rec)
		assert.Equal(t, "ready", body.State)
		assert.Equal(t, "Sea Level Change Over Time - World", body.Title)
		assert.Equal(t, "5 data points", body.PointCount)
		require.NotNil(t, body.Bounds)
		assert.InDelta(t, -24, body.Bounds.MinValue, 1e-9)
		assert.InDelta(t, 24, body.Bounds.MaxValue, 1e-9)
		assert.Len(t, body.Primary.Records, 5)
		require.NotNil(t, body.Primary.Trend)
		assert.InDelta(t, 10, body.Primary.Trend.Slope, 1e-9)
		assert.InDelta(t, 0, body.Primary.GaugeLevel, 1e-9)
		assert.Nil(t, body.Comparison)
		assert.NotEmpty(t, body.ValueTicks)
	})

	t.Run("with comparison", func(t *testing.T) {
		body := decode[seriesBody](t, get(t, srv, "/api/v1/series?primary=World&compare=Atlantic+Ocean"))
		assert.Equal(t, "Sea Level Change Over Time - World vs Atlantic Ocean", body.Title)
		assert.Equal(t, "5 & 3 data points", body.PointCount)
		require.NotNil(t, body.Comparison)
		assert.Len(t, body.Comparison.Records, 3)
	})

	t.Run("self comparison is cleared", func(t *testing.T) {
		body := decode[seriesBody](t, get(t, srv, "/api/v1/series?primary=World&compare=World"))
		assert.Nil(t, body.Comparison)
	})

	t.Run("none clears comparison", func(t *testing.T) {
		body := decode[seriesBody](t, get(t, srv, "/api/v1/series?compare=None"))
		assert.Nil(t, body.Comparison)
	})

	t.Run("unknown primary is an empty state", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/series?primary=Lake+Erie")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[seriesBody](t, rec)
		assert.Equal(t, "empty", body.State)
		assert.Nil(t, body.Bounds)
		assert.Empty(t, body.Primary.Records)
		assert.Nil(t, body.Primary.Trend)
	})
}

func TestSeries_NotLoaded(t *testing.T) {
	srv := newTestServer(t, &mockStores{err: dataset.ErrNotLoaded})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/api/v1/series").Code)
}

func TestSeries_BadQuery(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})

	tests := []struct {
		name   string
		target string
	}{
		{"width not a number", "/api/v1/series?width=wide"},
		{"width too small", "/api/v1/series?width=100"},
		{"height too large", "/api/v1/series?height=100000"},
		{"x not finite", "/api/v1/series?x=NaN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, get(t, srv, tt.target).Code)
		})
	}
}

// --- hit ---

type hitBody struct {
	State      string      `json:"state"`
	Index      *int        `json:"index"`
	Primary    *domain.Hit `json:"primary"`
	Comparison *domain.Hit `json:"comparison"`
	Tooltip    []string    `json:"tooltip"`
}

func TestHit(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})

	t.Run("aligned by index", func(t *testing.T) {
		// Plot width is 1060 at the default size; x = 1060 is the last primary index.
		rec := get(t, srv, "/api/v1/hit?primary=World&compare=Atlantic+Ocean&x=1060")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[hitBody](t, rec)
		require.NotNil(t, body.Index)
		assert.Equal(t, 4, *body.Index)
		require.NotNil(t, body.Primary)
		assert.Equal(t, 20.0, body.Primary.Record.Value)
		assert.Nil(t, body.Comparison)
		assert.Equal(t, "World", body.Tooltip[0])
	})

	t.Run("both views hit", func(t *testing.T) {
		body := decode[hitBody](t, get(t, srv, "/api/v1/hit?primary=World&compare=Atlantic+Ocean&x=0"))
		require.NotNil(t, body.Primary)
		require.NotNil(t, body.Comparison)
		assert.Equal(t, 5.0, body.Comparison.Record.Value)
		assert.Equal(t, "Graph 1 (World):", body.Tooltip[0])
	})

	t.Run("clamped beyond the plot", func(t *testing.T) {
		body := decode[hitBody](t, get(t, srv, "/api/v1/hit?x=-500"))
		require.NotNil(t, body.Index)
		assert.Equal(t, 0, *body.Index)
	})

	t.Run("empty view", func(t *testing.T) {
		body := decode[hitBody](t, get(t, srv, "/api/v1/hit?primary=Lake+Erie&x=10"))
		assert.Equal(t, "empty", body.State)
		assert.Nil(t, body.Index)
		assert.Nil(t, body.Primary)
		assert.Empty(t, body.Tooltip)
	})

	t.Run("x is required", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/v1/hit").Code)
	})
}

// --- chart images ---

func TestChartPNG(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})
	rec := get(t, srv, "/chart.png?width=800&height=500&x=100")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestChartSVG(t *testing.T) {
	srv := newTestServer(t, &mockStores{store: testStore(t)})
	rec := get(t, srv, "/chart.svg?compare=Atlantic+Ocean&width=800&height=500")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "World vs Atlantic Ocean")
}

func TestChart_NotLoaded(t *testing.T) {
	srv := newTestServer(t, &mockStores{err: dataset.ErrNotLoaded})
	assert.Equal(t, http.StatusServiceUnavailable, get(t, srv, "/chart.png").Code)
}

type failingCharter struct{}

func (failingCharter) Chart(_ context.Context, _ render.Request) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestChart_RenderFailure(t *testing.T) {
	stores := &mockStores{store: testStore(t)}
	srv := httpadapter.NewServer(":0", httpadapter.Deps{
		Ready:           stores,
		Stores:          stores,
		Charts:          failingCharter{},
		Catalog:         domain.NewCatalog(domain.DefaultCatalogNames),
		DefaultCategory: "World",
		ChartWidth:      1300,
		ChartHeight:     700,
	}, discardLogger())

	assert.Equal(t, http.StatusInternalServerError, get(t, srv, "/chart.svg").Code)
}
