package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/couchcryptid/sea-level-chart/internal/domain"
	"github.com/couchcryptid/sea-level-chart/internal/observability"
)

// ErrNotLoaded is returned by Store before a dataset has been loaded.
var ErrNotLoaded = errors.New("dataset has not been loaded yet")

// RowSource reads the raw dataset rows.
type RowSource interface {
	ReadRows(ctx context.Context) ([]domain.Row, error)
}

// Loader reads rows from a source, parses them into a Store and publishes the
// result atomically. A failed load leaves any previously loaded Store in place.
type Loader struct {
	source  RowSource
	logger  *slog.Logger
	metrics *observability.Metrics
	store   atomic.Pointer[domain.Store]
}

// NewLoader creates a Loader for source.
func NewLoader(source RowSource, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Load reads and parses the whole dataset. Any malformed row fails the load.
func (l *Loader) Load(ctx context.Context) (*domain.Store, error) {
	rows, err := l.source.ReadRows(ctx)
	if err != nil {
		l.metrics.LoadErrors.Inc()
		return nil, fmt.Errorf("read rows: %w", err)
	}

	store, err := domain.Load(rows)
	if err != nil {
		l.metrics.LoadErrors.Inc()
		var pe *domain.ParseError
		if errors.As(err, &pe) {
			l.logger.Error("dataset rejected",
				"line", pe.Line,
				"field", pe.Field,
				"value", pe.Value,
				"error", pe.Err,
			)
		}
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	l.store.Store(store)
	l.metrics.RecordsLoaded.Set(float64(store.Len()))
	l.metrics.DatasetReady.Set(1)
	l.logger.Info("dataset loaded",
		"records", store.Len(),
		"categories", len(store.Categories()),
	)
	return store, nil
}

// Store returns the most recently loaded dataset.
func (l *Loader) Store() (*domain.Store, error) {
	s := l.store.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s, nil
}

// CheckReadiness returns nil once a dataset has been loaded.
func (l *Loader) CheckReadiness(_ context.Context) error {
	if l.store.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Watch reloads the dataset each time trigger fires until ctx is cancelled.
// A failed reload is logged and the previous dataset keeps serving. onReload,
// when set, runs after every successful reload.
func (l *Loader) Watch(ctx context.Context, trigger <-chan os.Signal, onReload func(*domain.Store)) error {
	l.logger.Info("dataset watcher started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("dataset watcher stopping", "reason", ctx.Err())
			return nil
		case sig := <-trigger:
			l.logger.Info("reloading dataset", "signal", sig)
			store, err := l.Load(ctx)
			if err != nil {
				l.logger.Warn("reload failed, keeping previous dataset", "error", err)
				continue
			}
			if onReload != nil {
				onReload(store)
			}
		}
	}
}
