// Package engine ties the menu catalog, the preference matcher, the sales
// history and the demand forecaster together behind four operations:
// Initialize, Suggest, Predict and AddData.
//
// An Engine is created with New and becomes usable after Initialize. All
// methods are safe to call from the CLI goroutine and the file watcher's
// reload callback at the same time.
package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/barista/errors"
	"github.com/teranos/barista/forecast"
	"github.com/teranos/barista/logger"
	"github.com/teranos/barista/menu"
	"github.com/teranos/barista/recommend"
	"github.com/teranos/barista/sales"
)

// ErrNotInitialized is returned by operations called before Initialize
var ErrNotInitialized = errors.Wrap(errors.ErrInvalidArgument, "engine not initialized")

// State is the engine lifecycle state
type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "uninitialized"
}

// Options configures an Engine
type Options struct {
	// SalesFile is the CSV history path. Ignored when Store is set.
	SalesFile string
	// SkipSeed makes Initialize fail when the sales file is missing instead of
	// writing the default history.
	SkipSeed bool
	// WatchDebounce is the quiet period before an external edit triggers a reload
	WatchDebounce time.Duration

	Store   sales.Store
	Catalog *menu.Catalog
	Logger  *zap.SugaredLogger
}

// ForecastQuery asks for the expected cups sold on DayIndex
type ForecastQuery struct {
	DayIndex int
}

// ReloadFunc is told about every reload triggered by an external edit.
// err is nil when the reload succeeded.
type ReloadFunc func(err error)

// Engine is the café decision-support engine
type Engine struct {
	mu sync.Mutex

	state   State
	catalog *menu.Catalog
	matcher *recommend.Matcher
	store   sales.Store
	series  *sales.Series
	fitter  *forecast.Fitter
	model   *forecast.Model
	watcher *sales.Watcher

	opts   Options
	logger *zap.SugaredLogger
}

// New wires the components. No file is touched until Initialize.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logger.ComponentLogger("engine")
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = menu.Default()
	}
	store := opts.Store
	if store == nil && opts.SalesFile != "" {
		store = sales.NewCSVStore(opts.SalesFile, log.Named("store"))
	}

	e := &Engine{
		catalog: catalog,
		matcher: recommend.NewMatcher(catalog, log.Named("recommend")),
		store:   store,
		fitter:  forecast.NewFitter(log.Named("forecast")),
		opts:    opts,
		logger:  log,
	}
	if store != nil {
		var seriesOpts []sales.SeriesOption
		if opts.SkipSeed {
			seriesOpts = append(seriesOpts, sales.WithoutSeeding())
		}
		e.series = sales.NewSeries(store, log.Named("sales"), seriesOpts...)
	}
	return e
}

// Open is New followed by Initialize
func Open(ctx context.Context, opts Options) (*Engine, error) {
	e := New(opts)
	if err := e.Initialize(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Initialize loads (or seeds) the sales history and fits the forecast.
// Calling it again rereads the file; rows are never duplicated. On failure the
// previous state is kept.
func (e *Engine) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initializeLocked(ctx)
}

func (e *Engine) initializeLocked(ctx context.Context) error {
	log := logger.LoggerFromContext(ctx, e.logger)
	start := time.Now()

	if e.series == nil {
		return errors.WithHint(
			errors.NewInvalidArgumentError("no sales file configured"),
			"set sales.file in barista.toml or pass --sales-file")
	}

	observations, err := e.series.LoadOrSeed()
	if err != nil {
		return errors.Wrap(err, "failed to load sales history")
	}
	model, err := e.fitter.Fit(observations)
	if err != nil {
		return errors.Wrap(err, "failed to fit sales forecast")
	}

	e.model = model
	e.state = StateReady
	log.Infow("Engine initialized",
		logger.FieldCount, len(observations),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

// State reports the lifecycle state
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.state != StateReady {
		return errors.WithStack(ErrNotInitialized)
	}
	return nil
}

// Suggest returns the drink nearest to the weather and taste preference
func (e *Engine) Suggest(ctx context.Context, q recommend.Query) (recommend.Suggestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return recommend.Suggestion{}, err
	}

	s, err := e.matcher.Suggest(q)
	if err != nil {
		return recommend.Suggestion{}, err
	}
	logger.LoggerFromContext(ctx, e.logger).Infow("Suggested drink",
		logger.FieldItem, s.Item.Name,
		logger.FieldTaste, q.Taste.String(),
		logger.FieldTemperature, q.OutdoorTemperature)
	return s, nil
}

// Ranked returns the whole menu ordered by distance to the preference
func (e *Engine) Ranked(ctx context.Context, q recommend.Query) ([]recommend.Suggestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return nil, err
	}
	return e.matcher.Ranked(q)
}

// Predict returns the forecast cups sold for the queried day
func (e *Engine) Predict(ctx context.Context, q ForecastQuery) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return 0, err
	}

	cups, err := e.model.Predict(q.DayIndex)
	if err != nil {
		return 0, err
	}
	logger.LoggerFromContext(ctx, e.logger).Infow("Predicted sales",
		logger.FieldDayIndex, q.DayIndex,
		logger.FieldPrediction, cups)
	return cups, nil
}

// AddData records one day of sales, persists the history and refits.
// Duplicate and out-of-order days are accepted.
func (e *Engine) AddData(ctx context.Context, day, cups int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return err
	}

	o := sales.Observation{DayIndex: day, CupsSold: cups}
	if err := o.Validate(); err != nil {
		return err
	}

	if e.watcher != nil {
		e.watcher.MarkOwnWrite()
	}
	if err := e.series.Append(o); err != nil {
		return err
	}

	model, err := e.fitter.Fit(e.series.Snapshot())
	if err != nil {
		return errors.Wrap(err, "sales recorded but refit failed")
	}
	e.model = model
	return nil
}

// History returns the full sales history in entry order
func (e *Engine) History(ctx context.Context) ([]sales.Observation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return nil, err
	}
	return e.series.Snapshot(), nil
}

// Recent returns the last n observations
func (e *Engine) Recent(ctx context.Context, n int) ([]sales.Observation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return nil, err
	}
	return e.series.Tail(n), nil
}

// NextDayIndex is the default day to forecast
func (e *Engine) NextDayIndex(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return 0, err
	}
	return e.series.NextDayIndex(), nil
}

// Coefficients returns the current curve c0 + c1*x + c2*x²
func (e *Engine) Coefficients(ctx context.Context) ([3]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return [3]float64{}, err
	}
	return e.model.Coefficients(), nil
}

// Menu returns the catalog items in fixed order. It does not need Initialize.
func (e *Engine) Menu() []menu.Item {
	return e.catalog.Items()
}

// Watch reloads the engine whenever the sales file is changed by another
// program. onReload may be nil. The watcher runs until Close.
func (e *Engine) Watch(ctx context.Context, onReload ReloadFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ready(ctx); err != nil {
		return err
	}
	if e.watcher != nil {
		return errors.NewInvalidArgumentError("engine is already watching")
	}

	csvStore, ok := e.store.(*sales.CSVStore)
	if !ok {
		return errors.NewInvalidArgumentError("watching requires a file-backed sales store")
	}

	w, err := sales.NewWatcher(csvStore.Path(), e.opts.WatchDebounce, e.logger.Named("watcher"))
	if err != nil {
		return err
	}

	reloadCtx := context.WithoutCancel(ctx)
	w.OnChange(func() error {
		err := e.Initialize(reloadCtx)
		if onReload != nil {
			onReload(err)
		}
		return err
	})
	w.Start()
	e.watcher = w

	logger.LoggerFromContext(ctx, e.logger).Infow("Watching sales file", logger.FieldPath, csvStore.Path())
	return nil
}

// Close stops the watcher, if any
func (e *Engine) Close() error {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	if w == nil {
		return nil
	}
	return w.Stop()
}
