package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"GoldCast/internal/domain/models"
	drepo "GoldCast/internal/domain/repository"
	"GoldCast/internal/services/analytics"
	"GoldCast/pkg/logger"
)

const (
	recentPredictions   = 100
	statusAccuracyTail  = 10
	performanceLookback = 24 * time.Hour
	notifyTimeout       = 30 * time.Second
)

// EngineConfig is the typed engine configuration. The first three cadence fields are required.
type EngineConfig struct {
	Symbol                string
	IntervalMinutes       int
	DataCollectionSeconds int
	MinDataPoints         int
	MaxHistorySize        int
	AccuracyWindow        int
	ConfidenceBase        float64

	VerifyEvery          time.Duration
	OptimizeEvery        time.Duration
	SnapshotEvery        time.Duration
	PredictionCheckEvery time.Duration
	ExpireAfterFactor    float64
	MatchTolerance       time.Duration

	FeedRetryDelay    time.Duration
	FeedErrorDelay    time.Duration
	PredictErrorDelay time.Duration
	ReloadTimeout     time.Duration

	Notify NotifyPolicy
}

func (c EngineConfig) validate() error {
	var missing []string
	if c.IntervalMinutes <= 0 {
		missing = append(missing, "interval_minutes")
	}
	if c.DataCollectionSeconds <= 0 {
		missing = append(missing, "data_collection_seconds")
	}
	if c.MinDataPoints <= 0 {
		missing = append(missing, "min_data_points")
	}
	if len(missing) > 0 {
		return fmt.Errorf("engine config: missing or invalid required keys %v", missing)
	}
	return nil
}

func (c *EngineConfig) applyDefaults() {
	if c.Symbol == "" {
		c.Symbol = "XAUUSD"
	}
	if c.MaxHistorySize <= 0 {
		c.MaxHistorySize = 1000
	}
	if c.AccuracyWindow <= 0 {
		c.AccuracyWindow = 20
	}
	if c.ConfidenceBase <= 0 {
		c.ConfidenceBase = 0.3
	}
	setDur := func(d *time.Duration, v time.Duration) {
		if *d <= 0 {
			*d = v
		}
	}
	setDur(&c.VerifyEvery, 60*time.Second)
	setDur(&c.OptimizeEvery, 600*time.Second)
	setDur(&c.SnapshotEvery, 300*time.Second)
	setDur(&c.PredictionCheckEvery, time.Second)
	setDur(&c.MatchTolerance, 5*time.Minute)
	setDur(&c.FeedRetryDelay, 2*time.Second)
	setDur(&c.FeedErrorDelay, 30*time.Second)
	setDur(&c.PredictErrorDelay, 10*time.Second)
	setDur(&c.ReloadTimeout, 30*time.Second)
	setDur(&c.Notify.Interval, 30*time.Minute)
	if c.ExpireAfterFactor <= 0 {
		c.ExpireAfterFactor = 2
	}
}

// Horizon is the forward offset a prediction targets.
func (c EngineConfig) Horizon() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Locker is the distributed gate used to avoid duplicate pushes across replicas.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// state is everything the background tasks share. Guarded by Engine.mu.
type state struct {
	window   *Ring[models.PricePoint]
	accuracy *Ring[float64]
	recent   *Ring[*models.Prediction]

	weights        models.Weights
	confidenceBase float64
	metrics        models.PerformanceMetrics

	created          int
	lastPredictionAt time.Time
	running          bool

	notify   NotifyPolicy
	lastPush *time.Time
	sending  bool
}

// Engine owns the prediction state and runs the five background tasks.
type Engine struct {
	cfg        EngineConfig
	feed       drepo.PriceFeed
	store      drepo.Store
	forecaster *Forecaster
	verifier   Verifier
	notifier   drepo.Notifier
	publisher  drepo.EventPublisher
	metrics    drepo.Metrics
	locker     Locker
	clock      func() time.Time
	log        *logger.Logger

	mu sync.Mutex
	st state

	tasks  []*Task
	cancel context.CancelFunc
	wg     sync.WaitGroup
	sends  sync.WaitGroup
}

type EngineOption func(*Engine)

func WithClock(clock func() time.Time) EngineOption { return func(e *Engine) { e.clock = clock } }

func WithNotifier(n drepo.Notifier) EngineOption { return func(e *Engine) { e.notifier = n } }

func WithPublisher(p drepo.EventPublisher) EngineOption { return func(e *Engine) { e.publisher = p } }

func WithMetrics(m drepo.Metrics) EngineOption { return func(e *Engine) { e.metrics = m } }

func WithLogger(l *logger.Logger) EngineOption { return func(e *Engine) { e.log = l } }

func WithLocker(l Locker) EngineOption { return func(e *Engine) { e.locker = l } }

func WithForecaster(f *Forecaster) EngineOption { return func(e *Engine) { e.forecaster = f } }

// NewEngine fails fast when a required cadence key is missing.
func NewEngine(cfg EngineConfig, feed drepo.PriceFeed, store drepo.Store, opts ...EngineOption) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if feed == nil || store == nil {
		return nil, errors.New("engine: price feed and store are required")
	}
	cfg.applyDefaults()

	e := &Engine{
		cfg:       cfg,
		feed:      feed,
		store:     store,
		publisher: noopPublisher{},
		metrics:   noopMetrics{},
		clock:     time.Now,
		log:       logger.Nop(),
		verifier: Verifier{
			Horizon:      cfg.Horizon(),
			Tolerance:    cfg.MatchTolerance,
			ExpireFactor: cfg.ExpireAfterFactor,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.forecaster == nil {
		e.forecaster = NewForecaster(nil, nil, e.log.With("forecaster"))
	}

	e.st = state{
		window:         NewRing[models.PricePoint](cfg.MaxHistorySize),
		accuracy:       NewRing[float64](cfg.AccuracyWindow),
		recent:         NewRing[*models.Prediction](recentPredictions),
		weights:        models.DefaultWeights(),
		confidenceBase: cfg.ConfidenceBase,
		notify:         cfg.Notify,
	}

	e.tasks = []*Task{
		{
			Name:     "collector",
			Schedule: Every(time.Duration(cfg.DataCollectionSeconds) * time.Second).Immediately(),
			Handler:  e.collectOnce,
			RetryAfter: func(err error) time.Duration {
				if errors.Is(err, models.ErrFeedUnavailable) {
					return cfg.FeedRetryDelay
				}
				return cfg.FeedErrorDelay
			},
		},
		{
			Name:       "prediction",
			Schedule:   Every(cfg.PredictionCheckEvery),
			Handler:    e.predictOnce,
			RetryAfter: func(error) time.Duration { return cfg.PredictErrorDelay },
		},
		{Name: "verification", Schedule: Every(cfg.VerifyEvery), Handler: e.verifyOnce},
		{Name: "optimization", Schedule: Every(cfg.OptimizeEvery), Handler: e.optimizeOnce},
		{Name: "snapshot", Schedule: Every(cfg.SnapshotEvery), Handler: e.snapshotOnce},
	}
	return e, nil
}

// Start runs the self-check and launches the background tasks. It refuses to
// start when the feed or the store is unusable.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.st.running {
		e.mu.Unlock()
		return models.ErrAlreadyRunning
	}
	e.mu.Unlock()

	if err := e.SelfCheck(ctx); err != nil {
		return fmt.Errorf("self-check failed: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.st.running = true
	e.cancel = cancel
	e.mu.Unlock()

	for _, t := range e.tasks {
		e.wg.Add(1)
		go func(t *Task) {
			defer e.wg.Done()
			t.Loop(runCtx, e.log)
		}(t)
	}
	e.log.Info("engine started",
		logger.String("symbol", e.cfg.Symbol),
		logger.Int("interval_minutes", e.cfg.IntervalMinutes),
		logger.Int("tasks", len(e.tasks)))
	return nil
}

// Stop cancels the tasks, waits for them and any in-flight push, then saves a final snapshot.
func (e *Engine) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.st.running {
		e.mu.Unlock()
		return models.ErrNotRunning
	}
	e.st.running = false
	cancel := e.cancel
	e.mu.Unlock()

	cancel()
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		e.sends.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		e.log.Warn("engine stop: tasks did not settle in time", logger.Error(ctx.Err()))
	}

	if err := e.snapshotOnce(ctx); err != nil {
		e.log.Error("final snapshot failed", logger.Error(err))
		return err
	}
	e.log.Info("engine stopped")
	return nil
}

// SelfCheck verifies the feed and the store, then restores persisted performance.
func (e *Engine) SelfCheck(ctx context.Context) error {
	if err := e.feed.EnsureConnection(ctx); err != nil {
		return fmt.Errorf("feed connection: %w", err)
	}
	tick, err := e.feed.GetCurrentPrice(ctx, e.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("price fetch: %w", err)
	}
	if p := tick.MainPrice(); p <= 0 || !analytics.Finite(p) {
		return fmt.Errorf("price fetch: %w: invalid price %v", models.ErrFeedUnavailable, p)
	}
	count, err := e.store.CountPredictions(ctx, e.cfg.Symbol)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	e.log.Info("self-check passed",
		logger.String("symbol", e.cfg.Symbol),
		logger.Float64("price", tick.MainPrice()),
		logger.Int64("stored_predictions", count))

	if err := e.reload(ctx); err != nil {
		e.log.Warn("history reload failed, starting empty", logger.Error(err))
	}
	return nil
}

func (e *Engine) reload(ctx context.Context) error {
	var (
		snap *models.Snapshot
		accs []float64
	)
	op := func() error {
		s, err := e.store.LatestSnapshot(ctx, e.cfg.Symbol)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		a, err := e.store.RecentAccuracies(ctx, e.cfg.Symbol, e.cfg.AccuracyWindow)
		if err != nil {
			return err
		}
		snap, accs = s, a
		return nil
	}
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = e.cfg.ReloadTimeout
	if err := backoff.Retry(op, backoff.WithContext(b, ctx)); err != nil {
		return err
	}

	// stored newest first; the history is oldest first
	history := make([]float64, 0, len(accs))
	for i := len(accs) - 1; i >= 0; i-- {
		history = append(history, analytics.Clamp(accs[i], 0, 1))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.accuracy.Replace(history)
	if snap != nil {
		e.st.metrics = snap.Metrics
		e.st.weights = snap.Weights.Normalize()
		if snap.ConfidenceBase > 0 {
			e.st.confidenceBase = analytics.Clamp(snap.ConfidenceBase, confidenceFloor, confidenceCap)
		}
	}
	e.log.Info("history reloaded",
		logger.Int("accuracies", len(history)),
		logger.Bool("snapshot", snap != nil),
		logger.Float64("average_accuracy", e.st.metrics.AverageAccuracy))
	return nil
}

func (e *Engine) collectOnce(ctx context.Context) error {
	start := time.Now()
	tick, err := e.feed.GetCurrentPrice(ctx, e.cfg.Symbol)
	if err != nil {
		e.metrics.RecordError("feed")
		return fmt.Errorf("%w: %v", models.ErrFeedUnavailable, err)
	}
	price := tick.MainPrice()
	if price <= 0 || !analytics.Finite(price, tick.Bid, tick.Ask, tick.Volume) {
		e.metrics.RecordError("feed")
		return fmt.Errorf("%w: invalid tick price %v", models.ErrFeedUnavailable, price)
	}

	pt := models.NewPricePoint(tick, e.clock())
	e.mu.Lock()
	e.st.window.Push(pt)
	e.mu.Unlock()
	e.metrics.RecordLastPrice(e.cfg.Symbol, pt.Price)

	if err := e.store.SavePrice(ctx, e.cfg.Symbol, pt); err != nil {
		e.metrics.RecordError("store")
		e.log.Warn("price not persisted", logger.Error(err))
	}
	e.metrics.RecordLatency("collect", time.Since(start).Seconds())
	return nil
}

func (e *Engine) predictOnce(ctx context.Context) error {
	now := e.clock()

	e.mu.Lock()
	if !e.st.lastPredictionAt.IsZero() && now.Sub(e.st.lastPredictionAt) < e.cfg.Horizon() {
		e.mu.Unlock()
		return nil
	}
	if n := e.st.window.Len(); n < e.cfg.MinDataPoints {
		e.mu.Unlock()
		e.log.Debug("waiting for data", logger.Int("have", n), logger.Int("need", e.cfg.MinDataPoints))
		return nil
	}
	window := e.st.window.Items()
	base := e.st.weights
	confBase := e.st.confidenceBase
	history := e.st.accuracy.Items()
	e.mu.Unlock()

	start := time.Now()
	fc := e.forecaster.Run(window, base, confBase, history)
	pred := &models.Prediction{
		ID:             newID(),
		Symbol:         e.cfg.Symbol,
		Timestamp:      now,
		CurrentPrice:   fc.CurrentPrice,
		PredictedPrice: fc.PredictedPrice,
		Signal:         fc.Signal.Signal,
		Confidence:     fc.Confidence,
		Method:         models.MethodAdaptiveEnsemble,
		Weights:        fc.Weights,
		Conditions:     fc.Conditions,
		TargetTime:     now.Add(e.cfg.Horizon()),
		Status:         models.StatusPending,
	}

	e.mu.Lock()
	e.st.recent.Push(pred.Clone())
	e.st.created++
	e.st.metrics.TotalPredictions++
	e.st.lastPredictionAt = now
	notify, _ := e.st.notify.ShouldNotify(pred, e.st.lastPush, now)
	notify = notify && e.notifier != nil && !e.st.sending
	if notify {
		e.st.sending = true
	}
	e.mu.Unlock()

	e.metrics.RecordPrediction(string(pred.Signal), pred.Confidence)
	e.metrics.RecordLatency("predict", time.Since(start).Seconds())
	e.log.Info("prediction made",
		logger.String("id", pred.ID),
		logger.Float64("current", pred.CurrentPrice),
		logger.Float64("predicted", pred.PredictedPrice),
		logger.String("signal", string(pred.Signal)),
		logger.Float64("confidence", pred.Confidence),
		logger.String("regime", string(pred.Conditions.Regime)))
	for _, c := range fc.Components {
		e.log.Debug("component prediction",
			logger.String("predictor", string(c.Predictor)),
			logger.Float64("predicted", c.PredictedPrice),
			logger.Float64("confidence", c.LocalConfidence),
			logger.Any("components", c.Components))
	}

	if err := e.store.SavePrediction(ctx, pred); err != nil {
		e.metrics.RecordError("store")
		e.log.Warn("prediction not persisted", logger.String("id", pred.ID), logger.Error(err))
	}
	e.publishPrediction(ctx, models.EventPredictionCreated, pred, fc.Components)

	if notify {
		e.sends.Add(1)
		go e.deliver(context.WithoutCancel(ctx), pred.Clone())
	}
	return nil
}

func (e *Engine) deliver(ctx context.Context, p *models.Prediction) {
	defer e.sends.Done()
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	success := false
	defer func() {
		e.mu.Lock()
		e.st.sending = false
		if success {
			t := e.clock()
			e.st.lastPush = &t
		}
		e.mu.Unlock()
	}()

	e.mu.Lock()
	interval := e.st.notify.Interval
	e.mu.Unlock()

	key := "notify:" + e.cfg.Symbol
	if e.locker != nil {
		ok, err := e.locker.TryLock(ctx, key, interval)
		if err != nil {
			e.log.Warn("notify gate unavailable, using local interval only", logger.Error(err))
		} else if !ok {
			e.log.Debug("notification already sent by another instance")
			return
		}
	}

	res := e.notifier.Send(ctx, FormatPredictionMessage(p), p)
	if !res.Success {
		e.metrics.RecordError("notify")
		e.log.Warn("notification failed", logger.Strings("errors", res.Errors))
		if e.locker != nil {
			_ = e.locker.Unlock(ctx, key)
		}
		return
	}
	success = true
	e.log.Info("notification sent", logger.Strings("targets", res.SentTargets))
}

func (e *Engine) verifyOnce(ctx context.Context) error {
	now := e.clock()
	pending, err := e.store.PendingPredictions(ctx, e.cfg.Symbol, now.Add(-e.cfg.Horizon()))
	if err != nil {
		e.metrics.RecordError("store")
		return fmt.Errorf("load pending predictions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	e.mu.Lock()
	window := e.st.window.Items()
	e.mu.Unlock()

	var verified, expired, missed int
	for _, p := range pending {
		outcome := e.verifier.Evaluate(p, window, now)
		switch outcome {
		case OutcomeVerified, OutcomeExpired:
		case OutcomeMiss:
			missed++
			continue
		default:
			continue
		}

		if err := e.store.UpdatePrediction(ctx, p); err != nil {
			e.metrics.RecordError("store")
			e.log.Warn("verification not persisted, will retry", logger.String("id", p.ID), logger.Error(err))
			continue
		}

		acc := 0.0
		e.mu.Lock()
		if outcome == OutcomeVerified {
			acc = *p.Accuracy
			e.st.accuracy.Push(acc)
			if acc > correctAccuracy {
				e.st.metrics.CorrectPredictions++
			}
		}
		updated := p.Clone()
		e.st.recent.Update(
			func(r *models.Prediction) bool { return r.ID == p.ID },
			func(*models.Prediction) *models.Prediction { return updated },
		)
		e.mu.Unlock()

		e.metrics.RecordVerification(outcome.String(), acc)
		if outcome == OutcomeVerified {
			verified++
			e.log.Info("prediction verified",
				logger.String("id", p.ID),
				logger.Float64("actual", *p.ActualPrice),
				logger.Float64("accuracy", acc))
			e.publishPrediction(ctx, models.EventPredictionVerified, p, nil)
		} else {
			expired++
			e.log.Info("prediction expired", logger.String("id", p.ID), logger.Time("timestamp", p.Timestamp))
			e.publishPrediction(ctx, models.EventPredictionExpired, p, nil)
		}
	}
	e.log.Debug("verification pass",
		logger.Int("pending", len(pending)),
		logger.Int("verified", verified),
		logger.Int("expired", expired),
		logger.Int("missed", missed))
	return nil
}

func (e *Engine) optimizeOnce(ctx context.Context) error {
	e.mu.Lock()
	n := e.st.accuracy.Len()
	e.mu.Unlock()
	if n < optimizeMinSamples {
		e.log.Debug("optimization skipped, not enough samples", logger.Int("samples", n))
		return nil
	}

	now := e.clock()
	preds, err := e.store.VerifiedSince(ctx, e.cfg.Symbol, now.Add(-performanceLookback))
	if err != nil {
		e.metrics.RecordError("store")
		e.log.Warn("performance query failed", logger.Error(err))
	}
	perf := AnalyzePerformance(preds)
	e.noteFallback("analyze_performance", perf.Fallback, perf.Err)

	e.mu.Lock()
	history := e.st.accuracy.Items()
	conf := RetuneConfidence(e.st.confidenceBase, history)
	e.st.confidenceBase = conf.Value
	w := RetuneWeights(e.st.weights, perf.Value)
	e.st.weights = w.Value
	m := ComputeMetrics(e.st.metrics, history)
	e.st.metrics = m.Value
	e.mu.Unlock()

	e.noteFallback("retune_confidence", conf.Fallback, conf.Err)
	e.noteFallback("retune_weights", w.Fallback, w.Err)
	e.noteFallback("compute_metrics", m.Fallback, m.Err)

	e.metrics.RecordWeights(w.Value)
	e.log.Info("optimization done",
		logger.Float64("confidence_base", conf.Value),
		logger.Any("weights", w.Value),
		logger.Float64("recent_accuracy", m.Value.RecentAccuracy))
	return nil
}

func (e *Engine) snapshotOnce(ctx context.Context) error {
	e.mu.Lock()
	snap := models.Snapshot{
		Timestamp:      e.clock(),
		Metrics:        e.st.metrics,
		ConfidenceBase: e.st.confidenceBase,
		Weights:        e.st.weights,
	}
	e.mu.Unlock()

	if err := e.store.SaveSnapshot(ctx, e.cfg.Symbol, snap); err != nil {
		e.metrics.RecordError("store")
		return fmt.Errorf("save snapshot: %w", err)
	}
	ev := models.SnapshotEvent{
		ID:         newID(),
		Type:       models.EventSnapshotSaved,
		Symbol:     e.cfg.Symbol,
		OccurredAt: snap.Timestamp,
		Snapshot:   snap,
	}
	if err := e.publisher.PublishSnapshot(ctx, ev); err != nil {
		e.log.Warn("snapshot event not published", logger.Error(err))
	}
	return nil
}

func (e *Engine) publishPrediction(ctx context.Context, typ string, p *models.Prediction, comps []models.ComponentPrediction) {
	ev := models.PredictionEvent{
		ID:         newID(),
		Type:       typ,
		OccurredAt: e.clock(),
		Prediction: p,
		Components: comps,
	}
	if err := e.publisher.PublishPrediction(ctx, ev); err != nil {
		e.log.Warn("prediction event not published", logger.String("type", typ), logger.Error(err))
	}
}

func (e *Engine) noteFallback(step string, fallback bool, err error) {
	if fallback {
		e.log.Warn("optimizer step fell back", logger.String("step", step), logger.Error(err))
	}
}

// Status is a consistent read of the engine state.
func (e *Engine) Status() models.Status {
	e.mu.Lock()
	st := models.Status{
		Running: e.st.running,
		Config: models.EngineSettings{
			Symbol:                e.cfg.Symbol,
			IntervalMinutes:       e.cfg.IntervalMinutes,
			DataCollectionSeconds: e.cfg.DataCollectionSeconds,
			MinDataPoints:         e.cfg.MinDataPoints,
			MaxHistorySize:        e.cfg.MaxHistorySize,
		},
		Metrics:          e.st.metrics,
		Weights:          e.st.weights,
		ConfidenceBase:   e.st.confidenceBase,
		DataPoints:       e.st.window.Len(),
		PredictionsCount: e.st.created,
		AccuracyTail:     e.st.accuracy.Tail(statusAccuracyTail),
		Notify: models.NotifySettings{
			Enabled:         e.st.notify.Enabled,
			IntervalMinutes: int(e.st.notify.Interval / time.Minute),
		},
	}
	if !e.st.lastPredictionAt.IsZero() {
		t := e.st.lastPredictionAt
		st.LastPrediction = &t
	}
	if e.st.lastPush != nil {
		t := *e.st.lastPush
		st.Notify.LastPush = &t
	}
	e.mu.Unlock()

	for _, t := range e.tasks {
		st.Tasks = append(st.Tasks, t.Status())
	}
	return st
}

// LatestPrediction returns a copy of the newest prediction made by this process.
func (e *Engine) LatestPrediction() (*models.Prediction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.st.recent.Last()
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// ListPredictions queries the store.
func (e *Engine) ListPredictions(ctx context.Context, f models.PredictionFilter) ([]*models.Prediction, error) {
	return e.store.ListPredictions(ctx, e.cfg.Symbol, f)
}

// UpdateNotify toggles pushes at runtime.
func (e *Engine) UpdateNotify(enabled bool, intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return fmt.Errorf("notify interval must be positive, got %d", intervalMinutes)
	}
	e.mu.Lock()
	e.st.notify.Enabled = enabled
	e.st.notify.Interval = time.Duration(intervalMinutes) * time.Minute
	e.mu.Unlock()
	e.log.Info("notify settings updated", logger.Bool("enabled", enabled), logger.Int("interval_minutes", intervalMinutes))
	return nil
}

// Symbol is the instrument this engine forecasts.
func (e *Engine) Symbol() string { return e.cfg.Symbol }
