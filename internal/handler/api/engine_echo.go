package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"GoldCast/internal/domain/models"
	"GoldCast/internal/service/metrics"
	"GoldCast/internal/service/ratelimit"
	"GoldCast/pkg/cache"
	xhttp "GoldCast/pkg/http"
	xlogger "GoldCast/pkg/logger"
	"GoldCast/pkg/util"
)

// Engine is the read/control surface the API needs from the forecasting engine.
type Engine interface {
	Status() models.Status
	LatestPrediction() (*models.Prediction, bool)
	ListPredictions(ctx context.Context, f models.PredictionFilter) ([]*models.Prediction, error)
	UpdateNotify(enabled bool, intervalMinutes int) error
	Symbol() string
}

// HealthChecker is satisfied by the store.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Config struct {
	StatusTTL       time.Duration
	MaxListLimit    int
	RateLimitPerSec float64
	RateLimitBurst  int
}

// EngineEchoHandler serves the status API.
type EngineEchoHandler struct {
	cfg     Config
	engine  Engine
	health  HealthChecker
	cache   cache.Service
	limiter *ratelimit.Limiter
	metrics *metrics.APIMetrics
	logger  *xlogger.Logger
}

func NewEngineEchoHandler(cfg Config, engine Engine, health HealthChecker, c cache.Service, m *metrics.APIMetrics, l *xlogger.Logger) *EngineEchoHandler {
	if cfg.MaxListLimit <= 0 {
		cfg.MaxListLimit = 500
	}
	if cfg.RateLimitPerSec <= 0 {
		cfg.RateLimitPerSec = 10
	}
	if l == nil {
		l = xlogger.Nop()
	}
	return &EngineEchoHandler{
		cfg:     cfg,
		engine:  engine,
		health:  health,
		cache:   c,
		limiter: ratelimit.New(cfg.RateLimitPerSec, cfg.RateLimitBurst),
		metrics: m,
		logger:  l.With("api"),
	}
}

func (h *EngineEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api", h.rateLimit)
	g.GET("/status", h.observe("status", h.Status))
	g.GET("/predictions/latest", h.observe("latest", h.LatestPrediction))
	g.GET("/predictions", h.observe("predictions", h.ListPredictions))
	g.PUT("/notify", h.observe("notify", h.UpdateNotify))
}

func (h *EngineEchoHandler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !h.limiter.Allow(c.RealIP()) {
			if h.metrics != nil {
				h.metrics.RateLimited.Inc()
			}
			h.logger.Warn("api rate_limited", xlogger.String("remote", c.RealIP()), xlogger.String("path", c.Path()))
			return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("rate limited"))
		}
		return next(c)
	}
}

// observe records latency and 4xx/5xx responses per endpoint.
func (h *EngineEchoHandler) observe(endpoint string, fn echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := fn(c)
		if h.metrics != nil {
			h.metrics.Latency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				h.metrics.Errors.WithLabelValues(endpoint).Inc()
			}
		}
		return err
	}
}

func (h *EngineEchoHandler) statusKey() string { return cache.Key("status", h.engine.Symbol()) }

// Status returns the engine status, served from cache for StatusTTL.
func (h *EngineEchoHandler) Status(c echo.Context) error {
	hit := true
	st, err := cache.GetOrLoad(c.Request().Context(), h.cache, h.statusKey(), h.cfg.StatusTTL,
		func(context.Context) (models.Status, error) {
			hit = false
			return h.engine.Status(), nil
		})
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if h.metrics != nil && h.cache != nil {
		result := "miss"
		if hit {
			result = "hit"
		}
		h.metrics.CacheHits.WithLabelValues(result).Inc()
	}
	return xhttp.SuccessResponse(c, st)
}

func (h *EngineEchoHandler) LatestPrediction(c echo.Context) error {
	p, ok := h.engine.LatestPrediction()
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no prediction yet"))
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *EngineEchoHandler) ListPredictions(c echo.Context) error {
	req := &models.PredictionsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	f := models.PredictionFilter{
		Status: models.PredictionStatus(req.Status),
		Limit:  util.ClampInt(req.Limit, 1, h.cfg.MaxListLimit),
	}
	if req.From != "" {
		t, ok := xhttp.ParseTime(req.From)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("from", "from must be RFC3339 or unix seconds"))
		}
		f.From = t
	}
	if req.To != "" {
		t, ok := xhttp.ParseTime(req.To)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError("to", "to must be RFC3339 or unix seconds"))
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("to", "to is before from"))
	}

	rows, err := h.engine.ListPredictions(c.Request().Context(), f)
	if err != nil {
		h.logger.Error("api list_predictions failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// UpdateNotify toggles push notifications and drops the cached status.
func (h *EngineEchoHandler) UpdateNotify(c echo.Context) error {
	req := &models.NotifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.engine.UpdateNotify(*req.Enabled, req.IntervalMinutes); err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("interval_minutes", err.Error()))
	}
	if h.cache != nil {
		if err := h.cache.Delete(c.Request().Context(), h.statusKey()); err != nil {
			h.logger.Warn("api status cache_delete_error", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, h.engine.Status().Notify)
}

func (h *EngineEchoHandler) Health(c echo.Context) error {
	running := h.engine.Status().Running
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		if err := h.health.Health(ctx); err != nil {
			h.logger.Warn("api health store_unavailable", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("store unavailable").WithError(err))
		}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{"status": "ok", "running": running})
}
