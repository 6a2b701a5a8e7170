package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldCast/internal/domain/models"
	"GoldCast/internal/service/metrics"
	"GoldCast/pkg/cache"
)

type fakeEngine struct {
	mu          sync.Mutex
	statusCalls int
	notify      models.NotifySettings
	latest      *models.Prediction
	lastFilter  models.PredictionFilter
	listErr     error
}

func (f *fakeEngine) Status() models.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return models.Status{Running: true, DataPoints: f.statusCalls, Notify: f.notify}
}

func (f *fakeEngine) LatestPrediction() (*models.Prediction, bool) {
	if f.latest == nil {
		return nil, false
	}
	return f.latest, true
}

func (f *fakeEngine) ListPredictions(_ context.Context, filter models.PredictionFilter) ([]*models.Prediction, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return []*models.Prediction{{ID: "a"}, {ID: "b"}}, nil
}

func (f *fakeEngine) UpdateNotify(enabled bool, interval int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notify = models.NotifySettings{Enabled: enabled, IntervalMinutes: interval}
	return nil
}

func (f *fakeEngine) Symbol() string { return "XAUUSD" }

type fakeHealth struct{ err error }

func (f fakeHealth) Health(context.Context) error { return f.err }

type harness struct {
	e       *echo.Echo
	engine  *fakeEngine
	metrics *metrics.APIMetrics
}

func newHarness(t *testing.T, cfg Config, health HealthChecker) *harness {
	t.Helper()
	mc := cache.NewMemoryCache(cache.WithMemoryCleanup(0))
	t.Cleanup(func() { _ = mc.Close() })
	if cfg.StatusTTL == 0 {
		cfg.StatusTTL = time.Minute
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 100
	}
	fe := &fakeEngine{}
	m := metrics.NewAPIMetrics(prometheus.NewRegistry())
	e := echo.New()
	NewEngineEchoHandler(cfg, fe, health, mc, m, nil).RegisterRoutes(e)
	return &harness{e: e, engine: fe, metrics: m}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if dest != nil {
		require.NoError(t, json.Unmarshal(env.Data, dest))
	}
}

func TestStatusIsCached(t *testing.T) {
	h := newHarness(t, Config{}, nil)

	for i := 0; i < 3; i++ {
		rec := h.do(http.MethodGet, "/api/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var st models.Status
		decode(t, rec, &st)
		assert.True(t, st.Running)
		assert.Equal(t, 1, st.DataPoints)
	}
	assert.Equal(t, 1, h.engine.statusCalls)
	assert.Equal(t, 2.0, testutil.ToFloat64(h.metrics.CacheHits.WithLabelValues("hit")))
}

func TestLatestPrediction(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/api/predictions/latest", "").Code)

	h.engine.latest = &models.Prediction{ID: "p1", Signal: models.SignalBullish}
	rec := h.do(http.MethodGet, "/api/predictions/latest", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var p models.Prediction
	decode(t, rec, &p)
	assert.Equal(t, "p1", p.ID)
}

func TestListPredictionsFilter(t *testing.T) {
	h := newHarness(t, Config{MaxListLimit: 100}, nil)

	rec := h.do(http.MethodGet, "/api/predictions?limit=900&status=verified&from=2024-01-01T00:00:00Z&to=1704153600", "")
	require.Equal(t, http.StatusOK, rec.Code)

	f := h.engine.lastFilter
	assert.Equal(t, 100, f.Limit, "limit is clamped to the configured maximum")
	assert.Equal(t, models.StatusVerified, f.Status)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.From.UTC())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), f.To.UTC())

	var list struct {
		Rows  []models.Prediction `json:"rows"`
		Total int64               `json:"total"`
	}
	decode(t, rec, &list)
	assert.Equal(t, int64(2), list.Total)
}

func TestListPredictionsDefaultsAndErrors(t *testing.T) {
	h := newHarness(t, Config{}, nil)

	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/predictions", "").Code)
	assert.Equal(t, 50, h.engine.lastFilter.Limit)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/predictions?status=bogus", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/predictions?from=yesterday", "").Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/api/predictions?from=1704153600&to=1704067200", "").Code)

	h.engine.listErr = errors.New("db down")
	assert.Equal(t, http.StatusInternalServerError, h.do(http.MethodGet, "/api/predictions", "").Code)
	assert.Equal(t, 4.0, testutil.ToFloat64(h.metrics.Errors.WithLabelValues("predictions")))
}

func TestUpdateNotifyDropsCachedStatus(t *testing.T) {
	h := newHarness(t, Config{}, nil)
	require.Equal(t, http.StatusOK, h.do(http.MethodGet, "/api/status", "").Code)

	rec := h.do(http.MethodPut, "/api/notify", `{"enabled":true,"interval_minutes":15}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var ns models.NotifySettings
	decode(t, rec, &ns)
	assert.Equal(t, models.NotifySettings{Enabled: true, IntervalMinutes: 15}, ns)

	var st models.Status
	decode(t, h.do(http.MethodGet, "/api/status", ""), &st)
	assert.True(t, st.Notify.Enabled)
	assert.Equal(t, 15, st.Notify.IntervalMinutes)
}

func TestUpdateNotifyValidation(t *testing.T) {
	h := newHarness(t, Config{}, nil)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/api/notify", `{"interval_minutes":15}`).Code, "enabled is required")
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPut, "/api/notify", `{"enabled":true,"interval_minutes":5000}`).Code)

	rec := h.do(http.MethodPut, "/api/notify", `{"enabled":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 30, h.engine.notify.IntervalMinutes, "interval falls back to its default")
}

func TestHealth(t *testing.T) {
	assert.Equal(t, http.StatusOK, newHarness(t, Config{}, fakeHealth{}).do(http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, newHarness(t, Config{}, fakeHealth{err: errors.New("no ch")}).do(http.MethodGet, "/healthz", "").Code)
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, Config{RateLimitPerSec: 0.001, RateLimitBurst: 2}, nil)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, h.do(http.MethodGet, "/api/status", "").Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes, fmt.Sprint(codes))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.RateLimited))

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "").Code, "health is not limited")
}
