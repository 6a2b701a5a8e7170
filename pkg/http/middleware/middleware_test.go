package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	applogger "GoldCast/pkg/logger"
)

func newEcho(reg prometheus.Registerer) *echo.Echo {
	e := echo.New()
	l := applogger.Nop()
	e.Use(Recover(l), Metrics(reg, l, 0), RequestLogging(l))
	e.GET("/ok/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { panic("boom") })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadGateway, "upstream") })
	e.GET("/plain", func(c echo.Context) error { return errors.New("plain") })
	return e
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEcho(reg)

	assert.Equal(t, http.StatusOK, serve(e, "/ok/1").Code)
	assert.Equal(t, http.StatusOK, serve(e, "/ok/2").Code)

	m := newHTTPMetricsFor(t, reg)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WithLabelValues("/ok/:id", http.MethodGet, "200")))
}

func TestMetricsRecordsErrorStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newEcho(reg)

	assert.Equal(t, http.StatusBadGateway, serve(e, "/fail").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(e, "/plain").Code)

	m := newHTTPMetricsFor(t, reg)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WithLabelValues("/fail", http.MethodGet, "502")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WithLabelValues("/plain", http.MethodGet, "500")))
}

func TestRecoverReturns500(t *testing.T) {
	rec := serve(newEcho(prometheus.NewRegistry()), "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal Server Error")
}

func TestCORSPreflight(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{
		AllowOrigins: []string{"http://example.com"},
		AllowMethods: []string{http.MethodGet},
		MaxAge:       10 * time.Minute,
	}))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set(echo.HeaderOrigin, origin)
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("http://example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "GET", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
	assert.Equal(t, "600", rec.Header().Get(echo.HeaderAccessControlMaxAge))

	rec = preflight("http://evil.test")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestCORSSimpleRequestPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(CORS(CORSConfig{AllowOrigins: []string{"*"}}))
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(echo.HeaderOrigin, "http://a.test")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Equal(t, echo.HeaderOrigin, rec.Header().Get(echo.HeaderVary))
}

// newHTTPMetricsFor digs the request counter back out of reg.
func newHTTPMetricsFor(t *testing.T, reg *prometheus.Registry) *prometheus.CounterVec {
	t.Helper()
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "goldcast_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"route", "method", "status"})
	err := reg.Register(c)
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		t.Fatalf("expected counter to be registered already, got %v", err)
	}
	return are.ExistingCollector.(*prometheus.CounterVec)
}
