package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestServerMountsHandlersAndMetrics(t *testing.T) {
	ping := RouteFunc(func(e *echo.Echo) {
		e.GET("/ping", func(c echo.Context) error { return SuccessResponse(c, "pong") })
	})
	srv := NewServerWithHandlers([]Handler{ping, nil},
		WithPort(0),
		WithRegisterer(prometheus.NewRegistry()),
		WithCORS(),
	)

	for path, code := range map[string]int{"/ping": http.StatusOK, "/metrics": http.StatusOK, "/nope": http.StatusNotFound} {
		rec := httptest.NewRecorder()
		srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "http://a.test")
	srv.Echo().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin), "cors disabled")
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestAppErrorResponseMapsStatus(t *testing.T) {
	e := echo.New()
	e.GET("/missing", func(c echo.Context) error {
		return AppErrorResponse(c, NotFoundError("prediction"))
	})
	e.GET("/plain", func(c echo.Context) error {
		return AppErrorResponse(c, assert.AnError)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plain", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
