package http

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler mounts its routes on the server's router.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}

// RouteFunc lets a plain function act as a Handler.
type RouteFunc func(e *echo.Echo)

func (f RouteFunc) RegisterRoutes(e *echo.Echo) { f(e) }

func metricsRoute(e *echo.Echo) {
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}
