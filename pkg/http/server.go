package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"GoldCast/pkg/http/middleware"
	applogger "GoldCast/pkg/logger"
)

// ServerOption configures Server.
type ServerOption func(*ServerConfig)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	SlowThreshold   time.Duration
	CORSOrigins     []string
	Logger          *applogger.Logger
	Registerer      prometheus.Registerer
}

// Server wraps Echo HTTP server.
type Server struct {
	echo   *echo.Echo
	srv    *http.Server
	config *ServerConfig
	log    *applogger.Logger
}

// NewServer creates the HTTP server and registers the handler's routes plus /metrics.
func NewServer(handler Handler, opts ...ServerOption) *Server {
	return NewServerWithHandlers([]Handler{handler}, opts...)
}

// NewServerWithHandlers mounts every non-nil handler in order, then /metrics.
func NewServerWithHandlers(handlers []Handler, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SlowThreshold:   time.Second,
		CORSOrigins:     []string{"*"},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = applogger.Nop()
	}
	l := cfg.Logger.With("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover(l))
	e.Use(middleware.Metrics(cfg.Registerer, l, cfg.SlowThreshold))
	e.Use(middleware.RequestLogging(l))

	if len(cfg.CORSOrigins) > 0 {
		e.Use(middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			MaxAge:       time.Hour,
			AllowMethods: []string{
				http.MethodGet,
				http.MethodPut,
				http.MethodOptions,
			},
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
			},
		}))
	}

	for _, h := range append(handlers, RouteFunc(metricsRoute)) {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}

	return &Server{
		echo:   e,
		config: cfg,
		log:    l,
		srv: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      e,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start listens in the background; a listen failure is logged.
func (s *Server) Start() error {
	go func() {
		s.log.Info("http server listening", applogger.String("addr", s.srv.Addr))
		if err := s.echo.StartServer(s.srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("http server failed", applogger.Error(err))
		}
	}()
	return nil
}

// Stop gracefully shuts down the server, bounded by ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("http server stopped")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func WithHost(host string) ServerOption {
	return func(c *ServerConfig) {
		c.Host = host
	}
}

func WithPort(port int) ServerOption {
	return func(c *ServerConfig) {
		c.Port = port
	}
}

// WithTimeouts sets read/write/shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

// WithCORS restricts cross-origin access to origins; no origins turns CORS off.
func WithCORS(origins ...string) ServerOption {
	return func(c *ServerConfig) {
		c.CORSOrigins = origins
	}
}

func WithLogger(l *applogger.Logger) ServerOption {
	return func(c *ServerConfig) {
		c.Logger = l
	}
}

// WithRegisterer routes the HTTP metrics to reg instead of the default registerer.
func WithRegisterer(reg prometheus.Registerer) ServerOption {
	return func(c *ServerConfig) {
		c.Registerer = reg
	}
}

// WithSlowThreshold sets the latency above which requests are logged as slow; 0 disables it.
func WithSlowThreshold(d time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.SlowThreshold = d
	}
}
