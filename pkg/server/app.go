package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "GoldCast/internal/domain/repository"
	"GoldCast/internal/usecase"
	"GoldCast/pkg/config"
	xhttp "GoldCast/pkg/http"
	applogger "GoldCast/pkg/logger"
)

// App owns the engine, the HTTP server and the infrastructure they share.
type App struct {
	cfg        *config.Config
	root       *applogger.Logger
	log        *applogger.Logger
	engine     *usecase.Engine
	httpServer *xhttp.Server
	feed       drepo.PriceFeed
	store      drepo.Store
	publisher  drepo.EventPublisher
	closers    []namedCloser
}

type namedCloser struct {
	name string
	c    io.Closer
}

func New(
	cfg *config.Config,
	l *applogger.Logger,
	engine *usecase.Engine,
	httpServer *xhttp.Server,
	feed drepo.PriceFeed,
	store drepo.Store,
	publisher drepo.EventPublisher,
) *App {
	return &App{
		cfg:        cfg,
		root:       l,
		log:        l.With("app"),
		engine:     engine,
		httpServer: httpServer,
		feed:       feed,
		store:      store,
		publisher:  publisher,
	}
}

// OnClose registers an extra resource closed last, in reverse order.
func (a *App) OnClose(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Run starts the engine and the HTTP server and blocks until SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext is Run with a caller-controlled lifetime.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.engine.Start(context.WithoutCancel(ctx)); err != nil {
		a.closeInfra()
		return fmt.Errorf("engine start: %w", err)
	}
	if err := a.httpServer.Start(); err != nil {
		_ = a.engine.Stop(context.Background())
		a.closeInfra()
		return fmt.Errorf("http start: %w", err)
	}
	a.log.Info("goldcast running",
		applogger.String("env", a.cfg.Environment),
		applogger.String("symbol", a.cfg.Engine.Symbol),
		applogger.String("feed", a.cfg.Feed.Type),
		applogger.String("storage", a.cfg.Storage.Type),
		applogger.Int("port", a.cfg.Server.Port),
	)

	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops intake first, then the engine (which writes a final snapshot),
// then the infrastructure the engine was using.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		errs = append(errs, err)
	}
	if err := a.engine.Stop(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		a.log.Error("engine stop error", applogger.Error(err))
		errs = append(errs, err)
	}
	a.closeInfra()
	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeInfra() {
	start := time.Now()
	// the error collector publishes through the event publisher, so it goes first
	a.root.RemoveCollector()
	closeOne := func(name string, c io.Closer) {
		if c == nil {
			return
		}
		if err := c.Close(); err != nil {
			a.log.Warn("close failed", applogger.String("resource", name), applogger.Error(err))
		}
	}
	closeOne("publisher", a.publisher)
	closeOne("feed", a.feed)
	closeOne("store", a.store)
	for i := len(a.closers) - 1; i >= 0; i-- {
		closeOne(a.closers[i].name, a.closers[i].c)
	}
	a.log.Debug("infrastructure closed", applogger.Duration("took", time.Since(start)))
}
