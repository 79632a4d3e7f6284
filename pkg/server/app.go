package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CoinScreen/internal/handler/api"
	internalrepo "CoinScreen/internal/repository"
	"CoinScreen/internal/usecase"
	pkgch "CoinScreen/pkg/clickhouse"
	"CoinScreen/pkg/config"
	xhttp "CoinScreen/pkg/http"
	applogger "CoinScreen/pkg/logger"
	"CoinScreen/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	l           *applogger.Logger
	collector   *usecase.PriceCollector
	priceStore  *internalrepo.CHPriceStore
	resultStore *internalrepo.CHResultStore
	sync        *usecase.HistorySync
	handler     *api.ScreeningHandler
	queue       *queue.RedisQueue
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.PriceCollector,
	priceStore *internalrepo.CHPriceStore,
	resultStore *internalrepo.CHResultStore,
	sync *usecase.HistorySync,
	handler *api.ScreeningHandler,
	q *queue.RedisQueue,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:         cfg,
		l:           l,
		collector:   collector,
		priceStore:  priceStore,
		resultStore: resultStore,
		sync:        sync,
		handler:     handler,
		queue:       q,
		chClient:    chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ensure storage schemas before anything writes
	if err := a.priceStore.Init(ctx); err != nil {
		a.l.Error("price store init error", applogger.Error(err))
		return err
	}
	if err := a.resultStore.Init(ctx); err != nil {
		a.l.Error("result store init error", applogger.Error(err))
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start live collector
	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.l.Error("collector error", applogger.Error(err))
		}
	}()
	a.l.Info("collector started", applogger.Strings("symbols", a.cfg.Binance.Symbols))

	// Start queue workers if configured
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.l.Error("queue start error", applogger.Error(err))
		}
	}

	// Backfill history in the background so the API is ready for
	// screening runs without blocking startup.
	go func() {
		if _, err := a.sync.Run(ctx); err != nil {
			a.l.Error("history sync error", applogger.Error(err))
		}
	}()

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	a.l.Info("shutting down...")

	// Stop collector (pipeline + stream)
	if err := a.collector.Shutdown(ctx); err != nil {
		a.l.Warn("collector stop error", applogger.Error(err))
	}
	// Flush pending tick batches
	a.collector.Processor().Close()

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
	}

	// Stop queue workers
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.l.Warn("queue stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return nil
}
