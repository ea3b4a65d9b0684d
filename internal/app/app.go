// Package app wires the snug components into a running service.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/snugunits/snug/internal/api/http"
	"github.com/snugunits/snug/internal/cache"
	"github.com/snugunits/snug/internal/config"
	"github.com/snugunits/snug/internal/evaluator"
	"github.com/snugunits/snug/internal/logging"
	"github.com/snugunits/snug/internal/observability"
	"github.com/snugunits/snug/internal/server"
)

// App owns the evaluator, its optional cache and statistics, and the HTTP
// server in front of them.
type App struct {
	cfg    *config.Config
	logger *zap.Logger

	// Shared resources
	cache     *cache.ParseCache
	stats     *observability.SymbolStats
	evaluator *evaluator.Evaluator
	shutdown  *server.ShutdownManager
	handler   http.Handler

	// Lifecycle
	mu       sync.Mutex
	running  bool
	stopped  bool
	listener net.Listener
	serveErr chan error
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// New validates cfg and builds every component. A nil logger is replaced by
// one built from cfg.Log.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if logger == nil {
		var err error
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, "snug")
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		stats:  observability.NewSymbolStats(cfg.Stats.Window),
	}

	if cfg.Cache.Enabled {
		a.cache = cache.NewParseCache(cfg.Cache.Shards, cfg.Cache.CapacityPerShard)
	}

	a.evaluator = evaluator.New(a.cache, a.stats, evaluator.Config{
		Concurrency: cfg.Batch.Concurrency,
	}, logger.Named("evaluator"))

	a.shutdown = server.NewShutdownManager(server.ShutdownConfig{
		ShutdownTimeout: cfg.Shutdown.Timeout,
		DrainTimeout:    cfg.Shutdown.DrainTimeout,
	}, logger.Named("shutdown"))

	// registered first so it runs after the HTTP server has stopped
	a.shutdown.OnShutdown("symbol stats report", func(ctx context.Context) error {
		fields := []zap.Field{zap.Any("top_symbols", a.stats.GetTopSymbols(cfg.Stats.TopN))}
		if a.cache != nil {
			fields = append(fields, zap.Any("cache", a.cache.Stats()))
		}
		logger.Info("final symbol usage", fields...)
		return nil
	})

	middleware := httpapi.ChainMiddleware(
		server.ShutdownMiddleware(a.shutdown),
		httpapi.DefaultMiddleware(logger.Named("http")),
	)
	a.handler = httpapi.NewRouter(
		httpapi.NewUnitHandler(a.evaluator, cfg.Batch.MaxExpressions),
		httpapi.NewStatsHandler(a.stats, a.cache, cfg.Stats.TopN),
		middleware,
	)

	return a, nil
}

// Evaluator returns the shared evaluator.
func (a *App) Evaluator() *evaluator.Evaluator {
	return a.evaluator
}

// Handler returns the HTTP handler serving the API.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Stats returns the symbol statistics collector.
func (a *App) Stats() *observability.SymbolStats {
	return a.stats
}

// Addr returns the address the server is listening on, or "" before Start.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener == nil {
		return ""
	}
	return a.listener.Addr().String()
}

// Start binds the HTTP listener and begins serving in the background. An
// App serves once: Start after Stop, or after shutdown began, fails.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return fmt.Errorf("app is already running")
	}
	if a.stopped || a.shutdown.IsShuttingDown() {
		return fmt.Errorf("app has been stopped and cannot be restarted")
	}

	ln, err := net.Listen("tcp", a.cfg.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.HTTP.Addr, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.listener = ln
	a.running = true
	a.serveErr = make(chan error, 1)

	srv := server.NewGracefulHTTPServer(&http.Server{
		Handler:      a.handler,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}, a.shutdown)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		err := srv.Serve(ln)
		if err != nil {
			a.logger.Error("http server failed", zap.Error(err))
		}
		a.serveErr <- err
	}()

	if a.cfg.Stats.PruneInterval > 0 {
		a.wg.Add(1)
		go a.pruneLoop(ctx, a.cfg.Stats.PruneInterval)
	}

	a.logger.Info("snug api listening",
		zap.String("addr", ln.Addr().String()),
		zap.Bool("cache_enabled", a.cache != nil),
		zap.Int("batch_concurrency", a.cfg.Batch.Concurrency))

	return nil
}

func (a *App) pruneLoop(ctx context.Context, interval time.Duration) {
	defer a.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.shutdown.ShutdownCh():
			return
		case <-ticker.C:
			a.stats.Prune()
			a.logger.Debug("pruned symbol statistics")
		}
	}
}

// Run starts the app and blocks until a signal arrives, ctx is cancelled or
// the server fails, then shuts down.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	sigErr := make(chan error, 1)
	go func() {
		sigErr <- a.shutdown.ListenForSignals(ctx)
	}()

	var serveErr error
	select {
	case err := <-sigErr:
		if err != nil {
			a.logger.Warn("shutdown error", zap.Error(err))
		}
	case serveErr = <-a.serveErr:
	}

	stopErr := a.Stop(context.Background())
	if serveErr != nil {
		return serveErr
	}
	return stopErr
}

// Stop drains in-flight requests, closes the server and waits for
// background goroutines.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return nil
	}
	a.running = false
	a.stopped = true
	cancel := a.cancel
	a.mu.Unlock()

	err := a.shutdown.Shutdown(ctx, "stop requested")
	cancel()
	a.wg.Wait()
	return err
}
