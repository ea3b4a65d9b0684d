// Package server ties the HTTP server's lifetime to process signals and
// drains in-flight API requests before stopping.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	defaultDrainTimeout    = 15 * time.Second
)

// Hook releases one resource during shutdown. ctx carries the remaining
// shutdown budget.
type Hook func(ctx context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// ShutdownConfig holds the shutdown budgets. Zero values use 30s and 15s.
type ShutdownConfig struct {
	// ShutdownTimeout bounds the whole shutdown, hooks included
	ShutdownTimeout time.Duration

	// DrainTimeout bounds the wait for in-flight requests
	DrainTimeout time.Duration
}

// ShutdownManager starts shutdown once, waits for in-flight requests to
// finish and then runs the registered hooks newest first.
type ShutdownManager struct {
	cfg    ShutdownConfig
	logger *zap.Logger

	stopping atomic.Bool
	inFlight atomic.Int64

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	idleCh       chan struct{}
	idleOnce     sync.Once

	mu    sync.Mutex
	hooks []namedHook
}

// NewShutdownManager creates a shutdown manager. A nil logger disables logging.
func NewShutdownManager(cfg ShutdownConfig, logger *zap.Logger) *ShutdownManager {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = defaultDrainTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShutdownManager{
		cfg:        cfg,
		logger:     logger,
		shutdownCh: make(chan struct{}),
		idleCh:     make(chan struct{}),
	}
}

// OnShutdown registers a hook. Hooks run in reverse registration order.
func (sm *ShutdownManager) OnShutdown(name string, fn Hook) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.hooks = append(sm.hooks, namedHook{name: name, fn: fn})
}

// ListenForSignals blocks until SIGINT or SIGTERM arrives, ctx ends or
// shutdown is started elsewhere. In the first two cases it shuts down.
func (sm *ShutdownManager) ListenForSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	var reason string
	select {
	case sig := <-sigCh:
		reason = "signal " + sig.String()
	case <-ctx.Done():
		reason = "context done"
	case <-sm.shutdownCh:
		return nil
	}
	return sm.Shutdown(context.Background(), reason)
}

// Shutdown stops accepting requests, drains the in-flight ones and runs the
// hooks. Later calls return nil immediately. The first hook error, or a
// drain timeout, is returned; every hook runs regardless.
func (sm *ShutdownManager) Shutdown(ctx context.Context, reason string) error {
	var result error

	sm.shutdownOnce.Do(func() {
		start := time.Now()
		sm.logger.Info("shutting down", zap.String("reason", reason))

		sm.stopping.Store(true)
		close(sm.shutdownCh)
		if sm.inFlight.Load() == 0 {
			sm.markIdle()
		}

		ctx, cancel := context.WithTimeout(ctx, sm.cfg.ShutdownTimeout)
		defer cancel()

		if err := sm.drain(ctx); err != nil {
			result = err
		}

		sm.mu.Lock()
		hooks := append([]namedHook(nil), sm.hooks...)
		sm.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			h := hooks[i]
			if err := h.fn(ctx); err != nil {
				sm.logger.Warn("shutdown hook failed", zap.String("hook", h.name), zap.Error(err))
				if result == nil {
					result = fmt.Errorf("%s: %w", h.name, err)
				}
				continue
			}
			sm.logger.Debug("shutdown hook done", zap.String("hook", h.name))
		}

		sm.logger.Info("shutdown complete",
			zap.Duration("elapsed", time.Since(start)),
			zap.Bool("clean", result == nil))
	})

	return result
}

func (sm *ShutdownManager) drain(ctx context.Context) error {
	timer := time.NewTimer(sm.cfg.DrainTimeout)
	defer timer.Stop()

	select {
	case <-sm.idleCh:
		return nil
	case <-timer.C:
	case <-ctx.Done():
	}

	remaining := sm.inFlight.Load()
	if remaining == 0 {
		return nil
	}
	return fmt.Errorf("drain: %d in-flight requests still running", remaining)
}

func (sm *ShutdownManager) markIdle() {
	sm.idleOnce.Do(func() { close(sm.idleCh) })
}

// TrackRequest counts a new request. It returns false once shutdown has
// started, in which case the request must be rejected.
//
// The request is counted before stopping is checked, so a drain that sees
// zero in-flight requests can never miss one that is admitted.
func (sm *ShutdownManager) TrackRequest() bool {
	sm.inFlight.Add(1)
	if sm.stopping.Load() {
		sm.UntrackRequest()
		return false
	}
	return true
}

// UntrackRequest marks a tracked request as finished.
func (sm *ShutdownManager) UntrackRequest() {
	if sm.inFlight.Add(-1) == 0 && sm.stopping.Load() {
		sm.markIdle()
	}
}

// IsShuttingDown reports whether shutdown has started.
func (sm *ShutdownManager) IsShuttingDown() bool {
	return sm.stopping.Load()
}

// InFlightCount returns the number of tracked requests.
func (sm *ShutdownManager) InFlightCount() int64 {
	return sm.inFlight.Load()
}

// ShutdownCh is closed when shutdown starts.
func (sm *ShutdownManager) ShutdownCh() <-chan struct{} {
	return sm.shutdownCh
}

// GracefulHTTPServer is an http.Server stopped by a ShutdownManager.
type GracefulHTTPServer struct {
	server   *http.Server
	shutdown *ShutdownManager
}

// NewGracefulHTTPServer registers server to be shut down by sm.
func NewGracefulHTTPServer(server *http.Server, sm *ShutdownManager) *GracefulHTTPServer {
	sm.OnShutdown("http server", server.Shutdown)
	return &GracefulHTTPServer{server: server, shutdown: sm}
}

// Serve serves on ln. It returns nil after a graceful shutdown and the
// server's error if it fails first.
func (gs *GracefulHTTPServer) Serve(ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		err := gs.server.Serve(ln)
		if err == http.ErrServerClosed {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-gs.shutdown.ShutdownCh():
		return <-errCh
	}
}

// ListenAndServe listens on the server's Addr and calls Serve.
func (gs *GracefulHTTPServer) ListenAndServe() error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	return gs.Serve(ln)
}

// ShutdownMiddleware counts in-flight requests and answers 503 once
// shutdown has started.
func ShutdownMiddleware(sm *ShutdownManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sm.TrackRequest() {
				w.Header().Set("Connection", "close")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "server is shutting down",
					"code":  "UNAVAILABLE",
				})
				return
			}
			defer sm.UntrackRequest()
			next.ServeHTTP(w, r)
		})
	}
}
