// ABOUTME: Gateway orchestrator wiring lifecycle, registry, and MCP server
// ABOUTME: Manages startup order, health endpoints, and graceful shutdown

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/careassist/care-gateway/internal/config"
	"github.com/careassist/care-gateway/internal/handlers"
	"github.com/careassist/care-gateway/internal/mcp"
	"github.com/careassist/care-gateway/internal/registry"
)

// shutdownTimeout bounds graceful shutdown after the run context ends.
const shutdownTimeout = 5 * time.Second

// Gateway orchestrates the care-gateway server components. Construction
// order is fixed: configuration is validated, the lifecycle clients come
// up, operations register, and only then does the HTTP transport exist.
type Gateway struct {
	config     *config.Config
	lifecycle  *registry.Lifecycle
	registry   *registry.Registry
	mcpServer  *mcp.Server
	mcpTokens  *mcp.TokenStore
	httpServer *http.Server
	logger     *slog.Logger

	// serverID identifies this gateway instance
	serverID string
}

// New creates a Gateway from the given configuration. A failure anywhere in
// the chain aborts startup; no partially constructed gateway is returned.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}

	lc, err := registry.NewLifecycle(cfg, logger.With("component", "lifecycle"))
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry(lc, logger.With("component", "registry"))
	if err := handlers.Register(reg, cfg); err != nil {
		lc.Teardown()
		return nil, fmt.Errorf("registering operations: %w", err)
	}

	mcpTokens := mcp.NewTokenStore()
	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry:    reg,
		Logger:      logger.With("component", "mcp"),
		TokenStore:  mcpTokens,
		RequireAuth: cfg.MCP.RequireAuth,
	})
	if err != nil {
		lc.Teardown()
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	gw := &Gateway{
		config:    cfg,
		lifecycle: lc,
		registry:  reg,
		mcpServer: mcpServer,
		mcpTokens: mcpTokens,
		logger:    logger.With("component", "gateway"),
		serverID:  generateServerID(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", gw.handleHealth)
	mux.HandleFunc("/health/ready", gw.handleReady)
	mcpServer.RegisterRoutes(mux)

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Registry returns the operation registry, primarily for inspection.
func (g *Gateway) Registry() *registry.Registry { return g.registry }

// Tokens returns the MCP token store so callers can mint access tokens.
func (g *Gateway) Tokens() *mcp.TokenStore { return g.mcpTokens }

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails. The lifecycle clients are torn down on every exit path,
// including panics, and at most once.
func (g *Gateway) Run(ctx context.Context) error {
	defer g.lifecycle.Teardown()

	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := g.startServer(ln)
	serverErr := g.waitForShutdownSignal(ctx, errCh)

	shutdownErr := g.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// startServer starts the HTTP server in a goroutine, returning its error channel.
func (g *Gateway) startServer(ln net.Listener) chan error {
	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()
	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (g *Gateway) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		g.logger.Error("server error", "error", err)
		return err
	}
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the run context is already
// canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown stops the HTTP server and releases the lifecycle clients.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	err := g.httpServer.Shutdown(ctx)
	g.lifecycle.Teardown()

	if err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the operation surface is registered.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	if len(g.registry.Tools()) == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no operations registered"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "ready (%d tools)", len(g.registry.Tools()))
}

// generateServerID creates a unique identifier for this gateway instance.
func generateServerID() string {
	return fmt.Sprintf("care-gateway-%d", time.Now().UnixNano()%1000000)
}
