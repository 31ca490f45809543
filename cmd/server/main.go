package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/attest/internal/auth"
	"github.com/rpggio/attest/internal/config"
	"github.com/rpggio/attest/internal/domain/access"
	"github.com/rpggio/attest/internal/domain/activity"
	"github.com/rpggio/attest/internal/domain/token"
	"github.com/rpggio/attest/internal/issuer"
	"github.com/rpggio/attest/internal/issuer/metrics"
	"github.com/rpggio/attest/internal/mcp"
	"github.com/rpggio/attest/internal/sqlite"
	"github.com/rpggio/attest/internal/transport"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	issuerCfg, err := issuerConfig(cfg.Issuer)
	if err != nil {
		return err
	}
	issuerCfg.Store = sqlite.NewStateRepository(db)
	issuerCfg.Logger = logger
	issuerCfg.Metrics = m

	is, err := issuer.Open(ctx, issuerCfg)
	if err != nil {
		return fmt.Errorf("open issuer: %w", err)
	}

	notifications := activity.NewService(sqlite.NewActivityRepository(db), logger)
	keys := auth.NewKeyResolver(sqlite.NewAPIKeyRepository(db), logger)
	stdioPrincipal := access.Principal(cfg.Auth.StdioPrincipal)
	if cfg.Auth.StdioPrincipal != "" {
		if stdioPrincipal, err = access.ParsePrincipal(cfg.Auth.StdioPrincipal); err != nil {
			return fmt.Errorf("stdio principal: %w", err)
		}
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Issuer:         is,
		Notifications:  notifications,
		Resolver:       keys,
		AuthEnabled:    cfg.Auth.Enabled,
		TransportMode:  cfg.Transport.Mode,
		StdioPrincipal: stdioPrincipal,
		Logger:         logger,
		Version:        version,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(ctx, logger, mcpServer, stdioPrincipal)
	}

	authMiddleware := transport.AuthMiddleware(keys)
	if !cfg.Auth.Enabled {
		authMiddleware = transport.StaticPrincipalMiddleware(stdioPrincipal)
	}
	router := transport.NewServer(mcp.NewHandler(is, notifications), authMiddleware, logger)
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)
	if cfg.Metrics.Enabled {
		router.Handle("/metrics", promhttp.Handler())
	}

	return runHTTPMode(ctx, logger, router, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), cfg.Auth.Enabled)
}

// issuerConfig parses the deployment identity. Store, logger and metrics are
// left for the caller.
func issuerConfig(c config.IssuerConfig) (issuer.Config, error) {
	owner, err := access.ParsePrincipal(c.Owner)
	if err != nil {
		return issuer.Config{}, fmt.Errorf("issuer owner: %w", err)
	}
	policy, err := token.ParsePolicy(c.Policy)
	if err != nil {
		return issuer.Config{}, fmt.Errorf("issuer policy: %w", err)
	}
	return issuer.Config{
		Name:   c.Name,
		Symbol: c.Symbol,
		Owner:  owner,
		Policy: policy,
	}, nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server, principal access.Principal) error {
	logger.Info("starting stdio transport", "principal", principal)

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, handler http.Handler, addr string, authEnabled bool) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", addr, "auth", authEnabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
