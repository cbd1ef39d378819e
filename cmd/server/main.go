// Package main runs the order dashboard HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"order-dashboard/internal/api"
	"order-dashboard/internal/config"
	"order-dashboard/internal/domain"
	"order-dashboard/internal/storage"
	"order-dashboard/internal/storage/configfile"
	"order-dashboard/internal/storage/memory"
	pgstore "order-dashboard/internal/storage/postgres"
	"order-dashboard/internal/trace"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	useMemory := flag.Bool("use-memory", envBool("USE_MEMORY"), "Serve orders from memory instead of PostgreSQL")
	seedFile := flag.String("seed-file", os.Getenv("SEED_FILE"), "JSON array of orders loaded into the memory store")
	flag.Parse()

	logger, err := cfg.NewLogger()
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	if err := trace.Init(cfg.TracingEnabled, version, os.Stdout); err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := trace.Shutdown(ctx); err != nil {
			logger.Warn("trace shutdown", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orders, err := createOrderStore(ctx, cfg, *useMemory, *seedFile, logger)
	if err != nil {
		logger.Fatal("failed to create order store", zap.Error(err))
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	files := configfile.NewStore()
	srv := api.NewServer(orders, files, logger, version)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("addr", *addr),
			zap.Bool("use_memory", *useMemory),
			zap.String("config_dir", files.Dir()),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

// createOrderStore returns the memory store or a Postgres store.
// An unreachable database is logged, not fatal: every request opens its
// own connection and fails on its own.
func createOrderStore(ctx context.Context, cfg config.Config, useMemory bool, seedFile string, logger *zap.Logger) (storage.OrderStore, error) {
	if useMemory {
		store := memory.NewOrderStore()
		if seedFile != "" {
			if err := store.LoadFile(domain.Brokers[0], seedFile); err != nil {
				return nil, err
			}
			logger.Info("loaded seed orders", zap.String("file", seedFile))
		}
		return store, nil
	}

	conn, err := pgstore.NewConnector(cfg.PostgresDSN())
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.Ping(pingCtx); err != nil {
		logger.Warn("PostgreSQL not reachable at startup",
			zap.String("host", cfg.DBHost),
			zap.String("database", cfg.DBName),
			zap.Error(err),
		)
	} else {
		logger.Info("connected to PostgreSQL",
			zap.String("host", cfg.DBHost),
			zap.String("database", cfg.DBName),
		)
	}
	return pgstore.NewOrderStore(conn), nil
}

func envBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
