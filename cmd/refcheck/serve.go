package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matsen/refcheck/internal/logging"
	"github.com/matsen/refcheck/internal/server"
	"github.com/matsen/refcheck/internal/service"
	"github.com/spf13/cobra"
)

// ShutdownTimeout bounds how long in-flight requests may finish after a signal.
const ShutdownTimeout = 10 * time.Second

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reference verification over HTTP",
	Long: `Serve reference verification over HTTP.

Endpoints:
  GET  /healthz  liveness check
  POST /verify   multipart upload of a .pdf or .docx in the "file" field;
                 responds with the verification report

Examples:
  refcheck serve
  refcheck serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	logger := logging.New(cfg.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	addr := cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	cache := mustOpenCache(cfg)
	defer cache.Close()

	v := newVerifier(cfg, cache, logger, cfg.Workers)
	svc := service.New(newPipeline(cfg), v, cache, logger)

	mux := http.NewServeMux()
	server.New(svc, logger).Register(mux)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "cache", cfg.ResolvedCachePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			exitWithError(ExitError, "server: %v", err)
		}
		return nil
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
		return err
	}
	return nil
}
