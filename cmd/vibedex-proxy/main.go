// Package main is the entry point for the vibedex proxy service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vibedex/vibedex/internal/audit"
	"github.com/vibedex/vibedex/internal/auth"
	"github.com/vibedex/vibedex/internal/config"
	"github.com/vibedex/vibedex/internal/proxy"
	"github.com/vibedex/vibedex/internal/server"
	"github.com/vibedex/vibedex/internal/telemetry"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	envLoaded, err := config.LoadDotEnv("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	if cfg.DevMode {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("service", "vibedex-proxy").Str("version", version).Logger()
	}

	logger := log.With().Str("component", "main").Logger()
	logger.Info().Bool("dev_mode", cfg.DevMode).Bool("env_file", envLoaded).Msg("starting vibedex-proxy")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOTel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "vibedex-proxy",
		Version:     version,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.TracesEnabled,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize OpenTelemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := shutdownOTel(shutdownCtx); shutdownErr != nil {
			logger.Error().Err(shutdownErr).Msg("failed to shut down OpenTelemetry")
		}
	}()

	keyOpts := auth.KeySourceOptions{KeyFile: cfg.KeyFile}
	if cfg.DevMode {
		keyOpts.DevDefault = config.DevAPIKey
	}
	resolvedKey, err := auth.ResolveKey(keyOpts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve API key")
	}
	if resolvedKey.Key == "" {
		logger.Warn().Msg("no API key resolved from PROXY_API_KEY or key file; proxied calls will be rejected")
	} else {
		logger.Info().Str("key_source", string(resolvedKey.Source)).Msg("resolved upstream API key")
	}
	if cfg.UpstreamBaseURL == "" {
		logger.Warn().Msg("PROXY_API_BASE_URL is not set; proxied calls will fail")
	} else {
		logger.Info().Str("upstream", audit.RedactURL(cfg.UpstreamBaseURL)).Msg("proxy upstream configured")
	}

	var gatherer prometheus.Gatherer
	var proxyMetrics *proxy.Metrics
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		proxyMetrics = proxy.NewMetrics(registry)
		gatherer = registry
	}

	handler := proxy.NewHandler(cfg.UpstreamBaseURL, resolvedKey.Key,
		proxy.WithAuditLogger(audit.NewLogger(log.Logger)),
		proxy.WithMetrics(proxyMetrics),
		proxy.WithLogger(log.With().Str("component", "proxy").Logger()),
	)
	httpServer := server.NewHTTPServer(
		cfg,
		version, commit, buildDate,
		handler,
		server.NewBearerAuthenticator(resolvedKey.Key),
		gatherer,
		log.Logger,
	)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httpServer.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errCh <- serveErr
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	case serveErr := <-errCh:
		logger.Error().Err(serveErr).Msg("HTTP server error")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		logger.Error().Err(shutdownErr).Msg("HTTP server shutdown error")
		os.Exit(1)
	}
	logger.Info().Msg("server stopped gracefully")
}
