// Package main is the entry point for the vibedex terminal catalog browser.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/vibedex/vibedex/internal/catalog"
	"github.com/vibedex/vibedex/internal/config"
	"github.com/vibedex/vibedex/internal/telemetry"
	"github.com/vibedex/vibedex/internal/tui"
	"github.com/vibedex/vibedex/pkg/client"
)

var version = "dev"

func main() {
	if _, err := config.LoadDotEnv(""); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadBrowser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs only go to a file when asked.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, openErr := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", openErr)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	base := zerolog.New(logOut).With().Timestamp().Str("service", "vibedex").Str("version", version).Logger()
	logger := base.With().Str("component", "main").Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownOTel, err := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: "vibedex",
		Version:     version,
		Endpoint:    cfg.OTelEndpoint,
		Enabled:     cfg.TracesEnabled,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize OpenTelemetry: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := shutdownOTel(shutdownCtx); shutdownErr != nil {
			logger.Error().Err(shutdownErr).Msg("failed to shut down OpenTelemetry")
		}
	}()

	api, err := client.New(client.Config{
		CatalogURL: cfg.CatalogURL,
		ProxyURL:   cfg.ProxyURL,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %v\n", err)
		os.Exit(1)
	}

	notifier := &tui.Notifier{}
	ctl, err := catalog.NewController(api,
		catalog.WithPageSize(cfg.PageSize),
		catalog.WithDetailCacheSize(cfg.DetailCacheSize),
		catalog.WithDemoRequest(cfg.DemoPath, cfg.DemoQuery),
		catalog.WithOnChange(notifier.OnChange),
		catalog.WithLogger(base.With().Str("component", "catalog").Logger()),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create catalog: %v\n", err)
		os.Exit(1)
	}

	logger.Info().Str("catalog", cfg.CatalogURL).Str("proxy", cfg.ProxyURL).Msg("starting vibedex")

	program := tea.NewProgram(tui.NewModel(ctx, ctl), tea.WithAltScreen(), tea.WithContext(ctx))
	notifier.Attach(program)

	if _, runErr := program.Run(); runErr != nil {
		logger.Error().Err(runErr).Msg("browser stopped with error")
		fmt.Fprintf(os.Stderr, "vibedex: %v\n", runErr)
		os.Exit(1)
	}
	logger.Info().Msg("browser stopped")
}
