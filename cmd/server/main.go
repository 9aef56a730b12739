// Package main provides the news explorer web server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"hexnews/internal/backend"
	"hexnews/internal/config"
	"hexnews/internal/export"
	"hexnews/internal/flow"
	"hexnews/internal/logger"
	"hexnews/internal/session"
	"hexnews/internal/web"
)

const defaultConfigPath = "configs/server.yaml"

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file (default: "+defaultConfigPath+" if present)")
	addr := flag.String("addr", "", "Listen address, overrides server.addr")
	backendURL := flag.String("backend", "", "Backend base URL, overrides backend.base_url")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error), overrides logging.level")

	flag.Parse()

	// 1. Configuration
	// ----------------
	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if *backendURL != "" {
		cfg.Backend.BaseURL = *backendURL
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)

	log.Info("🚀 Starting news explorer", "addr", cfg.Server.Addr, "backend", cfg.Backend.BaseURL)

	// 2. Wiring
	// ---------
	client := backend.NewHTTPClient(cfg.Backend, log)
	controller := flow.NewController(client, log, cfg.Session.MaxSelection)
	store := session.NewStore(cfg.Session.GetIdleTTL(), log)

	var exporter *export.Exporter
	if cfg.Export.Enabled {
		exporter = export.NewExporter(export.NewRodRasterizer(cfg.Export, log), log)
	} else {
		log.Info("PDF export disabled")
	}

	server := web.NewServer(web.Options{
		Controller: controller,
		Store:      store,
		Exporter:   exporter,
		Config:     cfg,
		Logger:     log,
	})

	// 3. Serve
	// --------
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx); err != nil {
		log.Error("❌ Server stopped", "error", err)
		os.Exit(1)
	}

	log.Info("✅ Server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return config.Default(), nil
		}

		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return cfg, nil
}
