// Entry point for the skrybl core service: wires the session, evaluators,
// renderers and stores behind the local HTTP API the UI shell talks to.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/skrybl/skrybl/api"
	"github.com/skrybl/skrybl/compute"
	"github.com/skrybl/skrybl/diagram"
	"github.com/skrybl/skrybl/export"
	"github.com/skrybl/skrybl/graph"
	"github.com/skrybl/skrybl/handwrite"
	"github.com/skrybl/skrybl/headless"
	"github.com/skrybl/skrybl/importer"
	"github.com/skrybl/skrybl/session"
	"github.com/skrybl/skrybl/store"
)

// fileConfig is the optional on-disk configuration; every field has an
// environment override and a sane default.
type fileConfig struct {
	Port        string `yaml:"port"`
	DataDir     string `yaml:"data_dir"`
	SymbolicURL string `yaml:"symbolic_url"`
	ChromeURL   string `yaml:"chrome_url"`
	LogLevel    string `yaml:"log_level"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	cfg, err := loadConfig(env("CONFIG", "skrybl.yaml"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	port := env("PORT", fallback(cfg.Port, "8490"))
	symbolicURL := env("SYMBOLIC_URL", fallback(cfg.SymbolicURL, "http://127.0.0.1:8491/evaluate"))
	chromeURL := env("CHROME_URL", cfg.ChromeURL)
	logLevel := env("LOG_LEVEL", fallback(cfg.LogLevel, "info"))

	dataDir := env("DATA_DIR", cfg.DataDir)
	if dataDir == "" {
		dataDir, err = store.DefaultDataDir()
		if err != nil {
			slog.Error("data dir", "error", err)
			os.Exit(1)
		}
	}

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Stores.
	prefs, err := store.OpenPrefs(filepath.Join(dataDir, "prefs.db"))
	if err != nil {
		slog.Error("prefs db", "error", err)
		os.Exit(1)
	}
	defer prefs.Close()
	recents := store.NewRecents(filepath.Join(dataDir, "recents.json"), logger)

	// Evaluators.
	numeric := compute.NewNumeric()
	symbolic := compute.NewSymbolic(symbolicURL, nil)

	// Session.
	sess := session.New(session.Config{
		Numeric:  numeric,
		Symbolic: symbolic,
		Recents:  recents,
		Prefs:    prefs,
		Logger:   logger,
	})
	defer func() {
		if err := sess.Close(); err != nil {
			slog.Error("session close", "error", err)
		}
	}()

	// Headless Chrome for PDF and diagram rendering; launched lazily on
	// first use so startup never waits on Chrome.
	browser := headless.New(headless.Config{RemoteURL: chromeURL, Logger: logger})
	defer browser.Close()

	srv := api.New(api.Config{
		Session:   sess,
		Numeric:   numeric,
		Symbolic:  symbolic,
		Graphs:    graph.New(graph.Config{Logger: logger}),
		PDF:       export.NewPDFRenderer(export.PDFConfig{Browser: browser, Logger: logger}),
		Diagrams:  diagram.New(browser, logger),
		Importer:  importer.New(),
		Handwrite: handwrite.NewFromPrefs(prefs, nil, logger),
		Recents:   recents,
		Prefs:     prefs,
		Logger:    logger,
	})

	httpSrv := &http.Server{
		Addr:              "127.0.0.1:" + port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func fallback(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
