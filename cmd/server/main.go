package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hoanghai1803/inkboard/internal/ai"
	"github.com/hoanghai1803/inkboard/internal/api"
	"github.com/hoanghai1803/inkboard/internal/api/handlers"
	"github.com/hoanghai1803/inkboard/internal/config"
	"github.com/hoanghai1803/inkboard/internal/feeds"
	"github.com/hoanghai1803/inkboard/internal/generate"
	"github.com/hoanghai1803/inkboard/internal/storage"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	// Load configuration (auto-creates default if missing).
	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	slog.SetLogLoggerLevel(cfg.LogLevel())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := buildProviders(ctx, cfg)
	if err != nil {
		slog.Error("failed to create AI providers", "error", err)
		os.Exit(1)
	}

	// The audit log is optional. Handlers and generators expect a nil
	// interface, not a nil *Store, when it is off.
	var (
		recorder    generate.Recorder
		generations handlers.GenerationLog
	)
	if cfg.Storage.Enabled {
		store, err := openStore(cfg.Storage.Path)
		if err != nil {
			slog.Error("failed to open storage", "path", cfg.Storage.Path, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		recorder = store
		generations = store
		slog.Info("generation audit log enabled", "path", cfg.Storage.Path)
	} else {
		slog.Info("generation audit log disabled")
	}

	router := api.NewRouter(api.Deps{
		Palette:     generate.NewPalette(providers[config.RolePalette], recorder),
		Enhance:     generate.NewEnhance(providers[config.RoleEnhance], recorder),
		Design:      generate.NewDesign(providers[config.RoleLayout], providers[config.RoleSecondary], recorder),
		Blog:        generate.NewBlog(providers[config.RoleBlog], recorder),
		Feeds:       feeds.NewFetcher(cfg.Feeds.MaxItemsPerFeed),
		Generations: generations,
		Roles:       cfg.Roles(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", "http://"+cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}
}

// buildProviders creates one provider per role. Roles that share a provider
// share the instance. A provider without credentials is replaced by a
// placeholder whose calls fail, so the server still starts.
func buildProviders(ctx context.Context, cfg *config.Config) (map[string]ai.Provider, error) {
	byName := make(map[string]ai.Provider)
	byRole := make(map[string]ai.Provider)

	for role, name := range cfg.Roles() {
		p, ok := byName[name]
		if !ok {
			pc := cfg.ProviderConfig(name)
			if cfg.HasCredentials(name) {
				var err error
				p, err = ai.NewProvider(ctx, pc)
				if err != nil {
					return nil, err
				}
				slog.Info("AI provider configured", "provider", name, "model", pc.Model)
			} else {
				p = ai.NewUnconfigured(name, pc.Model)
			}
			byName[name] = p
		}
		byRole[role] = p
	}
	return byRole, nil
}

func openStore(path string) (*storage.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return storage.Open(path)
}
