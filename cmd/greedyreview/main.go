package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/greedyreview/internal/adapter/driven/github"
	"github.com/ericfisherdev/greedyreview/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/greedyreview/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/greedyreview/internal/adapter/driven/supabase"
	httphandler "github.com/ericfisherdev/greedyreview/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/greedyreview/internal/adapter/driving/web"
	"github.com/ericfisherdev/greedyreview/internal/application"
	"github.com/ericfisherdev/greedyreview/internal/config"
	"github.com/ericfisherdev/greedyreview/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"data_source", cfg.DataSource,
		"page_size", cfg.PageSize,
		"stats_min_count", cfg.StatsMinCount,
		"stats_limit", cfg.StatsLimit,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Load taxonomy and repository catalog.
	taxonomy, err := config.LoadTaxonomy(cfg.TaxonomyPath)
	if err != nil {
		return err
	}
	repositories, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	slog.Info("taxonomy loaded", "categories", len(taxonomy.Categories), "repositories", len(repositories))

	// 4. Open the review store for the configured data source.
	reviewStore, closeStore, err := openReviewStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 5. Create services.
	threadSvc := application.NewThreadService(reviewStore, slog.Default())
	statsSvc := application.NewStatsService(reviewStore, taxonomy, cfg.StatsMinCount, cfg.StatsLimit, slog.Default())

	// 6. Start collection when the store is writable and a token is configured.
	var collectSvc *application.CollectService
	switch {
	case cfg.DataSource != config.DataSourceSQLite:
		slog.Info("collection disabled, data source is read-only", "data_source", cfg.DataSource)
	case !cfg.HasGitHubCredentials():
		slog.Info("no github token configured, collection disabled")
	default:
		ghClient := githubadapter.NewClient(cfg.GitHubToken)
		collectSvc = application.NewCollectService(ghClient, reviewStore, repositories, cfg.CollectInterval)
		go collectSvc.Start(ctx)
	}

	// 7. Register API and GUI routes.
	apiHandler := httphandler.NewHandler(threadSvc, statsSvc, collectSvc, reviewStore, repositories, cfg.PageSize, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(threadSvc, statsSvc, repositories, cfg.PageSize, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	// Apply middleware.
	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("greedyreview started",
		"listen_addr", cfg.ListenAddr,
		"collecting", collectSvc != nil,
		"collect_interval", cfg.CollectInterval,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// openReviewStore builds the ReviewStore for cfg.DataSource. The returned
// close function is always safe to call.
func openReviewStore(ctx context.Context, cfg *config.Config) (driven.ReviewStore, func(), error) {
	switch cfg.DataSource {
	case config.DataSourceSupabase:
		slog.Info("using supabase review store", "url", cfg.SupabaseURL)
		return supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey), func() {}, nil

	case config.DataSourceJSON:
		store, err := jsonfile.OpenDir(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open review exports: %w", err)
		}
		slog.Info("using json review exports", "dir", cfg.DataDir)
		return store, func() {}, nil
	}

	// Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}
	slog.Info("database opened", "path", cfg.DBPath)

	// Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	slog.Info("migrations complete", "schema_version", version)

	return sqliteadapter.NewReviewRepo(db), closeDB, nil
}
