// Command importreviews loads reviews_*.json exports into the SQLite review
// store used by greedyreview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/greedyreview/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/greedyreview/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/greedyreview/internal/config"
	"github.com/ericfisherdev/greedyreview/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dataDir := flag.String("dir", cfg.DataDir, "directory holding reviews_*.json exports")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database to import into")
	category := flag.String("category", "", "import only reviews_<category>.json exports")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reviews, err := loadReviews(*dataDir, *category)
	if err != nil {
		return err
	}
	slog.Info("exports loaded",
		"dir", *dataDir,
		"category", *category,
		"reviews", len(reviews),
		"derived_ids", countDerivedIDs(reviews),
	)

	db, err := sqliteadapter.NewDB(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("reviews schema ready", "version", version)

	repo := sqliteadapter.NewReviewRepo(db)
	if err := repo.UpsertReviews(ctx, reviews); err != nil {
		return fmt.Errorf("import into %s: %w", *dbPath, err)
	}

	total, err := repo.CountReviews(ctx)
	if err != nil {
		return err
	}
	slog.Info("import complete", "db_path", *dbPath, "imported", len(reviews), "total", total)
	return nil
}

func loadReviews(dir, category string) ([]model.Review, error) {
	if category != "" {
		return jsonfile.LoadCategory(dir, category)
	}
	return jsonfile.LoadDir(dir)
}

// countDerivedIDs counts records whose export carried no comment_id.
func countDerivedIDs(reviews []model.Review) int {
	n := 0
	for _, r := range reviews {
		if jsonfile.HasDerivedID(r) {
			n++
		}
	}
	return n
}
