package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/jmercier/scenedex/internal/api"
	"github.com/jmercier/scenedex/internal/config"
	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/rating"
	"github.com/jmercier/scenedex/internal/scan"
	"github.com/jmercier/scenedex/internal/search"
	"github.com/jmercier/scenedex/internal/stats"
	"github.com/jmercier/scenedex/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	library, err := storage.NewLocalLibrary(cfg.LibraryRoot, cfg.CoverDir)
	if err != nil {
		logger.Error("failed to initialize library storage", "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(database.Config{
		Type:       cfg.Database.Type,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		Name:       cfg.Database.Name,
		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if db.Type() == "postgres" {
		logger.Info("running database migrations", "path", cfg.MigrationsPath)
		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	scenes := database.NewSceneRepository(db)
	actresses := database.NewActressRepository(db)
	tags := database.NewTagRepository(db)
	favorites := database.NewFavoriteRepository(db)
	history := database.NewHistoryRepository(db)

	app := &api.App{
		DB:        db,
		Scenes:    scenes,
		Actresses: actresses,
		Tags:      tags,
		Favorites: favorites,
		History:   history,
		Library:   library,
		Recompute: rating.NewService(database.NewAggregateStore(db), logger, rating.Config{}),
		Stats:     stats.NewService(db, scenes, favorites, history),
		Scanner:   scan.NewScanner(cfg.LibraryRoot),
		Logger:    logger,
	}

	// Full-text search needs the tsvector column from the migrations, so
	// SQLite deployments fall back to LIKE matching in the scene repo.
	if db.Type() == "postgres" {
		app.Search = search.NewService(db.Conn())
	}

	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr, "db", db.Type(), "library", cfg.LibraryRoot)
	if err := http.ListenAndServe(addr, api.NewRouter(app)); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
