package api

import (
	"log/slog"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/rating"
	"github.com/jmercier/scenedex/internal/scan"
	"github.com/jmercier/scenedex/internal/search"
	"github.com/jmercier/scenedex/internal/stats"
	"github.com/jmercier/scenedex/internal/storage"
)

// App bundles the dependencies the handlers need.
type App struct {
	DB        *database.DB
	Scenes    *database.SceneRepository
	Actresses *database.ActressRepository
	Tags      *database.TagRepository
	Favorites *database.FavoriteRepository
	History   *database.HistoryRepository
	Library   storage.Library
	Recompute *rating.Service
	Stats     *stats.Service
	Scanner   *scan.Scanner
	// Search is only set on the PostgreSQL path; nil means the LIKE
	// fallback in the scene repository handles queries.
	Search *search.Service
	Logger *slog.Logger
}
