// Package search provides full-text scene search on the PostgreSQL path.
// The SQLite path falls back to the scene repository's LIKE search.
package search

import (
	"database/sql"
	"fmt"

	"github.com/jmercier/scenedex/internal/models"
)

type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Scenes ranks scenes against the query using the search_vector column
// maintained by the 001_init migration.
func (s *Service) Scenes(query string) ([]models.Scene, error) {
	if query == "" {
		return []models.Scene{}, nil
	}

	stmt := `
		SELECT id, path, title, synopsis, duration, quality, site, studio,
			added_on, scene_date, personal_rating, cover, status
		FROM scenes
		WHERE search_vector @@ plainto_tsquery('french', $1)
		ORDER BY ts_rank(search_vector, plainto_tsquery('french', $1)) DESC
		LIMIT 50
	`

	rows, err := s.db.Query(stmt, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search scenes: %w", err)
	}
	defer rows.Close()

	var scenes []models.Scene
	for rows.Next() {
		var sc models.Scene
		var title, synopsis, quality, site, studio sql.NullString
		var duration sql.NullInt64
		var addedOn, sceneDate, personalRating, cover, status sql.NullString
		err := rows.Scan(&sc.ID, &sc.Path, &title, &synopsis, &duration,
			&quality, &site, &studio, &addedOn, &sceneDate,
			&personalRating, &cover, &status)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		sc.Title = title.String
		sc.Synopsis = synopsis.String
		sc.Duration = int(duration.Int64)
		sc.Quality = quality.String
		sc.Site = site.String
		sc.Studio = studio.String
		sc.PersonalRating = personalRating.String
		sc.Cover = cover.String
		sc.Status = status.String
		scenes = append(scenes, sc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return scenes, nil
}
