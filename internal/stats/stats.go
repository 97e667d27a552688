// Package stats computes collection-wide statistics for the personal
// dashboard: totals, watch counts, rating average, top actresses and tags.
package stats

import (
	"fmt"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/rating"
)

type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Summary struct {
	TotalScenes    int         `json:"total_scenes"`
	RatedScenes    int         `json:"rated_scenes"`
	AverageRating  *float64    `json:"average_rating"`
	TotalDuration  int         `json:"total_duration"` // minutes
	WatchedScenes  int         `json:"watched_scenes"`
	TotalViews     int         `json:"total_views"`
	FavoriteScenes int         `json:"favorite_scenes"`
	TotalActresses int         `json:"total_actresses"`
	TopActresses   []NameCount `json:"top_actresses"`
	TopTags        []NameCount `json:"top_tags"`
}

type Service struct {
	db        *database.DB
	scenes    *database.SceneRepository
	favorites *database.FavoriteRepository
	history   *database.HistoryRepository
}

func NewService(db *database.DB, scenes *database.SceneRepository, favorites *database.FavoriteRepository, history *database.HistoryRepository) *Service {
	return &Service{db: db, scenes: scenes, favorites: favorites, history: history}
}

func (s *Service) Summary() (*Summary, error) {
	scenes, err := s.scenes.List()
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalScenes: len(scenes)}

	var scores []float64
	for _, scene := range scenes {
		summary.TotalDuration += scene.Duration
		if score, ok := rating.Parse(rating.TextOrAbsent(scene.PersonalRating)); ok {
			scores = append(scores, score)
		}
	}
	summary.RatedScenes = len(scores)
	if avg, ok := rating.Average(scores); ok {
		summary.AverageRating = &avg
	}

	if summary.WatchedScenes, err = s.history.Count(); err != nil {
		return nil, err
	}
	if summary.TotalViews, err = s.history.TotalViews(); err != nil {
		return nil, err
	}
	if summary.FavoriteScenes, err = s.favorites.Count(); err != nil {
		return nil, err
	}

	if err := s.db.Conn().QueryRow("SELECT COUNT(*) FROM actresses").Scan(&summary.TotalActresses); err != nil {
		return nil, fmt.Errorf("failed to count actresses: %w", err)
	}

	if summary.TopActresses, err = s.topCounts(`SELECT a.name, COUNT(sa.scene_id) AS n
		FROM actresses a
		JOIN scene_actresses sa ON sa.actress_id = a.id
		GROUP BY a.name ORDER BY n DESC, a.name LIMIT 5`); err != nil {
		return nil, err
	}
	if summary.TopTags, err = s.topCounts(`SELECT t.name, COUNT(st.scene_id) AS n
		FROM tags t
		JOIN scene_tags st ON st.tag_id = t.id
		GROUP BY t.name ORDER BY n DESC, t.name LIMIT 10`); err != nil {
		return nil, err
	}

	return summary, nil
}

func (s *Service) topCounts(query string) ([]NameCount, error) {
	rows, err := s.db.Conn().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query counts: %w", err)
	}
	defer rows.Close()

	var counts []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counts: %w", err)
	}
	return counts, nil
}
