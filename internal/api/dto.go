package api

import (
	"time"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
)

const dateLayout = "2006-01-02"

type sceneRequest struct {
	Path           string   `json:"path"`
	Title          string   `json:"title"`
	Synopsis       string   `json:"synopsis"`
	Duration       int      `json:"duration"`
	Quality        string   `json:"quality"`
	Site           string   `json:"site"`
	Studio         string   `json:"studio"`
	SceneDate      string   `json:"scene_date"`
	PersonalRating string   `json:"personal_rating"`
	Cover          string   `json:"cover"`
	Status         string   `json:"status"`
	Actresses      []string `json:"actresses"`
	Tags           []string `json:"tags"`
}

type sceneResponse struct {
	ID             string   `json:"id"`
	Path           string   `json:"path"`
	Title          string   `json:"title"`
	Synopsis       string   `json:"synopsis,omitempty"`
	Duration       int      `json:"duration,omitempty"`
	Quality        string   `json:"quality,omitempty"`
	Site           string   `json:"site,omitempty"`
	Studio         string   `json:"studio,omitempty"`
	AddedOn        *string  `json:"added_on"`
	SceneDate      *string  `json:"scene_date"`
	PersonalRating string   `json:"personal_rating,omitempty"`
	Cover          string   `json:"cover,omitempty"`
	Status         string   `json:"status,omitempty"`
	Actresses      []string `json:"actresses"`
	Tags           []string `json:"tags"`
}

type actressRequest struct {
	Name        string `json:"name"`
	Biography   string `json:"biography"`
	Photo       string `json:"photo"`
	Comment     string `json:"comment"`
	BirthDate   string `json:"birth_date"`
	Nationality string `json:"nationality"`
}

type actressResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Biography     string   `json:"biography,omitempty"`
	Photo         string   `json:"photo,omitempty"`
	TypicalTags   []string `json:"typical_tags"`
	AverageRating *float64 `json:"average_rating"`
	LastViewed    *string  `json:"last_viewed"`
	Comment       string   `json:"comment,omitempty"`
	BirthDate     *string  `json:"birth_date"`
	Nationality   string   `json:"nationality,omitempty"`
}

type favoriteResponse struct {
	ID      string `json:"id"`
	SceneID string `json:"scene_id"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	AddedOn string `json:"added_on"`
}

type historyResponse struct {
	ID             string   `json:"id"`
	SceneID        string   `json:"scene_id"`
	Title          string   `json:"title"`
	Path           string   `json:"path"`
	FirstViewed    string   `json:"first_viewed"`
	LastViewed     string   `json:"last_viewed"`
	ViewCount      int      `json:"view_count"`
	SessionRating  *float64 `json:"session_rating"`
	SessionComment string   `json:"session_comment,omitempty"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toSceneResponse(scene *models.Scene) sceneResponse {
	return sceneResponse{
		ID:             scene.ID,
		Path:           scene.Path,
		Title:          scene.Title,
		Synopsis:       scene.Synopsis,
		Duration:       scene.Duration,
		Quality:        scene.Quality,
		Site:           scene.Site,
		Studio:         scene.Studio,
		AddedOn:        formatDate(scene.AddedOn),
		SceneDate:      formatDate(scene.SceneDate),
		PersonalRating: scene.PersonalRating,
		Cover:          scene.Cover,
		Status:         scene.Status,
		Actresses:      scene.ActressIDs,
		Tags:           scene.Tags,
	}
}

func toActressResponse(actress *models.Actress) actressResponse {
	return actressResponse{
		ID:            actress.ID,
		Name:          actress.Name,
		Biography:     actress.Biography,
		Photo:         actress.Photo,
		TypicalTags:   actress.TypicalTags,
		AverageRating: actress.AverageRating,
		LastViewed:    formatDate(actress.LastViewed),
		Comment:       actress.Comment,
		BirthDate:     formatDate(actress.BirthDate),
		Nationality:   actress.Nationality,
	}
}

func toFavoriteResponse(f database.FavoriteScene) favoriteResponse {
	return favoriteResponse{
		ID:      f.ID,
		SceneID: f.SceneID,
		Title:   f.Title,
		Path:    f.Path,
		AddedOn: f.AddedOn.Format(dateLayout),
	}
}

func toHistoryResponse(e database.HistoryScene) historyResponse {
	return historyResponse{
		ID:             e.ID,
		SceneID:        e.SceneID,
		Title:          e.Title,
		Path:           e.Path,
		FirstViewed:    e.FirstViewed.Format(dateLayout),
		LastViewed:     e.LastViewed.Format(dateLayout),
		ViewCount:      e.ViewCount,
		SessionRating:  e.SessionRating,
		SessionComment: e.SessionComment,
	}
}
