package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jmercier/scenedex/internal/database"
)

type tagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (app *App) ListTagsHandler(w http.ResponseWriter, r *http.Request) {
	tags, err := app.Tags.List()
	if err != nil {
		app.Logger.Error("failed to list tags", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list tags")
		return
	}

	responses := make([]tagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, tagResponse{ID: t.ID, Name: t.Name})
	}
	app.respondJSON(w, http.StatusOK, responses)
}

func (app *App) ListFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	favorites, err := app.Favorites.List()
	if err != nil {
		app.Logger.Error("failed to list favorites", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	responses := make([]favoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		responses = append(responses, toFavoriteResponse(f))
	}
	app.respondJSON(w, http.StatusOK, responses)
}

func (app *App) AddFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID string `json:"scene_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := app.Scenes.GetByID(req.SceneID); err != nil {
		if errors.Is(err, database.ErrSceneNotFound) {
			app.respondError(w, http.StatusNotFound, "scene not found")
			return
		}
		app.Logger.Error("failed to load scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}

	fav, err := app.Favorites.Add(req.SceneID)
	if err != nil {
		app.Logger.Error("failed to add favorite", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to add favorite")
		return
	}

	app.respondJSON(w, http.StatusCreated, favoriteResponse{
		ID:      fav.ID,
		SceneID: fav.SceneID,
		AddedOn: fav.AddedOn.Format(dateLayout),
	})
}

func (app *App) RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := app.Favorites.Remove(id); err != nil {
		if errors.Is(err, database.ErrFavoriteNotFound) {
			app.respondError(w, http.StatusNotFound, "favorite not found")
			return
		}
		app.Logger.Error("failed to remove favorite", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to remove favorite")
		return
	}
	app.respondJSON(w, http.StatusNoContent, nil)
}

func (app *App) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := app.History.List()
	if err != nil {
		app.Logger.Error("failed to list history", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list history")
		return
	}

	responses := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, toHistoryResponse(e))
	}
	app.respondJSON(w, http.StatusOK, responses)
}

// RecordViewHandler registers a viewing of a scene: the history entry is
// upserted and the scene's actresses get their last-viewed date stamped.
func (app *App) RecordViewHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SceneID        string   `json:"scene_id"`
		SessionRating  *float64 `json:"session_rating"`
		SessionComment string   `json:"session_comment"`
	}
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	scene, err := app.Scenes.GetByID(req.SceneID)
	if err != nil {
		if errors.Is(err, database.ErrSceneNotFound) {
			app.respondError(w, http.StatusNotFound, "scene not found")
			return
		}
		app.Logger.Error("failed to load scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to load scene")
		return
	}

	now := time.Now()
	entry, err := app.History.RecordView(scene.ID, now, req.SessionRating, req.SessionComment)
	if err != nil {
		app.Logger.Error("failed to record view", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to record view")
		return
	}

	for _, actressID := range scene.ActressIDs {
		if err := app.Actresses.TouchLastViewed(actressID, now); err != nil {
			app.Logger.Error("failed to touch actress", "actress_id", actressID, "error", err)
		}
	}

	app.respondJSON(w, http.StatusOK, historyResponse{
		ID:             entry.ID,
		SceneID:        entry.SceneID,
		Title:          scene.Title,
		Path:           scene.Path,
		FirstViewed:    entry.FirstViewed.Format(dateLayout),
		LastViewed:     entry.LastViewed.Format(dateLayout),
		ViewCount:      entry.ViewCount,
		SessionRating:  entry.SessionRating,
		SessionComment: entry.SessionComment,
	})
}

func (app *App) StatsHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := app.Stats.Summary()
	if err != nil {
		app.Logger.Error("failed to compute stats", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	app.respondJSON(w, http.StatusOK, summary)
}
