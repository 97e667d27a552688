package api

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
)

func (app *App) ListScenesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var scenes []models.Scene
	var err error
	if query != "" && app.Search != nil {
		scenes, err = app.Search.Scenes(query)
	} else {
		scenes, err = app.Scenes.Search(query)
	}
	if err != nil {
		app.Logger.Error("failed to list scenes", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}

	responses := make([]sceneResponse, 0, len(scenes))
	for i := range scenes {
		responses = append(responses, toSceneResponse(&scenes[i]))
	}
	app.respondJSON(w, http.StatusOK, responses)
}

func (app *App) GetSceneHandler(w http.ResponseWriter, r *http.Request) {
	scene, ok := app.sceneFromURL(w, r)
	if !ok {
		return
	}
	app.respondJSON(w, http.StatusOK, toSceneResponse(scene))
}

func (app *App) CreateSceneHandler(w http.ResponseWriter, r *http.Request) {
	var req sceneRequest
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		app.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	scene := models.NewScene(req.Path, req.Title)
	if err := app.applySceneRequest(scene, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Scenes.Insert(scene); err != nil {
		app.Logger.Error("failed to create scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to create scene")
		return
	}

	app.recomputeActresses(scene.ActressIDs)
	app.respondJSON(w, http.StatusCreated, toSceneResponse(scene))
}

func (app *App) UpdateSceneHandler(w http.ResponseWriter, r *http.Request) {
	scene, ok := app.sceneFromURL(w, r)
	if !ok {
		return
	}

	var req sceneRequest
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Path == "" {
		app.respondError(w, http.StatusBadRequest, "path is required")
		return
	}

	previousActresses := scene.ActressIDs

	scene.Path = req.Path
	scene.Title = req.Title
	scene.ActressIDs = nil
	scene.Tags = nil
	if err := app.applySceneRequest(scene, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Scenes.Update(scene); err != nil {
		if errors.Is(err, database.ErrSceneNotFound) {
			app.respondError(w, http.StatusNotFound, "scene not found")
			return
		}
		app.Logger.Error("failed to update scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to update scene")
		return
	}

	// Recompute the union of old and new associations so actresses
	// removed from the scene are refreshed too.
	app.recomputeActresses(unionIDs(previousActresses, scene.ActressIDs))
	app.respondJSON(w, http.StatusOK, toSceneResponse(scene))
}

func (app *App) DeleteSceneHandler(w http.ResponseWriter, r *http.Request) {
	scene, ok := app.sceneFromURL(w, r)
	if !ok {
		return
	}

	if err := app.Scenes.Delete(scene.ID); err != nil {
		app.Logger.Error("failed to delete scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to delete scene")
		return
	}

	app.recomputeActresses(scene.ActressIDs)
	app.respondJSON(w, http.StatusNoContent, nil)
}

func (app *App) StreamSceneHandler(w http.ResponseWriter, r *http.Request) {
	scene, ok := app.sceneFromURL(w, r)
	if !ok {
		return
	}

	file, err := app.Library.OpenVideo(scene.Path)
	if err != nil {
		app.respondError(w, http.StatusNotFound, "video file not found")
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		app.respondError(w, http.StatusInternalServerError, "error accessing video file")
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(scene.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)

	// ServeContent handles Range requests, Accept-Ranges and 206s.
	http.ServeContent(w, r, filepath.Base(scene.Path), stat.ModTime(), file)
}

func (app *App) sceneFromURL(w http.ResponseWriter, r *http.Request) (*models.Scene, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		app.respondError(w, http.StatusBadRequest, "missing scene id")
		return nil, false
	}

	scene, err := app.Scenes.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrSceneNotFound) {
			app.respondError(w, http.StatusNotFound, "scene not found")
			return nil, false
		}
		app.Logger.Error("failed to load scene", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to load scene")
		return nil, false
	}
	return scene, true
}

func (app *App) applySceneRequest(scene *models.Scene, req *sceneRequest) error {
	scene.Synopsis = req.Synopsis
	scene.Duration = req.Duration
	scene.Quality = req.Quality
	scene.Site = req.Site
	scene.Studio = req.Studio
	scene.PersonalRating = req.PersonalRating
	scene.Cover = req.Cover
	if req.Status != "" {
		scene.Status = req.Status
	}

	sceneDate, err := parseDate(req.SceneDate)
	if err != nil {
		return errors.New("invalid scene_date, expected YYYY-MM-DD")
	}
	scene.SceneDate = sceneDate

	for _, actressID := range req.Actresses {
		if _, err := app.Actresses.GetByID(actressID); err != nil {
			if errors.Is(err, database.ErrActressNotFound) {
				return errors.New("unknown actress: " + actressID)
			}
			return err
		}
	}
	scene.ActressIDs = req.Actresses
	scene.Tags = req.Tags
	return nil
}

// recomputeActresses refreshes derived fields for every given actress.
// Failures are logged and do not fail the request that triggered them.
func (app *App) recomputeActresses(actressIDs []string) {
	for _, id := range actressIDs {
		if _, err := app.Recompute.Recompute(id); err != nil {
			app.Logger.Error("failed to recompute actress", "actress_id", id, "error", err)
		}
	}
}

func unionIDs(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var union []string
	for _, id := range append(append([]string{}, a...), b...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		union = append(union, id)
	}
	return union
}
