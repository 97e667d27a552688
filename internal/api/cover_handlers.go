package api

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

const maxCoverSize = 10 << 20 // 10MB

// UploadCoverHandler attaches a cover image to a scene.
func (app *App) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	scene, ok := app.sceneFromURL(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize)
	if err := r.ParseMultipartForm(maxCoverSize); err != nil {
		app.respondError(w, http.StatusBadRequest, "cover too large")
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		app.respondError(w, http.StatusBadRequest, "failed to get cover file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		app.respondError(w, http.StatusBadRequest, "only image files are allowed")
		return
	}

	name, err := app.Library.SaveCover(file, header.Filename)
	if err != nil {
		app.Logger.Error("failed to save cover", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to save cover")
		return
	}

	previous := scene.Cover
	scene.Cover = name
	if err := app.Scenes.Update(scene); err != nil {
		app.Library.DeleteCover(name)
		app.Logger.Error("failed to update scene cover", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to update scene")
		return
	}
	if previous != "" {
		if err := app.Library.DeleteCover(previous); err != nil {
			app.Logger.Warn("failed to delete old cover", "cover", previous, "error", err)
		}
	}

	app.respondJSON(w, http.StatusOK, toSceneResponse(scene))
}

func (app *App) ServeCoverHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		app.respondError(w, http.StatusBadRequest, "missing cover name")
		return
	}

	file, err := app.Library.OpenCover(name)
	if err != nil {
		app.respondError(w, http.StatusNotFound, "cover not found")
		return
	}
	defer file.Close()

	stat, err := file.(interface{ Stat() (os.FileInfo, error) }).Stat()
	if err != nil {
		app.respondError(w, http.StatusInternalServerError, "error accessing cover")
		return
	}

	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	http.ServeContent(w, r, name, stat.ModTime(), file)
}
