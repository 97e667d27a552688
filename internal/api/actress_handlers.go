package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
)

func (app *App) ListActressesHandler(w http.ResponseWriter, r *http.Request) {
	actresses, err := app.Actresses.List()
	if err != nil {
		app.Logger.Error("failed to list actresses", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list actresses")
		return
	}

	responses := make([]actressResponse, 0, len(actresses))
	for i := range actresses {
		responses = append(responses, toActressResponse(&actresses[i]))
	}
	app.respondJSON(w, http.StatusOK, responses)
}

func (app *App) GetActressHandler(w http.ResponseWriter, r *http.Request) {
	actress, ok := app.actressFromURL(w, r)
	if !ok {
		return
	}
	app.respondJSON(w, http.StatusOK, toActressResponse(actress))
}

func (app *App) CreateActressHandler(w http.ResponseWriter, r *http.Request) {
	var req actressRequest
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		app.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	actress := models.NewActress(req.Name)
	if err := applyActressRequest(actress, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Actresses.Insert(actress); err != nil {
		app.Logger.Error("failed to create actress", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to create actress")
		return
	}
	app.respondJSON(w, http.StatusCreated, toActressResponse(actress))
}

// UpdateActressHandler edits profile fields only. Average rating and
// typical tags are derived and cannot be set through the API.
func (app *App) UpdateActressHandler(w http.ResponseWriter, r *http.Request) {
	actress, ok := app.actressFromURL(w, r)
	if !ok {
		return
	}

	var req actressRequest
	if err := decodeJSON(r, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		app.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	actress.Name = req.Name
	if err := applyActressRequest(actress, &req); err != nil {
		app.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := app.Actresses.Update(actress); err != nil {
		if errors.Is(err, database.ErrActressNotFound) {
			app.respondError(w, http.StatusNotFound, "actress not found")
			return
		}
		app.Logger.Error("failed to update actress", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to update actress")
		return
	}
	app.respondJSON(w, http.StatusOK, toActressResponse(actress))
}

func (app *App) DeleteActressHandler(w http.ResponseWriter, r *http.Request) {
	actress, ok := app.actressFromURL(w, r)
	if !ok {
		return
	}

	if err := app.Actresses.Delete(actress.ID); err != nil {
		app.Logger.Error("failed to delete actress", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to delete actress")
		return
	}
	app.respondJSON(w, http.StatusNoContent, nil)
}

func (app *App) actressFromURL(w http.ResponseWriter, r *http.Request) (*models.Actress, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		app.respondError(w, http.StatusBadRequest, "missing actress id")
		return nil, false
	}

	actress, err := app.Actresses.GetByID(id)
	if err != nil {
		if errors.Is(err, database.ErrActressNotFound) {
			app.respondError(w, http.StatusNotFound, "actress not found")
			return nil, false
		}
		app.Logger.Error("failed to load actress", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to load actress")
		return nil, false
	}
	return actress, true
}

func applyActressRequest(actress *models.Actress, req *actressRequest) error {
	actress.Biography = req.Biography
	actress.Photo = req.Photo
	actress.Comment = req.Comment
	actress.Nationality = req.Nationality

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return errors.New("invalid birth_date, expected YYYY-MM-DD")
	}
	actress.BirthDate = birthDate
	return nil
}
