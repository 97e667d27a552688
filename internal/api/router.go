package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/scenes", func(r chi.Router) {
			r.Get("/", app.ListScenesHandler)
			r.Post("/", app.CreateSceneHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetSceneHandler)
				r.Put("/", app.UpdateSceneHandler)
				r.Delete("/", app.DeleteSceneHandler)
				r.Get("/stream", app.StreamSceneHandler)
				r.Post("/cover", app.UploadCoverHandler)
			})
		})

		r.Route("/actresses", func(r chi.Router) {
			r.Get("/", app.ListActressesHandler)
			r.Post("/", app.CreateActressHandler)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.GetActressHandler)
				r.Put("/", app.UpdateActressHandler)
				r.Delete("/", app.DeleteActressHandler)
			})
		})

		r.Get("/tags", app.ListTagsHandler)

		r.Get("/favorites", app.ListFavoritesHandler)
		r.Post("/favorites", app.AddFavoriteHandler)
		r.Delete("/favorites/{id}", app.RemoveFavoriteHandler)

		r.Get("/history", app.ListHistoryHandler)
		r.Post("/history", app.RecordViewHandler)

		r.Get("/stats", app.StatsHandler)

		r.Get("/covers/{name}", app.ServeCoverHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/recompute", app.RecomputeAllHandler)
			r.Get("/scan", app.ScanLibraryHandler)
		})
	})

	return r
}

func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
