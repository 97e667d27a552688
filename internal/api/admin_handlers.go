package api

import (
	"net/http"
)

type recomputeResponse struct {
	Recomputed int `json:"recomputed"`
}

// RecomputeAllHandler sweeps derived fields for every actress with at
// least one scene. With reset_stale=true, actresses that lost all their
// scenes get their stale derived fields cleared instead of keeping the
// last known values.
func (app *App) RecomputeAllHandler(w http.ResponseWriter, r *http.Request) {
	resetStale := r.URL.Query().Get("reset_stale") == "true"

	n, err := app.Recompute.RecomputeAll(resetStale)
	if err != nil {
		app.Logger.Error("recompute sweep failed", "error", err)
		app.respondError(w, http.StatusInternalServerError, "recompute sweep failed")
		return
	}

	app.Logger.Info("recompute sweep finished", "actresses", n, "reset_stale", resetStale)
	app.respondJSON(w, http.StatusOK, recomputeResponse{Recomputed: n})
}

type scanResponse struct {
	Total       int      `json:"total"`
	Uncataloged []string `json:"uncataloged"`
	Missing     []string `json:"missing"`
}

// ScanLibraryHandler diffs the on-disk library against cataloged paths.
func (app *App) ScanLibraryHandler(w http.ResponseWriter, r *http.Request) {
	paths, err := app.Scenes.ListPaths()
	if err != nil {
		app.Logger.Error("failed to list scene paths", "error", err)
		app.respondError(w, http.StatusInternalServerError, "failed to list scene paths")
		return
	}

	report, err := app.Scanner.Diff(paths)
	if err != nil {
		app.Logger.Error("library scan failed", "error", err)
		app.respondError(w, http.StatusInternalServerError, "library scan failed")
		return
	}

	app.respondJSON(w, http.StatusOK, scanResponse{
		Total:       report.Total,
		Uncataloged: report.Uncataloged,
		Missing:     report.Missing,
	})
}
