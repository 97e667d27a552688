// Command import loads a legacy JSON export (actresses, scene metadata,
// favorites and viewing history) into the database, then recomputes the
// derived actress fields.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"

	"github.com/jmercier/scenedex/internal/config"
	"github.com/jmercier/scenedex/internal/database"
	"github.com/jmercier/scenedex/internal/models"
	"github.com/jmercier/scenedex/internal/rating"
)

// The legacy export uses French field names. Its note_moyenne and
// tags_typiques are ignored: both are derived and recomputed after the
// import.
type legacyActress struct {
	Name       string `json:"nom"`
	Photo      string `json:"photo"`
	LastViewed string `json:"derniere_vue"`
	Comment    string `json:"commentaire"`
}

type legacyScene struct {
	Path           string   `json:"chemin"`
	Title          string   `json:"titre"`
	Synopsis       string   `json:"synopsis"`
	Duration       int      `json:"duree"`
	Quality        string   `json:"qualite"`
	Site           string   `json:"site"`
	Studio         string   `json:"studio"`
	AddedOn        string   `json:"date_ajout"`
	SceneDate      string   `json:"date_scene"`
	PersonalRating string   `json:"note_perso"`
	Actresses      []string `json:"actrices"`
	Tags           []string `json:"tags"`
}

var dateFormats = []string{"2006-01-02", "2006/01/02", "02/01/2006"}

// parseDateSafe tries the known legacy date formats; unparseable or
// empty values import as null.
func parseDateSafe(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func main() {
	dir := flag.String("dir", "./legacy", "Directory holding the legacy JSON export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewDB(database.Config{
		Type:       cfg.Database.Type,
		Host:       cfg.Database.Host,
		Port:       cfg.Database.Port,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		Name:       cfg.Database.Name,
		SQLitePath: cfg.Database.SQLitePath,
	})
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	imp := importer{
		scenes:    database.NewSceneRepository(db),
		actresses: database.NewActressRepository(db),
		favorites: database.NewFavoriteRepository(db),
		history:   database.NewHistoryRepository(db),
	}

	if err := imp.run(*dir); err != nil {
		slog.Error("import failed", "error", err)
		os.Exit(1)
	}

	fmt.Println("Recomputing derived actress fields...")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	svc := rating.NewService(database.NewAggregateStore(db), logger, rating.Config{})
	n, err := svc.RecomputeAll(true)
	if err != nil {
		slog.Error("recompute failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Recomputed %d actresses. Import complete.\n", n)
}

type importer struct {
	scenes    *database.SceneRepository
	actresses *database.ActressRepository
	favorites *database.FavoriteRepository
	history   *database.HistoryRepository
}

func (imp *importer) run(dir string) error {
	actressIDs, err := imp.importActresses(filepath.Join(dir, "actrices.json"))
	if err != nil {
		return fmt.Errorf("importing actresses: %w", err)
	}

	sceneIDs, err := imp.importScenes(filepath.Join(dir, "scenes_metadata.json"), actressIDs)
	if err != nil {
		return fmt.Errorf("importing scenes: %w", err)
	}

	// Favorites and history are optional in the export.
	if err := imp.importFavorites(filepath.Join(dir, "favorites.json"), sceneIDs); err != nil {
		return fmt.Errorf("importing favorites: %w", err)
	}
	if err := imp.importHistory(filepath.Join(dir, "history.json"), sceneIDs); err != nil {
		return fmt.Errorf("importing history: %w", err)
	}
	return nil
}

// importActresses returns a name -> id map covering both imported and
// pre-existing actresses.
func (imp *importer) importActresses(path string) (map[string]string, error) {
	var entries []legacyActress
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}

	bar := newBar(len(entries), "Importing actresses", "actresses")
	ids := make(map[string]string, len(entries))
	for _, entry := range entries {
		bar.Add(1)
		if entry.Name == "" {
			continue
		}

		existing, err := imp.actresses.GetByName(entry.Name)
		if err == nil {
			ids[entry.Name] = existing.ID
			continue
		}
		if !errors.Is(err, database.ErrActressNotFound) {
			return nil, err
		}

		actress := models.NewActress(entry.Name)
		actress.Photo = entry.Photo
		actress.Comment = entry.Comment
		actress.LastViewed = parseDateSafe(entry.LastViewed)
		if err := imp.actresses.Insert(actress); err != nil {
			return nil, err
		}
		ids[entry.Name] = actress.ID
	}
	fmt.Println()
	return ids, nil
}

func (imp *importer) importScenes(path string, actressIDs map[string]string) (map[string]string, error) {
	var entries []legacyScene
	if err := readJSON(path, &entries); err != nil {
		return nil, err
	}

	bar := newBar(len(entries), "Importing scenes", "scenes")
	ids := make(map[string]string, len(entries))
	for _, entry := range entries {
		bar.Add(1)
		if entry.Path == "" {
			continue
		}

		existing, err := imp.scenes.GetByPath(entry.Path)
		if err == nil {
			ids[entry.Path] = existing.ID
			continue
		}
		if !errors.Is(err, database.ErrSceneNotFound) {
			return nil, err
		}

		scene := models.NewScene(entry.Path, entry.Title)
		scene.Synopsis = entry.Synopsis
		scene.Duration = entry.Duration
		scene.Quality = entry.Quality
		scene.Site = entry.Site
		scene.Studio = entry.Studio
		scene.PersonalRating = entry.PersonalRating
		if added := parseDateSafe(entry.AddedOn); added != nil {
			scene.AddedOn = added
		}
		scene.SceneDate = parseDateSafe(entry.SceneDate)
		scene.Tags = entry.Tags
		for _, name := range entry.Actresses {
			if id, ok := actressIDs[name]; ok {
				scene.ActressIDs = append(scene.ActressIDs, id)
			}
		}

		if err := imp.scenes.Insert(scene); err != nil {
			return nil, err
		}
		ids[entry.Path] = scene.ID
	}
	fmt.Println()
	return ids, nil
}

// importFavorites reads a plain array of scene paths. Unknown paths are
// skipped, matching the legacy importer.
func (imp *importer) importFavorites(path string, sceneIDs map[string]string) error {
	var paths []string
	if err := readJSON(path, &paths); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	count := 0
	for _, p := range paths {
		id, ok := sceneIDs[p]
		if !ok {
			continue
		}
		if _, err := imp.favorites.Add(id); err != nil {
			return err
		}
		count++
	}
	fmt.Printf("Imported %d favorites.\n", count)
	return nil
}

func (imp *importer) importHistory(path string, sceneIDs map[string]string) error {
	var paths []string
	if err := readJSON(path, &paths); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	now := time.Now()
	count := 0
	for _, p := range paths {
		id, ok := sceneIDs[p]
		if !ok {
			continue
		}
		if _, err := imp.history.RecordView(id, now, nil, ""); err != nil {
			return err
		}
		count++
	}
	fmt.Printf("Imported %d history entries.\n", count)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func newBar(total int, description, unit string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
	)
}
