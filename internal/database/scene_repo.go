package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmercier/scenedex/internal/models"
)

var ErrSceneNotFound = errors.New("scene not found")

const sceneColumns = `id, path, title, synopsis, duration, quality, site, studio,
	added_on, scene_date, personal_rating, cover, status`

type SceneRepository struct {
	db *DB
}

func NewSceneRepository(db *DB) *SceneRepository {
	return &SceneRepository{db: db}
}

func (r *SceneRepository) Insert(scene *models.Scene) error {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.rebind(`INSERT INTO scenes (` + sceneColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = tx.Exec(query,
		scene.ID, scene.Path, scene.Title, scene.Synopsis, scene.Duration,
		scene.Quality, scene.Site, scene.Studio,
		dateArg(scene.AddedOn), dateArg(scene.SceneDate),
		scene.PersonalRating, scene.Cover, scene.Status)
	if err != nil {
		return fmt.Errorf("failed to insert scene: %w", err)
	}

	if err := r.writeAssociations(tx, scene); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scene insert: %w", err)
	}
	return nil
}

func (r *SceneRepository) Update(scene *models.Scene) error {
	tx, err := r.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.rebind(`UPDATE scenes SET path = ?, title = ?, synopsis = ?,
		duration = ?, quality = ?, site = ?, studio = ?, added_on = ?,
		scene_date = ?, personal_rating = ?, cover = ?, status = ?
		WHERE id = ?`)
	res, err := tx.Exec(query,
		scene.Path, scene.Title, scene.Synopsis, scene.Duration,
		scene.Quality, scene.Site, scene.Studio,
		dateArg(scene.AddedOn), dateArg(scene.SceneDate),
		scene.PersonalRating, scene.Cover, scene.Status, scene.ID)
	if err != nil {
		return fmt.Errorf("failed to update scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSceneNotFound
	}

	if _, err := tx.Exec(r.db.rebind("DELETE FROM scene_actresses WHERE scene_id = ?"), scene.ID); err != nil {
		return fmt.Errorf("failed to clear scene actresses: %w", err)
	}
	if _, err := tx.Exec(r.db.rebind("DELETE FROM scene_tags WHERE scene_id = ?"), scene.ID); err != nil {
		return fmt.Errorf("failed to clear scene tags: %w", err)
	}
	if err := r.writeAssociations(tx, scene); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scene update: %w", err)
	}
	return nil
}

func (r *SceneRepository) writeAssociations(tx *sql.Tx, scene *models.Scene) error {
	seen := make(map[string]struct{}, len(scene.ActressIDs))
	for _, actressID := range scene.ActressIDs {
		if _, ok := seen[actressID]; ok {
			continue
		}
		seen[actressID] = struct{}{}
		query := r.db.rebind("INSERT INTO scene_actresses (scene_id, actress_id) VALUES (?, ?)")
		if _, err := tx.Exec(query, scene.ID, actressID); err != nil {
			return fmt.Errorf("failed to link actress %s: %w", actressID, err)
		}
	}

	// Names that normalize to the same tag link once.
	linked := make(map[string]struct{}, len(scene.Tags))
	for _, name := range scene.Tags {
		tagID, err := r.getOrCreateTag(tx, name)
		if err != nil {
			return err
		}
		if tagID == "" {
			continue
		}
		if _, ok := linked[tagID]; ok {
			continue
		}
		linked[tagID] = struct{}{}
		query := r.db.rebind("INSERT INTO scene_tags (scene_id, tag_id) VALUES (?, ?)")
		if _, err := tx.Exec(query, scene.ID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %s: %w", name, err)
		}
	}
	return nil
}

// getOrCreateTag resolves a tag by its normalized name, creating the row
// on first use. Blank names resolve to nothing.
func (r *SceneRepository) getOrCreateTag(tx *sql.Tx, name string) (string, error) {
	normalized := models.NormalizeTagName(name)
	if normalized == "" {
		return "", nil
	}

	var id string
	err := tx.QueryRow(r.db.rebind("SELECT id FROM tags WHERE name = ?"), normalized).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to look up tag %s: %w", normalized, err)
	}

	tag := models.NewTag(normalized)
	if _, err := tx.Exec(r.db.rebind("INSERT INTO tags (id, name) VALUES (?, ?)"), tag.ID, tag.Name); err != nil {
		return "", fmt.Errorf("failed to create tag %s: %w", normalized, err)
	}
	return tag.ID, nil
}

func (r *SceneRepository) GetByID(id string) (*models.Scene, error) {
	query := r.db.rebind("SELECT " + sceneColumns + " FROM scenes WHERE id = ?")
	scene, err := r.scanScene(r.db.conn.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to get scene: %w", err)
	}

	if err := r.loadAssociations(scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (r *SceneRepository) GetByPath(path string) (*models.Scene, error) {
	query := r.db.rebind("SELECT " + sceneColumns + " FROM scenes WHERE path = ?")
	scene, err := r.scanScene(r.db.conn.QueryRow(query, path))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSceneNotFound
		}
		return nil, fmt.Errorf("failed to get scene: %w", err)
	}

	if err := r.loadAssociations(scene); err != nil {
		return nil, err
	}
	return scene, nil
}

func (r *SceneRepository) List() ([]models.Scene, error) {
	query := "SELECT " + sceneColumns + " FROM scenes ORDER BY added_on DESC, title"
	return r.queryScenes(query)
}

// Search does a case-insensitive LIKE match over title and synopsis.
func (r *SceneRepository) Search(q string) ([]models.Scene, error) {
	if q == "" {
		return r.List()
	}

	pattern := "%" + q + "%"
	query := r.db.rebind("SELECT " + sceneColumns + ` FROM scenes
		WHERE LOWER(title) LIKE LOWER(?) OR LOWER(synopsis) LIKE LOWER(?)
		ORDER BY added_on DESC LIMIT 50`)
	return r.queryScenes(query, pattern, pattern)
}

func (r *SceneRepository) Delete(id string) error {
	res, err := r.db.conn.Exec(r.db.rebind("DELETE FROM scenes WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete scene: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSceneNotFound
	}
	return nil
}

// ListPaths returns every cataloged scene path, sorted. Used by the
// library scanner to diff against the disk.
func (r *SceneRepository) ListPaths() ([]string, error) {
	rows, err := r.db.conn.Query("SELECT path FROM scenes")
	if err != nil {
		return nil, fmt.Errorf("failed to list scene paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan scene path: %w", err)
		}
		paths = append(paths, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scene paths: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (r *SceneRepository) queryScenes(query string, args ...any) ([]models.Scene, error) {
	rows, err := r.db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenes: %w", err)
	}
	defer rows.Close()

	var scenes []models.Scene
	for rows.Next() {
		scene, err := r.scanScene(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scene: %w", err)
		}
		scenes = append(scenes, *scene)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenes: %w", err)
	}

	for i := range scenes {
		if err := r.loadAssociations(&scenes[i]); err != nil {
			return nil, err
		}
	}
	return scenes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SceneRepository) scanScene(row rowScanner) (*models.Scene, error) {
	var scene models.Scene
	var title, synopsis, quality, site, studio, personalRating, cover, status sql.NullString
	var duration sql.NullInt64
	var addedOn, sceneDate sql.NullString

	err := row.Scan(&scene.ID, &scene.Path, &title, &synopsis, &duration,
		&quality, &site, &studio, &addedOn, &sceneDate,
		&personalRating, &cover, &status)
	if err != nil {
		return nil, err
	}

	scene.Title = title.String
	scene.Synopsis = synopsis.String
	scene.Duration = int(duration.Int64)
	scene.Quality = quality.String
	scene.Site = site.String
	scene.Studio = studio.String
	scene.AddedOn = scanDate(addedOn)
	scene.SceneDate = scanDate(sceneDate)
	scene.PersonalRating = personalRating.String
	scene.Cover = cover.String
	scene.Status = status.String
	return &scene, nil
}

func (r *SceneRepository) loadAssociations(scene *models.Scene) error {
	rows, err := r.db.conn.Query(
		r.db.rebind("SELECT actress_id FROM scene_actresses WHERE scene_id = ? ORDER BY actress_id"),
		scene.ID)
	if err != nil {
		return fmt.Errorf("failed to load scene actresses: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan actress id: %w", err)
		}
		scene.ActressIDs = append(scene.ActressIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating scene actresses: %w", err)
	}

	tagRows, err := r.db.conn.Query(
		r.db.rebind(`SELECT t.name FROM tags t
			JOIN scene_tags st ON st.tag_id = t.id
			WHERE st.scene_id = ? ORDER BY t.name`),
		scene.ID)
	if err != nil {
		return fmt.Errorf("failed to load scene tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var name string
		if err := tagRows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan tag name: %w", err)
		}
		scene.Tags = append(scene.Tags, name)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("error iterating scene tags: %w", err)
	}
	return nil
}
