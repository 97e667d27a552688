package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmercier/scenedex/internal/models"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

type FavoriteRepository struct {
	db *DB
}

func NewFavoriteRepository(db *DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// FavoriteScene is a favorite joined with its scene's display fields.
type FavoriteScene struct {
	models.Favorite
	Title string
	Path  string
}

func (r *FavoriteRepository) List() ([]FavoriteScene, error) {
	query := `SELECT f.id, f.scene_id, f.added_on, sc.title, sc.path
		FROM favorites f
		JOIN scenes sc ON sc.id = f.scene_id
		ORDER BY f.added_on DESC`
	rows, err := r.db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var favorites []FavoriteScene
	for rows.Next() {
		var f FavoriteScene
		var addedOn sql.NullString
		var title sql.NullString
		if err := rows.Scan(&f.ID, &f.SceneID, &addedOn, &title, &f.Path); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		if t := scanDate(addedOn); t != nil {
			f.AddedOn = *t
		}
		f.Title = title.String
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favorites: %w", err)
	}
	return favorites, nil
}

// Add favorites a scene. Adding the same scene twice is a no-op and
// returns the existing favorite.
func (r *FavoriteRepository) Add(sceneID string) (*models.Favorite, error) {
	existing, err := r.getBySceneID(sceneID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrFavoriteNotFound) {
		return nil, err
	}

	fav := models.NewFavorite(sceneID)
	query := r.db.rebind("INSERT INTO favorites (id, scene_id, added_on) VALUES (?, ?, ?)")
	if _, err := r.db.conn.Exec(query, fav.ID, fav.SceneID, fav.AddedOn.Format(dateLayout)); err != nil {
		return nil, fmt.Errorf("failed to add favorite: %w", err)
	}
	return fav, nil
}

func (r *FavoriteRepository) Remove(id string) error {
	res, err := r.db.conn.Exec(r.db.rebind("DELETE FROM favorites WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (r *FavoriteRepository) Count() (int, error) {
	var n int
	if err := r.db.conn.QueryRow("SELECT COUNT(*) FROM favorites").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}

func (r *FavoriteRepository) getBySceneID(sceneID string) (*models.Favorite, error) {
	var fav models.Favorite
	var addedOn sql.NullString
	err := r.db.conn.QueryRow(
		r.db.rebind("SELECT id, scene_id, added_on FROM favorites WHERE scene_id = ?"),
		sceneID).Scan(&fav.ID, &fav.SceneID, &addedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFavoriteNotFound
		}
		return nil, fmt.Errorf("failed to get favorite: %w", err)
	}
	if t := scanDate(addedOn); t != nil {
		fav.AddedOn = *t
	}
	return &fav, nil
}
