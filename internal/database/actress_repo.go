package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmercier/scenedex/internal/models"
)

var ErrActressNotFound = errors.New("actress not found")

const actressColumns = `id, name, biography, photo, typical_tags,
	average_rating, last_viewed, comment, birth_date, nationality`

type ActressRepository struct {
	db *DB
}

func NewActressRepository(db *DB) *ActressRepository {
	return &ActressRepository{db: db}
}

func (r *ActressRepository) Insert(actress *models.Actress) error {
	query := r.db.rebind(`INSERT INTO actresses (` + actressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.conn.Exec(query,
		actress.ID, actress.Name, actress.Biography, actress.Photo,
		joinTags(actress.TypicalTags), actress.AverageRating,
		dateArg(actress.LastViewed), actress.Comment,
		dateArg(actress.BirthDate), actress.Nationality)
	if err != nil {
		return fmt.Errorf("failed to insert actress: %w", err)
	}
	return nil
}

// Update writes the editable fields. Derived fields (average rating,
// typical tags) are only written through SaveDerived.
func (r *ActressRepository) Update(actress *models.Actress) error {
	query := r.db.rebind(`UPDATE actresses SET name = ?, biography = ?,
		photo = ?, comment = ?, birth_date = ?, nationality = ?
		WHERE id = ?`)
	res, err := r.db.conn.Exec(query,
		actress.Name, actress.Biography, actress.Photo, actress.Comment,
		dateArg(actress.BirthDate), actress.Nationality, actress.ID)
	if err != nil {
		return fmt.Errorf("failed to update actress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrActressNotFound
	}
	return nil
}

func (r *ActressRepository) GetByID(id string) (*models.Actress, error) {
	query := r.db.rebind("SELECT " + actressColumns + " FROM actresses WHERE id = ?")
	return r.scanOne(r.db.conn.QueryRow(query, id))
}

func (r *ActressRepository) GetByName(name string) (*models.Actress, error) {
	query := r.db.rebind("SELECT " + actressColumns + " FROM actresses WHERE name = ?")
	return r.scanOne(r.db.conn.QueryRow(query, name))
}

func (r *ActressRepository) List() ([]models.Actress, error) {
	rows, err := r.db.conn.Query("SELECT " + actressColumns + " FROM actresses ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list actresses: %w", err)
	}
	defer rows.Close()

	var actresses []models.Actress
	for rows.Next() {
		actress, err := scanActress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan actress: %w", err)
		}
		actresses = append(actresses, *actress)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actresses: %w", err)
	}
	return actresses, nil
}

func (r *ActressRepository) Delete(id string) error {
	res, err := r.db.conn.Exec(r.db.rebind("DELETE FROM actresses WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete actress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrActressNotFound
	}
	return nil
}

// TouchLastViewed stamps the actress's last-viewed date. Kept separate
// from derived-field recomputation on purpose.
func (r *ActressRepository) TouchLastViewed(id string, when time.Time) error {
	query := r.db.rebind("UPDATE actresses SET last_viewed = ? WHERE id = ?")
	res, err := r.db.conn.Exec(query, when.Format(dateLayout), id)
	if err != nil {
		return fmt.Errorf("failed to touch actress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrActressNotFound
	}
	return nil
}

func (r *ActressRepository) scanOne(row rowScanner) (*models.Actress, error) {
	actress, err := scanActress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActressNotFound
		}
		return nil, fmt.Errorf("failed to get actress: %w", err)
	}
	return actress, nil
}

func scanActress(row rowScanner) (*models.Actress, error) {
	var actress models.Actress
	var biography, photo, typicalTags, comment, nationality sql.NullString
	var averageRating sql.NullFloat64
	var lastViewed, birthDate sql.NullString

	err := row.Scan(&actress.ID, &actress.Name, &biography, &photo,
		&typicalTags, &averageRating, &lastViewed, &comment,
		&birthDate, &nationality)
	if err != nil {
		return nil, err
	}

	actress.Biography = biography.String
	actress.Photo = photo.String
	actress.TypicalTags = splitTags(typicalTags.String)
	if averageRating.Valid {
		v := averageRating.Float64
		actress.AverageRating = &v
	}
	actress.LastViewed = scanDate(lastViewed)
	actress.Comment = comment.String
	actress.BirthDate = scanDate(birthDate)
	actress.Nationality = nationality.String
	return &actress, nil
}

// Typical tags are stored comma-joined, matching the legacy format.
func joinTags(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
