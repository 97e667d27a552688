package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmercier/scenedex/internal/models"
)

type TagRepository struct {
	db *DB
}

func NewTagRepository(db *DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List() ([]models.Tag, error) {
	rows, err := r.db.conn.Query("SELECT id, name FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

// GetOrCreate resolves a tag by normalized name, creating it on first use.
func (r *TagRepository) GetOrCreate(name string) (*models.Tag, error) {
	normalized := models.NormalizeTagName(name)
	if normalized == "" {
		return nil, fmt.Errorf("empty tag name")
	}

	var t models.Tag
	err := r.db.conn.QueryRow(r.db.rebind("SELECT id, name FROM tags WHERE name = ?"), normalized).
		Scan(&t.ID, &t.Name)
	if err == nil {
		return &t, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up tag: %w", err)
	}

	tag := models.NewTag(normalized)
	if _, err := r.db.conn.Exec(r.db.rebind("INSERT INTO tags (id, name) VALUES (?, ?)"), tag.ID, tag.Name); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}
