package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmercier/scenedex/internal/models"
)

var ErrHistoryNotFound = errors.New("history entry not found")

type HistoryRepository struct {
	db *DB
}

func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// HistoryScene is a history entry joined with its scene's display fields.
type HistoryScene struct {
	models.HistoryEntry
	Title string
	Path  string
}

func (r *HistoryRepository) List() ([]HistoryScene, error) {
	query := `SELECT h.id, h.scene_id, h.first_viewed, h.last_viewed,
			h.view_count, h.session_rating, h.session_comment,
			sc.title, sc.path
		FROM history h
		JOIN scenes sc ON sc.id = h.scene_id
		ORDER BY h.last_viewed DESC`
	rows, err := r.db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryScene
	for rows.Next() {
		var e HistoryScene
		var firstViewed, lastViewed sql.NullString
		var sessionRating sql.NullFloat64
		var sessionComment, title sql.NullString
		err := rows.Scan(&e.ID, &e.SceneID, &firstViewed, &lastViewed,
			&e.ViewCount, &sessionRating, &sessionComment, &title, &e.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if t := scanDate(firstViewed); t != nil {
			e.FirstViewed = *t
		}
		if t := scanDate(lastViewed); t != nil {
			e.LastViewed = *t
		}
		if sessionRating.Valid {
			v := sessionRating.Float64
			e.SessionRating = &v
		}
		e.SessionComment = sessionComment.String
		e.Title = title.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}

// RecordView upserts the viewing record for a scene: the first view
// inserts a fresh entry, repeat views bump the counter and the last-viewed
// date. Session rating/comment overwrite the previous session's values
// when provided.
func (r *HistoryRepository) RecordView(sceneID string, viewedAt time.Time, sessionRating *float64, sessionComment string) (*models.HistoryEntry, error) {
	existing, err := r.GetBySceneID(sceneID)
	if err != nil && !errors.Is(err, ErrHistoryNotFound) {
		return nil, err
	}

	if existing == nil {
		entry := models.NewHistoryEntry(sceneID, viewedAt)
		entry.SessionRating = sessionRating
		entry.SessionComment = sessionComment

		query := r.db.rebind(`INSERT INTO history
			(id, scene_id, first_viewed, last_viewed, view_count, session_rating, session_comment)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		var ratingArg any
		if sessionRating != nil {
			ratingArg = *sessionRating
		}
		_, err := r.db.conn.Exec(query, entry.ID, entry.SceneID,
			entry.FirstViewed.Format(dateLayout), entry.LastViewed.Format(dateLayout),
			entry.ViewCount, ratingArg, entry.SessionComment)
		if err != nil {
			return nil, fmt.Errorf("failed to insert history entry: %w", err)
		}
		return entry, nil
	}

	existing.ViewCount++
	existing.LastViewed = viewedAt
	if sessionRating != nil {
		existing.SessionRating = sessionRating
	}
	if sessionComment != "" {
		existing.SessionComment = sessionComment
	}

	query := r.db.rebind(`UPDATE history SET last_viewed = ?, view_count = ?,
		session_rating = ?, session_comment = ? WHERE id = ?`)
	var ratingArg any
	if existing.SessionRating != nil {
		ratingArg = *existing.SessionRating
	}
	_, err = r.db.conn.Exec(query, existing.LastViewed.Format(dateLayout),
		existing.ViewCount, ratingArg, existing.SessionComment, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update history entry: %w", err)
	}
	return existing, nil
}

func (r *HistoryRepository) GetBySceneID(sceneID string) (*models.HistoryEntry, error) {
	var e models.HistoryEntry
	var firstViewed, lastViewed sql.NullString
	var sessionRating sql.NullFloat64
	var sessionComment sql.NullString

	query := r.db.rebind(`SELECT id, scene_id, first_viewed, last_viewed,
		view_count, session_rating, session_comment
		FROM history WHERE scene_id = ?`)
	err := r.db.conn.QueryRow(query, sceneID).Scan(&e.ID, &e.SceneID,
		&firstViewed, &lastViewed, &e.ViewCount, &sessionRating, &sessionComment)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHistoryNotFound
		}
		return nil, fmt.Errorf("failed to get history entry: %w", err)
	}

	if t := scanDate(firstViewed); t != nil {
		e.FirstViewed = *t
	}
	if t := scanDate(lastViewed); t != nil {
		e.LastViewed = *t
	}
	if sessionRating.Valid {
		v := sessionRating.Float64
		e.SessionRating = &v
	}
	e.SessionComment = sessionComment.String
	return &e, nil
}

func (r *HistoryRepository) Count() (int, error) {
	var n int
	if err := r.db.conn.QueryRow("SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// TotalViews sums the per-scene counters.
func (r *HistoryRepository) TotalViews() (int, error) {
	var n sql.NullInt64
	if err := r.db.conn.QueryRow("SELECT SUM(view_count) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to sum views: %w", err)
	}
	return int(n.Int64), nil
}
