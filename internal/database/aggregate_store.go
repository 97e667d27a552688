package database

import (
	"database/sql"
	"fmt"

	"github.com/jmercier/scenedex/internal/rating"
)

// AggregateStore adapts the database to the rating engine's Store
// interface: it resolves an actress's scenes as rating inputs and writes
// back the derived fields.
type AggregateStore struct {
	db *DB
}

func NewAggregateStore(db *DB) *AggregateStore {
	return &AggregateStore{db: db}
}

func (s *AggregateStore) ScenesForActress(actressID string) ([]rating.SceneInput, error) {
	query := s.db.rebind(`SELECT sc.id, sc.personal_rating
		FROM scenes sc
		JOIN scene_actresses sa ON sa.scene_id = sc.id
		WHERE sa.actress_id = ?
		ORDER BY sc.id`)
	rows, err := s.db.conn.Query(query, actressID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenes for actress: %w", err)
	}
	defer rows.Close()

	type row struct {
		id     string
		rating sql.NullString
	}
	var sceneRows []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.rating); err != nil {
			return nil, fmt.Errorf("failed to scan scene rating: %w", err)
		}
		sceneRows = append(sceneRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scene ratings: %w", err)
	}

	inputs := make([]rating.SceneInput, 0, len(sceneRows))
	for _, r := range sceneRows {
		tags, err := s.tagsForScene(r.id)
		if err != nil {
			return nil, err
		}
		input := rating.SceneInput{Rating: rating.Absent(), Tags: tags}
		if r.rating.Valid {
			input.Rating = rating.TextOrAbsent(r.rating.String)
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func (s *AggregateStore) tagsForScene(sceneID string) ([]string, error) {
	query := s.db.rebind(`SELECT t.name FROM tags t
		JOIN scene_tags st ON st.tag_id = t.id
		WHERE st.scene_id = ?`)
	rows, err := s.db.conn.Query(query, sceneID)
	if err != nil {
		return nil, fmt.Errorf("failed to query scene tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tags: %w", err)
	}
	return tags, nil
}

func (s *AggregateStore) ActressIDsWithScenes() ([]string, error) {
	return s.actressIDs(`SELECT DISTINCT a.id FROM actresses a
		JOIN scene_actresses sa ON sa.actress_id = a.id ORDER BY a.id`)
}

func (s *AggregateStore) ActressIDsWithoutScenes() ([]string, error) {
	return s.actressIDs(`SELECT a.id FROM actresses a
		WHERE NOT EXISTS (
			SELECT 1 FROM scene_actresses sa WHERE sa.actress_id = a.id
		) ORDER BY a.id`)
}

func (s *AggregateStore) actressIDs(query string) ([]string, error) {
	rows, err := s.db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query actress ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan actress id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating actress ids: %w", err)
	}
	return ids, nil
}

func (s *AggregateStore) SaveDerived(actressID string, d rating.Derived) error {
	query := s.db.rebind("UPDATE actresses SET average_rating = ?, typical_tags = ? WHERE id = ?")
	var avg any
	if d.AverageRating != nil {
		avg = *d.AverageRating
	}
	res, err := s.db.conn.Exec(query, avg, joinTags(d.TypicalTags), actressID)
	if err != nil {
		return fmt.Errorf("failed to save derived fields: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrActressNotFound
	}
	return nil
}
