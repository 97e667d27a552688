package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry tracks viewing of one scene: first and last view dates and
// a running view counter, plus an optional per-session rating/comment.
type HistoryEntry struct {
	ID             string
	SceneID        string
	FirstViewed    time.Time
	LastViewed     time.Time
	ViewCount      int
	SessionRating  *float64
	SessionComment string
}

func NewHistoryEntry(sceneID string, viewedAt time.Time) *HistoryEntry {
	return &HistoryEntry{
		ID:          uuid.New().String(),
		SceneID:     sceneID,
		FirstViewed: viewedAt,
		LastViewed:  viewedAt,
		ViewCount:   1,
	}
}
