package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite bookmarks a scene. One per scene.
type Favorite struct {
	ID      string
	SceneID string
	AddedOn time.Time
}

func NewFavorite(sceneID string) *Favorite {
	return &Favorite{
		ID:      uuid.New().String(),
		SceneID: sceneID,
		AddedOn: time.Now(),
	}
}
