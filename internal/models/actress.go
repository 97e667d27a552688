package models

import (
	"time"

	"github.com/google/uuid"
)

// Actress aggregates statistics across her associated scenes.
// AverageRating and TypicalTags are derived fields, recomputed by the
// rating service; they are never edited directly.
type Actress struct {
	ID          string
	Name        string
	Biography   string
	Photo       string
	TypicalTags []string
	// AverageRating is nil until at least one scene has a parseable
	// rating; otherwise in [0,5] with one decimal of precision.
	AverageRating *float64
	LastViewed    *time.Time
	Comment       string
	BirthDate     *time.Time
	Nationality   string
}

func NewActress(name string) *Actress {
	return &Actress{
		ID:   uuid.New().String(),
		Name: name,
	}
}
