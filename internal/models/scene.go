package models

import (
	"time"

	"github.com/google/uuid"
)

// Scene statuses track the triage state of a cataloged file.
const (
	StatusUntriaged = "untriaged"
	StatusKept      = "kept"
	StatusDeleted   = "deleted"
)

// Scene is a single cataloged video item. PersonalRating is free text on
// an informal 0-5 (sometimes 0-10) scale; parsing lives in the rating
// package. ActressIDs and Tags mirror the join tables.
type Scene struct {
	ID             string
	Path           string
	Title          string
	Synopsis       string
	Duration       int // minutes
	Quality        string
	Site           string
	Studio         string
	AddedOn        *time.Time
	SceneDate      *time.Time
	PersonalRating string
	Cover          string
	Status         string

	ActressIDs []string
	Tags       []string
}

func NewScene(path, title string) *Scene {
	now := time.Now()
	return &Scene{
		ID:      uuid.New().String(),
		Path:    path,
		Title:   title,
		AddedOn: &now,
		Status:  StatusUntriaged,
	}
}
