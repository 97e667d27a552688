package models

import (
	"strings"

	"github.com/google/uuid"
)

// Tag is a global deduplicated label. Identity is always lower-case:
// two spellings differing only in case are the same tag.
type Tag struct {
	ID   string
	Name string
}

// NormalizeTagName is the single normalization applied to tag identity.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NewTag(name string) *Tag {
	return &Tag{
		ID:   uuid.New().String(),
		Name: NormalizeTagName(name),
	}
}
